package wbs

// NoSubcategories is the subcategory name of the summary row for a
// category without children.
const NoSubcategories = "None"

// SummaryRow is one (category, subcategory) pair of the summary table.
type SummaryRow struct {
	CategoryName    string
	SubcategoryName string

	// Empty is set on the single row of a category without subcategories.
	Empty bool
}

// Summary flattens the index into one row per subcategory. A category
// without subcategories yields one row with NoSubcategories.
func Summary(i Index) []SummaryRow {
	rows := make([]SummaryRow, 0, len(i.categories))

	for _, c := range i.categories {
		children := i.children[c.ID]
		if len(children) == 0 {
			rows = append(rows, SummaryRow{
				CategoryName:    c.CategoryName,
				SubcategoryName: NoSubcategories,
				Empty:           true,
			})
			continue
		}

		for _, s := range children {
			rows = append(rows, SummaryRow{
				CategoryName:    c.CategoryName,
				SubcategoryName: s.SubcategoryName,
			})
		}
	}

	return rows
}
