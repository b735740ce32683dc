// Package wbs indexes the work breakdown structure of a program.
package wbs

import (
	"github.com/program-ledger/console/internal/models"
	"github.com/program-ledger/console/internal/types"
)

// Index maps the categories of one program to their subcategories.
//
// Subcategories are fetched for all programs. Only those whose category
// is part of the index are kept, so a program never sees the
// subcategories of another.
type Index struct {
	categories    []models.WbsCategory
	byID          map[types.ID]models.WbsCategory
	children      map[types.ID][]models.WbsSubcategory
	subcategories map[types.ID]models.WbsSubcategory
}

// NewIndex builds the index. Category order and the order of the
// subcategories within a category follow the input.
func NewIndex(categories []models.WbsCategory, subcategories []models.WbsSubcategory) Index {
	idx := Index{
		categories:    categories,
		byID:          make(map[types.ID]models.WbsCategory, len(categories)),
		children:      make(map[types.ID][]models.WbsSubcategory, len(categories)),
		subcategories: make(map[types.ID]models.WbsSubcategory),
	}

	for _, c := range categories {
		idx.byID[c.ID] = c
	}

	for _, s := range subcategories {
		if _, ok := idx.byID[s.CategoryID]; !ok {
			continue
		}
		idx.children[s.CategoryID] = append(idx.children[s.CategoryID], s)
		idx.subcategories[s.ID] = s
	}

	return idx
}

// Categories returns the categories in index order.
func (i Index) Categories() []models.WbsCategory {
	return i.categories
}

// Children returns the subcategories of the category.
func (i Index) Children(categoryID types.ID) []models.WbsSubcategory {
	return i.children[categoryID]
}

// ChildrenOf is Children for an optional category. No category has no children.
func (i Index) ChildrenOf(categoryID *types.ID) []models.WbsSubcategory {
	if categoryID == nil {
		return nil
	}
	return i.children[*categoryID]
}

func (i Index) Category(id types.ID) (models.WbsCategory, bool) {
	c, ok := i.byID[id]
	return c, ok
}

func (i Index) Subcategory(id types.ID) (models.WbsSubcategory, bool) {
	s, ok := i.subcategories[id]
	return s, ok
}

// CategoryName returns the name of an optional category, or the empty string.
func (i Index) CategoryName(id *types.ID) string {
	if id == nil {
		return ""
	}
	return i.byID[*id].CategoryName
}

// SubcategoryName returns the name of an optional subcategory, or the empty string.
func (i Index) SubcategoryName(id *types.ID) string {
	if id == nil {
		return ""
	}
	return i.subcategories[*id].SubcategoryName
}

// BelongsTo reports whether the subcategory is a child of the category.
func (i Index) BelongsTo(subcategoryID, categoryID types.ID) bool {
	s, ok := i.subcategories[subcategoryID]
	return ok && s.CategoryID == categoryID
}
