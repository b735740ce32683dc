package models

import (
	"strings"

	"github.com/program-ledger/console/internal/types"
)

// WbsCategory is the upper level of a program's work breakdown structure.
type WbsCategory struct {
	Model
	WbsCategoryEditable
}

type WbsCategoryEditable struct {
	ProgramID    types.ID `json:"program_id"`
	CategoryName string   `json:"category_name" form:"category_name" binding:"required"`
}

// WbsSubcategory belongs to exactly one WbsCategory.
type WbsSubcategory struct {
	Model
	WbsSubcategoryEditable
}

type WbsSubcategoryEditable struct {
	CategoryID      types.ID `json:"category_id" form:"category_id"`
	SubcategoryName string   `json:"subcategory_name" form:"subcategory_name"`
}

// Blank reports whether the subcategory has no usable name.
func (s WbsSubcategoryEditable) Blank() bool {
	return strings.TrimSpace(s.SubcategoryName) == ""
}

// CategoriesOf returns the categories that belong to the program.
func CategoriesOf(categories []WbsCategory, programID types.ID) []WbsCategory {
	scoped := make([]WbsCategory, 0)
	for _, c := range categories {
		if c.ProgramID == programID {
			scoped = append(scoped, c)
		}
	}
	return scoped
}
