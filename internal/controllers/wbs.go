package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/program-ledger/console/internal/edit"
	"github.com/program-ledger/console/internal/httputil"
	"github.com/program-ledger/console/internal/models"
	"github.com/program-ledger/console/internal/types"
	"github.com/program-ledger/console/internal/wbs"
	"golang.org/x/sync/errgroup"
)

var (
	errSubcategoryName     = errors.New("the subcategory name must not be empty")
	errCategoryNotFound    = errors.New("no WBS category with this ID exists in the program")
	errSubcategoryNotFound = errors.New("no WBS subcategory with this ID exists in the program")
)

type WbsPage struct {
	Page
	ProgramID  types.ID
	Summary    []wbs.SummaryRow
	Categories []CategoryView

	NewCategory     models.WbsCategoryEditable
	EditCategory    edit.State[models.WbsCategoryEditable]
	EditSubcategory edit.State[models.WbsSubcategoryEditable]

	// NewSubcategory is a failed subcategory creation, shown again in the
	// form of its category
	NewSubcategory models.WbsSubcategoryEditable
}

// CategoryView is a category with its subcategories.
type CategoryView struct {
	models.WbsCategory
	Subcategories []models.WbsSubcategory

	// NewSubcategory prefills the creation form of the category
	NewSubcategory string
}

// RegisterWbsRoutes registers the routes for the WBS codes of a program with
// the RouterGroup that is passed.
func (co Controller) RegisterWbsRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.GET("", co.GetWbs)
	}

	// Categories
	{
		r.POST("/categories", co.CreateWbsCategory)
		r.POST("/categories/:categoryId", co.UpdateWbsCategory)
		r.POST("/categories/:categoryId/delete", co.DeleteWbsCategory)
		r.POST("/categories/:categoryId/subcategories", co.CreateWbsSubcategory)
	}

	// Subcategories
	{
		r.POST("/subcategories/:subcategoryId", co.UpdateWbsSubcategory)
		r.POST("/subcategories/:subcategoryId/delete", co.DeleteWbsSubcategory)
	}
}

func wbsPath(programID types.ID) string {
	return fmt.Sprintf("/wbs/%s", programID)
}

// GetWbs renders the categories and subcategories of a program.
// ?edit_category=<id> and ?edit_subcategory=<id> open the inline edit forms.
func (co Controller) GetWbs(c *gin.Context) {
	programID, err := httputil.ParseID(c, "programId")
	if err != nil {
		co.renderError(c, err)
		return
	}

	co.renderWbs(c, http.StatusOK, programID, WbsPage{}, wbsEdits{
		category:    httputil.OptionalID(c, "edit_category"),
		subcategory: httputil.OptionalID(c, "edit_subcategory"),
	})
}

func (co Controller) CreateWbsCategory(c *gin.Context) {
	programID, err := httputil.ParseID(c, "programId")
	if err != nil {
		co.renderError(c, err)
		return
	}

	editable, err := bindForm(c, normalizeCategory(programID))
	if err == nil {
		_, err = co.Backend.CreateWbsCategory(ctx(c), editable)
	}

	if err != nil {
		co.wbsFailed(c, err, programID, WbsPage{NewCategory: editable})
		return
	}

	redirect(c, wbsPath(programID))
}

func (co Controller) UpdateWbsCategory(c *gin.Context) {
	programID, categoryID, err := co.wbsIDs(c, "categoryId")
	if err == nil {
		_, err = co.ownCategory(c, programID, categoryID)
	}
	if err != nil {
		co.renderError(c, err)
		return
	}

	editable, err := bindForm(c, normalizeCategory(programID))
	if err == nil {
		_, err = co.Backend.UpdateWbsCategory(ctx(c), categoryID, editable)
	}

	if err != nil {
		co.wbsFailed(c, err, programID, WbsPage{EditCategory: edit.Edit(categoryID, editable)})
		return
	}

	redirect(c, wbsPath(programID))
}

func (co Controller) DeleteWbsCategory(c *gin.Context) {
	programID, categoryID, err := co.wbsIDs(c, "categoryId")
	if err == nil {
		_, err = co.ownCategory(c, programID, categoryID)
	}
	if err != nil {
		co.renderError(c, err)
		return
	}

	if err := co.Backend.DeleteWbsCategory(ctx(c), categoryID); err != nil {
		co.wbsFailed(c, err, programID, WbsPage{})
		return
	}

	redirect(c, wbsPath(programID))
}

// CreateWbsSubcategory adds a subcategory to the category in the path.
// A blank name is ignored.
func (co Controller) CreateWbsSubcategory(c *gin.Context) {
	programID, categoryID, err := co.wbsIDs(c, "categoryId")
	if err != nil {
		co.renderError(c, err)
		return
	}

	editable, err := bindForm(c, normalizeSubcategory)
	if err != nil {
		co.wbsFailed(c, err, programID, WbsPage{})
		return
	}

	if editable.Blank() {
		redirect(c, wbsPath(programID))
		return
	}

	if _, err := co.ownCategory(c, programID, categoryID); err != nil {
		co.renderError(c, err)
		return
	}

	editable.CategoryID = categoryID
	if _, err := co.Backend.CreateWbsSubcategory(ctx(c), editable); err != nil {
		co.wbsFailed(c, err, programID, WbsPage{NewSubcategory: editable})
		return
	}

	redirect(c, wbsPath(programID))
}

// UpdateWbsSubcategory renames a subcategory. The form carries the
// category the subcategory belongs to.
func (co Controller) UpdateWbsSubcategory(c *gin.Context) {
	programID, subcategoryID, err := co.wbsIDs(c, "subcategoryId")
	if err != nil {
		co.renderError(c, err)
		return
	}

	idx, subcategory, err := co.ownSubcategory(c, programID, subcategoryID)
	if err != nil {
		co.renderError(c, err)
		return
	}

	editable, err := bindForm(c, normalizeSubcategory)
	if err == nil {
		if editable.CategoryID, err = moveTarget(idx, subcategory, editable.CategoryID); err != nil {
			co.renderError(c, err)
			return
		}
	}
	if err == nil && editable.Blank() {
		err = httputil.Error{Err: errSubcategoryName, Status: http.StatusUnprocessableEntity}
	}
	if err == nil {
		_, err = co.Backend.UpdateWbsSubcategory(ctx(c), subcategoryID, editable)
	}

	if err != nil {
		co.wbsFailed(c, err, programID, WbsPage{EditSubcategory: edit.Edit(subcategoryID, editable)})
		return
	}

	redirect(c, wbsPath(programID))
}

func (co Controller) DeleteWbsSubcategory(c *gin.Context) {
	programID, subcategoryID, err := co.wbsIDs(c, "subcategoryId")
	if err == nil {
		_, _, err = co.ownSubcategory(c, programID, subcategoryID)
	}
	if err != nil {
		co.renderError(c, err)
		return
	}

	if err := co.Backend.DeleteWbsSubcategory(ctx(c), subcategoryID); err != nil {
		co.wbsFailed(c, err, programID, WbsPage{})
		return
	}

	redirect(c, wbsPath(programID))
}

func (co Controller) wbsIDs(c *gin.Context, param string) (types.ID, types.ID, error) {
	programID, err := httputil.ParseID(c, "programId")
	if err != nil {
		return 0, 0, err
	}

	id, err := httputil.ParseID(c, param)
	if err != nil {
		return 0, 0, err
	}

	return programID, id, nil
}

// ownCategory returns the category in the path if it belongs to the program.
func (co Controller) ownCategory(c *gin.Context, programID, categoryID types.ID) (models.WbsCategory, error) {
	idx, err := co.loadWbs(c, programID)
	if err != nil {
		return models.WbsCategory{}, err
	}

	category, ok := idx.Category(categoryID)
	if !ok {
		return models.WbsCategory{}, httputil.Error{Err: errCategoryNotFound, Status: http.StatusNotFound}
	}
	return category, nil
}

// ownSubcategory returns the subcategory in the path if it belongs to a
// category of the program, together with the WBS of the program.
func (co Controller) ownSubcategory(c *gin.Context, programID, subcategoryID types.ID) (wbs.Index, models.WbsSubcategory, error) {
	idx, err := co.loadWbs(c, programID)
	if err != nil {
		return wbs.Index{}, models.WbsSubcategory{}, err
	}

	subcategory, ok := idx.Subcategory(subcategoryID)
	if !ok {
		return wbs.Index{}, models.WbsSubcategory{}, httputil.Error{Err: errSubcategoryNotFound, Status: http.StatusNotFound}
	}
	return idx, subcategory, nil
}

// moveTarget returns the category a renamed subcategory is saved under.
// Without a category in the form, the subcategory stays where it is.
func moveTarget(idx wbs.Index, s models.WbsSubcategory, categoryID types.ID) (types.ID, error) {
	if categoryID == 0 {
		return s.CategoryID, nil
	}
	if _, ok := idx.Category(categoryID); !ok {
		return 0, httputil.Error{Err: errCategoryNotFound, Status: http.StatusNotFound}
	}
	return categoryID, nil
}

func normalizeCategory(programID types.ID) func(models.WbsCategoryEditable) models.WbsCategoryEditable {
	return func(e models.WbsCategoryEditable) models.WbsCategoryEditable {
		e.ProgramID = programID
		e.CategoryName = strings.TrimSpace(e.CategoryName)
		return e
	}
}

func normalizeSubcategory(e models.WbsSubcategoryEditable) models.WbsSubcategoryEditable {
	e.SubcategoryName = strings.TrimSpace(e.SubcategoryName)
	return e
}

// wbsEdits are the records requested for editing in the query.
type wbsEdits struct {
	category    *types.ID
	subcategory *types.ID
}

func (co Controller) wbsFailed(c *gin.Context, err error, programID types.ID, p WbsPage) {
	status, msg := failed(c, err)
	p.Error = msg
	co.renderWbs(c, status, programID, p, wbsEdits{})
}

// loadWbs fetches the categories of the program and all subcategories.
func (co Controller) loadWbs(c *gin.Context, programID types.ID) (wbs.Index, error) {
	var categories []models.WbsCategory
	var subcategories []models.WbsSubcategory

	g, gctx := errgroup.WithContext(ctx(c))
	g.Go(func() (err error) {
		categories, err = co.Backend.ListWbsCategories(gctx, programID)
		return
	})
	g.Go(func() (err error) {
		subcategories, err = co.Backend.ListWbsSubcategories(gctx)
		return
	})

	if err := g.Wait(); err != nil {
		return wbs.Index{}, err
	}

	return wbs.NewIndex(models.CategoriesOf(categories, programID), subcategories), nil
}

func (co Controller) renderWbs(c *gin.Context, status int, programID types.ID, p WbsPage, edits wbsEdits) {
	idx, err := co.loadWbs(c, programID)
	if err != nil {
		co.renderError(c, err)
		return
	}

	banner := p.Error
	p.Page = co.page(c, fmt.Sprintf("WBS Codes for Program %s", programID), navHome)
	p.Error = banner
	p.ProgramID = programID
	p.Summary = wbs.Summary(idx)

	categoryID := func(c models.WbsCategory) types.ID { return c.ID }
	subcategoryID := func(s models.WbsSubcategory) types.ID { return s.ID }

	if !p.EditCategory.Active() {
		p.EditCategory = edit.Find(idx.Categories(), edits.category, categoryID,
			func(c models.WbsCategory) models.WbsCategoryEditable { return c.WbsCategoryEditable })
	}

	p.Categories = make([]CategoryView, 0, len(idx.Categories()))
	for _, category := range idx.Categories() {
		view := CategoryView{
			WbsCategory:   category,
			Subcategories: idx.Children(category.ID),
		}
		if p.NewSubcategory.CategoryID == category.ID {
			view.NewSubcategory = p.NewSubcategory.SubcategoryName
		}

		if !p.EditSubcategory.Active() {
			p.EditSubcategory = edit.Find(view.Subcategories, edits.subcategory, subcategoryID,
				func(s models.WbsSubcategory) models.WbsSubcategoryEditable { return s.WbsSubcategoryEditable })
		}

		p.Categories = append(p.Categories, view)
	}

	c.HTML(status, "wbs.html", p)
}
