package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/program-ledger/console/internal/models"
	"github.com/program-ledger/console/internal/types"
)

const (
	categoriesPath    = "/wbs_categories/"
	subcategoriesPath = "/wbs_subcategories/"
)

// ListWbsCategories returns the categories of the program.
//
// The program filter is passed to the backend, but the result is scoped
// again here as not every backend version filters server-side.
func (c *Client) ListWbsCategories(ctx context.Context, programID types.ID) ([]models.WbsCategory, error) {
	categories := make([]models.WbsCategory, 0)
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  categoriesPath,
		path:   categoriesPath,
		query:  url.Values{"program_id": []string{programID.String()}},
	}, &categories)
	if err != nil {
		return nil, err
	}

	return models.CategoriesOf(categories, programID), nil
}

func (c *Client) CreateWbsCategory(ctx context.Context, editable models.WbsCategoryEditable) (models.WbsCategory, error) {
	var category models.WbsCategory
	err := c.do(ctx, request{
		method: http.MethodPost,
		route:  categoriesPath,
		path:   categoriesPath,
		body:   editable,
	}, &category)

	return category, err
}

func (c *Client) UpdateWbsCategory(ctx context.Context, id types.ID, editable models.WbsCategoryEditable) (models.WbsCategory, error) {
	var category models.WbsCategory
	err := c.do(ctx, request{
		method: http.MethodPut,
		route:  itemRoute(categoriesPath),
		path:   itemPath(categoriesPath, id),
		body:   editable,
	}, &category)

	return category, err
}

func (c *Client) DeleteWbsCategory(ctx context.Context, id types.ID) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		route:  itemRoute(categoriesPath),
		path:   itemPath(categoriesPath, id),
	}, nil)
}

// ListWbsSubcategories returns the subcategories of all programs.
func (c *Client) ListWbsSubcategories(ctx context.Context) ([]models.WbsSubcategory, error) {
	subcategories := make([]models.WbsSubcategory, 0)
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  subcategoriesPath,
		path:   subcategoriesPath,
	}, &subcategories)

	return subcategories, err
}

func (c *Client) CreateWbsSubcategory(ctx context.Context, editable models.WbsSubcategoryEditable) (models.WbsSubcategory, error) {
	var subcategory models.WbsSubcategory
	err := c.do(ctx, request{
		method: http.MethodPost,
		route:  subcategoriesPath,
		path:   subcategoriesPath,
		body:   editable,
	}, &subcategory)

	return subcategory, err
}

func (c *Client) UpdateWbsSubcategory(ctx context.Context, id types.ID, editable models.WbsSubcategoryEditable) (models.WbsSubcategory, error) {
	var subcategory models.WbsSubcategory
	err := c.do(ctx, request{
		method: http.MethodPut,
		route:  itemRoute(subcategoriesPath),
		path:   itemPath(subcategoriesPath, id),
		body:   editable,
	}, &subcategory)

	return subcategory, err
}

func (c *Client) DeleteWbsSubcategory(ctx context.Context, id types.ID) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		route:  itemRoute(subcategoriesPath),
		path:   itemPath(subcategoriesPath, id),
	}, nil)
}
