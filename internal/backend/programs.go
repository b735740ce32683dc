package backend

import (
	"context"
	"net/http"

	"github.com/program-ledger/console/internal/models"
	"github.com/program-ledger/console/internal/types"
)

const programsPath = "/programs/"

// ListPrograms returns all programs in the order of the backend.
func (c *Client) ListPrograms(ctx context.Context) ([]models.Program, error) {
	programs := make([]models.Program, 0)
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  programsPath,
		path:   programsPath,
	}, &programs)

	return programs, err
}

// GetProgram returns a single program.
func (c *Client) GetProgram(ctx context.Context, id types.ID) (models.Program, error) {
	var program models.Program
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  itemRoute(programsPath),
		path:   itemPath(programsPath, id),
	}, &program)

	return program, err
}

// FindProgram resolves a program from the full list instead of the
// by-ID endpoint.
func (c *Client) FindProgram(ctx context.Context, id types.ID) (models.Program, error) {
	programs, err := c.ListPrograms(ctx)
	if err != nil {
		return models.Program{}, err
	}

	for _, p := range programs {
		if p.ID == id {
			return p, nil
		}
	}

	return models.Program{}, &APIError{
		Status: http.StatusNotFound,
		Method: http.MethodGet,
		Path:   programsPath,
		Detail: "Program not found",
	}
}

func (c *Client) CreateProgram(ctx context.Context, editable models.ProgramEditable) (models.Program, error) {
	var program models.Program
	err := c.do(ctx, request{
		method: http.MethodPost,
		route:  programsPath,
		path:   programsPath,
		body:   editable,
	}, &program)

	return program, err
}

// UpdateProgram sends the complete editable state of the program.
func (c *Client) UpdateProgram(ctx context.Context, id types.ID, editable models.ProgramEditable) (models.Program, error) {
	var program models.Program
	err := c.do(ctx, request{
		method: http.MethodPut,
		route:  itemRoute(programsPath),
		path:   itemPath(programsPath, id),
		body:   editable,
	}, &program)

	return program, err
}

func (c *Client) DeleteProgram(ctx context.Context, id types.ID) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		route:  itemRoute(programsPath),
		path:   itemPath(programsPath, id),
	}, nil)
}
