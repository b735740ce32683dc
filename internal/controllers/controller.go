// Package controllers renders the pages of the console and handles their
// form submissions.
//
// Every request reads what it needs from the backend and renders from that
// data only. After a successful mutation the client is redirected to the
// page, which then re-reads all collections.
package controllers

import (
	"context"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/program-ledger/console/internal/backend"
	"github.com/program-ledger/console/internal/format"
	"github.com/program-ledger/console/internal/models"
	"github.com/program-ledger/console/internal/types"
)

// Backend is the ledger backend as used by the controllers.
type Backend interface {
	Ping(ctx context.Context) error

	ListPrograms(ctx context.Context) ([]models.Program, error)
	GetProgram(ctx context.Context, id types.ID) (models.Program, error)
	FindProgram(ctx context.Context, id types.ID) (models.Program, error)
	CreateProgram(ctx context.Context, editable models.ProgramEditable) (models.Program, error)
	UpdateProgram(ctx context.Context, id types.ID, editable models.ProgramEditable) (models.Program, error)
	DeleteProgram(ctx context.Context, id types.ID) error

	ListWbsCategories(ctx context.Context, programID types.ID) ([]models.WbsCategory, error)
	CreateWbsCategory(ctx context.Context, editable models.WbsCategoryEditable) (models.WbsCategory, error)
	UpdateWbsCategory(ctx context.Context, id types.ID, editable models.WbsCategoryEditable) (models.WbsCategory, error)
	DeleteWbsCategory(ctx context.Context, id types.ID) error

	ListWbsSubcategories(ctx context.Context) ([]models.WbsSubcategory, error)
	CreateWbsSubcategory(ctx context.Context, editable models.WbsSubcategoryEditable) (models.WbsSubcategory, error)
	UpdateWbsSubcategory(ctx context.Context, id types.ID, editable models.WbsSubcategoryEditable) (models.WbsSubcategory, error)
	DeleteWbsSubcategory(ctx context.Context, id types.ID) error

	ListLedgerTransactions(ctx context.Context) ([]models.LedgerTransaction, error)
	GetLedgerTransaction(ctx context.Context, id types.ID) (models.LedgerTransaction, error)
	CreateLedgerTransaction(ctx context.Context, editable models.LedgerTransactionEditable) (models.LedgerTransaction, error)
	UpdateLedgerTransaction(ctx context.Context, id types.ID, editable models.LedgerTransactionEditable) (models.LedgerTransaction, error)
	DeleteLedgerTransaction(ctx context.Context, id types.ID) error

	DashboardSummary(ctx context.Context, programID types.ID, asOf types.Date) (models.DashboardSummary, error)
	EditHistory(ctx context.Context, skip, limit int) ([]models.EditHistoryEntry, error)
}

type Controller struct {
	Backend Backend
	Format  *format.Formatter
	Now     func() time.Time
}

func New(b Backend, f *format.Formatter) Controller {
	return Controller{
		Backend: b,
		Format:  f,
		Now:     time.Now,
	}
}

// ctx returns the context for backend calls made for the request.
func ctx(c *gin.Context) context.Context {
	return backend.WithRequestID(c.Request.Context(), requestid.Get(c))
}

// today is the current date in the display time zone.
func (co Controller) today() types.Date {
	return types.DateOf(co.Now().In(co.Format.Location()))
}
