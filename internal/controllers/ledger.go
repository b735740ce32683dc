package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/program-ledger/console/internal/backend"
	"github.com/program-ledger/console/internal/edit"
	"github.com/program-ledger/console/internal/httputil"
	"github.com/program-ledger/console/internal/ledger"
	"github.com/program-ledger/console/internal/models"
	"github.com/program-ledger/console/internal/types"
	"github.com/program-ledger/console/internal/wbs"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

// intentSelectCategory is submitted when the category of a form changes.
// The form is rendered again with the subcategories of the new category.
const intentSelectCategory = "select_category"

var errTransactionNotFound = errors.New("no transaction with this ID exists in the program")

type LedgerPage struct {
	Page
	ProgramID   types.ID
	ProgramName string
	Query       string
	Columns     []ledger.Field
	Fields      []ledger.Field
	Rows        []LedgerRow
	WbsOptions  WbsOptions

	// Create is the add transaction form. It is expanded when it holds
	// a submission that needs attention.
	Create     LedgerForm
	ShowCreate bool
}

// LedgerForm holds the raw values of a transaction form.
type LedgerForm struct {
	Values map[string]string
	Errors ledger.FieldErrors
	Inputs []LedgerInput
}

// LedgerInput is a field of a transaction form.
type LedgerInput struct {
	Field ledger.Field
	Value string
	Error string

	// Options are the choices of category and subcategory fields
	Options []Option
}

type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"-"`
}

// WbsOptions are the choices of the category and subcategory cell editors.
// Subcategories are keyed by category ID.
type WbsOptions struct {
	Categories    []Option            `json:"categories"`
	Subcategories map[string][]Option `json:"subcategories"`
}

type LedgerRow struct {
	Transaction models.LedgerTransaction
	Class       ledger.RowClass
	Cells       []LedgerCell
	Editing     bool
	Form        LedgerForm
}

// LedgerCell is one column of a row in read mode.
type LedgerCell struct {
	Field   ledger.Field
	Value   string
	Display string
	Href    string
}

type CellCommit struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

type CellResponse struct {
	Data CellResult `json:"data"`
}

// CellResult is the transaction after a committed cell, with everything
// needed to redraw its row.
type CellResult struct {
	Transaction models.LedgerTransaction `json:"transaction"`
	RowClass    ledger.RowClass          `json:"rowClass"`
	CSSClass    string                   `json:"cssClass"`
	Values      map[string]string        `json:"values"`
	Display     map[string]string        `json:"display"`
	InvoiceHref string                   `json:"invoiceHref"`
}

// ledgerData is everything the ledger of a program is rendered from.
type ledgerData struct {
	programName  string
	transactions []models.LedgerTransaction
	index        wbs.Index
}

// ledgerDraft is a submitted transaction form.
type ledgerDraft struct {
	draft models.LedgerTransactionEditable
	raw   url.Values
	errs  ledger.FieldErrors
}

// RegisterLedgerRoutes registers the routes for the ledger of a program with
// the RouterGroup that is passed.
func (co Controller) RegisterLedgerRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.GET("", co.GetLedger)
		r.POST("/transactions", co.CreateLedgerTransaction)
	}

	// Transaction with ID
	{
		r.POST("/transactions/:transactionId", co.UpdateLedgerTransaction)
		r.POST("/transactions/:transactionId/delete", co.DeleteLedgerTransaction)
		r.OPTIONS("/transactions/:transactionId/cells", httputil.OptionsPost)
		r.POST("/transactions/:transactionId/cells", co.CommitLedgerCell)
	}
}

func ledgerPath(programID types.ID, query string) string {
	path := fmt.Sprintf("/ledger/%s", programID)
	if query == "" {
		return path
	}
	return path + "?" + url.Values{"q": []string{query}}.Encode()
}

// GetLedger renders the transactions of a program matching ?q. With
// ?edit=<id>, the transaction is shown in an edit form.
func (co Controller) GetLedger(c *gin.Context) {
	programID, err := httputil.ParseID(c, "programId")
	if err != nil {
		co.renderError(c, err)
		return
	}

	data, err := co.loadLedger(c, programID)
	if err != nil {
		co.renderError(c, err)
		return
	}

	state := edit.Find(models.TransactionsOf(data.transactions, programID), httputil.OptionalID(c, "edit"),
		func(t models.LedgerTransaction) types.ID { return t.ID },
		func(t models.LedgerTransaction) models.LedgerTransactionEditable { return t.LedgerTransactionEditable },
	)

	co.renderLedger(c, http.StatusOK, programID, data, LedgerPage{Query: c.Query("q")}, nil, state, nil)
}

// CreateLedgerTransaction adds a transaction from the add transaction form.
func (co Controller) CreateLedgerTransaction(c *gin.Context) {
	programID, err := httputil.ParseID(c, "programId")
	if err != nil {
		co.renderError(c, err)
		return
	}

	data, submitted, err := co.parseLedgerForm(c, programID)
	if err != nil {
		co.renderError(c, err)
		return
	}

	p := LedgerPage{Query: c.PostForm("q"), ShowCreate: true}
	view := edit.View[models.LedgerTransactionEditable]()

	if c.PostForm("intent") == intentSelectCategory {
		submitted.draft.SetCategory(submitted.draft.WbsCategoryID)
		submitted.errs = nil
		co.renderLedger(c, http.StatusOK, programID, data, p, &submitted, view, nil)
		return
	}

	if submitted.errs != nil {
		p.Error = submitted.errs.Error()
		co.renderLedger(c, http.StatusUnprocessableEntity, programID, data, p, &submitted, view, nil)
		return
	}

	if _, err := co.Backend.CreateLedgerTransaction(ctx(c), submitted.draft); err != nil {
		status, msg := failed(c, err)
		p.Error = msg
		co.renderLedger(c, status, programID, data, p, &submitted, view, nil)
		return
	}

	redirect(c, ledgerPath(programID, p.Query))
}

// UpdateLedgerTransaction saves the inline edit form of a row.
func (co Controller) UpdateLedgerTransaction(c *gin.Context) {
	programID, transactionID, err := co.ledgerIDs(c)
	if err != nil {
		co.renderError(c, err)
		return
	}

	data, submitted, err := co.parseLedgerForm(c, programID)
	if err != nil {
		co.renderError(c, err)
		return
	}

	if !slices.ContainsFunc(models.TransactionsOf(data.transactions, programID), func(t models.LedgerTransaction) bool {
		return t.ID == transactionID
	}) {
		co.renderError(c, httputil.Error{Err: errTransactionNotFound, Status: http.StatusNotFound})
		return
	}

	p := LedgerPage{Query: c.PostForm("q")}
	state := edit.Edit(transactionID, submitted.draft)

	if c.PostForm("intent") == intentSelectCategory {
		submitted.draft.SetCategory(submitted.draft.WbsCategoryID)
		submitted.errs = nil
		state.Draft = submitted.draft
		co.renderLedger(c, http.StatusOK, programID, data, p, nil, state, &submitted)
		return
	}

	if submitted.errs != nil {
		p.Error = submitted.errs.Error()
		co.renderLedger(c, http.StatusUnprocessableEntity, programID, data, p, nil, state, &submitted)
		return
	}

	if _, err := co.Backend.UpdateLedgerTransaction(ctx(c), transactionID, submitted.draft); err != nil {
		status, msg := failed(c, err)
		p.Error = msg
		co.renderLedger(c, status, programID, data, p, nil, state, &submitted)
		return
	}

	redirect(c, ledgerPath(programID, p.Query))
}

func (co Controller) DeleteLedgerTransaction(c *gin.Context) {
	programID, transactionID, err := co.ledgerIDs(c)
	if err != nil {
		co.renderError(c, err)
		return
	}

	if _, err := co.ownTransaction(ctx(c), programID, transactionID); err != nil {
		co.renderError(c, err)
		return
	}

	query := c.PostForm("q")
	if err := co.Backend.DeleteLedgerTransaction(ctx(c), transactionID); err != nil {
		status, msg := failed(c, err)

		data, err := co.loadLedger(c, programID)
		if err != nil {
			co.renderError(c, err)
			return
		}

		p := LedgerPage{Query: query}
		p.Error = msg
		co.renderLedger(c, status, programID, data, p, nil, edit.View[models.LedgerTransactionEditable](), nil)
		return
	}

	redirect(c, ledgerPath(programID, query))
}

// CommitLedgerCell sets a single field of a transaction and saves it.
// Committing a category clears the subcategory.
func (co Controller) CommitLedgerCell(c *gin.Context) {
	programID, transactionID, err := co.ledgerIDs(c)
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	var commit CellCommit
	if err := c.ShouldBindJSON(&commit); err != nil {
		httputil.NewError(c, httputil.Error{Err: err, Status: http.StatusBadRequest})
		return
	}

	var transaction models.LedgerTransaction
	var idx wbs.Index

	g, gctx := errgroup.WithContext(ctx(c))
	g.Go(func() (err error) {
		transaction, err = co.ownTransaction(gctx, programID, transactionID)
		return
	})
	g.Go(func() (err error) {
		idx, err = co.loadWbs(c, programID)
		return
	})

	if err := g.Wait(); err != nil {
		httputil.NewError(c, err)
		return
	}

	draft := transaction.LedgerTransactionEditable
	if err := ledger.ApplyCell(&draft, commit.Field, commit.Value, idx); err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, ledger.ErrUnknownField) {
			status = http.StatusBadRequest
		}
		httputil.NewError(c, httputil.Error{Err: err, Status: status})
		return
	}

	updated, err := co.Backend.UpdateLedgerTransaction(ctx(c), transactionID, draft)
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	class := ledger.Classify(updated.LedgerTransactionEditable)
	display := make(map[string]string, len(ledger.Fields))
	for _, cell := range co.cells(updated.LedgerTransactionEditable, idx, ledger.Fields) {
		display[cell.Field.Name] = cell.Display
	}

	c.JSON(http.StatusOK, CellResponse{Data: CellResult{
		Transaction: updated,
		RowClass:    class,
		CSSClass:    class.CSSClass(),
		Values:      ledger.Values(updated.LedgerTransactionEditable),
		Display:     display,
		InvoiceHref: ledger.InvoiceHref(updated.LedgerTransactionEditable),
	}})
}

// ownTransaction returns the transaction if it belongs to the program.
func (co Controller) ownTransaction(rctx context.Context, programID, transactionID types.ID) (models.LedgerTransaction, error) {
	t, err := co.Backend.GetLedgerTransaction(rctx, transactionID)
	if backend.IsNotFound(err) || (err == nil && t.ProgramID != programID) {
		return models.LedgerTransaction{}, httputil.Error{Err: errTransactionNotFound, Status: http.StatusNotFound}
	}
	return t, err
}

func (co Controller) ledgerIDs(c *gin.Context) (types.ID, types.ID, error) {
	programID, err := httputil.ParseID(c, "programId")
	if err != nil {
		return 0, 0, err
	}

	transactionID, err := httputil.ParseID(c, "transactionId")
	if err != nil {
		return 0, 0, err
	}

	return programID, transactionID, nil
}

// parseLedgerForm loads the ledger and parses the submitted transaction
// form against the WBS of the program.
func (co Controller) parseLedgerForm(c *gin.Context, programID types.ID) (ledgerData, ledgerDraft, error) {
	if err := c.Request.ParseForm(); err != nil {
		return ledgerData{}, ledgerDraft{}, httputil.Error{Err: err, Status: http.StatusBadRequest}
	}

	data, err := co.loadLedger(c, programID)
	if err != nil {
		return ledgerData{}, ledgerDraft{}, err
	}

	draft, errs := ledger.ParseDraft(c.Request.PostForm, programID, data.index)
	return data, ledgerDraft{draft: draft, raw: c.Request.PostForm, errs: errs}, nil
}

// loadLedger fetches the program name, the transactions and the WBS of the
// program. A program that cannot be loaded is named by its ID.
func (co Controller) loadLedger(c *gin.Context, programID types.ID) (ledgerData, error) {
	data := ledgerData{programName: fmt.Sprintf("Program %s", programID)}

	g, gctx := errgroup.WithContext(ctx(c))
	g.Go(func() error {
		program, err := co.Backend.GetProgram(gctx, programID)
		if err != nil {
			log.Debug().Str("request-id", requestid.Get(c)).Err(err).Msg("using fallback program name")
			return nil
		}
		data.programName = program.ProgramName
		return nil
	})
	g.Go(func() (err error) {
		data.transactions, err = co.Backend.ListLedgerTransactions(gctx)
		return
	})
	g.Go(func() (err error) {
		data.index, err = co.loadWbs(c, programID)
		return
	})

	return data, g.Wait()
}

// form returns the form for the draft. Fields with errors show what was
// submitted.
func (d ledgerDraft) form(idx wbs.Index) LedgerForm {
	values := ledger.Values(d.draft)
	for name := range d.errs {
		values[name] = d.raw.Get(name)
	}

	inputs := make([]LedgerInput, 0, len(ledger.Fields))
	for _, f := range ledger.Fields {
		input := LedgerInput{
			Field: f,
			Value: values[f.Name],
			Error: d.errs[f.Name],
		}

		switch f.Kind {
		case ledger.KindCategory:
			input.Options = categoryOptions(idx.Categories(), input.Value)
		case ledger.KindSubcategory:
			input.Options = subcategoryOptions(idx.ChildrenOf(d.draft.WbsCategoryID), input.Value)
		}

		inputs = append(inputs, input)
	}

	return LedgerForm{
		Values: values,
		Errors: d.errs,
		Inputs: inputs,
	}
}

func categoryOptions(categories []models.WbsCategory, selected string) []Option {
	options := make([]Option, 0, len(categories))
	for _, c := range categories {
		options = append(options, Option{
			Value:    c.ID.String(),
			Label:    c.CategoryName,
			Selected: c.ID.String() == selected,
		})
	}
	return options
}

func subcategoryOptions(subcategories []models.WbsSubcategory, selected string) []Option {
	options := make([]Option, 0, len(subcategories))
	for _, s := range subcategories {
		options = append(options, Option{
			Value:    s.ID.String(),
			Label:    s.SubcategoryName,
			Selected: s.ID.String() == selected,
		})
	}
	return options
}

func wbsOptions(idx wbs.Index) WbsOptions {
	o := WbsOptions{
		Categories:    categoryOptions(idx.Categories(), ""),
		Subcategories: make(map[string][]Option, len(idx.Categories())),
	}
	for _, c := range idx.Categories() {
		o.Subcategories[c.ID.String()] = subcategoryOptions(idx.Children(c.ID), "")
	}
	return o
}

// renderLedger renders the ledger. create is a submission of the add
// transaction form, rowDraft one of the row edited in state.
func (co Controller) renderLedger(c *gin.Context, status int, programID types.ID, data ledgerData, p LedgerPage, create *ledgerDraft, state edit.State[models.LedgerTransactionEditable], rowDraft *ledgerDraft) {
	banner := p.Error
	p.Page = co.page(c, fmt.Sprintf("Ledger Transactions for %s", data.programName), navHome)
	p.Error = banner
	p.ProgramID = programID
	p.ProgramName = data.programName
	p.Columns = ledger.Columns()
	p.Fields = ledger.Fields
	p.WbsOptions = wbsOptions(data.index)

	if create == nil {
		create = &ledgerDraft{draft: models.LedgerTransactionEditable{ProgramID: programID}}
	}
	p.Create = create.form(data.index)

	transactions := ledger.Search(models.TransactionsOf(data.transactions, programID), p.Query)
	p.Rows = make([]LedgerRow, 0, len(transactions))
	for _, t := range transactions {
		row := LedgerRow{
			Transaction: t,
			Class:       ledger.Classify(t.LedgerTransactionEditable),
			Cells:       co.cells(t.LedgerTransactionEditable, data.index, p.Columns),
			Editing:     state.IsEditing(t.ID),
		}

		if row.Editing {
			draft := ledgerDraft{draft: state.Draft}
			if rowDraft != nil {
				draft = *rowDraft
				draft.draft = state.Draft
			}
			row.Form = draft.form(data.index)
		}

		p.Rows = append(p.Rows, row)
	}

	c.HTML(status, "ledger.html", p)
}

// cells returns the read mode cells of the fields.
func (co Controller) cells(t models.LedgerTransactionEditable, idx wbs.Index, fields []ledger.Field) []LedgerCell {
	cells := make([]LedgerCell, 0, len(fields))
	for _, f := range fields {
		cell := LedgerCell{
			Field:   f,
			Value:   f.Value(t),
			Display: f.Value(t),
		}

		switch f.Kind {
		case ledger.KindCategory:
			cell.Display = idx.CategoryName(t.WbsCategoryID)
		case ledger.KindSubcategory:
			cell.Display = idx.SubcategoryName(t.WbsSubcategoryID)
		case ledger.KindAmount:
			if d, err := decimal.NewFromString(cell.Value); err == nil {
				cell.Display = co.Format.Whole(decimal.NewNullDecimal(d))
			}
		}

		if f.Name == "invoice_number" && cell.Value != "" {
			cell.Href = ledger.InvoiceHref(t)
		}

		cells = append(cells, cell)
	}
	return cells
}
