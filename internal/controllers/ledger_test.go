package controllers_test

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/program-ledger/console/internal/controllers"
	"github.com/program-ledger/console/internal/ledger"
	"github.com/program-ledger/console/internal/models"
	"github.com/program-ledger/console/internal/test"
	"github.com/program-ledger/console/internal/types"
	"github.com/shopspring/decimal"
)

func date(year int, month time.Month, day int) *types.Date {
	d := types.NewDate(year, month, day)
	return &d
}

func ref[T any](v T) *T {
	return &v
}

// ledgerFixture is a program with two categories, each with one subcategory.
type ledgerFixture struct {
	program     models.Program
	labor       models.WbsCategory
	engineering models.WbsSubcategory
	travel      models.WbsCategory
	flights     models.WbsSubcategory
}

func (suite *TestSuiteStandard) ledgerFixture() ledgerFixture {
	f := ledgerFixture{program: suite.backend.AddProgram(models.ProgramEditable{ProgramName: "Apollo"})}
	f.labor = suite.backend.AddCategory(f.program.ID, "Labor")
	f.engineering = suite.backend.AddSubcategory(f.labor.ID, "Engineering")
	f.travel = suite.backend.AddCategory(f.program.ID, "Travel")
	f.flights = suite.backend.AddSubcategory(f.travel.ID, "Flights")
	return f
}

func (f ledgerFixture) path(elements ...string) string {
	path := "/ledger/" + f.program.ID.String()
	for _, e := range elements {
		path += "/" + e
	}
	return path
}

func (suite *TestSuiteStandard) TestLedger() {
	f := suite.ledgerFixture()
	other := suite.backend.AddProgram(models.ProgramEditable{ProgramName: "Gemini"})

	complete := suite.backend.AddTransaction(models.LedgerTransactionEditable{
		ProgramID:        f.program.ID,
		VendorName:       "Acme",
		WbsCategoryID:    &f.labor.ID,
		WbsSubcategoryID: &f.engineering.ID,
		ActualDate:       date(2024, 2, 1),
		ActualAmount:     amount(1500),
		InvoiceNumber:    ref("INV-1"),
		InvoiceLink:      ref("https://invoices.example.com/1"),
	})
	planned := suite.backend.AddTransaction(models.LedgerTransactionEditable{
		ProgramID:     f.program.ID,
		VendorName:    "Initech",
		PlannedDate:   date(2024, 4, 1),
		PlannedAmount: amount(200),
	})
	baseline := suite.backend.AddTransaction(models.LedgerTransactionEditable{
		ProgramID:      f.program.ID,
		VendorName:     "Globex",
		BaselineDate:   date(2024, 5, 1),
		BaselineAmount: amount(300),
	})
	suite.backend.AddTransaction(models.LedgerTransactionEditable{ProgramID: other.ID, VendorName: "Hooli"})

	body := suite.get(f.path(), http.StatusOK)
	for _, s := range []string{
		"Ledger Transactions for Apollo",
		"Add New Transaction",
		"Add Transaction",
		"Transactions List",
		"Search by Vendor, Description, or Invoice #",
		fmt.Sprintf(`<tr class="ledger-row-green" data-id="%s">`, complete.ID),
		fmt.Sprintf(`<tr class="ledger-row-yellow" data-id="%s">`, planned.ID),
		fmt.Sprintf(`<tr class="ledger-row-gray" data-id="%s">`, baseline.ID),
		"1,500",
		`href="https://invoices.example.com/1"`,
		`id="wbs-options"`,
	} {
		suite.Assert().Contains(body, s)
	}
	suite.Assert().NotContains(body, "Hooli", "transactions of other programs must not be shown")
}

func (suite *TestSuiteStandard) TestLedgerInvoiceLink() {
	f := suite.ledgerFixture()
	suite.backend.AddTransaction(models.LedgerTransactionEditable{
		ProgramID:   f.program.ID,
		VendorName:  "Acme",
		InvoiceLink: ref("https://invoices.example.com/2"),
	})

	body := suite.get(f.path(), http.StatusOK)
	suite.Assert().NotContains(body, `target="_blank"`, "there is no invoice number to link")
	suite.Assert().NotContains(body, "https://invoices.example.com/2")
}

func (suite *TestSuiteStandard) TestLedgerShowsWbsNames() {
	f := suite.ledgerFixture()
	suite.backend.AddTransaction(models.LedgerTransactionEditable{
		ProgramID:        f.program.ID,
		WbsCategoryID:    &f.travel.ID,
		WbsSubcategoryID: &f.flights.ID,
	})

	body := suite.get(f.path(), http.StatusOK)
	suite.Assert().Contains(body, fmt.Sprintf(`data-field="wbs_category_id" data-kind="category" data-value="%s">`, f.travel.ID))
	suite.Assert().Contains(body, fmt.Sprintf(`data-field="wbs_subcategory_id" data-kind="subcategory" data-value="%s">`, f.flights.ID))
	suite.Assert().Contains(body, "Flights")
}

func (suite *TestSuiteStandard) TestLedgerEmpty() {
	f := suite.ledgerFixture()

	body := suite.get(f.path(), http.StatusOK)
	suite.Assert().Contains(body, "No transactions found.")
}

func (suite *TestSuiteStandard) TestLedgerSearch() {
	f := suite.ledgerFixture()
	suite.backend.AddTransaction(models.LedgerTransactionEditable{ProgramID: f.program.ID, VendorName: "Acme Corp"})
	suite.backend.AddTransaction(models.LedgerTransactionEditable{ProgramID: f.program.ID, VendorName: "Initech", InvoiceNumber: ref("ACM-77")})
	suite.backend.AddTransaction(models.LedgerTransactionEditable{ProgramID: f.program.ID, VendorName: "Globex"})

	body := suite.get(f.path()+"?q=acm", http.StatusOK)
	suite.Assert().Contains(body, "Acme Corp")
	suite.Assert().Contains(body, "Initech", "the invoice number is searched")
	suite.Assert().NotContains(body, "Globex")
	suite.Assert().Contains(body, `value="acm"`)

	body = suite.get(f.path()+"?q=g*x", http.StatusOK)
	suite.Assert().Contains(body, "Globex")
	suite.Assert().NotContains(body, "Acme Corp")

	body = suite.get(f.path()+"?q=nothing", http.StatusOK)
	suite.Assert().Contains(body, "No transactions found.")
}

func (suite *TestSuiteStandard) TestLedgerProgramNameFallback() {
	f := suite.ledgerFixture()
	suite.backend.Fail(http.MethodGet, "/programs/"+f.program.ID.String(), http.StatusInternalServerError, "broken")

	body := suite.get(f.path(), http.StatusOK)
	suite.Assert().Contains(body, "Ledger Transactions for Program "+f.program.ID.String())
}

func (suite *TestSuiteStandard) TestLedgerTransactionsFail() {
	f := suite.ledgerFixture()
	suite.backend.Fail(http.MethodGet, "/ledger_transactions/", http.StatusServiceUnavailable, "maintenance")

	recorder := test.Request(suite.T(), suite.r, http.MethodGet, f.path(), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusBadGateway, &recorder)
	test.AssertContains(suite.T(), &recorder, "maintenance")
}

func (suite *TestSuiteStandard) TestCreateLedgerTransaction() {
	f := suite.ledgerFixture()

	recorder := test.PostForm(suite.T(), suite.r, f.path("transactions"), url.Values{
		"q":                   {"acme"},
		"vendor_name":         {" Acme "},
		"expense_description": {"Bolts"},
		"wbs_category_id":     {f.labor.ID.String()},
		"wbs_subcategory_id":  {f.engineering.ID.String()},
		"invoice_number":      {""},
		"notes":               {"  "},
		"planned_date":        {"2024-04-01"},
		"planned_amount":      {"1,500.50"},
		"actual_date":         {""},
		"actual_amount":       {""},
	})
	test.AssertRedirect(suite.T(), f.path()+"?q=acme", &recorder)

	mutations := suite.backend.Mutations()
	suite.Require().Len(mutations, 1)
	suite.Assert().Equal("/ledger_transactions/", mutations[0].Path)

	var sent map[string]any
	mutations[0].Decode(suite.T(), &sent)
	for _, field := range []string{"invoice_number", "invoice_link", "notes", "actual_date", "actual_amount", "baseline_date", "baseline_amount"} {
		value, ok := sent[field]
		suite.Assert().True(ok, "%s must be sent", field)
		suite.Assert().Nil(value, "%s must be null", field)
	}

	transactions := suite.backend.Transactions()
	suite.Require().Len(transactions, 1)
	t := transactions[0]
	suite.Assert().Equal(f.program.ID, t.ProgramID)
	suite.Assert().Equal("Acme", t.VendorName)
	suite.Assert().Equal(f.engineering.ID, *t.WbsSubcategoryID)
	suite.Assert().True(t.PlannedAmount.Decimal.Equal(decimal.RequireFromString("1500.50")))
	suite.Assert().Equal("2024-04-01", t.PlannedDate.String())
}

func (suite *TestSuiteStandard) TestCreateLedgerTransactionInvalid() {
	f := suite.ledgerFixture()

	recorder := test.PostForm(suite.T(), suite.r, f.path("transactions"), url.Values{
		"vendor_name":         {""},
		"expense_description": {"Bolts"},
		"actual_amount":       {"lots"},
		"actual_date":         {"2024-13-01"},
	})

	test.AssertHTTPStatus(suite.T(), http.StatusUnprocessableEntity, &recorder)
	test.AssertContains(suite.T(), &recorder,
		"Vendor: "+ledger.ErrRequired.Error(),
		"Actual Amt: "+ledger.ErrInvalidAmount.Error(),
		`name="actual_amount" value="lots"`,
		`name="actual_date" value="2024-13-01"`,
		`value="Bolts"`,
		"<details class=\"card\" open>",
	)
	suite.Assert().Empty(suite.backend.Mutations())
}

func (suite *TestSuiteStandard) TestCreateLedgerTransactionBackendFails() {
	f := suite.ledgerFixture()
	suite.backend.Fail(http.MethodPost, "/ledger_transactions/", http.StatusBadRequest, "Vendor is blocked")

	recorder := test.PostForm(suite.T(), suite.r, f.path("transactions"), url.Values{
		"vendor_name":         {"Acme"},
		"expense_description": {"Bolts"},
	})

	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)
	test.AssertContains(suite.T(), &recorder, "Vendor is blocked", `value="Acme"`)
}

func (suite *TestSuiteStandard) TestCreateLedgerTransactionSelectCategory() {
	f := suite.ledgerFixture()

	recorder := test.PostForm(suite.T(), suite.r, f.path("transactions"), url.Values{
		"intent":              {"select_category"},
		"vendor_name":         {"Acme"},
		"wbs_category_id":     {f.travel.ID.String()},
		"wbs_subcategory_id":  {f.engineering.ID.String()},
		"expense_description": {""},
	})

	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)
	test.AssertContains(suite.T(), &recorder,
		fmt.Sprintf(`<option value="%s" selected>Travel</option>`, f.travel.ID),
		fmt.Sprintf(`<option value="%s">Flights</option>`, f.flights.ID),
		`value="Acme"`,
	)
	suite.Assert().NotContains(recorder.Body.String(), fmt.Sprintf(`<option value="%s">Engineering</option>`, f.engineering.ID))
	suite.Assert().NotContains(recorder.Body.String(), ledger.ErrRequired.Error(), "choosing a category does not validate the form")
	suite.Assert().Empty(suite.backend.Mutations())
}

func (suite *TestSuiteStandard) TestEditLedgerTransaction() {
	f := suite.ledgerFixture()
	t := suite.backend.AddTransaction(models.LedgerTransactionEditable{ProgramID: f.program.ID, VendorName: "Acme", WbsCategoryID: &f.labor.ID})

	body := suite.get(f.path()+"?edit="+t.ID.String(), http.StatusOK)
	suite.Assert().Contains(body, fmt.Sprintf(`id="edit-%s"`, t.ID))
	suite.Assert().Contains(body, fmt.Sprintf(`form="edit-%s"`, t.ID))
	suite.Assert().Contains(body, fmt.Sprintf(`<option value="%s">Engineering</option>`, f.engineering.ID))
}

func (suite *TestSuiteStandard) TestUpdateLedgerTransaction() {
	f := suite.ledgerFixture()
	t := suite.backend.AddTransaction(models.LedgerTransactionEditable{ProgramID: f.program.ID, VendorName: "Acme"})

	recorder := test.PostForm(suite.T(), suite.r, f.path("transactions", t.ID.String()), url.Values{
		"vendor_name":         {"Acme"},
		"expense_description": {"Nuts"},
		"actual_date":         {"2024-03-01"},
		"actual_amount":       {"10"},
	})
	test.AssertRedirect(suite.T(), f.path(), &recorder)

	transactions := suite.backend.Transactions()
	suite.Require().Len(transactions, 1)
	suite.Assert().Equal("Nuts", transactions[0].ExpenseDescription)
	suite.Assert().Equal(ledger.RowComplete, ledger.Classify(transactions[0].LedgerTransactionEditable))
}

func (suite *TestSuiteStandard) TestUpdateLedgerTransactionInvalidKeepsRow() {
	f := suite.ledgerFixture()
	t := suite.backend.AddTransaction(models.LedgerTransactionEditable{ProgramID: f.program.ID, VendorName: "Acme"})

	recorder := test.PostForm(suite.T(), suite.r, f.path("transactions", t.ID.String()), url.Values{
		"vendor_name":         {"Acme Two"},
		"expense_description": {""},
	})

	test.AssertHTTPStatus(suite.T(), http.StatusUnprocessableEntity, &recorder)
	test.AssertContains(suite.T(), &recorder,
		fmt.Sprintf(`id="edit-%s"`, t.ID),
		`value="Acme Two"`,
		"Description: "+ledger.ErrRequired.Error(),
	)
	suite.Assert().Empty(suite.backend.Mutations())
}

func (suite *TestSuiteStandard) TestUpdateLedgerTransactionSelectCategory() {
	f := suite.ledgerFixture()
	t := suite.backend.AddTransaction(models.LedgerTransactionEditable{
		ProgramID:        f.program.ID,
		VendorName:       "Acme",
		WbsCategoryID:    &f.labor.ID,
		WbsSubcategoryID: &f.engineering.ID,
	})

	recorder := test.PostForm(suite.T(), suite.r, f.path("transactions", t.ID.String()), url.Values{
		"intent":              {"select_category"},
		"vendor_name":         {"Acme"},
		"expense_description": {""},
		"wbs_category_id":     {f.travel.ID.String()},
		"wbs_subcategory_id":  {f.engineering.ID.String()},
	})

	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)
	body := recorder.Body.String()
	suite.Assert().Contains(body, fmt.Sprintf(`id="edit-%s"`, t.ID))
	suite.Assert().Contains(body, fmt.Sprintf(`<option value="%s">Flights</option>`, f.flights.ID))
	suite.Assert().NotContains(body, fmt.Sprintf(`<option value="%s">Engineering</option>`, f.engineering.ID))
	suite.Assert().NotContains(body, fmt.Sprintf(`<option value="%s" selected>Engineering</option>`, f.engineering.ID))
	suite.Assert().NotContains(body, ledger.ErrRequired.Error())
	suite.Assert().Empty(suite.backend.Mutations())

	// The stored transaction keeps its subcategory until the form is saved
	suite.Assert().Equal(f.engineering.ID, *suite.backend.Transactions()[0].WbsSubcategoryID)
}

func (suite *TestSuiteStandard) TestUpdateLedgerTransactionOfOtherProgram() {
	f := suite.ledgerFixture()
	other := suite.backend.AddProgram(models.ProgramEditable{ProgramName: "Gemini"})
	t := suite.backend.AddTransaction(models.LedgerTransactionEditable{ProgramID: other.ID})

	recorder := test.PostForm(suite.T(), suite.r, f.path("transactions", t.ID.String()), url.Values{
		"vendor_name":         {"Acme"},
		"expense_description": {"Nuts"},
	})
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &recorder)
	suite.Assert().Empty(suite.backend.Mutations())
}

func (suite *TestSuiteStandard) TestDeleteLedgerTransaction() {
	f := suite.ledgerFixture()
	t := suite.backend.AddTransaction(models.LedgerTransactionEditable{ProgramID: f.program.ID})

	recorder := test.PostForm(suite.T(), suite.r, f.path("transactions", t.ID.String(), "delete"), url.Values{"q": {"x"}})
	test.AssertRedirect(suite.T(), f.path()+"?q=x", &recorder)
	suite.Assert().Empty(suite.backend.Transactions())
}

func (suite *TestSuiteStandard) TestDeleteLedgerTransactionOfOtherProgram() {
	f := suite.ledgerFixture()
	other := suite.backend.AddProgram(models.ProgramEditable{ProgramName: "Gemini"})
	t := suite.backend.AddTransaction(models.LedgerTransactionEditable{ProgramID: other.ID})

	recorder := test.PostForm(suite.T(), suite.r, f.path("transactions", t.ID.String(), "delete"), url.Values{})
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &recorder)
	suite.Assert().Empty(suite.backend.Mutations())
	suite.Assert().Len(suite.backend.Transactions(), 1)

	recorder = test.PostForm(suite.T(), suite.r, f.path("transactions", "4711", "delete"), url.Values{})
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &recorder)
	suite.Assert().Empty(suite.backend.Mutations())
}

func (suite *TestSuiteStandard) TestDeleteLedgerTransactionFails() {
	f := suite.ledgerFixture()
	t := suite.backend.AddTransaction(models.LedgerTransactionEditable{ProgramID: f.program.ID, VendorName: "Acme"})
	suite.backend.Fail(http.MethodDelete, "/ledger_transactions/"+t.ID.String(), http.StatusInternalServerError, "locked")

	recorder := test.PostForm(suite.T(), suite.r, f.path("transactions", t.ID.String(), "delete"), url.Values{})
	test.AssertHTTPStatus(suite.T(), http.StatusBadGateway, &recorder)
	test.AssertContains(suite.T(), &recorder, "locked", "Acme")
}

func (suite *TestSuiteStandard) commitCell(f ledgerFixture, id types.ID, field, value string) controllers.CellResult {
	recorder := test.Request(suite.T(), suite.r, http.MethodPost, f.path("transactions", id.String(), "cells"), controllers.CellCommit{Field: field, Value: value})
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response controllers.CellResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	return response.Data
}

func (suite *TestSuiteStandard) TestCommitLedgerCell() {
	f := suite.ledgerFixture()
	t := suite.backend.AddTransaction(models.LedgerTransactionEditable{
		ProgramID:   f.program.ID,
		VendorName:  "Acme",
		ActualDate:  date(2024, 3, 1),
		InvoiceLink: ref("https://invoices.example.com/9"),
	})

	result := suite.commitCell(f, t.ID, "actual_amount", "2500")
	suite.Assert().Equal(ledger.RowComplete, result.RowClass)
	suite.Assert().Equal("ledger-row-green", result.CSSClass)
	suite.Assert().Equal("2500", result.Values["actual_amount"])
	suite.Assert().Equal("2,500", result.Display["actual_amount"])
	suite.Assert().Equal("https://invoices.example.com/9", result.InvoiceHref)

	result = suite.commitCell(f, t.ID, "actual_amount", "")
	suite.Assert().Equal(ledger.RowNone, result.RowClass)
	suite.Assert().Equal("", result.Values["actual_amount"])
	suite.Assert().False(suite.backend.Transactions()[0].ActualAmount.Valid, "an empty cell is stored as null")
}

func (suite *TestSuiteStandard) TestCommitLedgerCellCategoryClearsSubcategory() {
	f := suite.ledgerFixture()
	t := suite.backend.AddTransaction(models.LedgerTransactionEditable{
		ProgramID:        f.program.ID,
		WbsCategoryID:    &f.labor.ID,
		WbsSubcategoryID: &f.engineering.ID,
	})

	result := suite.commitCell(f, t.ID, "wbs_category_id", f.travel.ID.String())
	suite.Assert().Equal(f.travel.ID.String(), result.Values["wbs_category_id"])
	suite.Assert().Equal("", result.Values["wbs_subcategory_id"])
	suite.Assert().Equal("Travel", result.Display["wbs_category_id"])

	stored := suite.backend.Transactions()[0]
	suite.Assert().Nil(stored.WbsSubcategoryID)

	result = suite.commitCell(f, t.ID, "wbs_subcategory_id", f.flights.ID.String())
	suite.Assert().Equal("Flights", result.Display["wbs_subcategory_id"])
}

func (suite *TestSuiteStandard) TestCommitLedgerCellErrors() {
	f := suite.ledgerFixture()
	other := suite.backend.AddProgram(models.ProgramEditable{ProgramName: "Gemini"})
	own := suite.backend.AddTransaction(models.LedgerTransactionEditable{ProgramID: f.program.ID})
	foreign := suite.backend.AddTransaction(models.LedgerTransactionEditable{ProgramID: other.ID})

	tests := []struct {
		name   string
		id     types.ID
		body   any
		status int
	}{
		{"Unknown field", own.ID, controllers.CellCommit{Field: "created_at", Value: "x"}, http.StatusBadRequest},
		{"Missing field", own.ID, `{"value": "x"}`, http.StatusBadRequest},
		{"Broken JSON", own.ID, `{"field": `, http.StatusBadRequest},
		{"Invalid amount", own.ID, controllers.CellCommit{Field: "planned_amount", Value: "many"}, http.StatusUnprocessableEntity},
		{"Invalid date", own.ID, controllers.CellCommit{Field: "planned_date", Value: "soon"}, http.StatusUnprocessableEntity},
		{"Required field", own.ID, controllers.CellCommit{Field: "vendor_name", Value: " "}, http.StatusUnprocessableEntity},
		{"Subcategory of no category", own.ID, controllers.CellCommit{Field: "wbs_subcategory_id", Value: f.flights.ID.String()}, http.StatusUnprocessableEntity},
		{"Other program", foreign.ID, controllers.CellCommit{Field: "notes", Value: "x"}, http.StatusNotFound},
		{"Unknown transaction", 4711, controllers.CellCommit{Field: "notes", Value: "x"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			recorder := test.Request(suite.T(), suite.r, http.MethodPost, f.path("transactions", tt.id.String(), "cells"), tt.body)
			test.AssertHTTPStatus(suite.T(), tt.status, &recorder)
			suite.Assert().NotEmpty(test.DecodeError(suite.T(), recorder.Body.Bytes()))
		})
	}

	suite.Assert().Empty(suite.backend.Mutations())
}

func (suite *TestSuiteStandard) TestCommitLedgerCellOptions() {
	recorder := test.Request(suite.T(), suite.r, http.MethodOptions, "/ledger/1/transactions/2/cells", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &recorder)
	suite.Assert().Equal("OPTIONS, POST", recorder.Header().Get("allow"))
}
