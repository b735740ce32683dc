package controllers_test

import (
	"net/http"
	"strings"

	"github.com/program-ledger/console/internal/test"
)

func (suite *TestSuiteStandard) TestHistory() {
	suite.backend.AddHistory(250)

	body := suite.get("/edit-history", http.StatusOK)
	for _, s := range []string{
		"Edit History",
		"Edited By",
		"Field Changed",
		"Table Name",
		"planned_amount",
		"ledger_transactions",
		"N/A",
		"ago",
		"Page 1",
		`<span class="button disabled">Previous</span>`,
		`<a href="/edit-history?page=2" class="button">Next</a>`,
	} {
		suite.Assert().Contains(body, s)
	}
	suite.Assert().Equal(100, strings.Count(body, "<td>system</td>"))

	requests := suite.backend.Requests()
	suite.Require().Len(requests, 1)
	suite.Assert().Equal("/edit_history/", requests[0].Path)
	suite.Assert().Contains(requests[0].Query, "skip=0")
	suite.Assert().Contains(requests[0].Query, "limit=100")
}

func (suite *TestSuiteStandard) TestHistoryNewestFirst() {
	suite.backend.AddHistory(3)

	body := suite.get("/edit-history", http.StatusOK)
	first := strings.Index(body, "<td>3</td>")
	last := strings.Index(body, "<td>1</td>")
	suite.Require().NotEqual(-1, first)
	suite.Require().NotEqual(-1, last)
	suite.Assert().Less(first, last)
}

func (suite *TestSuiteStandard) TestHistoryPaging() {
	suite.backend.AddHistory(250)

	body := suite.get("/edit-history?page=3", http.StatusOK)
	suite.Assert().Contains(body, "Page 3")
	suite.Assert().Contains(body, `<a href="/edit-history?page=2" class="button">Previous</a>`)
	suite.Assert().Contains(body, `<span class="button disabled">Next</span>`)
	suite.Assert().Equal(50, strings.Count(body, "<td>system</td>"))

	requests := suite.backend.Requests()
	suite.Require().Len(requests, 1)
	suite.Assert().Contains(requests[0].Query, "skip=200")
}

func (suite *TestSuiteStandard) TestHistoryInvalidPage() {
	suite.backend.AddHistory(5)

	body := suite.get("/edit-history?page=nope", http.StatusOK)
	suite.Assert().Contains(body, "Page 1")
}

func (suite *TestSuiteStandard) TestHistoryEmpty() {
	body := suite.get("/edit-history", http.StatusOK)
	suite.Assert().Contains(body, "No edits recorded.")
	suite.Assert().Contains(body, `<span class="button disabled">Next</span>`)
}

func (suite *TestSuiteStandard) TestHistoryFails() {
	suite.backend.Fail(http.MethodGet, "/edit_history/", http.StatusInternalServerError, "audit log unavailable")

	recorder := test.Request(suite.T(), suite.r, http.MethodGet, "/edit-history", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusBadGateway, &recorder)
	test.AssertContains(suite.T(), &recorder, "audit log unavailable")
}
