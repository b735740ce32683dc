package controllers_test

import (
	"net/http"

	"github.com/program-ledger/console/internal/test"
)

func (suite *TestSuiteStandard) TestGetHealthz() {
	recorder := test.Request(suite.T(), suite.r, http.MethodGet, "/healthz", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &recorder)
}

func (suite *TestSuiteStandard) TestGetHealthzBackendError() {
	suite.backend.Fail(http.MethodGet, "/programs/", http.StatusInternalServerError, "database is gone")

	recorder := test.Request(suite.T(), suite.r, http.MethodGet, "/healthz", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusBadGateway, &recorder)
	suite.Assert().Contains(test.DecodeError(suite.T(), recorder.Body.Bytes()), "database is gone")
}

func (suite *TestSuiteStandard) TestGetHealthzBackendDown() {
	suite.backend.Server.Close()

	recorder := test.Request(suite.T(), suite.r, http.MethodGet, "/healthz", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusBadGateway, &recorder)
}

func (suite *TestSuiteStandard) TestOptionsHealthz() {
	recorder := test.Request(suite.T(), suite.r, http.MethodOptions, "/healthz", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &recorder)
	suite.Assert().Equal("OPTIONS, GET", recorder.Header().Get("allow"))
}
