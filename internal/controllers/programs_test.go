package controllers_test

import (
	"net/http"
	"net/url"

	"github.com/program-ledger/console/internal/models"
	"github.com/program-ledger/console/internal/test"
)

func (suite *TestSuiteStandard) TestLanding() {
	active := suite.backend.AddProgram(models.ProgramEditable{ProgramName: "Apollo", ProgramStatus: models.ProgramStatusActive})
	suite.backend.AddProgram(models.ProgramEditable{ProgramName: "Gemini", ProgramStatus: models.ProgramStatusInactive})

	body := suite.get("/", http.StatusOK)
	suite.Assert().Contains(body, "Apollo")
	suite.Assert().Contains(body, "Gemini")
	suite.Assert().Contains(body, "/dashboard/"+active.ID.String())
	suite.Assert().Contains(body, "N/A", "missing financials are shown as N/A")
	suite.Assert().Contains(body, `<tr data-status="Inactive" class="inactive">`)
	suite.Assert().Contains(body, `<p class="empty" id="no-programs" hidden>`)
	suite.Assert().NotContains(body, "checked")
}

func (suite *TestSuiteStandard) TestLandingHideInactive() {
	suite.backend.AddProgram(models.ProgramEditable{ProgramName: "Apollo", ProgramStatus: models.ProgramStatusActive})
	suite.backend.AddProgram(models.ProgramEditable{ProgramName: "Gemini", ProgramStatus: models.ProgramStatusInactive})

	body := suite.get("/?hide_inactive=true", http.StatusOK)
	suite.Assert().Contains(body, "checked")
	suite.Assert().Contains(body, `<tr data-status="Active">`)

	// Inactive rows stay on the page so unchecking shows them without a reload
	suite.Assert().Contains(body, "Gemini")
	suite.Assert().Contains(body, `<tr data-status="Inactive" class="inactive" hidden>`)
	suite.Assert().Contains(body, `<script src="/static/landing.js"></script>`)
	suite.Assert().Len(suite.backend.Requests(), 1)
}

func (suite *TestSuiteStandard) TestLandingEmpty() {
	body := suite.get("/", http.StatusOK)
	suite.Assert().Contains(body, `<p class="empty" id="no-programs">No programs found.</p>`)
	suite.Assert().NotContains(body, `id="programs"`)
}

func (suite *TestSuiteStandard) TestLandingInactiveIgnoresCase() {
	suite.backend.AddProgram(models.ProgramEditable{ProgramName: "Mercury", ProgramStatus: "inactive"})

	body := suite.get("/?hide_inactive=true", http.StatusOK)
	suite.Assert().Contains(body, `<tr data-status="inactive" class="inactive" hidden>`)
	suite.Assert().Contains(body, `<p class="empty" id="no-programs">No programs found.</p>`)
}

func (suite *TestSuiteStandard) TestLandingBackendDown() {
	suite.backend.Fail(http.MethodGet, "/programs/", http.StatusInternalServerError, "database is gone")

	recorder := test.Request(suite.T(), suite.r, http.MethodGet, "/", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusBadGateway, &recorder)
	test.AssertContains(suite.T(), &recorder, "database is gone")
}

func (suite *TestSuiteStandard) TestLandingBackendUnreachable() {
	suite.backend.Server.Close()

	recorder := test.Request(suite.T(), suite.r, http.MethodGet, "/", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusBadGateway, &recorder)
}

func (suite *TestSuiteStandard) TestManagePrograms() {
	suite.backend.AddProgram(models.ProgramEditable{ProgramName: "Apollo", ProgramCode: "APL-1"})

	body := suite.get("/programs-manage", http.StatusOK)
	for _, s := range []string{"Add New Program", "Add Program", "Programs List", "Apollo", "APL-1", "Test Manager"} {
		suite.Assert().Contains(body, s)
	}
}

func (suite *TestSuiteStandard) TestCreateProgram() {
	recorder := test.PostForm(suite.T(), suite.r, "/programs-manage", url.Values{
		"program_name":        {"  Apollo  "},
		"program_code":        {"APL-1"},
		"program_manager":     {"Ada"},
		"program_status":      {"Active"},
		"program_description": {"   "},
	})
	test.AssertRedirect(suite.T(), "/programs-manage", &recorder)

	mutations := suite.backend.Mutations()
	suite.Require().Len(mutations, 1)
	suite.Assert().Equal(http.MethodPost, mutations[0].Method)
	suite.Assert().Equal("/programs/", mutations[0].Path)

	var sent map[string]any
	mutations[0].Decode(suite.T(), &sent)
	suite.Assert().Equal("Apollo", sent["program_name"])
	suite.Assert().Nil(sent["program_description"], "blank description must be sent as null")

	programs := suite.backend.Programs()
	suite.Require().Len(programs, 1)
	suite.Assert().Equal("Apollo", programs[0].ProgramName)
}

func (suite *TestSuiteStandard) TestCreateProgramDefaultsStatus() {
	recorder := test.PostForm(suite.T(), suite.r, "/programs-manage", url.Values{
		"program_name":    {"Apollo"},
		"program_code":    {"APL-1"},
		"program_manager": {"Ada"},
	})
	test.AssertRedirect(suite.T(), "/programs-manage", &recorder)

	programs := suite.backend.Programs()
	suite.Require().Len(programs, 1)
	suite.Assert().Equal(models.ProgramStatusActive, programs[0].ProgramStatus)
}

func (suite *TestSuiteStandard) TestCreateProgramInvalid() {
	recorder := test.PostForm(suite.T(), suite.r, "/programs-manage", url.Values{
		"program_name":    {" "},
		"program_code":    {"APL-1"},
		"program_manager": {"Ada"},
	})

	test.AssertHTTPStatus(suite.T(), http.StatusUnprocessableEntity, &recorder)
	test.AssertContains(suite.T(), &recorder, "Program Name is required", `value="APL-1"`, `value="Ada"`)
	suite.Assert().Empty(suite.backend.Mutations(), "invalid forms must not reach the backend")
}

func (suite *TestSuiteStandard) TestCreateProgramBackendRejects() {
	suite.backend.Fail(http.MethodPost, "/programs/", http.StatusBadRequest, "Program code already exists")

	recorder := test.PostForm(suite.T(), suite.r, "/programs-manage", url.Values{
		"program_name":    {"Apollo"},
		"program_code":    {"APL-1"},
		"program_manager": {"Ada"},
	})

	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)
	test.AssertContains(suite.T(), &recorder, "Program code already exists", `value="Apollo"`)
}

func (suite *TestSuiteStandard) TestEditProgram() {
	p := suite.backend.AddProgram(models.ProgramEditable{ProgramName: "Apollo"})

	body := suite.get("/programs-manage?edit="+p.ID.String(), http.StatusOK)
	suite.Assert().Contains(body, `action="/programs-manage/`+p.ID.String()+`"`)
	suite.Assert().Contains(body, "Save")
	suite.Assert().Contains(body, "Cancel")

	// Unknown IDs show the plain list
	body = suite.get("/programs-manage?edit=9999", http.StatusOK)
	suite.Assert().NotContains(body, "Save")
}

func (suite *TestSuiteStandard) TestUpdateProgram() {
	p := suite.backend.AddProgram(models.ProgramEditable{ProgramName: "Apollo", ProgramCode: "APL-1", ProgramManager: "Ada"})

	recorder := test.PostForm(suite.T(), suite.r, "/programs-manage/"+p.ID.String(), url.Values{
		"program_name":        {"Apollo 2"},
		"program_code":        {"APL-2"},
		"program_manager":     {"Grace"},
		"program_status":      {"Inactive"},
		"program_description": {"Moon"},
	})
	test.AssertRedirect(suite.T(), "/programs-manage", &recorder)

	mutations := suite.backend.Mutations()
	suite.Require().Len(mutations, 1)
	suite.Assert().Equal(http.MethodPut, mutations[0].Method)
	suite.Assert().Equal("/programs/"+p.ID.String(), mutations[0].Path)

	programs := suite.backend.Programs()
	suite.Require().Len(programs, 1)
	suite.Assert().Equal("Apollo 2", programs[0].ProgramName)
	suite.Assert().Equal(models.ProgramStatusInactive, programs[0].ProgramStatus)
	suite.Assert().Equal("Moon", programs[0].Description())
}

func (suite *TestSuiteStandard) TestUpdateProgramInvalidKeepsDraft() {
	p := suite.backend.AddProgram(models.ProgramEditable{ProgramName: "Apollo"})

	recorder := test.PostForm(suite.T(), suite.r, "/programs-manage/"+p.ID.String(), url.Values{
		"program_name":    {"Apollo 2"},
		"program_code":    {""},
		"program_manager": {"Grace"},
	})

	test.AssertHTTPStatus(suite.T(), http.StatusUnprocessableEntity, &recorder)
	test.AssertContains(suite.T(), &recorder, "Program Code is required", `value="Apollo 2"`, `value="Grace"`)
	suite.Assert().Empty(suite.backend.Mutations())
}

func (suite *TestSuiteStandard) TestUpdateProgramNotFound() {
	recorder := test.PostForm(suite.T(), suite.r, "/programs-manage/4711", url.Values{
		"program_name":    {"Apollo"},
		"program_code":    {"APL-1"},
		"program_manager": {"Ada"},
	})

	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &recorder)
	test.AssertContains(suite.T(), &recorder, "Program not found")
}

func (suite *TestSuiteStandard) TestUpdateProgramInvalidID() {
	recorder := test.PostForm(suite.T(), suite.r, "/programs-manage/abc", url.Values{})
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)
	suite.Assert().Empty(suite.backend.Requests())
}

func (suite *TestSuiteStandard) TestDeleteProgram() {
	p := suite.backend.AddProgram(models.ProgramEditable{ProgramName: "Apollo"})
	suite.backend.AddProgram(models.ProgramEditable{ProgramName: "Gemini"})

	recorder := test.PostForm(suite.T(), suite.r, "/programs-manage/"+p.ID.String()+"/delete", url.Values{})
	test.AssertRedirect(suite.T(), "/programs-manage", &recorder)

	programs := suite.backend.Programs()
	suite.Require().Len(programs, 1)
	suite.Assert().Equal("Gemini", programs[0].ProgramName)
}

func (suite *TestSuiteStandard) TestDeleteProgramFails() {
	p := suite.backend.AddProgram(models.ProgramEditable{ProgramName: "Apollo"})
	suite.backend.Fail(http.MethodDelete, "/programs/"+p.ID.String(), http.StatusConflict, "Program has transactions")

	recorder := test.PostForm(suite.T(), suite.r, "/programs-manage/"+p.ID.String()+"/delete", url.Values{})
	test.AssertHTTPStatus(suite.T(), http.StatusConflict, &recorder)
	test.AssertContains(suite.T(), &recorder, "Program has transactions", "Apollo")
}
