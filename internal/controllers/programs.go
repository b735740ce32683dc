package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/program-ledger/console/internal/edit"
	"github.com/program-ledger/console/internal/httputil"
	"github.com/program-ledger/console/internal/models"
	"github.com/program-ledger/console/internal/types"
)

const programsManagePath = "/programs-manage"

type LandingQuery struct {
	HideInactive bool `form:"hide_inactive"`
}

// LandingPage carries every program. Inactive ones are only hidden, so
// the page can show them again without asking the backend.
type LandingPage struct {
	Page
	Programs     []models.Program
	Visible      int
	HideInactive bool
}

type ProgramsPage struct {
	Page
	Programs []models.Program
	Statuses []models.ProgramStatus
	Create   models.ProgramEditable
	Edit     edit.State[models.ProgramEditable]
}

// RegisterProgramRoutes registers the landing page and the program
// management routes with the RouterGroup that is passed.
func (co Controller) RegisterProgramRoutes(r *gin.RouterGroup) {
	r.GET("/", co.GetLanding)

	manage := r.Group(programsManagePath)

	// Root group
	{
		manage.GET("", co.GetPrograms)
		manage.POST("", co.CreateProgram)
	}

	// Program with ID
	{
		manage.POST("/:programId", co.UpdateProgram)
		manage.POST("/:programId/delete", co.DeleteProgram)
	}
}

// GetLanding lists all programs. With ?hide_inactive=true, inactive
// programs start out hidden.
func (co Controller) GetLanding(c *gin.Context) {
	var query LandingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		co.renderError(c, httputil.Error{Err: err, Status: http.StatusBadRequest})
		return
	}

	programs, err := co.Backend.ListPrograms(ctx(c))
	if err != nil {
		co.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "landing.html", LandingPage{
		Page:         co.page(c, "Programs", navHome),
		Programs:     programs,
		Visible:      len(models.VisiblePrograms(programs, query.HideInactive)),
		HideInactive: query.HideInactive,
	})
}

// GetPrograms renders the program management page. With ?edit=<id>, the
// program is shown in an edit form.
func (co Controller) GetPrograms(c *gin.Context) {
	co.renderPrograms(c, http.StatusOK, ProgramsPage{
		Create: models.NewProgramEditable(),
	}, httputil.OptionalID(c, "edit"))
}

func (co Controller) CreateProgram(c *gin.Context) {
	editable, err := bindForm(c, models.ProgramEditable.Normalize)
	if err == nil {
		_, err = co.Backend.CreateProgram(ctx(c), editable)
	}

	if err != nil {
		co.programFailed(c, err, ProgramsPage{Create: editable})
		return
	}

	redirect(c, programsManagePath)
}

func (co Controller) UpdateProgram(c *gin.Context) {
	id, err := httputil.ParseID(c, "programId")
	if err != nil {
		co.renderError(c, err)
		return
	}

	editable, err := bindForm(c, models.ProgramEditable.Normalize)
	if err == nil {
		_, err = co.Backend.UpdateProgram(ctx(c), id, editable)
	}

	if err != nil {
		co.programFailed(c, err, ProgramsPage{
			Create: models.NewProgramEditable(),
			Edit:   edit.Edit(id, editable),
		})
		return
	}

	redirect(c, programsManagePath)
}

func (co Controller) DeleteProgram(c *gin.Context) {
	id, err := httputil.ParseID(c, "programId")
	if err != nil {
		co.renderError(c, err)
		return
	}

	if err := co.Backend.DeleteProgram(ctx(c), id); err != nil {
		co.programFailed(c, err, ProgramsPage{Create: models.NewProgramEditable()})
		return
	}

	redirect(c, programsManagePath)
}

// programFailed renders the management page with the error and whatever
// the user submitted.
func (co Controller) programFailed(c *gin.Context, err error, p ProgramsPage) {
	status, msg := failed(c, err)
	p.Error = msg
	co.renderPrograms(c, status, p, nil)
}

func (co Controller) renderPrograms(c *gin.Context, status int, p ProgramsPage, editID *types.ID) {
	programs, err := co.Backend.ListPrograms(ctx(c))
	if err != nil {
		co.renderError(c, fmt.Errorf("loading programs: %w", err))
		return
	}

	banner := p.Error
	p.Page = co.page(c, "Manage Programs", navPrograms)
	p.Error = banner
	p.Programs = programs
	p.Statuses = models.ProgramStatuses

	if !p.Edit.Active() {
		p.Edit = edit.Find(programs, editID,
			func(p models.Program) types.ID { return p.ID },
			func(p models.Program) models.ProgramEditable { return p.ProgramEditable },
		)
	}

	c.HTML(status, "programs.html", p)
}
