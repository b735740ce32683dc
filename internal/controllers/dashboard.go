package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/program-ledger/console/internal/dashboard"
	"github.com/program-ledger/console/internal/httputil"
	"github.com/program-ledger/console/internal/models"
	"github.com/program-ledger/console/internal/types"
	"golang.org/x/sync/errgroup"
)

type DashboardPage struct {
	Page
	Program models.Program
	Summary models.DashboardSummary
	AsOf    types.Date
	Chart   dashboard.Chart
}

// DashboardQuery is the query of the dashboard routes. A missing as_of
// leaves AsOf zero.
type DashboardQuery struct {
	AsOf types.Date `form:"as_of"`
}

type ChartResponse struct {
	Data dashboard.Chart `json:"data"`
}

// RegisterDashboardRoutes registers the routes for the program dashboard with
// the RouterGroup that is passed.
func (co Controller) RegisterDashboardRoutes(r *gin.RouterGroup) {
	{
		r.GET("", co.GetDashboard)
	}

	{
		r.OPTIONS("/chart", httputil.OptionsGet)
		r.GET("/chart", co.GetDashboardChart)
	}
}

// GetDashboard renders the financial overview of a program as of the date
// in ?as_of, which defaults to today.
func (co Controller) GetDashboard(c *gin.Context) {
	id, asOf, err := co.dashboardParams(c)
	if err != nil {
		co.renderError(c, err)
		return
	}

	var program models.Program
	var summary models.DashboardSummary

	g, gctx := errgroup.WithContext(ctx(c))
	g.Go(func() (err error) {
		program, err = co.Backend.FindProgram(gctx, id)
		return
	})
	g.Go(func() (err error) {
		summary, err = co.Backend.DashboardSummary(gctx, id, asOf)
		return
	})

	if err := g.Wait(); err != nil {
		co.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", DashboardPage{
		Page:    co.page(c, fmt.Sprintf("Program Dashboard: %s", program.ProgramName), navHome),
		Program: program,
		Summary: summary,
		AsOf:    asOf,
		Chart:   dashboard.BuildChart(summary, asOf, co.Format.Symbol()),
	})
}

// GetDashboardChart returns the chart data of the dashboard as JSON.
func (co Controller) GetDashboardChart(c *gin.Context) {
	id, asOf, err := co.dashboardParams(c)
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	summary, err := co.Backend.DashboardSummary(ctx(c), id, asOf)
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusOK, ChartResponse{Data: dashboard.BuildChart(summary, asOf, co.Format.Symbol())})
}

func (co Controller) dashboardParams(c *gin.Context) (types.ID, types.Date, error) {
	id, err := httputil.ParseID(c, "programId")
	if err != nil {
		return 0, types.Date{}, err
	}

	var query DashboardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		return 0, types.Date{}, httputil.Error{Err: err, Status: http.StatusBadRequest}
	}

	if query.AsOf == (types.Date{}) {
		return id, co.today(), nil
	}
	return id, query.AsOf, nil
}
