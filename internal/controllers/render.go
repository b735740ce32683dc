package controllers

import (
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/program-ledger/console/internal/format"
	"github.com/program-ledger/console/internal/httputil"
)

// Navigation sections of the layout.
const (
	navHome     = "home"
	navPrograms = "programs"
	navHistory  = "history"
)

// Page carries what the layout needs on every page.
type Page struct {
	Title     string
	Nav       string
	Fmt       *format.Formatter
	RequestID string

	// Error is shown as a banner above the page content
	Error string
}

func (co Controller) page(c *gin.Context, title, nav string) Page {
	return Page{
		Title:     title,
		Nav:       nav,
		Fmt:       co.Format,
		RequestID: requestid.Get(c),
	}
}

// ErrorPage is rendered when a page cannot be shown at all.
type ErrorPage struct {
	Page
	Status  int
	Message string
}

// renderError renders the error page with the status appropriate for err.
func (co Controller) renderError(c *gin.Context, err error) {
	status, msg := httputil.Status(c, err)

	p := co.page(c, http.StatusText(status), "")
	c.HTML(status, "error.html", ErrorPage{
		Page:    p,
		Status:  status,
		Message: msg,
	})
}

// failed returns the status and banner text for a failed mutation.
func failed(c *gin.Context, err error) (int, string) {
	return httputil.Status(c, err)
}

// redirect finishes a successful form submission.
func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// NoRoute renders the error page for unknown paths.
func (co Controller) NoRoute(c *gin.Context) {
	co.renderError(c, httputil.Error{Err: errNotFound, Status: http.StatusNotFound})
}
