package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/program-ledger/console/internal/httputil"
)

type VersionResponse struct {
	Data VersionObject `json:"data"` // Data object for the version endpoint
}

type VersionObject struct {
	Version string `json:"version" example:"1.1.0"` // the running version of the console
}

// RegisterHealthzRoutes registers the routes for the health check with
// the RouterGroup that is passed.
func (co Controller) RegisterHealthzRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGet)
	r.GET("", co.GetHealthz)
}

// GetHealthz reports whether the ledger backend can be reached.
func (co Controller) GetHealthz(c *gin.Context) {
	if err := co.Backend.Ping(ctx(c)); err != nil {
		httputil.NewError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterVersionRoutes registers the version endpoint.
func RegisterVersionRoutes(r *gin.RouterGroup, version string) {
	r.OPTIONS("", httputil.OptionsGet)
	r.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, VersionResponse{
			Data: VersionObject{
				Version: version,
			},
		})
	})
}
