package router

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/program-ledger/console/internal/controllers"
	"github.com/program-ledger/console/internal/httputil"
	"github.com/program-ledger/console/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// This is set at build time with -ldflags "-X github.com/program-ledger/console/internal/router.version=..."
var version = "0.0.0"

// Version returns the version the console was built as.
func Version() string {
	return version
}

// Config sets up the router and its middlewares. The returned function
// unregisters the metrics and must be called when the router is discarded.
func Config() (*gin.Engine, func(), error) {
	// Set up the router and middlewares
	r := gin.New()

	// Don’t process X-Forwarded-For header as we do not do anything with
	// client IPs
	r.ForwardedByClientIP = false

	// Send a HTTP 405 (Method not allowed) for all paths where there is
	// a handler, but not for the specific method used
	r.HandleMethodNotAllowed = true

	teardown, err := registerPrometheusMetrics()
	if err != nil {
		return nil, nil, err
	}

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(MetricsMiddleware())
	r.NoMethod(func(c *gin.Context) {
		httputil.NewError(c, httputil.Error{
			Err:    fmt.Errorf("this HTTP method is not allowed for the page you called"),
			Status: http.StatusMethodNotAllowed,
		})
	})
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, logger zerolog.Logger) zerolog.Logger {
			return logger.With().
				Str("request-id", requestid.Get(c)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Str("user-agent", c.Request.UserAgent()).
				Logger()
		})))

	// CORS settings
	allowOrigins, ok := os.LookupEnv("CORS_ALLOW_ORIGINS")
	if ok {
		log.Debug().Str("CORS Allowed Origins", allowOrigins).Msg("Router")

		r.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Fields(allowOrigins),
			AllowMethods:     []string{"OPTIONS", "GET", "POST"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
		}))
	}

	// Disable the gin debug route printing as it clutters logs (and test logs)
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	// Don’t trust any proxy. We do not process any client IPs,
	// therefore we don’t need to trust anyone here.
	_ = r.SetTrustedProxies([]string{})

	templates, err := controllers.Templates()
	if err != nil {
		teardown()
		return nil, nil, fmt.Errorf("parsing templates: %w", err)
	}
	r.SetHTMLTemplate(templates)

	log.Info().Str("version", version).Msg("Router")

	return r, teardown, nil
}

// AttachRoutes attaches the pages and the service endpoints to the
// router group that is passed in.
func AttachRoutes(co controllers.Controller, group *gin.RouterGroup) error {
	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		return err
	}
	group.StaticFS("/static", http.FS(static))

	controllers.RegisterVersionRoutes(group.Group("/version"), version)
	co.RegisterHealthzRoutes(group.Group("/healthz"))
	group.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// pprof performance profiles
	enablePprof, ok := os.LookupEnv("ENABLE_PPROF")
	if ok && enablePprof == "true" {
		pprof.RouteRegister(group, "debug/pprof")
	}

	co.RegisterProgramRoutes(group)
	co.RegisterDashboardRoutes(group.Group("/dashboard/:programId"))
	co.RegisterWbsRoutes(group.Group("/wbs/:programId"))
	co.RegisterLedgerRoutes(group.Group("/ledger/:programId"))
	co.RegisterHistoryRoutes(group.Group("/edit-history"))

	return nil
}
