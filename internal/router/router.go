// Package router sets up the gin engine and the routes of the API.
package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/ryanuber/go-glob"
	"github.com/studentbudget/backend/internal/config"
	"github.com/studentbudget/backend/internal/controllers"
)

// This is set at build time, see Makefile.
var version = "0.0.0"

// Router controls the routes for the API.
func Router(cfg *config.Config, co controllers.Controller) (*gin.Engine, error) {
	// Set up the router and middlewares
	r := gin.New()

	// Don’t process X-Forwarded-For header as we do not do anything with
	// client IPs
	r.ForwardedByClientIP = false

	// Send a HTTP 405 (Method not allowed) for all paths where there is
	// a handler, but not for the specific method used
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, l zerolog.Logger) zerolog.Logger {
			return l.With().
				Str("request-id", requestid.Get(c)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Str("user-agent", c.Request.UserAgent()).
				Logger()
		})))

	// CORS settings. Origins are glob patterns to support deployments
	// with per-branch preview frontends.
	if len(cfg.CORSAllowOrigins) > 0 {
		log.Debug().Strs("allowOrigins", cfg.CORSAllowOrigins).Msg("CORS")

		r.Use(cors.New(cors.Config{
			AllowOriginFunc: func(origin string) bool {
				for _, pattern := range cfg.CORSAllowOrigins {
					if glob.Glob(pattern, origin) {
						return true
					}
				}
				return false
			},
			AllowMethods:     []string{"OPTIONS", "GET", "POST", "PUT", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
			AllowCredentials: true,
		}))
	}

	// Disable the gin debug route printing as it clutters logs (and test logs)
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	// Don’t trust any proxy. We do not process any client IPs,
	// therefore we don’t need to trust anyone here.
	_ = r.SetTrustedProxies([]string{})

	r.GET("/health", GetHealth)
	r.GET("/version", GetVersion)

	// pprof performance profiles
	if cfg.EnablePprof {
		pprof.Register(r, "debug/pprof")
	}

	/*
	 *  Route setup
	 */
	api := r.Group("/api")

	co.RegisterAuthRoutes(api)

	protected := api.Group("", co.RequireAuth())
	co.RegisterTransactionRoutes(protected.Group("/transactions"))
	co.RegisterCategoryRoutes(protected.Group("/categories"))

	log.Info().Str("version", version).Msg("backend startup complete")

	return r, nil
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// @Summary		Health
// @Description	Returns the health state of the API
// @Tags			General
// @Success		200	{object}	HealthResponse
// @Router			/health [get]
func GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

type VersionResponse struct {
	Version string `json:"version" example:"1.1.0"`
}

// @Summary		API version
// @Description	Returns the software version of the API
// @Tags			General
// @Success		200	{object}	VersionResponse
// @Router			/version [get]
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, VersionResponse{Version: version})
}
