package handlers

import (
	"net/http"

	"github.com/alimgiray/commitboard/internal/middleware"
	"github.com/alimgiray/commitboard/web"
	"github.com/gin-gonic/gin"
)

// methods that get an explicit 405 on the API endpoints
var rejectedMethods = []string{
	http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodHead,
	http.MethodConnect, http.MethodTrace,
}

type Handlers struct {
	Stats     *StatsHandler
	Dashboard *DashboardHandler
	Health    *HealthHandler
	NotFound  *NotFoundHandler
}

// SetupRoutes registers every route on router. allowedOrigins is the origin
// policy of the API endpoints.
func SetupRoutes(router *gin.Engine, h Handlers, allowedOrigins []string) {
	router.SetHTMLTemplate(web.Templates())

	// Stats proxy
	fetchStats := router.Group("/api/fetch-stats")
	fetchStats.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))
	{
		fetchStats.POST("", h.Stats.FetchStats)
		fetchStats.OPTIONS("", h.Stats.Preflight)
		for _, method := range rejectedMethods {
			fetchStats.Handle(method, "", h.Stats.MethodNotAllowed)
		}
	}

	// Single user lookup
	fetchUser := router.Group("/api/fetchstats")
	fetchUser.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))
	{
		fetchUser.GET("", h.Stats.FetchUserStats)
		fetchUser.OPTIONS("", h.Stats.Preflight)
		for _, method := range []string{
			http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodHead,
			http.MethodConnect, http.MethodTrace,
		} {
			fetchUser.Handle(method, "", h.Stats.MethodNotAllowed)
		}
	}

	router.GET("/api/team", h.Dashboard.Team)

	// Dashboard
	router.GET("/", h.Dashboard.Dashboard)
	router.GET("/export.xlsx", h.Dashboard.Export)
	router.StaticFileFS("/favicon.ico", "static/favicon.ico", http.FS(web.Static))

	// Health check endpoint
	router.GET("/health", h.Health.HealthCheck)

	// any other verb on a known path
	router.HandleMethodNotAllowed = true
	router.NoMethod(h.Stats.MethodNotAllowed)

	router.NoRoute(h.NotFound.NotFound)
}
