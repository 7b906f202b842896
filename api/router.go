package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

// RouterConfig carries the router-level options.
type RouterConfig struct {
	// StaticDir, when non-empty, is served at the site root.
	StaticDir string
}

// NewRouter builds the gin engine: user routes, health, static files, the
// 404 fallback, and the panic boundary that turns any unhandled panic into a
// JSON 500 instead of tearing the process down.
func NewRouter(h *UserHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	// Allow-all CORS: the frontend may be served from a different origin.
	router.Use(cors.Default())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.Error("api: panic recovered",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"panic", recovered,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "Something went wrong",
		})
	}))

	users := router.Group("/api/users")
	{
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)
		users.POST("", h.CreateUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}

	router.GET("/health", Health)

	// Static files answer at the site root (GET / serves index.html); the
	// middleware falls through to the API routes when no file matches.
	if cfg.StaticDir != "" {
		router.Use(static.Serve("/", static.LocalFile(cfg.StaticDir, false)))
	}

	router.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "Route not found")
	})

	return router
}
