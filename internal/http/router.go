package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/highlights-web/internal/middleware"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(middleware.SecurityHeadersMiddleware(cfg.APIOrigin))
	router.Use(publicOrigin(cfg.PublicOrigin))

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(middleware.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.LoadAndSave())
	}

	tmpl, err := loadTemplates(cfg.TemplatesPath)
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}
	router.SetHTMLTemplate(tmpl)

	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	health := NewHealthController(cfg.API, cfg.Version)
	books := NewBooksController(cfg.API, cfg.Locale, cfg.SessionManager, cfg.CoverCache, cfg.TaskClient)
	tagGroups := NewTagGroupsController(cfg.API, cfg.SessionManager)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Book page
	router.GET("/books/:id", books.BookPage)
	router.GET("/books/:id/filter", books.FilterTags)
	router.POST("/books/:id/edit", books.EditBook)

	// Tag group management
	router.POST("/books/:id/tag-groups", tagGroups.CreateGroup)
	router.POST("/books/:id/tag-groups/:groupId", tagGroups.RenameGroup)
	router.POST("/books/:id/tag-groups/:groupId/delete", tagGroups.DeleteGroup)
	router.POST("/books/:id/tags/:tagId/group", tagGroups.AssignTag)

	// Book cover endpoint
	if cfg.CoverCache != nil {
		covers := NewCoversController(cfg.CoverCache, cfg.API)
		router.GET("/covers/:id", covers.GetCover)
	}

	return router
}
