package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/highlights-web/internal/apiclient"
	"github.com/mrlokans/highlights-web/internal/components"
	"github.com/mrlokans/highlights-web/internal/covers"
)

// CoversController serves book covers from the local cache.
type CoversController struct {
	cache *covers.Cache
	api   BackendAPI
}

// NewCoversController creates a new CoversController.
func NewCoversController(cache *covers.Cache, api BackendAPI) *CoversController {
	return &CoversController{
		cache: cache,
		api:   api,
	}
}

// GetCover serves the cached image for the book's current cover URL, fetching it on a miss.
// Files cached from any other URL are never served.
// GET /covers/:id
func (cc *CoversController) GetCover(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := backendContext(c)
	book, err := cc.api.GetBook(ctx, id)
	if err != nil {
		if errors.Is(err, apiclient.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		log.Printf("[COVERS] Failed to load book %d: %v", id, err)
		c.Redirect(http.StatusTemporaryRedirect, components.CoverPlaceholder)
		return
	}

	if book.Cover == "" {
		c.Redirect(http.StatusTemporaryRedirect, components.CoverPlaceholder)
		return
	}

	coverURL, err := cc.api.AssetURL(ctx, book.Cover)
	if err != nil {
		c.Redirect(http.StatusTemporaryRedirect, components.CoverPlaceholder)
		return
	}

	cachePath, err := cc.cache.GetCover(ctx, id, coverURL)
	if err != nil || cachePath == "" {
		// Fallback: redirect to original URL
		c.Redirect(http.StatusTemporaryRedirect, coverURL)
		return
	}

	serveCover(c, cachePath)
}

func serveCover(c *gin.Context, path string) {
	c.Header("Cache-Control", "public, max-age=86400")
	c.Header("Content-Type", "image/jpeg")
	c.File(path)
}
