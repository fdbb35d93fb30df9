package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/highlights-web/internal/apiclient"
	"github.com/mrlokans/highlights-web/internal/components"
	"github.com/mrlokans/highlights-web/internal/middleware"
	"github.com/mrlokans/highlights-web/internal/tagview"
)

// ErrorResponse is the standard error response format for JSON errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response as plain text, which is what the browser
// shows for a missing book.
func respondNotFound(c *gin.Context, resource string) {
	c.String(http.StatusNotFound, resource+" not found")
}

// respondBackendError logs a backend failure and sends a 502 Bad Gateway response.
// The actual error is logged but not exposed to the client.
func respondBackendError(c *gin.Context, err error, context string) {
	log.Printf("Backend error (%s): %v", context, err)
	c.String(http.StatusBadGateway, "The highlights service is unavailable. Please try again later.")
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates a positive integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (int, bool) {
	id, err := strconv.Atoi(c.Param(paramName))
	if err != nil || id <= 0 {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return id, true
}

// --- Backend Context ---

const publicOriginKey = "public_origin"

// publicOrigin makes the configured site origin available to backendContext.
func publicOrigin(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(publicOriginKey, origin)
		c.Next()
	}
}

// backendContext returns the request context carrying the configured public origin, so a
// relative API base URL resolves against it. The inbound Host header is never used.
func backendContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if origin := c.GetString(publicOriginKey); origin != "" {
		return apiclient.WithOrigin(ctx, origin)
	}
	return ctx
}

// clientGone reports whether the browser abandoned the request.
func clientGone(ctx context.Context) bool {
	return ctx.Err() != nil
}

// describeBackendError turns a backend failure into a message fit for a flash.
func describeBackendError(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "The highlights service is unavailable."
}

// --- Flash Messages ---

func putFlash(sm *middleware.SessionManager, c *gin.Context, kind, message string) {
	if sm == nil {
		return
	}
	sm.PutFlash(c.Request, kind, message)
}

func popFlash(sm *middleware.SessionManager, c *gin.Context) *middleware.Flash {
	if sm == nil {
		return nil
	}
	return sm.PopFlash(c.Request)
}

// redirectTo sends the browser to the page state after a form post.
func redirectTo(c *gin.Context, state components.PageState) {
	c.Redirect(http.StatusSeeOther, state.URL())
}

// formState reads the page state a form was submitted from. Forms carry the active tag
// filter in a hidden "tag" field.
func formState(c *gin.Context, bookID int) components.PageState {
	return components.PageState{BookID: bookID, Tag: tagview.ParseSelection(c.PostForm("tag"))}
}

// --- HTMX Support ---

// isHTMXRequest returns true if the request is an HTMX request.
func isHTMXRequest(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}
