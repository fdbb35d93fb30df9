package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// BackendPinger checks that the highlights backend is reachable.
type BackendPinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	backend BackendPinger
	version string
}

func NewHealthController(backend BackendPinger, version string) *HealthController {
	return &HealthController{
		backend: backend,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.backend != nil {
		ctx, cancel := context.WithTimeout(backendContext(c), 5*time.Second)
		defer cancel()

		if err := h.backend.Ping(ctx); err != nil {
			checks["backend"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["backend"] = "ok"
		}
	} else {
		checks["backend"] = "not configured"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
