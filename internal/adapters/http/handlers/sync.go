package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotevault/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotevault/internal/app"
)

// SyncHandler exposes the sync engine over HTTP.
type SyncHandler struct {
	engine *app.SyncEngine
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(engine *app.SyncEngine) *SyncHandler {
	return &SyncHandler{
		engine: engine,
	}
}

// Trigger handles POST /api/v1/sync.
// Runs one reconcile pass immediately, outside the recurring schedule.
func (h *SyncHandler) Trigger(c *gin.Context) {
	report, err := h.engine.RunOnce(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Status handles GET /api/v1/sync/status.
// Returns a snapshot of the engine's most recent activity.
func (h *SyncHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Status())
}

// RegisterSyncRoutes registers sync routes on the given router group.
func (h *SyncHandler) RegisterSyncRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	sync.POST("", h.Trigger)
	sync.GET("/status", h.Status)
}
