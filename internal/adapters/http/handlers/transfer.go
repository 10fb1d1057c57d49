package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotevault/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotevault/internal/app"
	"github.com/jsamuelsen/quotevault/internal/domain"
)

// TransferHandler handles export and import of the quote store.
type TransferHandler struct {
	transfer *app.TransferService
}

// NewTransferHandler creates a new transfer handler.
func NewTransferHandler(transfer *app.TransferService) *TransferHandler {
	return &TransferHandler{
		transfer: transfer,
	}
}

// ImportResponse reports how many quotes an import appended.
type ImportResponse struct {
	Imported int `json:"imported"`
}

// Export handles GET /api/v1/quotes/export.
// Returns the full store as a downloadable JSON document.
func (h *TransferHandler) Export(c *gin.Context) {
	doc, err := h.transfer.Export(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", app.ExportFileName))
	c.Data(http.StatusOK, "application/json", doc)
}

// Import handles POST /api/v1/quotes/import.
// Accepts a JSON array of {text, category} objects and appends its quotes
// to the store. A document with any invalid entry is rejected whole.
func (h *TransferHandler) Import(c *gin.Context) {
	doc, err := io.ReadAll(c.Request.Body)
	if err != nil {
		dto.HandleError(c, domain.NewImportError(domain.ImportMalformedJSON, err))
		return
	}

	count, err := h.transfer.Import(c.Request.Context(), doc)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ImportResponse{Imported: count})
}

// RegisterTransferRoutes registers transfer routes on the given router group.
func (h *TransferHandler) RegisterTransferRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("/export", h.Export)
	quotes.POST("/import", h.Import)
}
