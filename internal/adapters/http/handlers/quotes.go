package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotevault/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotevault/internal/app"
	"github.com/jsamuelsen/quotevault/internal/domain"
)

// QuoteHandler handles quote-related HTTP endpoints.
type QuoteHandler struct {
	store *app.QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(store *app.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		store: store,
	}
}

// QuoteResponse is the HTTP response structure for a quote.
type QuoteResponse struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// QuoteListResponse is the HTTP response structure for the quote list.
type QuoteListResponse struct {
	Quotes []QuoteResponse `json:"quotes"`
	Count  int             `json:"count"`
}

// AddQuoteRequest is the request body for adding a quote.
type AddQuoteRequest struct {
	Text     string `json:"text"     validate:"required,notempty"`
	Category string `json:"category" validate:"required,notempty"`
}

// RandomQuoteRequest is the optional request body for a random selection.
// An absent body or empty category means the active filter.
type RandomQuoteRequest struct {
	Category string `json:"category"`
}

// toQuoteResponse converts a domain Quote to an HTTP response.
func toQuoteResponse(q domain.Quote) QuoteResponse {
	return QuoteResponse{
		Text:     q.Text,
		Category: q.Category,
	}
}

// GetCurrent handles GET /api/v1/quotes/current.
// Returns the session's last shown quote, selecting a fresh one when the
// session has not shown anything yet.
func (h *QuoteHandler) GetCurrent(c *gin.Context) {
	quote, err := h.store.CurrentQuote(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteResponse(quote))
}

// NewRandom handles POST /api/v1/quotes/random.
// Picks a uniform-random quote. The optional body narrows the pool to one
// category; otherwise the active filter applies.
func (h *QuoteHandler) NewRandom(c *gin.Context) {
	var req RandomQuoteRequest

	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			dto.HandleError(c, domain.NewValidationError("body", "invalid JSON body"))
			return
		}
	}

	var (
		quote domain.Quote
		err   error
	)

	if req.Category == "" {
		quote, err = h.store.SelectForCurrentFilter(c.Request.Context())
	} else {
		quote, err = h.store.SelectQuote(c.Request.Context(), req.Category)
	}

	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteResponse(quote))
}

// Add handles POST /api/v1/quotes.
// Validates and appends a single quote to the store.
func (h *QuoteHandler) Add(c *gin.Context) {
	var req AddQuoteRequest

	err := dto.BindAndValidate(c, &req)
	if err != nil {
		if errors.Is(err, dto.ErrBinding) {
			dto.HandleError(c, domain.NewValidationError("body", "invalid JSON body"))
			return
		}

		dto.HandleValidationErrors(c, dto.ValidationErrors(err))

		return
	}

	quote, err := h.store.Add(c.Request.Context(), req.Text, req.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toQuoteResponse(quote))
}

// List handles GET /api/v1/quotes.
// Returns the store in insertion order, optionally narrowed by the
// category query parameter.
func (h *QuoteHandler) List(c *gin.Context) {
	category := c.Query("category")

	quotes := h.store.Quotes()

	resp := QuoteListResponse{Quotes: make([]QuoteResponse, 0, len(quotes))}
	for _, q := range quotes {
		if category != "" && category != domain.CategoryAll && q.Category != category {
			continue
		}

		resp.Quotes = append(resp.Quotes, toQuoteResponse(q))
	}

	resp.Count = len(resp.Quotes)

	c.JSON(http.StatusOK, resp)
}

// RegisterQuoteRoutes registers quote routes on the given router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.List)
	quotes.POST("", h.Add)
	quotes.GET("/current", h.GetCurrent)
	quotes.POST("/random", h.NewRandom)
}
