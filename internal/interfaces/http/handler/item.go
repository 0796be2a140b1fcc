package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billingapp "github.com/invoicing/backend/internal/application/billing"
	"github.com/invoicing/backend/internal/application/importapp"
	"github.com/invoicing/backend/internal/infrastructure/tabular"
)

// ItemHandler handles catalog lookups and export
type ItemHandler struct {
	BaseHandler
	items *billingapp.ItemService
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(items *billingapp.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

// RegisterRoutes registers item routes
func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/items")
	{
		items.GET("/search", h.Search)
		items.GET("/export", h.Export)
		items.GET("/:id", h.Get)
	}
}

// Get returns one catalog item's attributes for invoice line autofill
func (h *ItemHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item id")
		return
	}

	resp, err := h.items.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Search returns catalog items whose description contains the query
func (h *ItemHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	results, err := h.items.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, results)
}

// Export streams the full item catalog as CSV
func (h *ItemHandler) Export(c *gin.Context) {
	items, err := h.items.ListAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="items.csv"`)

	w, err := tabular.NewWriter(c.Writer, importapp.ItemColumns)
	if err != nil {
		h.InternalError(c, "Failed to write export")
		return
	}
	for _, item := range items {
		if err := w.WriteRow(item.Description, item.HSNCode, item.Unit, item.LastRate.String()); err != nil {
			h.InternalError(c, "Failed to write export")
			return
		}
	}
	if err := w.Flush(); err != nil {
		h.InternalError(c, "Failed to write export")
	}
}
