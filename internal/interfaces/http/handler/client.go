package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billingapp "github.com/invoicing/backend/internal/application/billing"
	"github.com/invoicing/backend/internal/application/importapp"
	"github.com/invoicing/backend/internal/infrastructure/tabular"
)

// ClientHandler handles client lookups and roster export
type ClientHandler struct {
	BaseHandler
	clients *billingapp.ClientService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clients *billingapp.ClientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

// RegisterRoutes registers client routes
func (h *ClientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	clients := rg.Group("/clients")
	{
		clients.GET("/search", h.Search)
		clients.GET("/export", h.Export)
		clients.GET("/:id", h.Get)
	}
}

// Get returns one client's attributes for invoice form autofill
func (h *ClientHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid client id")
		return
	}

	resp, err := h.clients.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Search returns clients whose name contains the query
func (h *ClientHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	results, err := h.clients.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, results)
}

// Export streams the full client roster as CSV
func (h *ClientHandler) Export(c *gin.Context) {
	clients, err := h.clients.ListAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="clients.csv"`)

	w, err := tabular.NewWriter(c.Writer, importapp.ClientColumns)
	if err != nil {
		h.InternalError(c, "Failed to write export")
		return
	}
	for _, client := range clients {
		if err := w.WriteRow(client.Name, client.Address, client.Mobile, client.Email, client.AltMobile); err != nil {
			h.InternalError(c, "Failed to write export")
			return
		}
	}
	if err := w.Flush(); err != nil {
		h.InternalError(c, "Failed to write export")
	}
}
