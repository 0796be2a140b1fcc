package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/invoicing/backend/internal/application/importapp"
	"github.com/invoicing/backend/internal/infrastructure/tabular"
	"github.com/invoicing/backend/internal/interfaces/http/dto"
)

// ImportHandler handles bulk CSV merge uploads
type ImportHandler struct {
	BaseHandler
	importService *importapp.ImportService
	maxBytes      int64
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(importService *importapp.ImportService, maxBytes int64) *ImportHandler {
	return &ImportHandler{importService: importService, maxBytes: maxBytes}
}

// RegisterRoutes registers import routes
func (h *ImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/import", h.Import)
}

// Import merges an uploaded CSV into the client roster or item catalog.
// The type query parameter selects which.
func (h *ImportHandler) Import(c *gin.Context) {
	kind := c.Query("type")
	if kind != "clients" && kind != "items" {
		h.BadRequest(c, "type must be one of: clients, items")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		h.error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation,
			fmt.Sprintf("file exceeds maximum size of %d bytes", h.maxBytes))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		h.InternalError(c, "Failed to read file")
		return
	}
	if int64(len(data)) > h.maxBytes {
		h.error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation,
			fmt.Sprintf("file exceeds maximum size of %d bytes", h.maxBytes))
		return
	}

	reader, err := tabular.NewReaderFromBytes(data)
	if err != nil {
		switch {
		case errors.Is(err, tabular.ErrEmptyFile):
			h.BadRequest(c, "CSV file is empty")
		case errors.Is(err, tabular.ErrInvalidEncoding):
			h.BadRequest(c, "CSV file has invalid encoding, must be UTF-8")
		case errors.Is(err, tabular.ErrMissingHeader):
			h.BadRequest(c, "CSV file is missing header row")
		default:
			h.BadRequest(c, "Failed to parse CSV file")
		}
		return
	}

	required := importapp.ClientColumns
	if kind == "items" {
		required = importapp.ItemColumns
	}
	if missing := reader.MissingColumns(required); len(missing) > 0 {
		h.BadRequest(c, "CSV file is missing required columns: "+strings.Join(missing, ", "))
		return
	}

	rows, err := reader.ReadAll()
	if err != nil {
		h.BadRequest(c, "Failed to parse CSV file: "+err.Error())
		return
	}

	var result *importapp.MergeResult
	if kind == "clients" {
		result, err = h.importService.MergeClients(c.Request.Context(), importapp.ClientRowsFromTable(rows))
	} else {
		result, err = h.importService.MergeItems(c.Request.Context(), importapp.ItemRowsFromTable(rows))
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
