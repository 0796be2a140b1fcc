package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/billing"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ClientInput carries the client block of an invoice submission. Absent
// optional fields stay nil and preserve whatever is already stored.
type ClientInput struct {
	Name      string  `json:"name" binding:"required"`
	Address   *string `json:"address"`
	Mobile    *string `json:"mobile"`
	Email     *string `json:"email"`
	AltMobile *string `json:"alt_mobile"`
}

// InvoiceLineInput is one item row of a submission. Rows with a blank
// description are tolerated and skipped downstream.
type InvoiceLineInput struct {
	Description string           `json:"description"`
	HSNCode     string           `json:"hsn_code"`
	Unit        string           `json:"unit"`
	Quantity    *decimal.Decimal `json:"quantity"`
	Rate        *decimal.Decimal `json:"rate"`
	Amount      *decimal.Decimal `json:"amount"`
}

// CreateInvoiceRequest is the invoice submission payload
type CreateInvoiceRequest struct {
	Client    ClientInput        `json:"client" binding:"required"`
	Date      string             `json:"date" binding:"required"`
	Subtotal  *decimal.Decimal   `json:"subtotal" binding:"required"`
	Transport *decimal.Decimal   `json:"transport"`
	Total     *decimal.Decimal   `json:"total" binding:"required"`
	Items     []InvoiceLineInput `json:"items" binding:"required"`
}

// ToSubmission validates the request shape and converts it into the domain
// submission. Totals pass through verbatim; arithmetic consistency is
// deliberately not checked.
func (r CreateInvoiceRequest) ToSubmission() (billing.InvoiceSubmission, error) {
	var sub billing.InvoiceSubmission

	cand := billing.ClientCandidate{
		Name:      r.Client.Name,
		Address:   r.Client.Address,
		Mobile:    r.Client.Mobile,
		Email:     r.Client.Email,
		AltMobile: r.Client.AltMobile,
	}
	if cand.Key() == "" {
		return sub, shared.NewValidationError("Client name cannot be empty")
	}

	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return sub, shared.NewValidationError(fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", r.Date))
	}

	if r.Subtotal == nil || r.Total == nil {
		return sub, shared.NewValidationError("Subtotal and total are required")
	}
	transport := decimal.Zero
	if r.Transport != nil {
		transport = *r.Transport
	}

	lines := make([]billing.LineCandidate, 0, len(r.Items))
	for i, line := range r.Items {
		lc := billing.LineCandidate{
			Description: line.Description,
			HSNCode:     line.HSNCode,
			Unit:        line.Unit,
		}
		if lc.IsBlank() {
			lines = append(lines, lc)
			continue
		}
		if line.Quantity == nil || line.Rate == nil || line.Amount == nil {
			return sub, shared.NewValidationError(
				fmt.Sprintf("Item %d is missing quantity, rate or amount", i+1))
		}
		lc.Quantity = *line.Quantity
		lc.Rate = *line.Rate
		lc.Amount = *line.Amount
		lines = append(lines, lc)
	}

	return billing.InvoiceSubmission{
		Client:    cand,
		Date:      date,
		Subtotal:  *r.Subtotal,
		Transport: transport,
		Total:     *r.Total,
		Lines:     lines,
	}, nil
}

// InvoiceCreatedResponse acknowledges a committed submission
type InvoiceCreatedResponse struct {
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
}

// NextNumberResponse previews the upcoming invoice number
type NextNumberResponse struct {
	InvoiceNumber string `json:"invoice_number"`
}

// ClientResponse carries client attributes for autofill and export
type ClientResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Mobile    string    `json:"mobile"`
	Email     string    `json:"email"`
	AltMobile string    `json:"alt_mobile"`
}

// ItemResponse carries catalog attributes for autofill and export
type ItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	HSNCode     string          `json:"hsn_code"`
	Unit        string          `json:"unit"`
	LastRate    decimal.Decimal `json:"last_rate"`
}

// InvoiceLineResponse is one frozen line of a stored invoice
type InvoiceLineResponse struct {
	Description string          `json:"description"`
	HSNCode     string          `json:"hsn_code"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse is the full invoice graph for print views
type InvoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	Date          string                `json:"date"`
	Client        ClientResponse        `json:"client"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	Transport     decimal.Decimal       `json:"transport"`
	Total         decimal.Decimal       `json:"total"`
	TotalInWords  string                `json:"total_in_words"`
	Items         []InvoiceLineResponse `json:"items"`
}

// ToClientResponse converts a domain client
func ToClientResponse(c *billing.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Address:   c.Address,
		Mobile:    c.Mobile,
		Email:     c.Email,
		AltMobile: c.AltMobile,
	}
}

// ToItemResponse converts a domain catalog item
func ToItemResponse(i *billing.Item) ItemResponse {
	return ItemResponse{
		ID:          i.ID,
		Description: i.Description,
		HSNCode:     i.HSNCode,
		Unit:        i.Unit,
		LastRate:    i.LastRate,
	}
}

// ToInvoiceResponse converts a domain invoice graph
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		Date:          inv.Date.Format("2006-01-02"),
		Subtotal:      inv.Subtotal,
		Transport:     inv.Transport,
		Total:         inv.Total,
		TotalInWords:  AmountInWords(inv.Total),
		Items:         make([]InvoiceLineResponse, 0, len(inv.Items)),
	}
	if inv.Client != nil {
		resp.Client = ToClientResponse(inv.Client)
	}
	for _, line := range inv.Items {
		resp.Items = append(resp.Items, InvoiceLineResponse{
			Description: line.Description,
			HSNCode:     line.HSNCode,
			Unit:        line.Unit,
			Quantity:    line.Quantity,
			Rate:        line.Rate,
			Amount:      line.Amount,
		})
	}
	return resp
}
