package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Invoice is the ledger aggregate root. It is created once per submission
// and immutable thereafter. Totals are caller-supplied and never recomputed
// by the core; arithmetic consistency is not validated.
type Invoice struct {
	shared.BaseEntity
	InvoiceNumber string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Date          time.Time       `gorm:"not null"`
	ClientID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Transport     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Client        *Client         `gorm:"foreignKey:ClientID"`
	Items         []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem is a frozen snapshot of a catalog item at billing time,
// copied by value so later catalog edits never alter historical invoices.
type InvoiceItem struct {
	shared.BaseEntity
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null"`
	Description string          `gorm:"type:varchar(200);not null"`
	HSNCode     string          `gorm:"column:hsn_code;type:varchar(50)"`
	Unit        string          `gorm:"type:varchar(20)"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// NewInvoice creates a new invoice shell with caller-supplied totals
func NewInvoice(invoiceNumber string, date time.Time, clientID uuid.UUID, subtotal, transport, total decimal.Decimal) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewValidationError("Invoice number cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewValidationError("Invoice requires a client")
	}
	if date.IsZero() {
		return nil, shared.NewValidationError("Invoice date is required")
	}
	return &Invoice{
		BaseEntity:    shared.NewBaseEntity(),
		InvoiceNumber: invoiceNumber,
		Date:          date,
		ClientID:      clientID,
		Subtotal:      subtotal,
		Transport:     transport,
		Total:         total,
	}, nil
}

// AddLine appends a frozen snapshot line in submission order
func (inv *Invoice) AddLine(description, hsnCode, unit string, quantity, rate, amount decimal.Decimal) (*InvoiceItem, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, shared.NewValidationError("Invoice line description cannot be empty")
	}
	if unit == "" {
		unit = DefaultUnit
	}
	line := InvoiceItem{
		BaseEntity:  shared.NewBaseEntity(),
		InvoiceID:   inv.ID,
		Position:    len(inv.Items) + 1,
		Description: description,
		HSNCode:     hsnCode,
		Unit:        unit,
		Quantity:    quantity,
		Rate:        rate,
		Amount:      amount,
	}
	inv.Items = append(inv.Items, line)
	return &inv.Items[len(inv.Items)-1], nil
}

// LineCandidate is one item row of a submission before reconciliation.
// Rows whose trimmed description is empty are silently skipped by the
// coordinator, mirroring permissive spreadsheet-style input.
type LineCandidate struct {
	Description string
	HSNCode     string
	Unit        string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	Amount      decimal.Decimal
}

// IsBlank reports whether the row carries no billable description
func (l LineCandidate) IsBlank() bool {
	return strings.TrimSpace(l.Description) == ""
}

// InvoiceSubmission is one validated invoice payload handed to the
// transactional write path: client attributes, caller totals, item lines.
type InvoiceSubmission struct {
	Client    ClientCandidate
	Date      time.Time
	Subtotal  decimal.Decimal
	Transport decimal.Decimal
	Total     decimal.Decimal
	Lines     []LineCandidate
}
