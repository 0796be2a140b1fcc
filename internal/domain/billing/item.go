package billing

import (
	"strings"

	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultUnit is the conventional unit of measure applied when a submission
// or import row leaves the unit blank.
const DefaultUnit = "Nos"

// Item is a master catalog entry. The trimmed description is its natural
// key, unique under case-insensitive comparison. HSN code and unit are
// registered once; last_rate refreshes on every invoice line that references
// the description. Items are never deleted.
type Item struct {
	shared.BaseEntity
	// COLLATE NOCASE makes the sqlite unique index reject case variants;
	// the postgres schema covers this with a LOWER() expression index.
	Description string          `gorm:"type:varchar(200) COLLATE NOCASE;not null;uniqueIndex"`
	HSNCode     string          `gorm:"column:hsn_code;type:varchar(50)"`
	Unit        string          `gorm:"type:varchar(20)"`
	LastRate    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "items"
}

// NewItem creates a new catalog item
func NewItem(description, hsnCode, unit string, lastRate decimal.Decimal) (*Item, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, shared.NewValidationError("Item description cannot be empty")
	}
	if unit == "" {
		unit = DefaultUnit
	}
	return &Item{
		BaseEntity:  shared.NewBaseEntity(),
		Description: description,
		HSNCode:     hsnCode,
		Unit:        unit,
		LastRate:    lastRate,
	}, nil
}

// RefreshRate overwrites the most recent price unconditionally, even when
// the new rate is lower or unchanged.
func (i *Item) RefreshRate(rate decimal.Decimal) {
	i.LastRate = rate
	i.Touch()
}

// FillMissing sets HSN code and unit only when they are not registered yet.
func (i *Item) FillMissing(hsnCode, unit string) {
	if i.HSNCode == "" && hsnCode != "" {
		i.HSNCode = hsnCode
	}
	if i.Unit == "" {
		if unit == "" {
			unit = DefaultUnit
		}
		i.Unit = unit
	}
	i.Touch()
}
