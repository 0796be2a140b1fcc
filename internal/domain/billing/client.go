package billing

import (
	"strings"

	"github.com/invoicing/backend/internal/domain/shared"
)

// Client represents a billed party. The trimmed name is its natural key,
// unique under case-insensitive comparison. Clients are created on first
// reference by an invoice submission or import row and are never deleted.
type Client struct {
	shared.BaseEntity
	// COLLATE NOCASE makes the sqlite unique index reject case variants;
	// the postgres schema covers this with a LOWER() expression index.
	Name      string `gorm:"type:varchar(200) COLLATE NOCASE;not null;uniqueIndex"`
	Address   string `gorm:"type:varchar(500)"`
	Mobile    string `gorm:"type:varchar(50)"`
	Email     string `gorm:"type:varchar(200)"`
	AltMobile string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// NewClient creates a new client with the given natural key
func NewClient(name string) (*Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Client name cannot be empty")
	}
	return &Client{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}, nil
}

// ClientCandidate carries the client attributes of one submission. Nil
// pointer fields were absent from the submission and must preserve the
// stored value; non-nil fields overwrite it (last write wins per field).
type ClientCandidate struct {
	Name      string
	Address   *string
	Mobile    *string
	Email     *string
	AltMobile *string
}

// Key returns the candidate's trimmed natural key
func (c ClientCandidate) Key() string {
	return strings.TrimSpace(c.Name)
}

// Apply overwrites each attribute the candidate explicitly supplies.
// The stored name (and its original casing) is kept.
func (c *Client) Apply(cand ClientCandidate) {
	if cand.Address != nil {
		c.Address = *cand.Address
	}
	if cand.Mobile != nil {
		c.Mobile = *cand.Mobile
	}
	if cand.Email != nil {
		c.Email = *cand.Email
	}
	if cand.AltMobile != nil {
		c.AltMobile = *cand.AltMobile
	}
	c.Touch()
}

// NewClientFromCandidate constructs a fresh client from a submission
func NewClientFromCandidate(cand ClientCandidate) (*Client, error) {
	client, err := NewClient(cand.Name)
	if err != nil {
		return nil, err
	}
	client.Apply(cand)
	return client, nil
}
