package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InvoiceRepository defines the transactional ledger write path plus the
// read-only views the outer layers consume.
type InvoiceRepository interface {
	// Create commits one submission as a single atomic unit: client
	// reconciliation, invoice-number allocation, catalog item
	// reconciliation and the frozen invoice lines either all persist or
	// none do. A storage-layer uniqueness rejection (duplicate invoice
	// number or natural key lost to a concurrent writer) surfaces as
	// shared.ErrUniquenessConflict after rollback.
	Create(ctx context.Context, sub InvoiceSubmission) (*Invoice, error)

	// FindByID returns the full invoice graph (client and lines) for
	// print views.
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// NextNumber previews the number the next submission of the month
	// containing `at` would receive. Read-only; nothing is reserved.
	NextNumber(ctx context.Context, at time.Time) (string, error)
}
