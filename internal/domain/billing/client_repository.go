package billing

import (
	"context"

	"github.com/google/uuid"
)

// ClientRepository defines the persistence contract for clients
type ClientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	// FindByKey looks a client up by natural key, case-insensitively,
	// on the trimmed name.
	FindByKey(ctx context.Context, name string) (*Client, error)
	// SearchByName returns clients whose name contains the substring,
	// case-insensitively, capped at limit, in storage-default order.
	SearchByName(ctx context.Context, substring string, limit int) ([]Client, error)
	// ListAll returns every client, for export.
	ListAll(ctx context.Context) ([]Client, error)
	// ListNames returns every stored client name, for bulk-merge key sets.
	ListNames(ctx context.Context) ([]string, error)
	// InsertBatch persists the given new clients in one atomic transaction:
	// either all rows persist or none do.
	InsertBatch(ctx context.Context, clients []*Client) error
}
