package billing

import (
	"context"

	"github.com/google/uuid"
)

// ItemRepository defines the persistence contract for catalog items
type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	// FindByKey looks an item up by natural key, case-insensitively,
	// on the trimmed description.
	FindByKey(ctx context.Context, description string) (*Item, error)
	// SearchByDescription returns items whose description contains the
	// substring, case-insensitively, capped at limit.
	SearchByDescription(ctx context.Context, substring string, limit int) ([]Item, error)
	// ListAll returns every catalog item, for export.
	ListAll(ctx context.Context) ([]Item, error)
	// ListDescriptions returns every stored description, for bulk-merge
	// key sets.
	ListDescriptions(ctx context.Context) ([]string, error)
	// InsertBatch persists the given new items in one atomic transaction.
	InsertBatch(ctx context.Context, items []*Item) error
}
