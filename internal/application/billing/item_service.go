package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/billing"
)

// ItemService serves the catalog lookups behind form autofill and export
type ItemService struct {
	items billing.ItemRepository
	limit int
}

// NewItemService creates a new ItemService
func NewItemService(items billing.ItemRepository, searchLimit int) *ItemService {
	if searchLimit <= 0 {
		searchLimit = DefaultSearchLimit
	}
	return &ItemService{items: items, limit: searchLimit}
}

// Get returns one catalog item's attributes for invoice line autofill
func (s *ItemService) Get(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// Search returns items whose description contains the query,
// case-insensitively, so the invoice form can autofill hsn, unit and the
// last used rate.
func (s *ItemService) Search(ctx context.Context, query string, limit int) ([]ItemResponse, error) {
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}
	items, err := s.items.SearchByDescription(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	responses := make([]ItemResponse, len(items))
	for i := range items {
		responses[i] = ToItemResponse(&items[i])
	}
	return responses, nil
}

// ListAll returns the full catalog for export
func (s *ItemService) ListAll(ctx context.Context) ([]ItemResponse, error) {
	items, err := s.items.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]ItemResponse, len(items))
	for i := range items {
		responses[i] = ToItemResponse(&items[i])
	}
	return responses, nil
}
