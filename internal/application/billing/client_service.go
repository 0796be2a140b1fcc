package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/billing"
)

// DefaultSearchLimit caps autocomplete results when the caller does not.
const DefaultSearchLimit = 10

// ClientService serves the client lookups behind form autofill and export
type ClientService struct {
	clients billing.ClientRepository
	limit   int
}

// NewClientService creates a new ClientService
func NewClientService(clients billing.ClientRepository, searchLimit int) *ClientService {
	if searchLimit <= 0 {
		searchLimit = DefaultSearchLimit
	}
	return &ClientService{clients: clients, limit: searchLimit}
}

// Get returns one client's attributes for invoice form autofill
func (s *ClientService) Get(ctx context.Context, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToClientResponse(client)
	return &resp, nil
}

// Search returns clients whose name contains the query, case-insensitively
func (s *ClientService) Search(ctx context.Context, query string, limit int) ([]ClientResponse, error) {
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}
	clients, err := s.clients.SearchByName(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	responses := make([]ClientResponse, len(clients))
	for i := range clients {
		responses[i] = ToClientResponse(&clients[i])
	}
	return responses, nil
}

// ListAll returns the full client roster for export
func (s *ClientService) ListAll(ctx context.Context) ([]ClientResponse, error) {
	clients, err := s.clients.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]ClientResponse, len(clients))
	for i := range clients {
		responses[i] = ToClientResponse(&clients[i])
	}
	return responses, nil
}
