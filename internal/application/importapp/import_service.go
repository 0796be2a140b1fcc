// Package importapp merges uploaded client and catalog rosters into the
// ledger's master tables.
package importapp

import (
	"context"

	"github.com/invoicing/backend/internal/domain/billing"
	"go.uber.org/zap"
)

// MergeResult summarizes one bulk merge: rows offered, rows inserted, rows
// skipped as duplicates or empty keys.
type MergeResult struct {
	TotalRows     int `json:"total_rows"`
	InsertedCount int `json:"inserted_count"`
	SkippedRows   int `json:"skipped_rows"`
}

// ImportService implements append-only roster merges: existing keys are
// never updated, duplicate keys inside one batch collapse to the first
// occurrence, and the surviving rows commit in a single transaction.
type ImportService struct {
	clients billing.ClientRepository
	items   billing.ItemRepository
	logger  *zap.Logger
}

// NewImportService creates a new ImportService
func NewImportService(clients billing.ClientRepository, items billing.ItemRepository, logger *zap.Logger) *ImportService {
	return &ImportService{clients: clients, items: items, logger: logger}
}

// MergeClients inserts the client rows whose folded name is not yet known,
// all in one transaction.
func (s *ImportService) MergeClients(ctx context.Context, rows []ClientRow) (*MergeResult, error) {
	existing, err := s.clients.ListNames(ctx)
	if err != nil {
		return nil, err
	}
	seen := foldedSet(existing)

	result := &MergeResult{TotalRows: len(rows)}
	batch := make([]*billing.Client, 0, len(rows))
	for _, row := range rows {
		key := billing.FoldKey(row.Name)
		if key == "" {
			result.SkippedRows++
			continue
		}
		if _, dup := seen[key]; dup {
			result.SkippedRows++
			continue
		}
		client, err := billing.NewClient(row.Name)
		if err != nil {
			result.SkippedRows++
			continue
		}
		client.Address = row.Address
		client.Mobile = row.Mobile
		client.Email = row.Email
		client.AltMobile = row.AltMobile

		seen[key] = struct{}{}
		batch = append(batch, client)
	}

	if err := s.clients.InsertBatch(ctx, batch); err != nil {
		s.logger.Error("client import failed, batch rolled back",
			zap.Int("rows", len(batch)), zap.Error(err))
		return nil, err
	}

	result.InsertedCount = len(batch)
	s.logger.Info("client import committed",
		zap.Int("total", result.TotalRows),
		zap.Int("inserted", result.InsertedCount),
		zap.Int("skipped", result.SkippedRows))
	return result, nil
}

// MergeItems inserts the catalog rows whose folded description is not yet
// known, all in one transaction.
func (s *ImportService) MergeItems(ctx context.Context, rows []ItemRow) (*MergeResult, error) {
	existing, err := s.items.ListDescriptions(ctx)
	if err != nil {
		return nil, err
	}
	seen := foldedSet(existing)

	result := &MergeResult{TotalRows: len(rows)}
	batch := make([]*billing.Item, 0, len(rows))
	for _, row := range rows {
		key := billing.FoldKey(row.Description)
		if key == "" {
			result.SkippedRows++
			continue
		}
		if _, dup := seen[key]; dup {
			result.SkippedRows++
			continue
		}
		item, err := billing.NewItem(row.Description, row.HSNCode, row.Unit, row.LastRate)
		if err != nil {
			result.SkippedRows++
			continue
		}

		seen[key] = struct{}{}
		batch = append(batch, item)
	}

	if err := s.items.InsertBatch(ctx, batch); err != nil {
		s.logger.Error("item import failed, batch rolled back",
			zap.Int("rows", len(batch)), zap.Error(err))
		return nil, err
	}

	result.InsertedCount = len(batch)
	s.logger.Info("item import committed",
		zap.Int("total", result.TotalRows),
		zap.Int("inserted", result.InsertedCount),
		zap.Int("skipped", result.SkippedRows))
	return result, nil
}

func foldedSet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if folded := billing.FoldKey(key); folded != "" {
			set[folded] = struct{}{}
		}
	}
	return set
}
