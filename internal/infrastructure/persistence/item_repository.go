package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/billing"
	"github.com/invoicing/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormItemRepository implements ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID finds a catalog item by its ID
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Item, error) {
	var item billing.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByKey finds an item by natural key, case-insensitively on the
// trimmed description
func (r *GormItemRepository) FindByKey(ctx context.Context, description string) (*billing.Item, error) {
	return findItemByKey(r.db.WithContext(ctx), description)
}

func findItemByKey(db *gorm.DB, description string) (*billing.Item, error) {
	var item billing.Item
	if err := db.
		Where("LOWER(description) = LOWER(?)", strings.TrimSpace(description)).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// SearchByDescription returns items whose description contains the
// substring, case-insensitively, capped at limit
func (r *GormItemRepository) SearchByDescription(ctx context.Context, substring string, limit int) ([]billing.Item, error) {
	var items []billing.Item
	pattern := "%" + substring + "%"
	if err := r.db.WithContext(ctx).
		Where("LOWER(description) LIKE LOWER(?)", pattern).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListAll returns every catalog item ordered by description
func (r *GormItemRepository) ListAll(ctx context.Context) ([]billing.Item, error) {
	var items []billing.Item
	if err := r.db.WithContext(ctx).
		Order("description ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListDescriptions returns every stored description
func (r *GormItemRepository) ListDescriptions(ctx context.Context) ([]string, error) {
	var descriptions []string
	if err := r.db.WithContext(ctx).
		Model(&billing.Item{}).
		Pluck("description", &descriptions).Error; err != nil {
		return nil, err
	}
	return descriptions, nil
}

// InsertBatch persists the given new items in one transaction
func (r *GormItemRepository) InsertBatch(ctx context.Context, items []*billing.Item) error {
	if len(items) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(items).Error
	})
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrUniquenessConflict
		}
		return err
	}
	return nil
}

// Ensure GormItemRepository implements ItemRepository
var _ billing.ItemRepository = (*GormItemRepository)(nil)
