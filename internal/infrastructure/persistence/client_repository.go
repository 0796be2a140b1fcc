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

// GormClientRepository implements ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByID finds a client by its ID
func (r *GormClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Client, error) {
	var client billing.Client
	if err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// FindByKey finds a client by natural key, case-insensitively on the
// trimmed name
func (r *GormClientRepository) FindByKey(ctx context.Context, name string) (*billing.Client, error) {
	return findClientByKey(r.db.WithContext(ctx), name)
}

// findClientByKey is the lookup shared with the transactional write path,
// which runs it against an open transaction handle.
func findClientByKey(db *gorm.DB, name string) (*billing.Client, error) {
	var client billing.Client
	if err := db.
		Where("LOWER(name) = LOWER(?)", strings.TrimSpace(name)).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// SearchByName returns clients whose name contains the substring,
// case-insensitively, capped at limit
func (r *GormClientRepository) SearchByName(ctx context.Context, substring string, limit int) ([]billing.Client, error) {
	var clients []billing.Client
	pattern := "%" + substring + "%"
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE LOWER(?)", pattern).
		Limit(limit).
		Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// ListAll returns every client ordered by name
func (r *GormClientRepository) ListAll(ctx context.Context) ([]billing.Client, error) {
	var clients []billing.Client
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// ListNames returns every stored client name
func (r *GormClientRepository) ListNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := r.db.WithContext(ctx).
		Model(&billing.Client{}).
		Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// InsertBatch persists the given new clients in one transaction
func (r *GormClientRepository) InsertBatch(ctx context.Context, clients []*billing.Client) error {
	if len(clients) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(clients).Error
	})
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrUniquenessConflict
		}
		return err
	}
	return nil
}

// Ensure GormClientRepository implements ClientRepository
var _ billing.ClientRepository = (*GormClientRepository)(nil)
