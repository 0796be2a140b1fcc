package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/billing"
	"github.com/invoicing/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
	// now supplies the clock used for invoice-number allocation; tests
	// override it to pin the month.
	now func() time.Time
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db, now: time.Now}
}

// Create commits one submission as a single atomic unit. Client
// reconciliation, invoice-number allocation, catalog reconciliation and
// the frozen lines all persist together or not at all.
func (r *GormInvoiceRepository) Create(ctx context.Context, sub billing.InvoiceSubmission) (*billing.Invoice, error) {
	var created *billing.Invoice

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		client, err := reconcileClient(tx, sub.Client)
		if err != nil {
			return err
		}

		number, err := allocateNumber(tx, r.now())
		if err != nil {
			return err
		}

		inv, err := billing.NewInvoice(number, sub.Date, client.ID, sub.Subtotal, sub.Transport, sub.Total)
		if err != nil {
			return err
		}
		inv.Client = client

		for _, line := range sub.Lines {
			if line.IsBlank() {
				continue
			}
			if err := reconcileItem(tx, line); err != nil {
				return err
			}
			if _, err := inv.AddLine(line.Description, line.HSNCode, line.Unit,
				line.Quantity, line.Rate, line.Amount); err != nil {
				return err
			}
		}

		if err := tx.Omit("Items", "Client").Create(inv).Error; err != nil {
			return err
		}
		if len(inv.Items) > 0 {
			if err := tx.Create(&inv.Items).Error; err != nil {
				return err
			}
		}

		created = inv
		return nil
	})
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, shared.ErrUniquenessConflict
		}
		return nil, err
	}
	return created, nil
}

// reconcileClient finds the client by natural key inside the transaction,
// creating it on first reference and otherwise applying the per-field
// last-write-wins update.
func reconcileClient(tx *gorm.DB, cand billing.ClientCandidate) (*billing.Client, error) {
	client, err := findClientByKey(tx, cand.Name)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		client, err = billing.NewClientFromCandidate(cand)
		if err != nil {
			return nil, err
		}
		if err := tx.Create(client).Error; err != nil {
			return nil, err
		}
		return client, nil
	}

	client.Apply(cand)
	if err := tx.Save(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

// reconcileItem refreshes the catalog entry behind one submitted line:
// last_rate always follows the line, HSN code and unit register only once.
func reconcileItem(tx *gorm.DB, line billing.LineCandidate) error {
	item, err := findItemByKey(tx, line.Description)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		item, err = billing.NewItem(line.Description, line.HSNCode, line.Unit, line.Rate)
		if err != nil {
			return err
		}
		return tx.Create(item).Error
	}

	item.FillMissing(line.HSNCode, line.Unit)
	item.RefreshRate(line.Rate)
	return tx.Save(item).Error
}

// allocateNumber computes the next number for the month containing `at`
// from the numbers already stored under its prefix.
func allocateNumber(tx *gorm.DB, at time.Time) (string, error) {
	prefix := billing.NumberPrefix(at)
	var numbers []string
	if err := tx.Model(&billing.Invoice{}).
		Where("invoice_number LIKE ?", prefix+"%").
		Pluck("invoice_number", &numbers).Error; err != nil {
		return "", err
	}
	return billing.NextNumber(prefix, numbers), nil
}

// FindByID returns the full invoice graph: client and lines in submission
// order
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var inv billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&inv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// NextNumber previews the number the next submission would receive.
// Nothing is reserved; a concurrent writer may still claim it first.
func (r *GormInvoiceRepository) NextNumber(ctx context.Context, at time.Time) (string, error) {
	return allocateNumber(r.db.WithContext(ctx), at)
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
