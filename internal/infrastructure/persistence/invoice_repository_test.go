package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/billing"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(&billing.Client{}, &billing.Item{}, &billing.Invoice{}, &billing.InvoiceItem{})
	require.NoError(t, err)

	return db
}

func fixedClock(year int, month time.Month) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, 15, 10, 0, 0, 0, time.UTC)
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr(s string) *string {
	return &s
}

func submission(clientName string, lines ...billing.LineCandidate) billing.InvoiceSubmission {
	return billing.InvoiceSubmission{
		Client:    billing.ClientCandidate{Name: clientName},
		Date:      time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		Subtotal:  d("100"),
		Transport: d("0"),
		Total:     d("100"),
		Lines:     lines,
	}
}

func TestGormInvoiceRepository_NumberAllocation(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormInvoiceRepository(db)
	repo.now = fixedClock(2024, time.March)
	ctx := context.Background()

	t.Run("first invoice of the month gets sequence 001", func(t *testing.T) {
		inv, err := repo.Create(ctx, submission("Acme Corp"))
		require.NoError(t, err)
		assert.Equal(t, "24MR-001", inv.InvoiceNumber)
	})

	t.Run("second invoice increments the sequence", func(t *testing.T) {
		inv, err := repo.Create(ctx, submission("Acme Corp"))
		require.NoError(t, err)
		assert.Equal(t, "24MR-002", inv.InvoiceNumber)
	})

	t.Run("new month restarts at 001", func(t *testing.T) {
		repo.now = fixedClock(2024, time.April)
		inv, err := repo.Create(ctx, submission("Acme Corp"))
		require.NoError(t, err)
		assert.Equal(t, "24AP-001", inv.InvoiceNumber)
	})

	t.Run("sequence widens past 999 and compares numerically", func(t *testing.T) {
		repo.now = fixedClock(2024, time.May)

		seed, err := repo.Create(ctx, submission("Acme Corp"))
		require.NoError(t, err)
		require.NoError(t, db.Model(&billing.Invoice{}).
			Where("id = ?", seed.ID).
			Update("invoice_number", "24MY-999").Error)

		inv, err := repo.Create(ctx, submission("Acme Corp"))
		require.NoError(t, err)
		assert.Equal(t, "24MY-1000", inv.InvoiceNumber)

		// "24MY-1000" sorts before "24MY-999" lexically; the allocator
		// must still move forward, not reissue 999+1 from a string max.
		inv, err = repo.Create(ctx, submission("Acme Corp"))
		require.NoError(t, err)
		assert.Equal(t, "24MY-1001", inv.InvoiceNumber)
	})
}

func TestGormInvoiceRepository_NextNumber(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormInvoiceRepository(db)
	repo.now = fixedClock(2024, time.March)
	ctx := context.Background()

	t.Run("previews 001 on an empty month", func(t *testing.T) {
		number, err := repo.NextNumber(ctx, repo.now())
		require.NoError(t, err)
		assert.Equal(t, "24MR-001", number)
	})

	t.Run("preview reserves nothing", func(t *testing.T) {
		first, err := repo.NextNumber(ctx, repo.now())
		require.NoError(t, err)
		second, err := repo.NextNumber(ctx, repo.now())
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("preview follows committed invoices", func(t *testing.T) {
		_, err := repo.Create(ctx, submission("Acme Corp"))
		require.NoError(t, err)

		number, err := repo.NextNumber(ctx, repo.now())
		require.NoError(t, err)
		assert.Equal(t, "24MR-002", number)
	})
}

func TestGormInvoiceRepository_ClientReconciliation(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormInvoiceRepository(db)
	repo.now = fixedClock(2024, time.March)
	clients := NewGormClientRepository(db)
	ctx := context.Background()

	t.Run("creates the client on first reference", func(t *testing.T) {
		sub := submission("Acme Corp")
		sub.Client.Address = ptr("12 Main St")
		sub.Client.Mobile = ptr("111")

		inv, err := repo.Create(ctx, sub)
		require.NoError(t, err)
		require.NotNil(t, inv.Client)
		assert.Equal(t, "Acme Corp", inv.Client.Name)
		assert.Equal(t, "12 Main St", inv.Client.Address)
	})

	t.Run("matches case-insensitively and keeps stored casing", func(t *testing.T) {
		sub := submission("acme corp")
		sub.Client.Mobile = ptr("222")

		inv, err := repo.Create(ctx, sub)
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", inv.Client.Name)
		assert.Equal(t, "222", inv.Client.Mobile)
		// the address was not supplied this time and must survive
		assert.Equal(t, "12 Main St", inv.Client.Address)

		all, err := clients.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("trims surrounding whitespace before matching", func(t *testing.T) {
		_, err := repo.Create(ctx, submission("  Acme Corp  "))
		require.NoError(t, err)

		all, err := clients.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("supplied empty string overwrites the stored value", func(t *testing.T) {
		sub := submission("Acme Corp")
		sub.Client.Address = ptr("")

		inv, err := repo.Create(ctx, sub)
		require.NoError(t, err)
		assert.Equal(t, "", inv.Client.Address)
	})
}

func TestGormInvoiceRepository_ItemReconciliation(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormInvoiceRepository(db)
	repo.now = fixedClock(2024, time.March)
	items := NewGormItemRepository(db)
	ctx := context.Background()

	line := func(desc, hsn, unit, qty, rate, amount string) billing.LineCandidate {
		return billing.LineCandidate{
			Description: desc,
			HSNCode:     hsn,
			Unit:        unit,
			Quantity:    d(qty),
			Rate:        d(rate),
			Amount:      d(amount),
		}
	}

	t.Run("registers a new catalog item from a line", func(t *testing.T) {
		_, err := repo.Create(ctx, submission("Acme Corp",
			line("Steel Pipe", "7306", "Mtr", "10", "250", "2500")))
		require.NoError(t, err)

		item, err := items.FindByKey(ctx, "Steel Pipe")
		require.NoError(t, err)
		assert.Equal(t, "7306", item.HSNCode)
		assert.Equal(t, "Mtr", item.Unit)
		assert.True(t, item.LastRate.Equal(d("250")))
	})

	t.Run("refreshes last rate even when it drops", func(t *testing.T) {
		_, err := repo.Create(ctx, submission("Acme Corp",
			line("Steel Pipe", "", "", "5", "240", "1200")))
		require.NoError(t, err)

		item, err := items.FindByKey(ctx, "steel pipe")
		require.NoError(t, err)
		assert.True(t, item.LastRate.Equal(d("240")))
		// registered hsn and unit are kept once set
		assert.Equal(t, "7306", item.HSNCode)
		assert.Equal(t, "Mtr", item.Unit)
	})

	t.Run("blank descriptions are skipped without touching the catalog", func(t *testing.T) {
		inv, err := repo.Create(ctx, submission("Acme Corp",
			line("   ", "", "", "1", "10", "10"),
			line("Steel Pipe", "", "", "2", "240", "480")))
		require.NoError(t, err)
		assert.Len(t, inv.Items, 1)

		all, err := items.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("invoice lines stay frozen when the catalog moves on", func(t *testing.T) {
		inv, err := repo.Create(ctx, submission("Acme Corp",
			line("Steel Pipe", "", "", "1", "300", "300")))
		require.NoError(t, err)

		_, err = repo.Create(ctx, submission("Acme Corp",
			line("Steel Pipe", "", "", "1", "999", "999")))
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Len(t, found.Items, 1)
		assert.True(t, found.Items[0].Rate.Equal(d("300")))
	})

	t.Run("blank unit on a new item defaults to Nos", func(t *testing.T) {
		_, err := repo.Create(ctx, submission("Acme Corp",
			line("Gasket", "", "", "4", "15", "60")))
		require.NoError(t, err)

		item, err := items.FindByKey(ctx, "Gasket")
		require.NoError(t, err)
		assert.Equal(t, billing.DefaultUnit, item.Unit)
	})
}

func TestGormInvoiceRepository_FindByID(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormInvoiceRepository(db)
	repo.now = fixedClock(2024, time.March)
	ctx := context.Background()

	t.Run("returns the full graph with lines in submission order", func(t *testing.T) {
		inv, err := repo.Create(ctx, submission("Acme Corp",
			billing.LineCandidate{Description: "First", Quantity: d("1"), Rate: d("10"), Amount: d("10")},
			billing.LineCandidate{Description: "Second", Quantity: d("2"), Rate: d("20"), Amount: d("40")},
			billing.LineCandidate{Description: "Third", Quantity: d("3"), Rate: d("30"), Amount: d("90")},
		))
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, inv.ID)
		require.NoError(t, err)
		require.NotNil(t, found.Client)
		assert.Equal(t, "Acme Corp", found.Client.Name)
		require.Len(t, found.Items, 3)
		assert.Equal(t, "First", found.Items[0].Description)
		assert.Equal(t, "Second", found.Items[1].Description)
		assert.Equal(t, "Third", found.Items[2].Description)
	})

	t.Run("caller totals are stored untouched", func(t *testing.T) {
		sub := submission("Acme Corp")
		sub.Subtotal = d("100")
		sub.Transport = d("50")
		sub.Total = d("9999") // deliberately inconsistent

		inv, err := repo.Create(ctx, sub)
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, inv.ID)
		require.NoError(t, err)
		assert.True(t, found.Total.Equal(d("9999")))
	})

	t.Run("unknown id yields not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

// newMockInvoiceRepo wires the repository against sqlmock so storage-level
// failures can be injected mid-transaction.
func newMockInvoiceRepo(t *testing.T) (*GormInvoiceRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	repo := NewGormInvoiceRepository(gormDB)
	repo.now = fixedClock(2024, time.March)
	return repo, mock
}

func TestGormInvoiceRepository_ConflictRollsBack(t *testing.T) {
	t.Run("unique violation maps to the conflict error and rolls back", func(t *testing.T) {
		repo, mock := newMockInvoiceRepo(t)

		existing := uuid.New()
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE LOWER\(name\) = LOWER\(\$1\)`).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "created_at", "updated_at", "name", "address", "mobile", "email", "alt_mobile",
			}).AddRow(existing, now, now, "Acme Corp", "", "", "", ""))
		// a concurrent writer claimed the case-insensitive name slot
		// between our lookup and the write
		mock.ExpectExec(`UPDATE "clients" SET`).
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		_, err := repo.Create(context.Background(), submission("Acme Corp"))

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrUniquenessConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-uniqueness failures pass through and roll back", func(t *testing.T) {
		repo, mock := newMockInvoiceRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE LOWER\(name\) = LOWER\(\$1\)`).
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		_, err := repo.Create(context.Background(), submission("Acme Corp"))

		require.Error(t, err)
		assert.NotErrorIs(t, err, shared.ErrUniquenessConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(assert.AnError))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
}
