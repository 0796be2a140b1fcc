package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/billing"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockInvoiceRepository is a mock implementation of InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, sub billing.InvoiceSubmission) (*billing.Invoice, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) NextNumber(ctx context.Context, at time.Time) (string, error) {
	args := m.Called(ctx, at)
	return args.String(0), args.Error(1)
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func validRequest() CreateInvoiceRequest {
	return CreateInvoiceRequest{
		Client:   ClientInput{Name: "Acme Corp"},
		Date:     "2024-03-15",
		Subtotal: dec("100"),
		Total:    dec("100"),
		Items: []InvoiceLineInput{
			{Description: "Steel Pipe", Quantity: dec("2"), Rate: dec("50"), Amount: dec("100")},
		},
	}
}

func storedInvoice(number string) *billing.Invoice {
	client, _ := billing.NewClient("Acme Corp")
	inv, _ := billing.NewInvoice(number,
		time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		client.ID, decimal.NewFromInt(100), decimal.Zero, decimal.NewFromInt(100))
	inv.Client = client
	return inv
}

func TestInvoiceService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("commits a valid submission", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		svc := NewInvoiceService(repo, zap.NewNop(), 3)

		inv := storedInvoice("24MR-001")
		repo.On("Create", ctx, mock.AnythingOfType("billing.InvoiceSubmission")).
			Return(inv, nil).Once()

		resp, err := svc.Create(ctx, validRequest())

		require.NoError(t, err)
		assert.Equal(t, "24MR-001", resp.InvoiceNumber)
		assert.Equal(t, inv.ID, resp.InvoiceID)
		repo.AssertExpectations(t)
	})

	t.Run("retries once after a uniqueness conflict", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		svc := NewInvoiceService(repo, zap.NewNop(), 3)

		repo.On("Create", ctx, mock.AnythingOfType("billing.InvoiceSubmission")).
			Return(nil, shared.ErrUniquenessConflict).Once()
		repo.On("Create", ctx, mock.AnythingOfType("billing.InvoiceSubmission")).
			Return(storedInvoice("24MR-002"), nil).Once()

		resp, err := svc.Create(ctx, validRequest())

		require.NoError(t, err)
		assert.Equal(t, "24MR-002", resp.InvoiceNumber)
		repo.AssertExpectations(t)
	})

	t.Run("gives up after the retry bound", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		svc := NewInvoiceService(repo, zap.NewNop(), 3)

		repo.On("Create", ctx, mock.AnythingOfType("billing.InvoiceSubmission")).
			Return(nil, shared.ErrUniquenessConflict).Times(3)

		_, err := svc.Create(ctx, validRequest())

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrUniquenessConflict)
		repo.AssertExpectations(t)
	})

	t.Run("does not retry other failures", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		svc := NewInvoiceService(repo, zap.NewNop(), 3)

		repo.On("Create", ctx, mock.AnythingOfType("billing.InvoiceSubmission")).
			Return(nil, assert.AnError).Once()

		_, err := svc.Create(ctx, validRequest())

		require.Error(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("rejects a blank client name without touching the repository", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		svc := NewInvoiceService(repo, zap.NewNop(), 3)

		req := validRequest()
		req.Client.Name = "   "

		_, err := svc.Create(ctx, req)

		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		svc := NewInvoiceService(repo, zap.NewNop(), 3)

		req := validRequest()
		req.Date = "15-03-2024"

		_, err := svc.Create(ctx, req)

		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("rejects a non-blank line missing its numerics", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		svc := NewInvoiceService(repo, zap.NewNop(), 3)

		req := validRequest()
		req.Items = append(req.Items, InvoiceLineInput{Description: "No Numbers"})

		_, err := svc.Create(ctx, req)

		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("passes blank lines through for downstream skipping", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		svc := NewInvoiceService(repo, zap.NewNop(), 3)

		var captured billing.InvoiceSubmission
		repo.On("Create", ctx, mock.AnythingOfType("billing.InvoiceSubmission")).
			Run(func(args mock.Arguments) {
				captured = args.Get(1).(billing.InvoiceSubmission)
			}).
			Return(storedInvoice("24MR-001"), nil).Once()

		req := validRequest()
		req.Items = append(req.Items, InvoiceLineInput{Description: "  "})

		_, err := svc.Create(ctx, req)

		require.NoError(t, err)
		require.Len(t, captured.Lines, 2)
		assert.True(t, captured.Lines[1].IsBlank())
	})

	t.Run("missing transport defaults to zero", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		svc := NewInvoiceService(repo, zap.NewNop(), 3)

		var captured billing.InvoiceSubmission
		repo.On("Create", ctx, mock.AnythingOfType("billing.InvoiceSubmission")).
			Run(func(args mock.Arguments) {
				captured = args.Get(1).(billing.InvoiceSubmission)
			}).
			Return(storedInvoice("24MR-001"), nil).Once()

		_, err := svc.Create(ctx, validRequest())

		require.NoError(t, err)
		assert.True(t, captured.Transport.IsZero())
	})
}

func TestInvoiceService_NextNumber(t *testing.T) {
	repo := new(MockInvoiceRepository)
	svc := NewInvoiceService(repo, zap.NewNop(), 3)
	svc.now = func() time.Time {
		return time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	}

	repo.On("NextNumber", mock.Anything, svc.now()).Return("24MR-004", nil).Once()

	resp, err := svc.NextNumber(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "24MR-004", resp.InvoiceNumber)
	repo.AssertExpectations(t)
}

func TestInvoiceService_Get(t *testing.T) {
	t.Run("returns the converted graph", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		svc := NewInvoiceService(repo, zap.NewNop(), 3)

		inv := storedInvoice("24MR-001")
		_, err := inv.AddLine("Steel Pipe", "7306", "Mtr",
			decimal.NewFromInt(2), decimal.NewFromInt(50), decimal.NewFromInt(100))
		require.NoError(t, err)

		repo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil).Once()

		resp, err := svc.Get(context.Background(), inv.ID)

		require.NoError(t, err)
		assert.Equal(t, "24MR-001", resp.InvoiceNumber)
		assert.Equal(t, "2024-03-15", resp.Date)
		assert.Equal(t, "Acme Corp", resp.Client.Name)
		assert.Equal(t, "Indian Rupees One Hundred Only", resp.TotalInWords)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "Steel Pipe", resp.Items[0].Description)
	})

	t.Run("propagates not found", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		svc := NewInvoiceService(repo, zap.NewNop(), 3)

		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound).Once()

		_, err := svc.Get(context.Background(), id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
