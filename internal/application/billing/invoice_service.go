package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/billing"
	"github.com/invoicing/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InvoiceService coordinates invoice submissions against the transactional
// ledger write path.
type InvoiceService struct {
	invoices billing.InvoiceRepository
	logger   *zap.Logger
	retries  int
	now      func() time.Time
}

// NewInvoiceService creates a new InvoiceService. retries bounds how often a
// submission is re-run with a fresh invoice number after a uniqueness
// conflict; values below 1 are raised to 1.
func NewInvoiceService(invoices billing.InvoiceRepository, logger *zap.Logger, retries int) *InvoiceService {
	if retries < 1 {
		retries = 1
	}
	return &InvoiceService{
		invoices: invoices,
		logger:   logger,
		retries:  retries,
		now:      time.Now,
	}
}

// Create validates one submission and commits it atomically. A uniqueness
// conflict (a concurrent writer claimed the allocated number or a natural
// key) rolls the transaction back and the submission is retried with a fresh
// allocation, up to the configured bound.
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceCreatedResponse, error) {
	sub, err := req.ToSubmission()
	if err != nil {
		return nil, err
	}

	var inv *billing.Invoice
	for attempt := 1; ; attempt++ {
		inv, err = s.invoices.Create(ctx, sub)
		if err == nil {
			break
		}
		if !errors.Is(err, shared.ErrUniquenessConflict) || attempt >= s.retries {
			if errors.Is(err, shared.ErrUniquenessConflict) {
				s.logger.Error("invoice submission abandoned after repeated conflicts",
					zap.String("client", sub.Client.Key()),
					zap.Int("attempts", attempt))
			} else if !shared.IsValidation(err) {
				s.logger.Error("invoice submission failed",
					zap.String("client", sub.Client.Key()),
					zap.Error(err))
			}
			return nil, err
		}
		s.logger.Warn("invoice submission hit a write conflict, retrying",
			zap.String("client", sub.Client.Key()),
			zap.Int("attempt", attempt))
	}

	s.logger.Info("invoice created",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("client", inv.Client.Name))

	return &InvoiceCreatedResponse{
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
	}, nil
}

// Get returns the full invoice graph for print views
func (s *InvoiceService) Get(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// NextNumber previews the number the next submission would receive. Nothing
// is reserved; the committed number may differ under concurrency.
func (s *InvoiceService) NextNumber(ctx context.Context) (*NextNumberResponse, error) {
	number, err := s.invoices.NextNumber(ctx, s.now())
	if err != nil {
		return nil, err
	}
	return &NextNumberResponse{InvoiceNumber: number}, nil
}
