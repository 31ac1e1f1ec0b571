package service

import (
	"context"
	"errors"

	"iuran-rt-backend/internal/domain"
	"iuran-rt-backend/internal/logger"
	"iuran-rt-backend/internal/repository"

	"github.com/google/uuid"
)

type invoiceService struct {
	repos repository.Repositories
	tx    repository.Transactor
}

func NewInvoiceService(repos repository.Repositories, tx repository.Transactor) InvoiceService {
	return &invoiceService{repos: repos, tx: tx}
}

// GenerateMonthly bills every active resident that has no invoice for period yet.
// The whole run is one transaction holding the period's advisory lock, so either every
// invoice of the run is written or none is.
func (s *invoiceService) GenerateMonthly(ctx context.Context, period domain.Period) (*domain.GenerationReport, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	report := &domain.GenerationReport{RunID: uuid.New(), Period: period}
	log := logger.WithJob("GenerateMonthly", report.RunID.String())
	log.Info("Starting invoice generation", "period", period.String())

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Invoices.LockPeriod(ctx, period); err != nil {
			return domain.NewPersistenceError("failed to lock period", err)
		}

		dueTypes, err := repos.DueTypes.ListActive(ctx)
		if err != nil {
			return domain.NewPersistenceError("failed to list active due types", err)
		}
		report.DueTypeCount = len(dueTypes)
		report.StandardTotal = domain.StandardTotal(dueTypes)
		if len(dueTypes) == 0 {
			log.Warn("No active due types, invoices will be zero-amount", "period", period.String())
		}

		active, err := repos.Residents.CountActive(ctx)
		if err != nil {
			return domain.NewPersistenceError("failed to count active residents", err)
		}

		eligible, err := repos.Residents.ListActiveWithoutInvoice(ctx, period)
		if err != nil {
			return domain.NewPersistenceError("failed to list residents to invoice", err)
		}
		report.Skipped = active - len(eligible)

		for _, res := range eligible {
			inv := domain.NewInvoice(res.ID, period, dueTypes)
			if err := repos.Invoices.Create(ctx, inv); err != nil {
				if errors.Is(err, domain.ErrDuplicateInvoice) {
					log.Warn("Resident already invoiced, skipping", "residentID", res.ID, "period", period.String())
					report.Skipped++
					continue
				}
				return domain.NewPersistenceError("failed to create invoice", err)
			}
			report.InvoicesCreated++
		}
		return nil
	})
	if err != nil {
		log.Error("Invoice generation failed, nothing was written", "period", period.String(), "error", err)
		return nil, err
	}

	log.Info("Invoice generation finished",
		"period", period.String(),
		"created", report.InvoicesCreated,
		"skipped", report.Skipped,
		"standardTotal", report.StandardTotal,
		"dueTypes", report.DueTypeCount)
	return report, nil
}

// Get returns the invoice with its line items.
func (s *invoiceService) Get(ctx context.Context, id int32) (*domain.InvoiceView, error) {
	inv, err := s.repos.Invoices.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load invoice", err)
	}
	items, err := s.repos.Invoices.ListLineItems(ctx, id)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load invoice line items", err)
	}
	inv.LineItems = items
	return inv, nil
}

func (s *invoiceService) ListByPeriod(ctx context.Context, period domain.Period) ([]domain.InvoiceView, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	invoices, err := s.repos.Invoices.ListByPeriod(ctx, period)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list invoices", err)
	}
	return invoices, nil
}

func (s *invoiceService) ListByResident(ctx context.Context, residentID int32, status *domain.InvoiceStatus) ([]domain.InvoiceView, error) {
	if status != nil && !status.IsValid() {
		return nil, domain.NewValidationError("invalid invoice status")
	}
	invoices, err := s.repos.Invoices.ListByResident(ctx, residentID, status)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list invoices", err)
	}
	return invoices, nil
}

func (s *invoiceService) ListOutstanding(ctx context.Context) ([]domain.InvoiceView, error) {
	invoices, err := s.repos.Invoices.ListOutstanding(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list outstanding invoices", err)
	}
	return invoices, nil
}
