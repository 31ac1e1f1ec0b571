package service

import (
	"context"

	"iuran-rt-backend/internal/domain"
	"iuran-rt-backend/internal/logger"
	"iuran-rt-backend/internal/repository"
)

type arrearsService struct {
	repos repository.Repositories
	tx    repository.Transactor
}

func NewArrearsService(repos repository.Repositories, tx repository.Transactor) ArrearsService {
	return &arrearsService{repos: repos, tx: tx}
}

func (s *arrearsService) ComputeArrears(ctx context.Context, residentID int32) (*domain.ArrearsSnapshot, error) {
	totals, err := s.repos.Residents.GetArrearsTotals(ctx, residentID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load arrears totals", err)
	}
	snapshot := domain.ComputeArrears(*totals)
	return &snapshot, nil
}

func (s *arrearsService) GetDelinquencyReport(ctx context.Context) ([]domain.ArrearsSnapshot, error) {
	totals, err := s.repos.Residents.ListActiveArrearsTotals(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load arrears totals", err)
	}
	return domain.DelinquencyReport(totals), nil
}

func (s *arrearsService) RecomputeInvoiceStatus(ctx context.Context, invoiceID int32) (domain.InvoiceStatus, error) {
	var status domain.InvoiceStatus
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		status, err = recomputeInvoiceStatus(ctx, repos, invoiceID)
		return err
	})
	return status, err
}

// GetInvoiceBreakdown lists a resident's invoices, newest first, with what was paid on each.
func (s *arrearsService) GetInvoiceBreakdown(ctx context.Context, residentID int32) ([]domain.InvoiceView, error) {
	if _, err := s.repos.Residents.GetByID(ctx, residentID); err != nil {
		return nil, domain.NewPersistenceError("failed to load resident", err)
	}
	invoices, err := s.repos.Invoices.ListByResident(ctx, residentID, nil)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list invoices", err)
	}
	return invoices, nil
}

// TakeSnapshots stores the delinquency report as it stands for period.
func (s *arrearsService) TakeSnapshots(ctx context.Context, period domain.Period) (int64, error) {
	if err := period.Validate(); err != nil {
		return 0, err
	}

	var inserted int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		totals, err := repos.Residents.ListActiveArrearsTotals(ctx)
		if err != nil {
			return domain.NewPersistenceError("failed to load arrears totals", err)
		}
		inserted, err = repos.Snapshots.SaveArrearsSnapshots(ctx, period, domain.DelinquencyReport(totals))
		if err != nil {
			return domain.NewPersistenceError("failed to save arrears snapshots", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info("Arrears snapshots taken", "period", period.String(), "inserted", inserted)
	return inserted, nil
}

// recomputeInvoiceStatus derives the invoice status from the verified payments attached to it.
// It locks the invoice row, so it must run inside a transaction.
func recomputeInvoiceStatus(ctx context.Context, repos repository.Repositories, invoiceID int32) (domain.InvoiceStatus, error) {
	inv, err := repos.Invoices.GetForUpdate(ctx, invoiceID)
	if err != nil {
		return "", domain.NewPersistenceError("failed to lock invoice", err)
	}
	paid, err := repos.Payments.SumVerifiedByInvoice(ctx, invoiceID)
	if err != nil {
		return "", domain.NewPersistenceError("failed to sum verified payments", err)
	}

	status := domain.InvoiceStatusFor(paid, inv.Total)
	if status == inv.Status {
		return status, nil
	}
	if err := repos.Invoices.UpdateStatus(ctx, invoiceID, status); err != nil {
		return "", domain.NewPersistenceError("failed to update invoice status", err)
	}
	logger.Debug("Invoice status changed", "invoiceID", invoiceID, "from", inv.Status, "to", status, "paid", paid, "total", inv.Total)
	return status, nil
}
