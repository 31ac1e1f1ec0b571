package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"iuran-rt-backend/internal/domain"
	"iuran-rt-backend/internal/logger"
	"iuran-rt-backend/internal/repository"
)

type paymentService struct {
	repos  repository.Repositories
	tx     repository.Transactor
	policy domain.VerificationPolicy
	now    func() time.Time
}

func NewPaymentService(repos repository.Repositories, tx repository.Transactor, policy domain.VerificationPolicy) PaymentService {
	if !policy.IsValid() {
		policy = domain.VerificationPolicyReject
	}
	return &paymentService{repos: repos, tx: tx, policy: policy, now: time.Now}
}

// RecordPayment validates the submission against the directory and the invoice before
// writing anything. Cash is stored already verified, and the attached invoice's status is
// recomputed in the same transaction.
func (s *paymentService) RecordPayment(ctx context.Context, in domain.RecordPaymentInput) (*domain.Payment, error) {
	logger.EnterMethod("paymentService.RecordPayment", "residentID", in.ResidentID, "amount", in.Amount, "method", in.Method)

	if err := s.validateInput(ctx, &in); err != nil {
		logger.ExitMethodWithError("paymentService.RecordPayment", err, "residentID", in.ResidentID)
		return nil, err
	}

	now := s.now()
	p := &domain.Payment{
		ResidentID: in.ResidentID,
		InvoiceID:  in.InvoiceID,
		Date:       dateOf(now),
		Amount:     in.Amount,
		Method:     in.Method,
		ProofRef:   in.ProofRef,
		Note:       in.Note,
		RecordedBy: in.RecordedBy,
	}
	if in.Date != nil {
		p.Date = dateOf(*in.Date)
	}
	if p.Method.AutoVerified() {
		p.Verified = true
		p.VerifiedBy = in.RecordedBy
		p.VerifiedAt = &now
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Payments.Create(ctx, p); err != nil {
			return domain.NewPersistenceError("failed to record payment", err)
		}
		if p.Verified && p.InvoiceID != nil {
			if _, err := recomputeInvoiceStatus(ctx, repos, *p.InvoiceID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("paymentService.RecordPayment", err, "residentID", in.ResidentID)
		return nil, err
	}

	logger.ExitMethod("paymentService.RecordPayment", "paymentID", p.ID, "verified", p.Verified)
	return p, nil
}

func (s *paymentService) validateInput(ctx context.Context, in *domain.RecordPaymentInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	res, err := s.repos.Residents.GetByID(ctx, in.ResidentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewValidationError(fmt.Sprintf("resident %d does not exist", in.ResidentID))
		}
		return domain.NewPersistenceError("failed to load resident", err)
	}
	if !res.Active {
		return domain.NewValidationError(fmt.Sprintf("resident %d is not active", in.ResidentID))
	}

	if in.InvoiceID == nil {
		return nil
	}
	inv, err := s.repos.Invoices.GetByID(ctx, *in.InvoiceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewValidationError(fmt.Sprintf("invoice %d does not exist", *in.InvoiceID))
		}
		return domain.NewPersistenceError("failed to load invoice", err)
	}
	if inv.ResidentID != in.ResidentID {
		return domain.NewValidationError(fmt.Sprintf("invoice %d does not belong to resident %d", *in.InvoiceID, in.ResidentID))
	}
	return nil
}

// VerifyPayment stamps the verifier and recomputes the attached invoice. What happens to an
// already verified payment depends on the configured policy.
func (s *paymentService) VerifyPayment(ctx context.Context, paymentID, verifierID int32) (*domain.PaymentView, error) {
	logger.EnterMethod("paymentService.VerifyPayment", "paymentID", paymentID, "verifierID", verifierID, "policy", s.policy)

	now := s.now()
	var view *domain.PaymentView
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		p, err := repos.Payments.GetByID(ctx, paymentID)
		if err != nil {
			return domain.NewPersistenceError("failed to load payment", err)
		}

		updated, err := repos.Payments.MarkVerified(ctx, paymentID, verifierID, now, s.policy == domain.VerificationPolicyReject)
		if err != nil {
			return domain.NewPersistenceError("failed to verify payment", err)
		}
		if !updated {
			return domain.NewStateError(fmt.Sprintf("payment %d is already verified", paymentID))
		}

		if p.InvoiceID != nil {
			if _, err := recomputeInvoiceStatus(ctx, repos, *p.InvoiceID); err != nil {
				return err
			}
		}

		p.Verified = true
		p.VerifiedBy = &verifierID
		p.VerifiedAt = &now
		view = p
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("paymentService.VerifyPayment", err, "paymentID", paymentID)
		return nil, err
	}

	logger.ExitMethod("paymentService.VerifyPayment", "paymentID", paymentID)
	return view, nil
}

func (s *paymentService) Get(ctx context.Context, id int32) (*domain.PaymentView, error) {
	p, err := s.repos.Payments.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load payment", err)
	}
	return p, nil
}

func (s *paymentService) GetPendingVerification(ctx context.Context) ([]domain.PaymentView, error) {
	payments, err := s.repos.Payments.ListPending(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list pending payments", err)
	}
	return payments, nil
}

func (s *paymentService) ListByResident(ctx context.Context, residentID int32) ([]domain.PaymentView, error) {
	payments, err := s.repos.Payments.ListByResident(ctx, residentID, 0)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list payments", err)
	}
	return payments, nil
}

func (s *paymentService) GetMonthlyReport(ctx context.Context, period domain.Period) (*domain.MonthlyPaymentReport, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	payments, err := s.repos.Payments.ListVerifiedInMonth(ctx, period)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list payments", err)
	}

	report := &domain.MonthlyPaymentReport{Period: period, Payments: payments, TransactionCount: len(payments)}
	for _, p := range payments {
		report.Total += p.Amount
	}
	return report, nil
}

func (s *paymentService) GetMethodBreakdown(ctx context.Context, period domain.Period) ([]domain.MethodTotal, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	totals, err := s.repos.Payments.MethodBreakdown(ctx, period)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to compute method breakdown", err)
	}
	return totals, nil
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
