package service

import (
	"context"
	"time"

	"iuran-rt-backend/internal/domain"
	"iuran-rt-backend/internal/repository"
	"iuran-rt-backend/internal/utils"

	"github.com/shopspring/decimal"
)

const recentPaymentsOnDashboard = 5

var hundred = decimal.NewFromInt(100)

type reportService struct {
	repos      repository.Repositories
	arrears    ArrearsService
	topDebtors int
}

func NewReportService(repos repository.Repositories, arrears ArrearsService, topDebtors int) ReportService {
	if topDebtors <= 0 {
		topDebtors = 5
	}
	return &reportService{repos: repos, arrears: arrears, topDebtors: topDebtors}
}

// MonthlyCashFlow compares verified receipts dated in the month against what was invoiced
// for the same period.
func (s *reportService) MonthlyCashFlow(ctx context.Context, period domain.Period) (*domain.CashFlowReport, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	payments, err := s.repos.Payments.ListVerifiedInMonth(ctx, period)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list payments", err)
	}
	byMethod, err := s.repos.Payments.MethodBreakdown(ctx, period)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to compute method breakdown", err)
	}
	invoiced, err := s.repos.Invoices.SumTotalByPeriod(ctx, period)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to sum invoices", err)
	}

	report := &domain.CashFlowReport{
		Period:           period,
		TotalInvoiced:    invoiced,
		TransactionCount: len(payments),
		ByMethod:         byMethod,
		Payments:         payments,
	}
	for _, p := range payments {
		report.TotalReceived += p.Amount
	}
	report.CollectionRate = CollectionRate(report.TotalReceived, invoiced)
	return report, nil
}

// CollectionRate is received / invoiced as a percentage rounded to two places, or zero
// when nothing was invoiced.
func CollectionRate(received, invoiced int64) decimal.Decimal {
	if invoiced <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(received).Mul(hundred).Div(decimal.NewFromInt(invoiced)).Round(2)
}

// PerDueTypeReport attributes collections to due types only through fully paid invoices.
// Partially paid invoices add nothing to Collected since payments are not itemized per line.
func (s *reportService) PerDueTypeReport(ctx context.Context, period domain.Period) (*domain.DueTypeReport, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	rows, err := s.repos.Invoices.DueTypeCollection(ctx, period)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to compute due type collection", err)
	}
	for i := range rows {
		rows[i].Expected = int64(rows[i].InvoiceCount) * rows[i].Amount
	}
	return &domain.DueTypeReport{Period: period, Rows: rows}, nil
}

func (s *reportService) DashboardSummary(ctx context.Context, now time.Time) (*domain.DashboardSummary, error) {
	active, err := s.repos.Residents.CountActive(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to count active residents", err)
	}
	delinquents, err := s.arrears.GetDelinquencyReport(ctx)
	if err != nil {
		return nil, err
	}
	cashFlow, err := s.MonthlyCashFlow(ctx, utils.CurrentPeriod(now))
	if err != nil {
		return nil, err
	}
	pending, err := s.repos.Payments.CountPending(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to count pending payments", err)
	}

	top := delinquents
	if len(top) > s.topDebtors {
		top = top[:s.topDebtors]
	}
	return &domain.DashboardSummary{
		ActiveResidents:    active,
		DelinquentCount:    len(delinquents),
		TotalArrears:       domain.SumArrears(delinquents),
		CurrentMonth:       cashFlow,
		PendingVerifyCount: pending,
		TopDebtors:         top,
	}, nil
}

func (s *reportService) ResidentDashboard(ctx context.Context, residentID int32) (*domain.ResidentDashboard, error) {
	snapshot, err := s.arrears.ComputeArrears(ctx, residentID)
	if err != nil {
		return nil, err
	}
	invoices, err := s.arrears.GetInvoiceBreakdown(ctx, residentID)
	if err != nil {
		return nil, err
	}
	payments, err := s.repos.Payments.ListByResident(ctx, residentID, recentPaymentsOnDashboard)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list payments", err)
	}
	announcements, err := s.repos.Announcements.List(ctx, domain.LatestAnnouncements)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list announcements", err)
	}
	return &domain.ResidentDashboard{
		Arrears:        *snapshot,
		Invoices:       invoices,
		RecentPayments: payments,
		Announcements:  announcements,
	}, nil
}
