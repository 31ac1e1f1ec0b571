package http

import (
	"context"
	"time"

	"iuran-rt-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.User), args.Error(2)
}

func (m *MockAuthService) CreateAccount(ctx context.Context, in domain.NewAccount) (*domain.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) SelfRegister(ctx context.Context, reg *domain.SelfRegistration) (*domain.Resident, error) {
	args := m.Called(ctx, reg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resident), args.Error(1)
}

type MockResidentService struct{ mock.Mock }

func (m *MockResidentService) ListActive(ctx context.Context) ([]domain.Resident, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Resident), args.Error(1)
}

func (m *MockResidentService) Get(ctx context.Context, id int32) (*domain.Resident, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resident), args.Error(1)
}

func (m *MockResidentService) Register(ctx context.Context, res *domain.Resident, members []domain.HouseholdMember) error {
	return m.Called(ctx, res, members).Error(0)
}

func (m *MockResidentService) Update(ctx context.Context, res *domain.Resident) error {
	return m.Called(ctx, res).Error(0)
}

func (m *MockResidentService) Deactivate(ctx context.Context, id int32) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockResidentService) ListPendingVerification(ctx context.Context) ([]domain.Resident, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Resident), args.Error(1)
}

func (m *MockResidentService) SetVerification(ctx context.Context, id int32, state domain.VerificationState) error {
	return m.Called(ctx, id, state).Error(0)
}

func (m *MockResidentService) GetWithFamily(ctx context.Context, id int32) (*domain.ResidentWithFamily, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResidentWithFamily), args.Error(1)
}

func (m *MockResidentService) ListMembers(ctx context.Context, residentID int32) ([]domain.HouseholdMember, error) {
	args := m.Called(ctx, residentID)
	return args.Get(0).([]domain.HouseholdMember), args.Error(1)
}

func (m *MockResidentService) GetMember(ctx context.Context, id int32) (*domain.HouseholdMember, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HouseholdMember), args.Error(1)
}

func (m *MockResidentService) AddMember(ctx context.Context, member *domain.HouseholdMember) error {
	return m.Called(ctx, member).Error(0)
}

func (m *MockResidentService) UpdateMember(ctx context.Context, member *domain.HouseholdMember) error {
	return m.Called(ctx, member).Error(0)
}

func (m *MockResidentService) RemoveMember(ctx context.Context, id int32) error {
	return m.Called(ctx, id).Error(0)
}

type MockAnnouncementService struct{ mock.Mock }

func (m *MockAnnouncementService) List(ctx context.Context) ([]domain.Announcement, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Announcement), args.Error(1)
}

func (m *MockAnnouncementService) Get(ctx context.Context, id int32) (*domain.Announcement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Announcement), args.Error(1)
}

func (m *MockAnnouncementService) Publish(ctx context.Context, a *domain.Announcement) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAnnouncementService) Update(ctx context.Context, a *domain.Announcement) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAnnouncementService) Delete(ctx context.Context, id int32) error {
	return m.Called(ctx, id).Error(0)
}

type MockInvoiceService struct{ mock.Mock }

func (m *MockInvoiceService) GenerateMonthly(ctx context.Context, period domain.Period) (*domain.GenerationReport, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GenerationReport), args.Error(1)
}

func (m *MockInvoiceService) Get(ctx context.Context, id int32) (*domain.InvoiceView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceView), args.Error(1)
}

func (m *MockInvoiceService) ListByPeriod(ctx context.Context, period domain.Period) ([]domain.InvoiceView, error) {
	args := m.Called(ctx, period)
	return args.Get(0).([]domain.InvoiceView), args.Error(1)
}

func (m *MockInvoiceService) ListByResident(ctx context.Context, residentID int32, status *domain.InvoiceStatus) ([]domain.InvoiceView, error) {
	args := m.Called(ctx, residentID, status)
	return args.Get(0).([]domain.InvoiceView), args.Error(1)
}

func (m *MockInvoiceService) ListOutstanding(ctx context.Context) ([]domain.InvoiceView, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.InvoiceView), args.Error(1)
}

type MockPaymentService struct{ mock.Mock }

func (m *MockPaymentService) RecordPayment(ctx context.Context, in domain.RecordPaymentInput) (*domain.Payment, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) VerifyPayment(ctx context.Context, paymentID, verifierID int32) (*domain.PaymentView, error) {
	args := m.Called(ctx, paymentID, verifierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentView), args.Error(1)
}

func (m *MockPaymentService) Get(ctx context.Context, id int32) (*domain.PaymentView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentView), args.Error(1)
}

func (m *MockPaymentService) GetPendingVerification(ctx context.Context) ([]domain.PaymentView, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.PaymentView), args.Error(1)
}

func (m *MockPaymentService) ListByResident(ctx context.Context, residentID int32) ([]domain.PaymentView, error) {
	args := m.Called(ctx, residentID)
	return args.Get(0).([]domain.PaymentView), args.Error(1)
}

func (m *MockPaymentService) GetMonthlyReport(ctx context.Context, period domain.Period) (*domain.MonthlyPaymentReport, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyPaymentReport), args.Error(1)
}

func (m *MockPaymentService) GetMethodBreakdown(ctx context.Context, period domain.Period) ([]domain.MethodTotal, error) {
	args := m.Called(ctx, period)
	return args.Get(0).([]domain.MethodTotal), args.Error(1)
}

type MockReportService struct{ mock.Mock }

func (m *MockReportService) MonthlyCashFlow(ctx context.Context, period domain.Period) (*domain.CashFlowReport, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashFlowReport), args.Error(1)
}

func (m *MockReportService) PerDueTypeReport(ctx context.Context, period domain.Period) (*domain.DueTypeReport, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DueTypeReport), args.Error(1)
}

func (m *MockReportService) DashboardSummary(ctx context.Context, now time.Time) (*domain.DashboardSummary, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardSummary), args.Error(1)
}

func (m *MockReportService) ResidentDashboard(ctx context.Context, residentID int32) (*domain.ResidentDashboard, error) {
	args := m.Called(ctx, residentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResidentDashboard), args.Error(1)
}

type MockArrearsService struct{ mock.Mock }

func (m *MockArrearsService) ComputeArrears(ctx context.Context, residentID int32) (*domain.ArrearsSnapshot, error) {
	args := m.Called(ctx, residentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArrearsSnapshot), args.Error(1)
}

func (m *MockArrearsService) GetDelinquencyReport(ctx context.Context) ([]domain.ArrearsSnapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ArrearsSnapshot), args.Error(1)
}

func (m *MockArrearsService) RecomputeInvoiceStatus(ctx context.Context, invoiceID int32) (domain.InvoiceStatus, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).(domain.InvoiceStatus), args.Error(1)
}

func (m *MockArrearsService) GetInvoiceBreakdown(ctx context.Context, residentID int32) ([]domain.InvoiceView, error) {
	args := m.Called(ctx, residentID)
	return args.Get(0).([]domain.InvoiceView), args.Error(1)
}

func (m *MockArrearsService) TakeSnapshots(ctx context.Context, period domain.Period) (int64, error) {
	args := m.Called(ctx, period)
	return args.Get(0).(int64), args.Error(1)
}
