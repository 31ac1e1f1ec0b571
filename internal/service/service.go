package service

import (
	"context"
	"time"

	"iuran-rt-backend/internal/domain"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.User, error) // access token, user
	CreateAccount(ctx context.Context, in domain.NewAccount) (*domain.User, error)
	SelfRegister(ctx context.Context, reg *domain.SelfRegistration) (*domain.Resident, error)
}

type DueTypeService interface {
	ListActive(ctx context.Context) ([]domain.DueType, error)
	Get(ctx context.Context, id int32) (*domain.DueType, error)
	Create(ctx context.Context, dueType *domain.DueType) error
	Update(ctx context.Context, dueType *domain.DueType) error
	Deactivate(ctx context.Context, id int32) error
	StandardTotal(ctx context.Context) (int64, error)
}

type ResidentService interface {
	ListActive(ctx context.Context) ([]domain.Resident, error)
	Get(ctx context.Context, id int32) (*domain.Resident, error)
	Register(ctx context.Context, resident *domain.Resident, members []domain.HouseholdMember) error
	Update(ctx context.Context, resident *domain.Resident) error
	Deactivate(ctx context.Context, id int32) error
	ListPendingVerification(ctx context.Context) ([]domain.Resident, error)
	SetVerification(ctx context.Context, id int32, state domain.VerificationState) error

	// Household members
	GetWithFamily(ctx context.Context, id int32) (*domain.ResidentWithFamily, error)
	ListMembers(ctx context.Context, residentID int32) ([]domain.HouseholdMember, error)
	GetMember(ctx context.Context, id int32) (*domain.HouseholdMember, error)
	AddMember(ctx context.Context, member *domain.HouseholdMember) error
	UpdateMember(ctx context.Context, member *domain.HouseholdMember) error
	RemoveMember(ctx context.Context, id int32) error
}

type AnnouncementService interface {
	List(ctx context.Context) ([]domain.Announcement, error)
	Get(ctx context.Context, id int32) (*domain.Announcement, error)
	Publish(ctx context.Context, announcement *domain.Announcement) error
	Update(ctx context.Context, announcement *domain.Announcement) error
	Delete(ctx context.Context, id int32) error
}

type InvoiceService interface {
	GenerateMonthly(ctx context.Context, period domain.Period) (*domain.GenerationReport, error)
	Get(ctx context.Context, id int32) (*domain.InvoiceView, error)
	ListByPeriod(ctx context.Context, period domain.Period) ([]domain.InvoiceView, error)
	ListByResident(ctx context.Context, residentID int32, status *domain.InvoiceStatus) ([]domain.InvoiceView, error)
	ListOutstanding(ctx context.Context) ([]domain.InvoiceView, error)
}

type PaymentService interface {
	RecordPayment(ctx context.Context, in domain.RecordPaymentInput) (*domain.Payment, error)
	VerifyPayment(ctx context.Context, paymentID, verifierID int32) (*domain.PaymentView, error)
	Get(ctx context.Context, id int32) (*domain.PaymentView, error)
	GetPendingVerification(ctx context.Context) ([]domain.PaymentView, error)
	ListByResident(ctx context.Context, residentID int32) ([]domain.PaymentView, error)
	GetMonthlyReport(ctx context.Context, period domain.Period) (*domain.MonthlyPaymentReport, error)
	GetMethodBreakdown(ctx context.Context, period domain.Period) ([]domain.MethodTotal, error)
}

type ArrearsService interface {
	ComputeArrears(ctx context.Context, residentID int32) (*domain.ArrearsSnapshot, error)
	GetDelinquencyReport(ctx context.Context) ([]domain.ArrearsSnapshot, error)
	RecomputeInvoiceStatus(ctx context.Context, invoiceID int32) (domain.InvoiceStatus, error)
	GetInvoiceBreakdown(ctx context.Context, residentID int32) ([]domain.InvoiceView, error)
	TakeSnapshots(ctx context.Context, period domain.Period) (int64, error)
}

type ReportService interface {
	MonthlyCashFlow(ctx context.Context, period domain.Period) (*domain.CashFlowReport, error)
	PerDueTypeReport(ctx context.Context, period domain.Period) (*domain.DueTypeReport, error)
	DashboardSummary(ctx context.Context, now time.Time) (*domain.DashboardSummary, error)
	ResidentDashboard(ctx context.Context, residentID int32) (*domain.ResidentDashboard, error)
}
