package repository

import (
	"context"
	"time"

	"iuran-rt-backend/internal/domain"
)

type ResidentRepository interface {
	Create(ctx context.Context, resident *domain.Resident) error
	GetByID(ctx context.Context, id int32) (*domain.Resident, error)
	Update(ctx context.Context, resident *domain.Resident) error
	Deactivate(ctx context.Context, id int32) error
	SetVerification(ctx context.Context, id int32, state domain.VerificationState) error
	ListActive(ctx context.Context) ([]domain.Resident, error)
	ListByVerification(ctx context.Context, state domain.VerificationState) ([]domain.Resident, error)
	CountActive(ctx context.Context) (int, error)

	// Billing view of the directory
	ListActiveWithoutInvoice(ctx context.Context, period domain.Period) ([]domain.Resident, error)
	GetArrearsTotals(ctx context.Context, residentID int32) (*domain.ArrearsTotals, error)
	ListActiveArrearsTotals(ctx context.Context) ([]domain.ArrearsTotals, error)
}

type DueTypeRepository interface {
	Create(ctx context.Context, dueType *domain.DueType) error
	GetByID(ctx context.Context, id int32) (*domain.DueType, error)
	Update(ctx context.Context, dueType *domain.DueType) error
	Deactivate(ctx context.Context, id int32) error
	ListActive(ctx context.Context) ([]domain.DueType, error)
}

type InvoiceRepository interface {
	// LockPeriod serializes generation runs for one period until the enclosing transaction ends.
	LockPeriod(ctx context.Context, period domain.Period) error
	Create(ctx context.Context, invoice *domain.Invoice) error
	GetByID(ctx context.Context, id int32) (*domain.InvoiceView, error)
	GetForUpdate(ctx context.Context, id int32) (*domain.Invoice, error)
	UpdateStatus(ctx context.Context, id int32, status domain.InvoiceStatus) error
	ListLineItems(ctx context.Context, invoiceID int32) ([]domain.InvoiceLineItem, error)
	ListByPeriod(ctx context.Context, period domain.Period) ([]domain.InvoiceView, error)
	ListByResident(ctx context.Context, residentID int32, status *domain.InvoiceStatus) ([]domain.InvoiceView, error)
	ListOutstanding(ctx context.Context) ([]domain.InvoiceView, error)
	SumTotalByPeriod(ctx context.Context, period domain.Period) (int64, error)
	DueTypeCollection(ctx context.Context, period domain.Period) ([]domain.DueTypeCollectionRow, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id int32) (*domain.PaymentView, error)
	// MarkVerified stamps the verifier. With onlyUnverified set, an already verified
	// payment is left untouched and false is returned.
	MarkVerified(ctx context.Context, id, verifierID int32, at time.Time, onlyUnverified bool) (bool, error)
	SumVerifiedByInvoice(ctx context.Context, invoiceID int32) (int64, error)
	ListPending(ctx context.Context) ([]domain.PaymentView, error)
	ListByResident(ctx context.Context, residentID int32, limit int) ([]domain.PaymentView, error)
	ListVerifiedInMonth(ctx context.Context, period domain.Period) ([]domain.PaymentView, error)
	MethodBreakdown(ctx context.Context, period domain.Period) ([]domain.MethodTotal, error)
	CountPending(ctx context.Context) (int, error)
}

type SnapshotRepository interface {
	SaveArrearsSnapshots(ctx context.Context, period domain.Period, snapshots []domain.ArrearsSnapshot) (int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
}

type HouseholdRepository interface {
	Create(ctx context.Context, member *domain.HouseholdMember) error
	GetByID(ctx context.Context, id int32) (*domain.HouseholdMember, error)
	Update(ctx context.Context, member *domain.HouseholdMember) error
	Deactivate(ctx context.Context, id int32) error
	// ListByResident returns active members in family-card order.
	ListByResident(ctx context.Context, residentID int32) ([]domain.HouseholdMember, error)
}

type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *domain.Announcement) error
	GetByID(ctx context.Context, id int32) (*domain.Announcement, error)
	Update(ctx context.Context, announcement *domain.Announcement) error
	Delete(ctx context.Context, id int32) error
	// List returns announcements newest first; limit <= 0 returns all of them.
	List(ctx context.Context, limit int) ([]domain.Announcement, error)
}

// Repositories groups the repositories bound to one connection or transaction.
type Repositories struct {
	Residents     ResidentRepository
	DueTypes      DueTypeRepository
	Invoices      InvoiceRepository
	Payments      PaymentRepository
	Snapshots     SnapshotRepository
	Households    HouseholdRepository
	Users         UserRepository
	Announcements AnnouncementRepository
}

// Transactor runs fn against repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
