package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"iuran-rt-backend/internal/domain"
	"iuran-rt-backend/internal/logger"
	"iuran-rt-backend/internal/repository"

	"github.com/lib/pq"
)

// DefaultLockNamespace is the first key of the two-key advisory lock taken by invoice generation.
const DefaultLockNamespace int32 = 7301

const uniqueViolation = "23505"

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db            *sql.DB
	lockNamespace int32
	repository.ResidentRepository
	repository.DueTypeRepository
	repository.InvoiceRepository
	repository.PaymentRepository
	repository.SnapshotRepository
	repository.UserRepository
	repository.HouseholdRepository
	repository.AnnouncementRepository
}

type Option func(*Store)

// WithLockNamespace overrides the advisory lock namespace.
func WithLockNamespace(ns int32) Option {
	return func(s *Store) {
		s.lockNamespace = ns
	}
}

func NewStore(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, lockNamespace: DefaultLockNamespace}
	for _, opt := range opts {
		opt(s)
	}
	s.ResidentRepository = NewResidentRepository(db)
	s.DueTypeRepository = NewDueTypeRepository(db)
	s.InvoiceRepository = NewInvoiceRepository(db, s.lockNamespace)
	s.PaymentRepository = NewPaymentRepository(db)
	s.SnapshotRepository = NewSnapshotRepository(db)
	s.UserRepository = NewUserRepository(db)
	s.HouseholdRepository = NewHouseholdRepository(db)
	s.AnnouncementRepository = NewAnnouncementRepository(db)
	return s
}

// Repositories returns the non-transactional repository set.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Residents:     s.ResidentRepository,
		DueTypes:      s.DueTypeRepository,
		Invoices:      s.InvoiceRepository,
		Payments:      s.PaymentRepository,
		Snapshots:     s.SnapshotRepository,
		Households:    s.HouseholdRepository,
		Users:         s.UserRepository,
		Announcements: s.AnnouncementRepository,
	}
}

// WithinTx implements repository.Transactor.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.NewPersistenceError("failed to begin transaction", err)
	}
	logger.TxBegin("store.WithinTx")

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			logger.TxRollback("store.WithinTx", fmt.Errorf("panic: %v", p))
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.Error("Failed to roll back transaction", "error", rbErr)
			}
			logger.TxRollback("store.WithinTx", err)
		}
	}()

	repos := repository.Repositories{
		Residents:     NewResidentRepository(tx),
		DueTypes:      NewDueTypeRepository(tx),
		Invoices:      NewInvoiceRepository(tx, s.lockNamespace),
		Payments:      NewPaymentRepository(tx),
		Snapshots:     NewSnapshotRepository(tx),
		Households:    NewHouseholdRepository(tx),
		Users:         NewUserRepository(tx),
		Announcements: NewAnnouncementRepository(tx),
	}

	if err = fn(ctx, repos); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return domain.NewPersistenceError("failed to commit transaction", err)
	}
	logger.TxCommit("store.WithinTx")
	return nil
}

// translateError maps driver errors onto the domain taxonomy.
func translateError(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFoundError(notFound)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}

func nullInt32(v *int32) sql.NullInt32 {
	if v == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: *v, Valid: true}
}

func int32Ptr(v sql.NullInt32) *int32 {
	if !v.Valid {
		return nil
	}
	id := v.Int32
	return &id
}
