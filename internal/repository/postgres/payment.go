package postgres

import (
	"context"
	"database/sql"
	"time"

	"iuran-rt-backend/internal/domain"
	"iuran-rt-backend/internal/logger"
	"iuran-rt-backend/internal/repository"
	"iuran-rt-backend/internal/utils"
)

type paymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	logger.EnterMethod("paymentRepository.Create", "residentID", p.ResidentID, "amount", p.Amount, "method", p.Method)

	query := `INSERT INTO payments (resident_id, invoice_id, paid_on, amount, method, proof_ref, note,
	                                recorded_by, verified, verified_by, verified_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW()) RETURNING id, created_at`
	var verifiedAt sql.NullTime
	if p.VerifiedAt != nil {
		verifiedAt = sql.NullTime{Time: *p.VerifiedAt, Valid: true}
	}
	err := r.db.QueryRowContext(ctx, query,
		p.ResidentID, nullInt32(p.InvoiceID), p.Date, p.Amount, p.Method, p.ProofRef, p.Note,
		nullInt32(p.RecordedBy), p.Verified, nullInt32(p.VerifiedBy), verifiedAt,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		logger.ExitMethodWithError("paymentRepository.Create", err, "residentID", p.ResidentID)
		return err
	}

	logger.ExitMethod("paymentRepository.Create", "paymentID", p.ID)
	return nil
}

const paymentViewQuery = `
	SELECT p.id, p.resident_id, p.invoice_id, p.paid_on, p.amount, p.method,
	       COALESCE(p.proof_ref, ''), COALESCE(p.note, ''), p.recorded_by,
	       p.verified, p.verified_by, p.verified_at, p.created_at,
	       w.name, w.house_number, COALESCE(w.contact, ''),
	       t.month, t.year
	FROM payments p
	JOIN residents w ON w.id = p.resident_id
	LEFT JOIN invoices t ON t.id = p.invoice_id`

func scanPaymentView(row interface{ Scan(...any) error }, v *domain.PaymentView) error {
	var (
		invoiceID, recordedBy, verifiedBy sql.NullInt32
		verifiedAt                        sql.NullTime
		month, year                       sql.NullInt32
	)
	err := row.Scan(&v.ID, &v.ResidentID, &invoiceID, &v.Date, &v.Amount, &v.Method,
		&v.ProofRef, &v.Note, &recordedBy,
		&v.Verified, &verifiedBy, &verifiedAt, &v.CreatedAt,
		&v.ResidentName, &v.HouseNumber, &v.Contact,
		&month, &year)
	if err != nil {
		return err
	}
	v.InvoiceID = int32Ptr(invoiceID)
	v.RecordedBy = int32Ptr(recordedBy)
	v.VerifiedBy = int32Ptr(verifiedBy)
	if verifiedAt.Valid {
		t := verifiedAt.Time
		v.VerifiedAt = &t
	}
	if month.Valid && year.Valid {
		v.InvoicePeriod = &domain.Period{Month: int(month.Int32), Year: int(year.Int32)}
	}
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id int32) (*domain.PaymentView, error) {
	v := &domain.PaymentView{}
	if err := scanPaymentView(r.db.QueryRowContext(ctx, paymentViewQuery+` WHERE p.id = $1`, id), v); err != nil {
		return nil, translateError(err, "payment not found")
	}
	return v, nil
}

func (r *paymentRepository) MarkVerified(ctx context.Context, id, verifierID int32, at time.Time, onlyUnverified bool) (bool, error) {
	query := `UPDATE payments SET verified = TRUE, verified_by = $1, verified_at = $2 WHERE id = $3`
	if onlyUnverified {
		query += ` AND verified = FALSE`
	}
	logger.DatabaseCall("MarkVerified", query, "paymentID", id, "verifierID", verifierID)

	result, err := r.db.ExecContext(ctx, query, verifierID, at, id)
	if err != nil {
		logger.DatabaseResult("MarkVerified", 0, err)
		return false, err
	}
	rows, err := result.RowsAffected()
	logger.DatabaseResult("MarkVerified", rows, err)
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *paymentRepository) SumVerifiedByInvoice(ctx context.Context, invoiceID int32) (int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE invoice_id = $1 AND verified = TRUE`
	err := r.db.QueryRowContext(ctx, query, invoiceID).Scan(&total)
	return total, err
}

func (r *paymentRepository) ListPending(ctx context.Context) ([]domain.PaymentView, error) {
	query := paymentViewQuery + ` WHERE p.verified = FALSE ORDER BY p.created_at ASC, p.id ASC`
	return r.list(ctx, "paymentRepository.ListPending", query)
}

// ListByResident returns the newest payments first. A non-positive limit returns all of them.
func (r *paymentRepository) ListByResident(ctx context.Context, residentID int32, limit int) ([]domain.PaymentView, error) {
	query := paymentViewQuery + ` WHERE p.resident_id = $1 ORDER BY p.paid_on DESC, p.created_at DESC, p.id DESC`
	args := []any{residentID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	return r.list(ctx, "paymentRepository.ListByResident", query, args...)
}

// ListVerifiedInMonth selects by payment date, not by the period of the invoice paid.
func (r *paymentRepository) ListVerifiedInMonth(ctx context.Context, period domain.Period) ([]domain.PaymentView, error) {
	start, end := utils.MonthBounds(period, time.UTC)
	query := paymentViewQuery + ` WHERE p.verified = TRUE AND p.paid_on >= $1 AND p.paid_on < $2
	          ORDER BY p.paid_on ASC, p.id ASC`
	return r.list(ctx, "paymentRepository.ListVerifiedInMonth", query, start, end)
}

func (r *paymentRepository) MethodBreakdown(ctx context.Context, period domain.Period) ([]domain.MethodTotal, error) {
	start, end := utils.MonthBounds(period, time.UTC)
	query := `SELECT method, COUNT(*), COALESCE(SUM(amount), 0)
	          FROM payments
	          WHERE verified = TRUE AND paid_on >= $1 AND paid_on < $2
	          GROUP BY method
	          ORDER BY method`
	logger.DatabaseCall("MethodBreakdown", query, "period", period.String())

	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := []domain.MethodTotal{}
	for rows.Next() {
		var mt domain.MethodTotal
		if err := rows.Scan(&mt.Method, &mt.TransactionCount, &mt.Total); err != nil {
			return nil, err
		}
		totals = append(totals, mt)
	}
	return totals, rows.Err()
}

func (r *paymentRepository) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM payments WHERE verified = FALSE`).Scan(&count)
	return count, err
}

func (r *paymentRepository) list(ctx context.Context, method, query string, args ...any) ([]domain.PaymentView, error) {
	logger.EnterMethod(method)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.ExitMethodWithError(method, err)
		return nil, err
	}
	defer rows.Close()

	payments := []domain.PaymentView{}
	for rows.Next() {
		var v domain.PaymentView
		if err := scanPaymentView(rows, &v); err != nil {
			logger.ExitMethodWithError(method, err)
			return nil, err
		}
		payments = append(payments, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logger.ExitMethod(method, "count", len(payments))
	return payments, nil
}
