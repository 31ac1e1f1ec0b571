package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"iuran-rt-backend/internal/domain"
	"iuran-rt-backend/internal/logger"
	"iuran-rt-backend/internal/repository"
)

type invoiceRepository struct {
	db            DBTX
	lockNamespace int32
}

func NewInvoiceRepository(db DBTX, lockNamespace int32) repository.InvoiceRepository {
	return &invoiceRepository{db: db, lockNamespace: lockNamespace}
}

// LockPeriod takes a transaction-scoped advisory lock keyed by period. Outside a
// transaction the lock is released as soon as the statement's session returns it to the pool.
func (r *invoiceRepository) LockPeriod(ctx context.Context, period domain.Period) error {
	query := `SELECT pg_advisory_xact_lock($1, $2)`
	logger.DatabaseCall("LockPeriod", query, "period", period.String())
	_, err := r.db.ExecContext(ctx, query, r.lockNamespace, period.Key())
	logger.DatabaseResult("LockPeriod", 0, err)
	return err
}

// Create inserts the invoice and its line items. Callers run it inside a transaction
// so a failing line item takes the invoice down with it. An existing invoice for the
// same resident and period yields a duplicate invoice error without aborting the transaction.
func (r *invoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	logger.EnterMethod("invoiceRepository.Create", "residentID", inv.ResidentID, "period", inv.Period.String())

	query := `INSERT INTO invoices (resident_id, month, year, total, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, NOW())
	          ON CONFLICT ON CONSTRAINT invoices_resident_period_key DO NOTHING
	          RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, inv.ResidentID, inv.Period.Month, inv.Period.Year, inv.Total, inv.Status).
		Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isUniqueViolation(err) {
			err = domain.NewDuplicateInvoiceError(inv.ResidentID, inv.Period)
		}
		logger.ExitMethodWithError("invoiceRepository.Create", err, "residentID", inv.ResidentID)
		return err
	}

	itemQuery := `INSERT INTO invoice_line_items (invoice_id, due_type_id, amount) VALUES ($1, $2, $3) RETURNING id`
	for i := range inv.LineItems {
		item := &inv.LineItems[i]
		item.InvoiceID = inv.ID
		if err := r.db.QueryRowContext(ctx, itemQuery, inv.ID, item.DueTypeID, item.Amount).Scan(&item.ID); err != nil {
			logger.ExitMethodWithError("invoiceRepository.Create", err, "invoiceID", inv.ID, "dueTypeID", item.DueTypeID)
			return fmt.Errorf("failed to insert line item for due type %d: %w", item.DueTypeID, err)
		}
	}

	logger.ExitMethod("invoiceRepository.Create", "invoiceID", inv.ID, "lineItems", len(inv.LineItems))
	return nil
}

const invoiceViewQuery = `
	SELECT t.id, t.resident_id, t.month, t.year, t.total, t.status, t.created_at,
	       w.name, w.house_number, COALESCE(w.contact, ''),
	       COALESCE((SELECT SUM(p.amount) FROM payments p WHERE p.invoice_id = t.id AND p.verified = TRUE), 0)
	FROM invoices t
	JOIN residents w ON w.id = t.resident_id`

func scanInvoiceView(row interface{ Scan(...any) error }, v *domain.InvoiceView) error {
	return row.Scan(&v.ID, &v.ResidentID, &v.Period.Month, &v.Period.Year, &v.Total, &v.Status, &v.CreatedAt,
		&v.ResidentName, &v.HouseNumber, &v.Contact, &v.PaidSoFar)
}

func (r *invoiceRepository) GetByID(ctx context.Context, id int32) (*domain.InvoiceView, error) {
	v := &domain.InvoiceView{}
	if err := scanInvoiceView(r.db.QueryRowContext(ctx, invoiceViewQuery+` WHERE t.id = $1`, id), v); err != nil {
		return nil, translateError(err, "invoice not found")
	}
	return v, nil
}

// GetForUpdate locks the invoice row so concurrent verifications recompute its status one at a time.
func (r *invoiceRepository) GetForUpdate(ctx context.Context, id int32) (*domain.Invoice, error) {
	query := `SELECT id, resident_id, month, year, total, status, created_at FROM invoices WHERE id = $1 FOR UPDATE`
	inv := &domain.Invoice{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&inv.ID, &inv.ResidentID, &inv.Period.Month, &inv.Period.Year, &inv.Total, &inv.Status, &inv.CreatedAt)
	if err != nil {
		return nil, translateError(err, "invoice not found")
	}
	return inv, nil
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, id int32, status domain.InvoiceStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE invoices SET status = $1 WHERE id = $2`, status, id)
	return requireRow(result, err, "invoice not found")
}

func (r *invoiceRepository) ListLineItems(ctx context.Context, invoiceID int32) ([]domain.InvoiceLineItem, error) {
	query := `SELECT dt.id, dt.invoice_id, dt.due_type_id, ji.name, dt.amount
	          FROM invoice_line_items dt
	          JOIN due_types ji ON ji.id = dt.due_type_id
	          WHERE dt.invoice_id = $1
	          ORDER BY dt.id`
	rows, err := r.db.QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.InvoiceLineItem{}
	for rows.Next() {
		var item domain.InvoiceLineItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.DueTypeID, &item.DueTypeName, &item.Amount); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *invoiceRepository) ListByPeriod(ctx context.Context, period domain.Period) ([]domain.InvoiceView, error) {
	query := invoiceViewQuery + ` WHERE t.month = $1 AND t.year = $2 ORDER BY w.house_number, t.id`
	return r.listViews(ctx, "invoiceRepository.ListByPeriod", query, period.Month, period.Year)
}

func (r *invoiceRepository) ListByResident(ctx context.Context, residentID int32, status *domain.InvoiceStatus) ([]domain.InvoiceView, error) {
	query := invoiceViewQuery + ` WHERE t.resident_id = $1`
	args := []any{residentID}
	if status != nil {
		query += ` AND t.status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY t.year DESC, t.month DESC`
	return r.listViews(ctx, "invoiceRepository.ListByResident", query, args...)
}

func (r *invoiceRepository) ListOutstanding(ctx context.Context) ([]domain.InvoiceView, error) {
	query := invoiceViewQuery + ` WHERE t.status <> 'paid' ORDER BY t.year DESC, t.month DESC, w.house_number`
	return r.listViews(ctx, "invoiceRepository.ListOutstanding", query)
}

func (r *invoiceRepository) SumTotalByPeriod(ctx context.Context, period domain.Period) (int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(total), 0) FROM invoices WHERE month = $1 AND year = $2`
	err := r.db.QueryRowContext(ctx, query, period.Month, period.Year).Scan(&total)
	return total, err
}

// DueTypeCollection counts, per active due type, the period's invoices carrying it and the
// line item amounts of those invoices that are fully paid. Line items are narrowed to the
// period before the join.
func (r *invoiceRepository) DueTypeCollection(ctx context.Context, period domain.Period) ([]domain.DueTypeCollectionRow, error) {
	query := `
		SELECT ji.id, ji.name, ji.amount,
		       COUNT(DISTINCT li.invoice_id),
		       COALESCE(SUM(CASE WHEN li.status = 'paid' THEN li.amount ELSE 0 END), 0)
		FROM due_types ji
		LEFT JOIN (
		    SELECT dt.due_type_id, dt.invoice_id, dt.amount, t.status
		    FROM invoices t
		    JOIN invoice_line_items dt ON dt.invoice_id = t.id
		    WHERE t.month = $1 AND t.year = $2
		) li ON li.due_type_id = ji.id
		WHERE ji.is_active = TRUE
		GROUP BY ji.id, ji.name, ji.amount
		ORDER BY ji.id`
	logger.DatabaseCall("DueTypeCollection", query, "period", period.String())

	rows, err := r.db.QueryContext(ctx, query, period.Month, period.Year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.DueTypeCollectionRow{}
	for rows.Next() {
		var row domain.DueTypeCollectionRow
		if err := rows.Scan(&row.DueTypeID, &row.Name, &row.Amount, &row.InvoiceCount, &row.Collected); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *invoiceRepository) listViews(ctx context.Context, method, query string, args ...any) ([]domain.InvoiceView, error) {
	logger.EnterMethod(method)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.ExitMethodWithError(method, err)
		return nil, err
	}
	defer rows.Close()

	views := []domain.InvoiceView{}
	for rows.Next() {
		var v domain.InvoiceView
		if err := scanInvoiceView(rows, &v); err != nil {
			logger.ExitMethodWithError(method, err)
			return nil, err
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logger.ExitMethod(method, "count", len(views))
	return views, nil
}
