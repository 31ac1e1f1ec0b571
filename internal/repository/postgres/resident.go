package postgres

import (
	"context"
	"database/sql"
	"time"

	"iuran-rt-backend/internal/domain"
	"iuran-rt-backend/internal/logger"
	"iuran-rt-backend/internal/repository"
)

type residentRepository struct {
	db DBTX
}

func NewResidentRepository(db DBTX) repository.ResidentRepository {
	return &residentRepository{db: db}
}

const residentColumns = `id, name, house_number, COALESCE(contact, ''), occupancy, is_active,
	opening_balance, verification, registered_at, updated_at`

func scanResident(row interface{ Scan(...any) error }, res *domain.Resident) error {
	return row.Scan(&res.ID, &res.Name, &res.HouseNumber, &res.Contact, &res.Occupancy, &res.Active,
		&res.OpeningBalance, &res.Verification, &res.RegisteredAt, &res.UpdatedAt)
}

func (r *residentRepository) Create(ctx context.Context, res *domain.Resident) error {
	logger.EnterMethod("residentRepository.Create", "houseNumber", res.HouseNumber)

	query := `INSERT INTO residents (name, house_number, contact, occupancy, is_active, opening_balance, verification, registered_at, updated_at)
	          VALUES ($1, $2, $3, $4, TRUE, $5, $6, $7, $7) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query, res.Name, res.HouseNumber, res.Contact, res.Occupancy,
		res.OpeningBalance, res.Verification, now).Scan(&res.ID)
	if err != nil {
		logger.ExitMethodWithError("residentRepository.Create", err)
		return err
	}
	res.Active = true
	res.RegisteredAt = now
	res.UpdatedAt = now

	logger.ExitMethod("residentRepository.Create", "residentID", res.ID)
	return nil
}

func (r *residentRepository) GetByID(ctx context.Context, id int32) (*domain.Resident, error) {
	query := `SELECT ` + residentColumns + ` FROM residents WHERE id = $1`
	res := &domain.Resident{}
	if err := scanResident(r.db.QueryRowContext(ctx, query, id), res); err != nil {
		return nil, translateError(err, "resident not found")
	}
	return res, nil
}

func (r *residentRepository) Update(ctx context.Context, res *domain.Resident) error {
	query := `UPDATE residents SET name = $1, house_number = $2, contact = $3, occupancy = $4,
	          opening_balance = $5, updated_at = $6 WHERE id = $7`
	res.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query, res.Name, res.HouseNumber, res.Contact, res.Occupancy,
		res.OpeningBalance, res.UpdatedAt, res.ID)
	return requireRow(result, err, "resident not found")
}

// Deactivate soft deletes a resident; financial history stays intact.
func (r *residentRepository) Deactivate(ctx context.Context, id int32) error {
	query := `UPDATE residents SET is_active = FALSE, updated_at = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return requireRow(result, err, "resident not found")
}

func (r *residentRepository) SetVerification(ctx context.Context, id int32, state domain.VerificationState) error {
	query := `UPDATE residents SET verification = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, state, time.Now(), id)
	return requireRow(result, err, "resident not found")
}

func (r *residentRepository) ListActive(ctx context.Context) ([]domain.Resident, error) {
	query := `SELECT ` + residentColumns + ` FROM residents WHERE is_active = TRUE ORDER BY house_number, id`
	return r.list(ctx, "residentRepository.ListActive", query)
}

func (r *residentRepository) ListByVerification(ctx context.Context, state domain.VerificationState) ([]domain.Resident, error) {
	query := `SELECT ` + residentColumns + ` FROM residents WHERE verification = $1 ORDER BY registered_at DESC`
	return r.list(ctx, "residentRepository.ListByVerification", query, state)
}

// ListActiveWithoutInvoice returns the residents generation still has to bill for period.
func (r *residentRepository) ListActiveWithoutInvoice(ctx context.Context, period domain.Period) ([]domain.Resident, error) {
	query := `SELECT ` + residentColumns + ` FROM residents w
	          WHERE w.is_active = TRUE
	            AND NOT EXISTS (
	                SELECT 1 FROM invoices t
	                WHERE t.resident_id = w.id AND t.month = $1 AND t.year = $2
	            )
	          ORDER BY w.id`
	return r.list(ctx, "residentRepository.ListActiveWithoutInvoice", query, period.Month, period.Year)
}

func (r *residentRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM residents WHERE is_active = TRUE`).Scan(&count)
	return count, err
}

const arrearsTotalsQuery = `
	SELECT w.id, w.name, w.house_number, COALESCE(w.contact, ''), w.opening_balance,
	       COALESCE(inv.total, 0), COALESCE(paid.total, 0)
	FROM residents w
	LEFT JOIN (
	    SELECT resident_id, SUM(total) AS total FROM invoices GROUP BY resident_id
	) inv ON inv.resident_id = w.id
	LEFT JOIN (
	    SELECT resident_id, SUM(amount) AS total FROM payments WHERE verified = TRUE GROUP BY resident_id
	) paid ON paid.resident_id = w.id`

func scanTotals(row interface{ Scan(...any) error }, t *domain.ArrearsTotals) error {
	return row.Scan(&t.ResidentID, &t.ResidentName, &t.HouseNumber, &t.Contact, &t.OpeningBalance,
		&t.TotalInvoiced, &t.TotalPaid)
}

func (r *residentRepository) GetArrearsTotals(ctx context.Context, residentID int32) (*domain.ArrearsTotals, error) {
	query := arrearsTotalsQuery + ` WHERE w.id = $1`
	logger.DatabaseCall("GetArrearsTotals", query, "residentID", residentID)

	t := &domain.ArrearsTotals{}
	if err := scanTotals(r.db.QueryRowContext(ctx, query, residentID), t); err != nil {
		return nil, translateError(err, "resident not found")
	}
	return t, nil
}

// ListActiveArrearsTotals returns lifetime totals for every active resident ordered by id.
func (r *residentRepository) ListActiveArrearsTotals(ctx context.Context) ([]domain.ArrearsTotals, error) {
	query := arrearsTotalsQuery + ` WHERE w.is_active = TRUE ORDER BY w.id`
	logger.DatabaseCall("ListActiveArrearsTotals", query)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := []domain.ArrearsTotals{}
	for rows.Next() {
		var t domain.ArrearsTotals
		if err := scanTotals(rows, &t); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func (r *residentRepository) list(ctx context.Context, method, query string, args ...any) ([]domain.Resident, error) {
	logger.EnterMethod(method)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.ExitMethodWithError(method, err)
		return nil, err
	}
	defer rows.Close()

	residents := []domain.Resident{}
	for rows.Next() {
		var res domain.Resident
		if err := scanResident(rows, &res); err != nil {
			logger.ExitMethodWithError(method, err)
			return nil, err
		}
		residents = append(residents, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logger.ExitMethod(method, "count", len(residents))
	return residents, nil
}

func requireRow(result sql.Result, err error, notFound string) error {
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NewNotFoundError(notFound)
	}
	return nil
}
