package postgres

import (
	"context"
	"time"

	"iuran-rt-backend/internal/domain"
	"iuran-rt-backend/internal/repository"
)

type dueTypeRepository struct {
	db DBTX
}

func NewDueTypeRepository(db DBTX) repository.DueTypeRepository {
	return &dueTypeRepository{db: db}
}

func (r *dueTypeRepository) Create(ctx context.Context, d *domain.DueType) error {
	query := `INSERT INTO due_types (name, amount, description, mandatory, is_active, created_at)
	          VALUES ($1, $2, $3, $4, TRUE, $5) RETURNING id`
	now := time.Now()
	if err := r.db.QueryRowContext(ctx, query, d.Name, d.Amount, d.Description, d.Mandatory, now).Scan(&d.ID); err != nil {
		return err
	}
	d.Active = true
	d.CreatedAt = now
	return nil
}

func (r *dueTypeRepository) GetByID(ctx context.Context, id int32) (*domain.DueType, error) {
	query := `SELECT id, name, amount, COALESCE(description, ''), mandatory, is_active, created_at FROM due_types WHERE id = $1`
	d := &domain.DueType{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&d.ID, &d.Name, &d.Amount, &d.Description, &d.Mandatory, &d.Active, &d.CreatedAt)
	if err != nil {
		return nil, translateError(err, "due type not found")
	}
	return d, nil
}

// Update changes the catalog entry only; invoices already issued keep their line item amounts.
func (r *dueTypeRepository) Update(ctx context.Context, d *domain.DueType) error {
	query := `UPDATE due_types SET name = $1, amount = $2, description = $3, mandatory = $4 WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, d.Name, d.Amount, d.Description, d.Mandatory, d.ID)
	return requireRow(result, err, "due type not found")
}

func (r *dueTypeRepository) Deactivate(ctx context.Context, id int32) error {
	result, err := r.db.ExecContext(ctx, `UPDATE due_types SET is_active = FALSE WHERE id = $1`, id)
	return requireRow(result, err, "due type not found")
}

func (r *dueTypeRepository) ListActive(ctx context.Context) ([]domain.DueType, error) {
	query := `SELECT id, name, amount, COALESCE(description, ''), mandatory, is_active, created_at
	          FROM due_types WHERE is_active = TRUE ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dueTypes := []domain.DueType{}
	for rows.Next() {
		var d domain.DueType
		if err := rows.Scan(&d.ID, &d.Name, &d.Amount, &d.Description, &d.Mandatory, &d.Active, &d.CreatedAt); err != nil {
			return nil, err
		}
		dueTypes = append(dueTypes, d)
	}
	return dueTypes, rows.Err()
}
