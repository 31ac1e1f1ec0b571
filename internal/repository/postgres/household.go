package postgres

import (
	"context"
	"database/sql"
	"time"

	"iuran-rt-backend/internal/domain"
	"iuran-rt-backend/internal/logger"
	"iuran-rt-backend/internal/repository"
)

type householdRepository struct {
	db DBTX
}

func NewHouseholdRepository(db DBTX) repository.HouseholdRepository {
	return &householdRepository{db: db}
}

const memberColumns = `id, resident_id, full_name, COALESCE(national_id, ''), relationship,
	COALESCE(birth_place, ''), birth_date, gender, COALESCE(note, ''), is_active, created_at`

func scanMember(row interface{ Scan(...any) error }, m *domain.HouseholdMember) error {
	var birthDate sql.NullTime
	if err := row.Scan(&m.ID, &m.ResidentID, &m.FullName, &m.NationalID, &m.Relationship,
		&m.BirthPlace, &birthDate, &m.Gender, &m.Note, &m.Active, &m.CreatedAt); err != nil {
		return err
	}
	m.BirthDate = nil
	if birthDate.Valid {
		d := birthDate.Time
		m.BirthDate = &d
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func (r *householdRepository) Create(ctx context.Context, m *domain.HouseholdMember) error {
	logger.EnterMethod("householdRepository.Create", "residentID", m.ResidentID)

	query := `INSERT INTO household_members (resident_id, full_name, national_id, relationship, birth_place,
	          birth_date, gender, note, is_active, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, $9) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query, m.ResidentID, m.FullName, nullString(m.NationalID), m.Relationship,
		nullString(m.BirthPlace), nullTime(m.BirthDate), m.Gender, nullString(m.Note), now).Scan(&m.ID)
	if err != nil {
		logger.ExitMethodWithError("householdRepository.Create", err)
		return err
	}
	m.Active = true
	m.CreatedAt = now

	logger.ExitMethod("householdRepository.Create", "memberID", m.ID)
	return nil
}

func (r *householdRepository) GetByID(ctx context.Context, id int32) (*domain.HouseholdMember, error) {
	query := `SELECT ` + memberColumns + ` FROM household_members WHERE id = $1`
	m := &domain.HouseholdMember{}
	if err := scanMember(r.db.QueryRowContext(ctx, query, id), m); err != nil {
		return nil, translateError(err, "household member not found")
	}
	return m, nil
}

func (r *householdRepository) Update(ctx context.Context, m *domain.HouseholdMember) error {
	query := `UPDATE household_members SET full_name = $1, national_id = $2, relationship = $3, birth_place = $4,
	          birth_date = $5, gender = $6, note = $7 WHERE id = $8 AND is_active = TRUE`
	result, err := r.db.ExecContext(ctx, query, m.FullName, nullString(m.NationalID), m.Relationship,
		nullString(m.BirthPlace), nullTime(m.BirthDate), m.Gender, nullString(m.Note), m.ID)
	return requireRow(result, err, "household member not found")
}

func (r *householdRepository) Deactivate(ctx context.Context, id int32) error {
	query := `UPDATE household_members SET is_active = FALSE WHERE id = $1 AND is_active = TRUE`
	result, err := r.db.ExecContext(ctx, query, id)
	return requireRow(result, err, "household member not found")
}

func (r *householdRepository) ListByResident(ctx context.Context, residentID int32) ([]domain.HouseholdMember, error) {
	query := `SELECT ` + memberColumns + ` FROM household_members
	          WHERE resident_id = $1 AND is_active = TRUE
	          ORDER BY CASE relationship
	                       WHEN 'wife' THEN 1 WHEN 'husband' THEN 1
	                       WHEN 'child' THEN 2
	                       WHEN 'parent' THEN 3
	                       WHEN 'parent_in_law' THEN 4
	                       WHEN 'sibling' THEN 5
	                       ELSE 6
	                   END,
	                   birth_date ASC NULLS LAST, id`
	logger.DatabaseCall("ListHouseholdMembers", query, "residentID", residentID)

	rows, err := r.db.QueryContext(ctx, query, residentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []domain.HouseholdMember{}
	for rows.Next() {
		var m domain.HouseholdMember
		if err := scanMember(rows, &m); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
