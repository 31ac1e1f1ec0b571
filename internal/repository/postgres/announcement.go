package postgres

import (
	"context"
	"time"

	"iuran-rt-backend/internal/domain"
	"iuran-rt-backend/internal/logger"
	"iuran-rt-backend/internal/repository"
)

type announcementRepository struct {
	db DBTX
}

func NewAnnouncementRepository(db DBTX) repository.AnnouncementRepository {
	return &announcementRepository{db: db}
}

const announcementSelect = `SELECT a.id, a.title, a.body, a.created_by, u.username, a.created_at
	FROM announcements a
	JOIN users u ON u.id = a.created_by`

func scanAnnouncement(row interface{ Scan(...any) error }, a *domain.Announcement) error {
	return row.Scan(&a.ID, &a.Title, &a.Body, &a.CreatedBy, &a.CreatedByName, &a.CreatedAt)
}

func (r *announcementRepository) Create(ctx context.Context, a *domain.Announcement) error {
	query := `INSERT INTO announcements (title, body, created_by, created_at) VALUES ($1, $2, $3, $4) RETURNING id`
	now := time.Now()
	logger.DatabaseCall("CreateAnnouncement", query, "createdBy", a.CreatedBy)
	if err := r.db.QueryRowContext(ctx, query, a.Title, a.Body, a.CreatedBy, now).Scan(&a.ID); err != nil {
		logger.DatabaseResult("CreateAnnouncement", 0, err)
		return err
	}
	a.CreatedAt = now
	return nil
}

func (r *announcementRepository) GetByID(ctx context.Context, id int32) (*domain.Announcement, error) {
	a := &domain.Announcement{}
	if err := scanAnnouncement(r.db.QueryRowContext(ctx, announcementSelect+` WHERE a.id = $1`, id), a); err != nil {
		return nil, translateError(err, "announcement not found")
	}
	return a, nil
}

func (r *announcementRepository) Update(ctx context.Context, a *domain.Announcement) error {
	result, err := r.db.ExecContext(ctx, `UPDATE announcements SET title = $1, body = $2 WHERE id = $3`, a.Title, a.Body, a.ID)
	return requireRow(result, err, "announcement not found")
}

func (r *announcementRepository) Delete(ctx context.Context, id int32) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	return requireRow(result, err, "announcement not found")
}

func (r *announcementRepository) List(ctx context.Context, limit int) ([]domain.Announcement, error) {
	query := announcementSelect + ` ORDER BY a.created_at DESC, a.id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	logger.DatabaseCall("ListAnnouncements", query, "limit", limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	announcements := []domain.Announcement{}
	for rows.Next() {
		var a domain.Announcement
		if err := scanAnnouncement(rows, &a); err != nil {
			return nil, err
		}
		announcements = append(announcements, a)
	}
	return announcements, rows.Err()
}
