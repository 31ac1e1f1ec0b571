package postgres

import (
	"context"
	"fmt"

	"iuran-rt-backend/internal/domain"
	"iuran-rt-backend/internal/logger"
	"iuran-rt-backend/internal/repository"
)

type snapshotRepository struct {
	db DBTX
}

func NewSnapshotRepository(db DBTX) repository.SnapshotRepository {
	return &snapshotRepository{db: db}
}

// SaveArrearsSnapshots records the month-end balance of each resident. A resident already
// snapshotted for period keeps its first entry, so rerunning the job changes nothing.
func (r *snapshotRepository) SaveArrearsSnapshots(ctx context.Context, period domain.Period, snapshots []domain.ArrearsSnapshot) (int64, error) {
	logger.EnterMethod("snapshotRepository.SaveArrearsSnapshots", "period", period.String(), "count", len(snapshots))

	query := `INSERT INTO arrears_snapshots (resident_id, month, year, opening_balance, total_invoiced, total_paid, arrears, taken_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	          ON CONFLICT (resident_id, month, year) DO NOTHING`

	var inserted int64
	for _, s := range snapshots {
		result, err := r.db.ExecContext(ctx, query, s.ResidentID, period.Month, period.Year,
			s.OpeningBalance, s.TotalInvoiced, s.TotalPaid, s.Arrears)
		if err != nil {
			logger.ExitMethodWithError("snapshotRepository.SaveArrearsSnapshots", err, "residentID", s.ResidentID)
			return inserted, fmt.Errorf("failed to save snapshot for resident %d: %w", s.ResidentID, err)
		}
		if n, err := result.RowsAffected(); err == nil {
			inserted += n
		}
	}

	logger.ExitMethod("snapshotRepository.SaveArrearsSnapshots", "inserted", inserted)
	return inserted, nil
}
