package jobs

import (
	"context"
	"time"

	"iuran-rt-backend/internal/logger"
	"iuran-rt-backend/internal/utils"
)

// GenerateMonthlyInvoices bills every active resident for the current period
func (jr *JobRunner) GenerateMonthlyInvoices() {
	jr.runWithRecovery("GenerateMonthlyInvoices", func() {
		ctx := context.Background()
		period := utils.CurrentPeriod(jr.now())

		report, err := jr.services.Invoice.GenerateMonthly(ctx, period)
		if err != nil {
			logger.Error("Failed to generate monthly invoices", "period", period.String(), "error", err)
			return
		}

		logger.Info("Generated monthly invoices",
			"run_id", report.RunID.String(),
			"period", period.String(),
			"created", report.InvoicesCreated,
			"skipped", report.Skipped,
			"standard_total", report.StandardTotal)
	})
}

// TakeArrearsSnapshots records month-end arrears. Cron fires it on the last few days of
// every month and it only acts on the last one.
func (jr *JobRunner) TakeArrearsSnapshots() {
	now := jr.now()
	if !IsLastDayOfMonth(now) {
		logger.Debug("Skipping arrears snapshots, not the last day of the month", "date", now.Format("2006-01-02"))
		return
	}
	jr.TakeArrearsSnapshotsNow()
}

// TakeArrearsSnapshotsNow records arrears for the current period regardless of the date
func (jr *JobRunner) TakeArrearsSnapshotsNow() {
	jr.runWithRecovery("TakeArrearsSnapshots", func() {
		ctx := context.Background()
		period := utils.CurrentPeriod(jr.now())

		inserted, err := jr.services.Arrears.TakeSnapshots(ctx, period)
		if err != nil {
			logger.Error("Failed to take arrears snapshots", "period", period.String(), "error", err)
			return
		}

		logger.Info("Took arrears snapshots", "period", period.String(), "inserted", inserted)
	})
}

// IsLastDayOfMonth reports whether t falls on the last day of its month
func IsLastDayOfMonth(t time.Time) bool {
	return t.Day() == utils.DaysInMonth(t.Year(), int(t.Month()))
}
