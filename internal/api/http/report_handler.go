package http

import (
	"fmt"
	"net/http"
	"time"

	"iuran-rt-backend/internal/domain"
	"iuran-rt-backend/internal/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handlers) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Report.DashboardSummary(r.Context(), time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, summary)
}

func (h *Handlers) CashFlowReport(w http.ResponseWriter, r *http.Request) {
	period, err := queryPeriod(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, err := h.svc.Report.MonthlyCashFlow(r.Context(), period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, report)
}

func (h *Handlers) DueTypeReport(w http.ResponseWriter, r *http.Request) {
	period, err := queryPeriod(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, err := h.svc.Report.PerDueTypeReport(r.Context(), period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, report)
}

// CashFlowExport streams the month's cash flow as an xlsx workbook.
func (h *Handlers) CashFlowExport(w http.ResponseWriter, r *http.Request) {
	period, err := queryPeriod(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, err := h.svc.Report.MonthlyCashFlow(r.Context(), period)
	if err != nil {
		writeError(w, r, err)
		return
	}

	f, err := BuildCashFlowWorkbook(report, h.sheetName)
	if err != nil {
		writeError(w, r, domain.NewPersistenceError("failed to build workbook", err))
		return
	}
	defer f.Close()

	fileName := fmt.Sprintf("cash_flow_%04d_%02d.xlsx", period.Year, period.Month)
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(w); err != nil {
		logger.Error("Failed to write workbook", "period", period.String(), "error", err)
	}
}
