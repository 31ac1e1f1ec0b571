package http

import (
	"net/http"

	"iuran-rt-backend/internal/domain"
)

func (h *Handlers) GenerateInvoices(w http.ResponseWriter, r *http.Request) {
	var req GenerateInvoicesRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	report, err := h.svc.Invoice.GenerateMonthly(r.Context(), domain.Period{Month: req.Month, Year: req.Year})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, r, "Invoice generation finished", report)
}

func (h *Handlers) ListInvoices(w http.ResponseWriter, r *http.Request) {
	period, err := queryPeriod(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	invoices, err := h.svc.Invoice.ListByPeriod(r.Context(), period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, invoices)
}

func (h *Handlers) ListOutstanding(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.svc.Invoice.ListOutstanding(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, invoices)
}

// GetInvoice is open to residents for their own invoices only.
func (h *Handlers) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	inv, err := h.svc.Invoice.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := authorizeResident(r.Context(), inv.ResidentID); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, inv)
}

// ListResidentBills lists one resident's invoices, optionally filtered by ?status=.
func (h *Handlers) ListResidentBills(w http.ResponseWriter, r *http.Request) {
	residentID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var status *domain.InvoiceStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.InvoiceStatus(s)
		status = &st
	}
	invoices, err := h.svc.Invoice.ListByResident(r.Context(), residentID, status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, invoices)
}
