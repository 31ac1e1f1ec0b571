package http

import (
	"net/http"

	"iuran-rt-backend/internal/domain"
)

func (h *Handlers) ListResidents(w http.ResponseWriter, r *http.Request) {
	residents, err := h.svc.Resident.ListActive(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, residents)
}

func (h *Handlers) PendingResidents(w http.ResponseWriter, r *http.Request) {
	residents, err := h.svc.Resident.ListPendingVerification(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, residents)
}

func (h *Handlers) GetResident(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.Resident.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, res)
}

func (h *Handlers) CreateResident(w http.ResponseWriter, r *http.Request) {
	var req CreateResidentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	res := req.toDomain()
	if err := h.svc.Resident.Register(r.Context(), res, membersToDomain(req.Members)); err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, r, "Resident registered", res)
}

func (h *Handlers) UpdateResident(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req ResidentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	res := req.toDomain()
	res.ID = id
	if err := h.svc.Resident.Update(r.Context(), res); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, Response{Success: true, Message: "Resident updated", Data: res})
}

func (h *Handlers) DeactivateResident(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Resident.Deactivate(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, Response{Success: true, Message: "Resident deactivated"})
}

func (h *Handlers) SetVerification(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req VerificationRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.svc.Resident.SetVerification(r.Context(), id, domain.VerificationState(req.State)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, Response{Success: true, Message: "Verification updated"})
}

type residentArrearsResponse struct {
	Arrears  *domain.ArrearsSnapshot `json:"arrears"`
	Invoices []domain.InvoiceView    `json:"invoices"`
}

// GetResidentArrears returns the running balance plus the per-invoice breakdown.
func (h *Handlers) GetResidentArrears(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := authorizeResident(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	snapshot, err := h.svc.Arrears.ComputeArrears(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	invoices, err := h.svc.Arrears.GetInvoiceBreakdown(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, residentArrearsResponse{Arrears: snapshot, Invoices: invoices})
}

func (h *Handlers) ResidentDashboard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := authorizeResident(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	dash, err := h.svc.Report.ResidentDashboard(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, dash)
}

func (h *Handlers) DelinquencyReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Arrears.GetDelinquencyReport(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, map[string]any{
		"residents":     report,
		"total_arrears": domain.SumArrears(report),
	})
}
