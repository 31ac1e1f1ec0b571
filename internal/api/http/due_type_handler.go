package http

import (
	"net/http"

	"iuran-rt-backend/internal/domain"
)

type dueTypeListResponse struct {
	DueTypes      []domain.DueType `json:"due_types"`
	StandardTotal int64            `json:"standard_total"`
}

func (h *Handlers) ListDueTypes(w http.ResponseWriter, r *http.Request) {
	dueTypes, err := h.svc.DueType.ListActive(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, dueTypeListResponse{DueTypes: dueTypes, StandardTotal: domain.StandardTotal(dueTypes)})
}

func (h *Handlers) GetDueType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	d, err := h.svc.DueType.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, d)
}

func (h *Handlers) CreateDueType(w http.ResponseWriter, r *http.Request) {
	var req DueTypeRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	d := req.toDomain()
	if err := h.svc.DueType.Create(r.Context(), d); err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, r, "Due type created", d)
}

func (h *Handlers) UpdateDueType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req DueTypeRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	d := req.toDomain()
	d.ID = id
	if err := h.svc.DueType.Update(r.Context(), d); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, Response{Success: true, Message: "Due type updated", Data: d})
}

func (h *Handlers) DeactivateDueType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.DueType.Deactivate(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, Response{Success: true, Message: "Due type deactivated"})
}
