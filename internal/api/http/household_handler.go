package http

import (
	"net/http"

	"iuran-rt-backend/internal/domain"
)

func (h *Handlers) GetResidentFamily(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := authorizeResident(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	family, err := h.svc.Resident.GetWithFamily(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, family)
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := authorizeResident(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	members, err := h.svc.Resident.ListMembers(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, members)
}

func (h *Handlers) AddMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := authorizeResident(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	var req MemberRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	m := req.toDomain()
	m.ResidentID = id
	if err := h.svc.Resident.AddMember(r.Context(), m); err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, r, "Household member added", m)
}

// ownedMember loads the member in the path and checks the caller may touch its household.
func (h *Handlers) ownedMember(r *http.Request) (*domain.HouseholdMember, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}
	m, err := h.svc.Resident.GetMember(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if err := authorizeResident(r.Context(), m.ResidentID); err != nil {
		return nil, err
	}
	return m, nil
}

func (h *Handlers) GetMember(w http.ResponseWriter, r *http.Request) {
	m, err := h.ownedMember(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, m)
}

func (h *Handlers) UpdateMember(w http.ResponseWriter, r *http.Request) {
	existing, err := h.ownedMember(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req MemberRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	m := req.toDomain()
	m.ID = existing.ID
	if err := h.svc.Resident.UpdateMember(r.Context(), m); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, Response{Success: true, Message: "Household member updated", Data: m})
}

func (h *Handlers) RemoveMember(w http.ResponseWriter, r *http.Request) {
	m, err := h.ownedMember(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Resident.RemoveMember(r.Context(), m.ID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, Response{Success: true, Message: "Household member removed"})
}
