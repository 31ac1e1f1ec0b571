package http

import (
	"net/http"

	"iuran-rt-backend/internal/domain"
)

func (h *Handlers) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Announcement.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, items)
}

func (h *Handlers) GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	a, err := h.svc.Announcement.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, a)
}

func (h *Handlers) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, errAuthRequired)
		return
	}
	var req AnnouncementRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	a := &domain.Announcement{Title: req.Title, Body: req.Body, CreatedBy: claims.UserID, CreatedByName: claims.Username}
	if err := h.svc.Announcement.Publish(r.Context(), a); err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, r, "Announcement published", a)
}

func (h *Handlers) UpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req AnnouncementRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	a := &domain.Announcement{ID: id, Title: req.Title, Body: req.Body}
	if err := h.svc.Announcement.Update(r.Context(), a); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, Response{Success: true, Message: "Announcement updated", Data: a})
}

func (h *Handlers) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Announcement.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, Response{Success: true, Message: "Announcement deleted"})
}
