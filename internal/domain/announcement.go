package domain

import (
	"strings"
	"time"
)

// LatestAnnouncements is how many announcements the resident dashboard shows.
const LatestAnnouncements = 5

// Announcement is a notice the administrators publish to every resident.
type Announcement struct {
	ID            int32     `json:"id"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	CreatedBy     int32     `json:"created_by"`
	CreatedByName string    `json:"created_by_name"`
	CreatedAt     time.Time `json:"created_at"`
}

func (a *Announcement) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return NewValidationError("announcement title is required")
	}
	if strings.TrimSpace(a.Body) == "" {
		return NewValidationError("announcement body is required")
	}
	return nil
}
