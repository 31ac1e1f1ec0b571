package domain

import (
	"strings"
	"time"
)

type OccupancyStatus string

const (
	OccupancyPermanent OccupancyStatus = "permanent"
	OccupancyLeased    OccupancyStatus = "leased"
)

func (s OccupancyStatus) IsValid() bool {
	return s == OccupancyPermanent || s == OccupancyLeased
}

type VerificationState string

const (
	VerificationPending  VerificationState = "pending"
	VerificationVerified VerificationState = "verified"
	VerificationRejected VerificationState = "rejected"
)

func (s VerificationState) IsValid() bool {
	switch s {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

// Resident is a registered household, the billing unit for dues.
type Resident struct {
	ID             int32             `json:"id"`
	Name           string            `json:"name"`
	HouseNumber    string            `json:"house_number"`
	Contact        string            `json:"contact"`
	Occupancy      OccupancyStatus   `json:"occupancy"`
	Active         bool              `json:"active"`
	OpeningBalance int64             `json:"opening_balance"`
	Verification   VerificationState `json:"verification"`
	RegisteredAt   time.Time         `json:"registered_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// Validate checks the fields required before the resident is written.
func (r *Resident) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return NewValidationError("resident name is required")
	}
	if strings.TrimSpace(r.HouseNumber) == "" {
		return NewValidationError("house number is required")
	}
	if r.Occupancy == "" {
		r.Occupancy = OccupancyPermanent
	}
	if !r.Occupancy.IsValid() {
		return NewValidationError("occupancy must be permanent or leased")
	}
	if r.OpeningBalance < 0 {
		return NewValidationError("opening balance cannot be negative")
	}
	return nil
}
