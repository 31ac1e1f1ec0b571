package domain

import (
	"strings"
	"time"
)

// DueType is a recurring fixed-amount charge category.
type DueType struct {
	ID          int32     `json:"id"`
	Name        string    `json:"name"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description"`
	Mandatory   bool      `json:"mandatory"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (d *DueType) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return NewValidationError("due type name is required")
	}
	if d.Amount <= 0 {
		return NewValidationError("due type amount must be greater than zero")
	}
	return nil
}

// StandardTotal is the amount every resident is billed for one period.
func StandardTotal(dueTypes []DueType) int64 {
	var total int64
	for _, d := range dueTypes {
		total += d.Amount
	}
	return total
}
