package domain

import "fmt"

// Period identifies one billing month.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func NewPeriod(month, year int) (Period, error) {
	p := Period{Month: month, Year: year}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// Validate checks the month range and a sane year.
func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return NewValidationError(fmt.Sprintf("month must be between 1 and 12, got %d", p.Month))
	}
	if p.Year < 2000 || p.Year > 9999 {
		return NewValidationError(fmt.Sprintf("invalid year: %d", p.Year))
	}
	return nil
}

// String renders the period the way residents read it, e.g. "03/2025".
func (p Period) String() string {
	return fmt.Sprintf("%02d/%d", p.Month, p.Year)
}

// Key packs the period into a single sortable integer (YYYYMM).
func (p Period) Key() int32 {
	return int32(p.Year*100 + p.Month)
}
