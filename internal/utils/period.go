package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"iuran-rt-backend/internal/domain"
)

// Date represents a calendar date
type Date struct {
	Year  int
	Month int
	Day   int
}

// ParseDate converts a yyyy-mm-dd formatted string into a Date struct
func ParseDate(dateStr string) (Date, error) {
	parts := strings.Split(dateStr, "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd")
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Date{}, fmt.Errorf("invalid year: %v", err)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Date{}, fmt.Errorf("invalid month: %v", err)
	}

	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return Date{}, fmt.Errorf("invalid day: %v", err)
	}

	if month < 1 || month > 12 {
		return Date{}, fmt.Errorf("month must be between 1 and 12")
	}

	if day < 1 || day > DaysInMonth(year, month) {
		return Date{}, fmt.Errorf("day must be between 1 and %d", DaysInMonth(year, month))
	}

	return Date{Year: year, Month: month, Day: day}, nil
}

// Time returns the date at midnight in loc
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, loc)
}

// DaysInMonth returns the number of days in a given month
func DaysInMonth(year, month int) int {
	if month == 2 {
		// Check for leap year
		if (year%4 == 0 && year%100 != 0) || (year%400 == 0) {
			return 29
		}
		return 28
	}

	// Months with 30 days: April, June, September, November
	if month == 4 || month == 6 || month == 9 || month == 11 {
		return 30
	}

	return 31
}

// ParsePeriod accepts "yyyy-mm" or "mm/yyyy"
func ParsePeriod(s string) (domain.Period, error) {
	s = strings.TrimSpace(s)
	var monthStr, yearStr string
	switch {
	case strings.Contains(s, "-"):
		parts := strings.Split(s, "-")
		if len(parts) != 2 {
			return domain.Period{}, domain.NewValidationError("invalid period format, expected yyyy-mm or mm/yyyy")
		}
		yearStr, monthStr = parts[0], parts[1]
	case strings.Contains(s, "/"):
		parts := strings.Split(s, "/")
		if len(parts) != 2 {
			return domain.Period{}, domain.NewValidationError("invalid period format, expected yyyy-mm or mm/yyyy")
		}
		monthStr, yearStr = parts[0], parts[1]
	default:
		return domain.Period{}, domain.NewValidationError("invalid period format, expected yyyy-mm or mm/yyyy")
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return domain.Period{}, domain.NewValidationError(fmt.Sprintf("invalid month: %s", monthStr))
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return domain.Period{}, domain.NewValidationError(fmt.Sprintf("invalid year: %s", yearStr))
	}
	return domain.NewPeriod(month, year)
}

// CurrentPeriod returns the billing period containing now
func CurrentPeriod(now time.Time) domain.Period {
	return domain.Period{Month: int(now.Month()), Year: now.Year()}
}

// MonthBounds returns [start, end) of the period as dates in loc
func MonthBounds(p domain.Period, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}
