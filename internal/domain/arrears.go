package domain

import (
	"sort"
	"time"
)

type ArrearsStatus string

const (
	ArrearsStatusHasArrears ArrearsStatus = "has_arrears"
	ArrearsStatusSettled    ArrearsStatus = "settled"
)

// ArrearsTotals are the lifetime sums read from the store for one resident.
type ArrearsTotals struct {
	ResidentID     int32  `json:"resident_id"`
	ResidentName   string `json:"resident_name"`
	HouseNumber    string `json:"house_number"`
	Contact        string `json:"contact,omitempty"`
	OpeningBalance int64  `json:"opening_balance"`
	TotalInvoiced  int64  `json:"total_invoiced"`
	TotalPaid      int64  `json:"total_paid"`
}

// ArrearsSnapshot is a resident's running balance at the time it was computed.
type ArrearsSnapshot struct {
	ArrearsTotals
	Arrears int64         `json:"arrears"`
	Status  ArrearsStatus `json:"status"`
}

// ComputeArrears applies opening + invoiced - verified paid.
func ComputeArrears(t ArrearsTotals) ArrearsSnapshot {
	arrears := t.OpeningBalance + t.TotalInvoiced - t.TotalPaid
	status := ArrearsStatusSettled
	if arrears > 0 {
		status = ArrearsStatusHasArrears
	}
	return ArrearsSnapshot{ArrearsTotals: t, Arrears: arrears, Status: status}
}

// DelinquencyReport keeps residents that owe money, largest debt first.
// Input order (resident id) breaks ties.
func DelinquencyReport(totals []ArrearsTotals) []ArrearsSnapshot {
	report := make([]ArrearsSnapshot, 0, len(totals))
	for _, t := range totals {
		s := ComputeArrears(t)
		if s.Arrears > 0 {
			report = append(report, s)
		}
	}
	sort.SliceStable(report, func(i, j int) bool {
		return report[i].Arrears > report[j].Arrears
	})
	return report
}

// SumArrears totals the arrears of a report.
func SumArrears(report []ArrearsSnapshot) int64 {
	var total int64
	for _, s := range report {
		total += s.Arrears
	}
	return total
}

// StoredArrearsSnapshot is a delinquency entry persisted at month end.
type StoredArrearsSnapshot struct {
	ResidentID int32     `json:"resident_id"`
	Period     Period    `json:"period"`
	Arrears    int64     `json:"arrears"`
	TakenAt    time.Time `json:"taken_at"`
}
