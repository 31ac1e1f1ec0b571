package http

import (
	"fmt"

	"iuran-rt-backend/internal/domain"

	"github.com/xuri/excelize/v2"
)

var cashFlowHeaders = []string{"Date", "Resident", "House", "Invoice Period", "Method", "Amount", "Proof", "Note"}

// BuildCashFlowWorkbook lays out one row per verified payment followed by the
// method breakdown and the month's totals.
func BuildCashFlowWorkbook(report *domain.CashFlowReport, sheetName string) (*excelize.File, error) {
	f := excelize.NewFile()
	if _, err := f.NewSheet(sheetName); err != nil {
		f.Close()
		return nil, err
	}
	if sheetName != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			f.Close()
			return nil, err
		}
	}
	index, err := f.GetSheetIndex(sheetName)
	if err != nil {
		f.Close()
		return nil, err
	}
	f.SetActiveSheet(index)

	set := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		f.SetCellValue(sheetName, cell, v)
	}

	set(1, 1, fmt.Sprintf("Cash flow %s", report.Period))
	for i, header := range cashFlowHeaders {
		set(i+1, 3, header)
	}

	row := 4
	for _, p := range report.Payments {
		set(1, row, p.Date.Format("2006-01-02"))
		set(2, row, p.ResidentName)
		set(3, row, p.HouseNumber)
		if p.InvoicePeriod != nil {
			set(4, row, p.InvoicePeriod.String())
		}
		set(5, row, string(p.Method))
		set(6, row, p.Amount)
		set(7, row, p.ProofRef)
		set(8, row, p.Note)
		row++
	}

	row++
	set(1, row, "Method")
	set(2, row, "Transactions")
	set(3, row, "Total")
	row++
	for _, m := range report.ByMethod {
		set(1, row, string(m.Method))
		set(2, row, m.TransactionCount)
		set(3, row, m.Total)
		row++
	}

	row++
	summary := [][2]any{
		{"Total invoiced", report.TotalInvoiced},
		{"Total received", report.TotalReceived},
		{"Transactions", report.TransactionCount},
		{"Collection rate (%)", report.CollectionRate.StringFixed(2)},
	}
	for _, kv := range summary {
		set(1, row, kv[0])
		set(2, row, kv[1])
		row++
	}
	return f, nil
}
