package domain

import (
	"time"

	"github.com/google/uuid"
)

type InvoiceStatus string

const (
	InvoiceStatusUnpaid  InvoiceStatus = "unpaid"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusUnpaid, InvoiceStatusPartial, InvoiceStatusPaid:
		return true
	}
	return false
}

func (s InvoiceStatus) String() string {
	return string(s)
}

// InvoiceStatusFor derives an invoice status from the verified payments attached to it.
// It says nothing about the resident's lifetime arrears.
func InvoiceStatusFor(verifiedPaid, total int64) InvoiceStatus {
	switch {
	case verifiedPaid >= total:
		return InvoiceStatusPaid
	case verifiedPaid > 0:
		return InvoiceStatusPartial
	default:
		return InvoiceStatusUnpaid
	}
}

// Invoice is one resident's bill for one period.
type Invoice struct {
	ID         int32             `json:"id"`
	ResidentID int32             `json:"resident_id"`
	Period     Period            `json:"period"`
	Total      int64             `json:"total"`
	Status     InvoiceStatus     `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
	LineItems  []InvoiceLineItem `json:"line_items,omitempty"`
}

// InvoiceLineItem captures a due type's amount at the moment the invoice was created.
type InvoiceLineItem struct {
	ID          int32  `json:"id"`
	InvoiceID   int32  `json:"invoice_id"`
	DueTypeID   int32  `json:"due_type_id"`
	DueTypeName string `json:"due_type_name,omitempty"`
	Amount      int64  `json:"amount"`
}

// NewInvoice builds an unpaid invoice with one line item per due type.
func NewInvoice(residentID int32, period Period, dueTypes []DueType) *Invoice {
	inv := &Invoice{
		ResidentID: residentID,
		Period:     period,
		Total:      StandardTotal(dueTypes),
		Status:     InvoiceStatusUnpaid,
		LineItems:  make([]InvoiceLineItem, 0, len(dueTypes)),
	}
	for _, d := range dueTypes {
		inv.LineItems = append(inv.LineItems, InvoiceLineItem{
			DueTypeID:   d.ID,
			DueTypeName: d.Name,
			Amount:      d.Amount,
		})
	}
	return inv
}

// InvoiceView is an invoice joined with its resident and what has been paid on it so far.
type InvoiceView struct {
	Invoice
	ResidentName string `json:"resident_name"`
	HouseNumber  string `json:"house_number"`
	Contact      string `json:"contact,omitempty"`
	PaidSoFar    int64  `json:"paid_so_far"`
}

// Remaining is what is still owed on this invoice alone.
func (v InvoiceView) Remaining() int64 {
	return v.Total - v.PaidSoFar
}

// GenerationReport is the outcome of one monthly generation run.
type GenerationReport struct {
	RunID           uuid.UUID `json:"run_id"`
	Period          Period    `json:"period"`
	InvoicesCreated int       `json:"invoices_created"`
	Skipped         int       `json:"skipped"`
	StandardTotal   int64     `json:"standard_total"`
	DueTypeCount    int       `json:"due_type_count"`
}
