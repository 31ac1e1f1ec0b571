package domain

import "github.com/shopspring/decimal"

// CashFlowReport summarizes one month of verified receipts against what was billed.
type CashFlowReport struct {
	Period           Period          `json:"period"`
	TotalInvoiced    int64           `json:"total_invoiced"`
	TotalReceived    int64           `json:"total_received"`
	TransactionCount int             `json:"transaction_count"`
	CollectionRate   decimal.Decimal `json:"collection_rate"`
	ByMethod         []MethodTotal   `json:"by_method"`
	Payments         []PaymentView   `json:"payments"`
}

// DueTypeCollectionRow is one due type's line in the per-due-type report.
// Collected only counts line items of invoices whose overall status is paid.
type DueTypeCollectionRow struct {
	DueTypeID    int32  `json:"due_type_id"`
	Name         string `json:"name"`
	Amount       int64  `json:"amount"`
	InvoiceCount int    `json:"invoice_count"`
	Expected     int64  `json:"expected"`
	Collected    int64  `json:"collected"`
}

type DueTypeReport struct {
	Period Period                 `json:"period"`
	Rows   []DueTypeCollectionRow `json:"rows"`
}

// DashboardSummary is the admin landing view.
type DashboardSummary struct {
	ActiveResidents    int               `json:"active_residents"`
	DelinquentCount    int               `json:"delinquent_count"`
	TotalArrears       int64             `json:"total_arrears"`
	CurrentMonth       *CashFlowReport   `json:"current_month"`
	PendingVerifyCount int               `json:"pending_verification_count"`
	TopDebtors         []ArrearsSnapshot `json:"top_debtors"`
}

// ResidentDashboard is what a resident sees about their own account.
type ResidentDashboard struct {
	Arrears        ArrearsSnapshot `json:"arrears"`
	Invoices       []InvoiceView   `json:"invoices"`
	RecentPayments []PaymentView   `json:"recent_payments"`
	Announcements  []Announcement  `json:"announcements"`
}
