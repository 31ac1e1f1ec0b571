package domain

import "time"

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCash || m == PaymentMethodTransfer
}

// AutoVerified reports whether payments made this way are verified on entry.
func (m PaymentMethod) AutoVerified() bool {
	return m == PaymentMethodCash
}

// VerificationPolicy decides what verifying an already verified payment does.
type VerificationPolicy string

const (
	VerificationPolicyReject  VerificationPolicy = "reject"
	VerificationPolicyRestamp VerificationPolicy = "restamp"
)

func (p VerificationPolicy) IsValid() bool {
	return p == VerificationPolicyReject || p == VerificationPolicyRestamp
}

// Payment is money received from a resident, optionally tied to one invoice.
type Payment struct {
	ID         int32         `json:"id"`
	ResidentID int32         `json:"resident_id"`
	InvoiceID  *int32        `json:"invoice_id,omitempty"`
	Date       time.Time     `json:"date"`
	Amount     int64         `json:"amount"`
	Method     PaymentMethod `json:"method"`
	ProofRef   string        `json:"proof_ref,omitempty"`
	Note       string        `json:"note,omitempty"`
	RecordedBy *int32        `json:"recorded_by,omitempty"`
	Verified   bool          `json:"verified"`
	VerifiedBy *int32        `json:"verified_by,omitempty"`
	VerifiedAt *time.Time    `json:"verified_at,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// PaymentView is a payment joined with its resident and the invoice period it settles.
type PaymentView struct {
	Payment
	ResidentName  string  `json:"resident_name"`
	HouseNumber   string  `json:"house_number"`
	Contact       string  `json:"contact,omitempty"`
	InvoicePeriod *Period `json:"invoice_period,omitempty"`
}

// RecordPaymentInput carries a payment submission before validation.
type RecordPaymentInput struct {
	ResidentID int32
	InvoiceID  *int32
	Amount     int64
	Method     PaymentMethod
	Date       *time.Time
	ProofRef   string
	Note       string
	RecordedBy *int32
}

// Validate applies defaults and checks the fields that need no store lookup.
func (in *RecordPaymentInput) Validate() error {
	if in.ResidentID <= 0 {
		return NewValidationError("resident id is required")
	}
	if in.Amount <= 0 {
		return NewValidationError("payment amount must be greater than zero")
	}
	if in.Method == "" {
		in.Method = PaymentMethodCash
	}
	if !in.Method.IsValid() {
		return NewValidationError("payment method must be cash or transfer")
	}
	if in.InvoiceID != nil && *in.InvoiceID <= 0 {
		return NewValidationError("invalid invoice id")
	}
	return nil
}

// MethodTotal is the verified total for one payment method in a month.
type MethodTotal struct {
	Method           PaymentMethod `json:"method"`
	TransactionCount int           `json:"transaction_count"`
	Total            int64         `json:"total"`
}

// MonthlyPaymentReport lists the verified payments dated in one month.
type MonthlyPaymentReport struct {
	Period           Period        `json:"period"`
	Payments         []PaymentView `json:"payments"`
	TransactionCount int           `json:"transaction_count"`
	Total            int64         `json:"total"`
}
