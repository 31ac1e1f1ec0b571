package http

import (
	"net/http"
	"time"

	"iuran-rt-backend/internal/domain"
	"iuran-rt-backend/internal/utils"
)

// RecordPayment accepts a payment submission. Residents may only submit transfers
// for themselves; cash is recorded by an admin since it is verified on entry.
func (h *Handlers) RecordPayment(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, errAuthRequired)
		return
	}

	var req RecordPaymentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	in := domain.RecordPaymentInput{
		ResidentID: req.ResidentID,
		InvoiceID:  req.InvoiceID,
		Amount:     req.Amount,
		Method:     domain.PaymentMethod(req.Method),
		ProofRef:   req.ProofRef,
		Note:       req.Note,
		RecordedBy: &claims.UserID,
	}

	if !claims.IsAdmin() {
		if claims.ResidentID == nil {
			writeError(w, r, &domain.Error{Kind: domain.ErrorKindForbidden, Message: "account is not linked to a resident"})
			return
		}
		if in.ResidentID == 0 {
			in.ResidentID = *claims.ResidentID
		}
		if in.Method == "" {
			in.Method = domain.PaymentMethodTransfer
		}
		if err := authorizeResident(r.Context(), in.ResidentID); err != nil {
			writeError(w, r, err)
			return
		}
		if in.Method != domain.PaymentMethodTransfer {
			writeError(w, r, &domain.Error{Kind: domain.ErrorKindForbidden, Message: "cash payments are recorded by an admin"})
			return
		}
	}

	if err := h.checkProofRef(r, in.ResidentID, in.ProofRef); err != nil {
		writeError(w, r, err)
		return
	}

	if req.Date != "" {
		d, err := utils.ParseDate(req.Date)
		if err != nil {
			writeError(w, r, domain.NewValidationError(err.Error()))
			return
		}
		t := d.Time(time.UTC)
		in.Date = &t
	}

	payment, err := h.svc.Payment.RecordPayment(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, r, "Payment recorded", payment)
}

func (h *Handlers) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.svc.Payment.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := authorizeResident(r.Context(), p.ResidentID); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, p)
}

func (h *Handlers) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, errAuthRequired)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.svc.Payment.VerifyPayment(r.Context(), id, claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, Response{Success: true, Message: "Payment verified", Data: p})
}

func (h *Handlers) ListPendingPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.svc.Payment.GetPendingVerification(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, payments)
}

func (h *Handlers) MonthlyPayments(w http.ResponseWriter, r *http.Request) {
	period, err := queryPeriod(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, err := h.svc.Payment.GetMonthlyReport(r.Context(), period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, report)
}
