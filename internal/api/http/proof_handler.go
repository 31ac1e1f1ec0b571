package http

import (
	"io"
	"net/http"
	"strconv"

	"iuran-rt-backend/internal/domain"
	"iuran-rt-backend/internal/logger"
	"iuran-rt-backend/internal/storage"
)

// proofFormField is the multipart field carrying the transfer receipt.
const proofFormField = "bukti_transfer"

type proofResponse struct {
	ProofRef string `json:"proof_ref"`
}

// UploadProof stores a transfer receipt and returns the reference to pass as proof_ref
// when recording the payment. Residents upload for themselves; admins name the resident
// with the resident_id form value.
func (h *Handlers) UploadProof(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, errAuthRequired)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, r, domain.NewValidationError("invalid upload: "+err.Error()))
		return
	}

	var residentID int32
	if claims.IsAdmin() {
		id, err := strconv.ParseInt(r.FormValue("resident_id"), 10, 32)
		if err != nil || id <= 0 {
			writeError(w, r, domain.NewValidationError("resident_id is required"))
			return
		}
		residentID = int32(id)
	} else {
		if claims.ResidentID == nil {
			writeError(w, r, &domain.Error{Kind: domain.ErrorKindForbidden, Message: "account is not linked to a resident"})
			return
		}
		residentID = *claims.ResidentID
	}

	file, header, err := r.FormFile(proofFormField)
	if err != nil {
		writeError(w, r, domain.NewValidationError("missing "+proofFormField+" file"))
		return
	}
	defer file.Close()

	key, err := h.proofs.Save(r.Context(), residentID, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, r, "Proof uploaded", proofResponse{ProofRef: key})
}

// GetPaymentProof streams the receipt attached to a payment.
func (h *Handlers) GetPaymentProof(w http.ResponseWriter, r *http.Request) {
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
	if p.ProofRef == "" {
		writeError(w, r, domain.NewNotFoundError("payment has no proof attached"))
		return
	}

	file, contentType, err := h.proofs.Open(r.Context(), p.ProofRef)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := io.Copy(w, file); err != nil {
		logger.Error("Failed to stream proof", "paymentID", id, "error", err)
	}
}

// checkProofRef makes sure a referenced receipt exists and was uploaded for the payer.
func (h *Handlers) checkProofRef(r *http.Request, residentID int32, key string) error {
	if key == "" {
		return nil
	}
	if !storage.OwnedBy(key, residentID) {
		return domain.NewValidationError("proof does not belong to this resident")
	}
	exists, _, err := h.proofs.Exists(r.Context(), key)
	if err != nil {
		return err
	}
	if !exists {
		return domain.NewValidationError("proof not found, upload it first")
	}
	return nil
}
