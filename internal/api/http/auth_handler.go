package http

import (
	"net/http"

	"iuran-rt-backend/internal/domain"
)

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *domain.User `json:"user"`
}

type meResponse struct {
	UserID     int32           `json:"user_id"`
	Username   string          `json:"username"`
	Role       domain.UserRole `json:"role"`
	ResidentID *int32          `json:"resident_id,omitempty"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeOK(w, r, map[string]string{"status": "ok"})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	token, user, err := h.svc.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, Response{
		Success: true,
		Message: "Login successful",
		Data:    loginResponse{AccessToken: token, TokenType: "Bearer", User: user},
	})
}

func (h *Handlers) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, errAuthRequired)
		return
	}
	writeOK(w, r, meResponse{
		UserID:     claims.UserID,
		Username:   claims.Username,
		Role:       claims.Role,
		ResidentID: claims.ResidentID,
	})
}

// SelfRegister is the public sign-up. The household starts pending verification.
func (h *Handlers) SelfRegister(w http.ResponseWriter, r *http.Request) {
	var req SelfRegisterRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.svc.Auth.SelfRegister(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, r, "Registration received, waiting for verification", res)
}

func (h *Handlers) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	user, err := h.svc.Auth.CreateAccount(r.Context(), domain.NewAccount{
		Username:   req.Username,
		Password:   req.Password,
		Role:       domain.UserRole(req.Role),
		ResidentID: req.ResidentID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, r, "Account created", user)
}
