package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"iuran-rt-backend/internal/config"
	"iuran-rt-backend/internal/domain"
	"iuran-rt-backend/internal/logger"
	"iuran-rt-backend/internal/security"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// RequestIDHeader carries the request id in and out.
const RequestIDHeader = "X-Request-ID"

var errAuthRequired = &domain.Error{Kind: domain.ErrorKindUnauthorized, Message: "authentication required"}

type contextKey int

const (
	requestIDKey contextKey = iota
	claimsKey
)

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// ClaimsFromContext returns the caller's token claims, if the route required a token.
func ClaimsFromContext(ctx context.Context) (*security.UserClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*security.UserClaims)
	return claims, ok && claims != nil
}

func withClaims(ctx context.Context, claims *security.UserClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// requestIDMiddleware reuses the caller's X-Request-ID or mints one.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.InfoContext(r.Context(), "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"requestID", RequestIDFromContext(r.Context()))
	})
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("Handler panicked", "path", r.URL.Path, "panic", rec, "requestID", RequestIDFromContext(r.Context()))
				writeJSON(w, r, http.StatusInternalServerError, Response{Success: false, Message: "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// AuthMiddleware authenticates and authorizes requests by the matched route's name.
type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tm security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm}
}

func (a *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		routeName := ""
		if route := mux.CurrentRoute(r); route != nil {
			routeName = route.GetName()
		}
		level := config.GetSecurityLevel(routeName)

		// Public endpoint - skip auth
		if level == config.SecurityPublic {
			logger.DebugContext(r.Context(), "Public route, skipping auth", "route", routeName)
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractToken(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		claims, err := a.tokenManager.ValidateToken(token)
		if err != nil {
			logger.WarnContext(r.Context(), "Rejected bearer token", "route", routeName, "requestID", RequestIDFromContext(r.Context()), "error", err)
			writeError(w, r, &domain.Error{Kind: domain.ErrorKindUnauthorized, Message: "invalid token", Err: err})
			return
		}

		if level == config.SecurityAdmin && !claims.IsAdmin() {
			logger.WarnContext(r.Context(), "Admin route denied", "route", routeName, "userID", claims.UserID)
			writeError(w, r, &domain.Error{Kind: domain.ErrorKindForbidden, Message: "admin access required"})
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

func extractToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", &domain.Error{Kind: domain.ErrorKindUnauthorized, Message: "authorization token is not provided"}
	}
	token := header
	// Remove Bearer prefix if present
	if len(token) > 7 && strings.ToUpper(token[0:7]) == "BEARER " {
		token = token[7:]
	}
	return strings.TrimSpace(token), nil
}

// authorizeResident lets admins through and restricts everyone else to their own resident record.
func authorizeResident(ctx context.Context, residentID int32) error {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return errAuthRequired
	}
	if claims.IsAdmin() {
		return nil
	}
	if claims.ResidentID == nil || *claims.ResidentID != residentID {
		return &domain.Error{Kind: domain.ErrorKindForbidden, Message: "access to another resident's data is not allowed"}
	}
	return nil
}
