package auth

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/fuelquota-platform/fuelquota/internal/api"
)

// Handler serves the bootstrap admin login and token refresh. Owner and
// station logins live in their own packages; this covers the configured
// admin credential pair.
type Handler struct {
	jwt               *JWTManager
	adminEmail        string
	adminPasswordHash string
	validate          *validator.Validate
}

func NewHandler(jwt *JWTManager, adminEmail, adminPasswordHash string) *Handler {
	return &Handler{
		jwt:               jwt,
		adminEmail:        adminEmail,
		adminPasswordHash: adminPasswordHash,
		validate:          validator.New(),
	}
}

type adminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	if h.adminEmail == "" || h.adminPasswordHash == "" {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}
	emailOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(h.adminEmail)) == 1
	if err := ComparePassword(h.adminPasswordHash, req.Password); err != nil || !emailOK {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	pair, _, err := h.jwt.GenerateTokenPair("admin", h.adminEmail, RoleAdmin)
	if err != nil {
		slog.Error("issuing admin tokens", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh exchanges a valid refresh token for a new token pair.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	claims, err := h.jwt.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		api.HandleError(w, api.ErrInvalidToken)
		return
	}

	pair, _, err := h.jwt.GenerateTokenPair(claims.SubjectID, "", claims.Role)
	if err != nil {
		slog.Error("refreshing tokens", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, pair)
}
