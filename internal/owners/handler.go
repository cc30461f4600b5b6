package owners

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/fuelquota-platform/fuelquota/internal/api"
	"github.com/fuelquota-platform/fuelquota/internal/otp"
)

type Handler struct {
	svc      *Service
	validate *validator.Validate
}

func NewHandler(svc *Service) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	o, err := h.svc.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			api.HandleError(w, api.NewConflictError("email already registered"))
		case errors.Is(err, ErrDuplicateNIC):
			api.HandleError(w, api.NewConflictError("NIC already registered"))
		case errors.Is(err, otp.ErrDeliveryFailed):
			api.HandleError(w, api.ErrDeliveryFailed)
		default:
			slog.Error("registering owner", "error", err)
			api.HandleError(w, api.ErrInternalServer)
		}
		return
	}

	api.JSON(w, http.StatusCreated, o)
}

func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeVerify(w, r)
	if !ok {
		return
	}

	if err := h.svc.VerifyEmail(r.Context(), req.Email, req.Code); err != nil {
		h.handleOTPError(w, err, "verifying owner email")
		return
	}

	api.JSONMessage(w, http.StatusOK, "email verified")
}

func (h *Handler) RequestLoginCode(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeEmail(w, r)
	if !ok {
		return
	}

	if err := h.svc.RequestLoginCode(r.Context(), req.Email); err != nil {
		h.handleOTPError(w, err, "requesting login code")
		return
	}

	api.JSONMessage(w, http.StatusOK, "login code sent")
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeVerify(w, r)
	if !ok {
		return
	}

	o, pair, err := h.svc.Login(r.Context(), req.Email, req.Code)
	if err != nil {
		h.handleOTPError(w, err, "owner login")
		return
	}

	api.JSON(w, http.StatusOK, map[string]any{
		"owner":  o,
		"tokens": pair,
	})
}

func (h *Handler) RequestQRCode(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeEmail(w, r)
	if !ok {
		return
	}

	if err := h.svc.RequestQRCode(r.Context(), req.Email); err != nil {
		h.handleOTPError(w, err, "requesting qr code")
		return
	}

	api.JSONMessage(w, http.StatusOK, "qr generation code sent")
}

func (h *Handler) IssueQRIdentifier(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeVerify(w, r)
	if !ok {
		return
	}

	payload, err := h.svc.IssueQRIdentifier(r.Context(), req.Email, req.Code)
	if err != nil {
		h.handleOTPError(w, err, "issuing qr identifier")
		return
	}

	api.JSON(w, http.StatusOK, map[string]string{"qr_payload": payload})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		api.HandleError(w, api.NewBadRequestError("email query parameter required"))
		return
	}

	o, err := h.svc.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			api.HandleError(w, api.NewNotFoundError("owner not found"))
			return
		}
		slog.Error("fetching owner", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, o)
}

func (h *Handler) decodeEmail(w http.ResponseWriter, r *http.Request) (*EmailRequest, bool) {
	var req EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return nil, false
	}
	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return nil, false
	}
	return &req, true
}

func (h *Handler) decodeVerify(w http.ResponseWriter, r *http.Request) (*VerifyRequest, bool) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return nil, false
	}
	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return nil, false
	}
	return &req, true
}

func (h *Handler) handleOTPError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, ErrNotFound):
		api.HandleError(w, api.NewNotFoundError("owner not found"))
	case errors.Is(err, ErrEmailNotVerified):
		api.HandleError(w, api.NewBadRequestError("email not verified"))
	case errors.Is(err, otp.ErrNotFound):
		api.HandleError(w, api.NewNotFoundError("no verification code found"))
	case errors.Is(err, otp.ErrExpired):
		api.HandleError(w, api.ErrOTPExpired)
	case errors.Is(err, otp.ErrMismatch):
		api.HandleError(w, api.ErrOTPMismatch)
	case errors.Is(err, otp.ErrDeliveryFailed):
		api.HandleError(w, api.ErrDeliveryFailed)
	default:
		slog.Error(op, "error", err)
		api.HandleError(w, api.ErrInternalServer)
	}
}
