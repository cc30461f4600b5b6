package dispense

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/fuelquota-platform/fuelquota/internal/api"
	"github.com/fuelquota-platform/fuelquota/internal/auth"
	"github.com/fuelquota-platform/fuelquota/internal/quota"
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

// Dispense handles the pump request. The station identity comes from the
// access token; the optional Idempotency-Key header makes retries safe.
func (h *Handler) Dispense(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}
	stationID, err := strconv.ParseInt(claims.SubjectID, 10, 64)
	if err != nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	rec, err := h.svc.Dispense(r.Context(), stationID, &req, r.Header.Get("Idempotency-Key"))
	if err != nil {
		switch {
		case errors.Is(err, quota.ErrInvalidAmount):
			api.HandleError(w, api.NewBadRequestError("amount must be positive"))
		case errors.Is(err, ErrMalformedCredential):
			api.HandleError(w, api.NewBadRequestError("malformed credential payload"))
		case errors.Is(err, ErrUnknownCredential):
			api.HandleError(w, api.ErrUnknownCredential)
		case errors.Is(err, quota.ErrVehicleNotFound):
			api.HandleError(w, api.ErrUnknownCredential)
		case errors.Is(err, quota.ErrInsufficientQuota):
			api.HandleError(w, api.ErrQuotaExceeded)
		default:
			slog.Error("dispensing fuel", "error", err)
			api.HandleError(w, api.ErrInternalServer)
		}
		return
	}

	api.JSON(w, http.StatusOK, rec)
}

// History returns a vehicle's recent dispense transactions.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := strconv.ParseInt(r.URL.Query().Get("vehicle_id"), 10, 64)
	if err != nil {
		api.HandleError(w, api.NewBadRequestError("vehicle_id query parameter required"))
		return
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		limit, _ = strconv.Atoi(l)
	}

	list, err := h.svc.History(r.Context(), vehicleID, limit)
	if err != nil {
		slog.Error("listing dispense history", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, list)
}
