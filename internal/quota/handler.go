package quota

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fuelquota-platform/fuelquota/internal/api"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GetAccount returns the full quota account for a vehicle number.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	vehicleNumber := chi.URLParam(r, "vehicleNumber")

	acct, err := h.svc.GetAccount(r.Context(), vehicleNumber)
	if err != nil {
		if errors.Is(err, ErrVehicleNotFound) {
			api.HandleError(w, api.NewNotFoundError("vehicle not found"))
			return
		}
		slog.Error("fetching quota account", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, acct)
}

// GetRemaining returns just the remaining balance.
func (h *Handler) GetRemaining(w http.ResponseWriter, r *http.Request) {
	vehicleNumber := chi.URLParam(r, "vehicleNumber")

	remaining, err := h.svc.GetRemaining(r.Context(), vehicleNumber)
	if err != nil {
		if errors.Is(err, ErrVehicleNotFound) {
			api.HandleError(w, api.NewNotFoundError("vehicle not found"))
			return
		}
		slog.Error("fetching remaining quota", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, map[string]any{
		"vehicle_number": vehicleNumber,
		"remaining":      remaining,
	})
}

// Reset restores every account to its weekly quota. Scheduling is the
// caller's business; this endpoint just performs the sweep.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.ResetAll(r.Context())
	if err != nil {
		slog.Error("resetting weekly quotas", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, map[string]any{"accounts_reset": n})
}
