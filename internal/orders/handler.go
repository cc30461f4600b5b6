package orders

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fuelquota-platform/fuelquota/internal/api"
	"github.com/fuelquota-platform/fuelquota/internal/auth"
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

// Create places a fuel order. Station callers order for themselves (the
// station id comes from the access token); admins supply station_id in the
// body.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}
	if err := h.validate.Struct(in); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	if claims.Role == auth.RoleStation {
		stationID, err := strconv.ParseInt(claims.SubjectID, 10, 64)
		if err != nil {
			api.HandleError(w, api.ErrUnauthorized)
			return
		}
		in.StationID = stationID
	} else if in.StationID == 0 {
		api.HandleError(w, api.NewBadRequestError("station_id required"))
		return
	}

	o, err := h.svc.Create(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			api.HandleError(w, api.NewBadRequestError("amount must be positive"))
		case errors.Is(err, ErrInvalidDate):
			api.HandleError(w, api.NewBadRequestError("order_date must be YYYY-MM-DD"))
		case errors.Is(err, ErrStationNotFound):
			api.HandleError(w, api.NewNotFoundError("fuel station not found"))
		default:
			slog.Error("placing fuel order", "error", err)
			api.HandleError(w, api.ErrInternalServer)
		}
		return
	}

	api.JSON(w, http.StatusCreated, o)
}

// List returns all orders.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		slog.Error("listing fuel orders", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	api.JSON(w, http.StatusOK, list)
}

// ListForStation returns one station's orders.
func (h *Handler) ListForStation(w http.ResponseWriter, r *http.Request) {
	stationID, err := strconv.ParseInt(chi.URLParam(r, "stationID"), 10, 64)
	if err != nil {
		api.HandleError(w, api.NewBadRequestError("invalid station id"))
		return
	}

	list, err := h.svc.ListForStation(r.Context(), stationID)
	if err != nil {
		if errors.Is(err, ErrStationNotFound) {
			api.HandleError(w, api.NewNotFoundError("fuel station not found"))
			return
		}
		slog.Error("listing station fuel orders", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	api.JSON(w, http.StatusOK, list)
}

// Delete removes an order.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		api.HandleError(w, api.NewBadRequestError("invalid order id"))
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			api.HandleError(w, api.NewNotFoundError("order not found"))
			return
		}
		slog.Error("deleting fuel order", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
