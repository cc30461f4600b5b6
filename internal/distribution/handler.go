package distribution

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fuelquota-platform/fuelquota/internal/api"
	"github.com/fuelquota-platform/fuelquota/internal/inventory"
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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}
	if err := h.validate.Struct(in); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	d, err := h.svc.Create(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			api.HandleError(w, api.NewBadRequestError("amount must be positive"))
		case errors.Is(err, ErrStationNotFound):
			api.HandleError(w, api.NewNotFoundError("fuel station not found"))
		default:
			slog.Error("creating distribution", "error", err)
			api.HandleError(w, api.ErrInternalServer)
		}
		return
	}

	api.JSON(w, http.StatusCreated, d)
}

type setStatusRequest struct {
	Status Status `json:"status" validate:"required"`
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "distributionID"), 10, 64)
	if err != nil {
		api.HandleError(w, api.NewBadRequestError("invalid distribution ID"))
		return
	}

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}
	if !req.Status.Valid() {
		api.HandleError(w, api.NewBadRequestError("unknown status"))
		return
	}

	d, err := h.svc.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			api.HandleError(w, api.NewNotFoundError("distribution not found"))
		case errors.Is(err, ErrInvalidTransition):
			api.HandleError(w, api.NewConflictError("invalid status transition"))
		case errors.Is(err, inventory.ErrStationNotFound):
			api.HandleError(w, api.NewNotFoundError("fuel station not found"))
		default:
			slog.Error("updating distribution status", "error", err)
			api.HandleError(w, api.ErrInternalServer)
		}
		return
	}

	api.JSON(w, http.StatusOK, d)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "distributionID"), 10, 64)
	if err != nil {
		api.HandleError(w, api.NewBadRequestError("invalid distribution ID"))
		return
	}

	d, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			api.HandleError(w, api.NewNotFoundError("distribution not found"))
			return
		}
		slog.Error("fetching distribution", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, d)
}

func (h *Handler) ListForStation(w http.ResponseWriter, r *http.Request) {
	stationID, err := strconv.ParseInt(chi.URLParam(r, "stationID"), 10, 64)
	if err != nil {
		api.HandleError(w, api.NewBadRequestError("invalid station ID"))
		return
	}

	params := DefaultListParams()
	if st := r.URL.Query().Get("status"); st != "" {
		status := Status(st)
		if !status.Valid() {
			api.HandleError(w, api.NewBadRequestError("unknown status filter"))
			return
		}
		params.Status = status
	}
	if p := r.URL.Query().Get("page"); p != "" {
		if page, err := strconv.Atoi(p); err == nil && page > 0 {
			params.Page = page
		}
	}
	if ps := r.URL.Query().Get("page_size"); ps != "" {
		if pageSize, err := strconv.Atoi(ps); err == nil && pageSize > 0 && pageSize <= 100 {
			params.PageSize = pageSize
		}
	}

	list, total, err := h.svc.ListForStation(r.Context(), stationID, params)
	if err != nil {
		if errors.Is(err, ErrStationNotFound) {
			api.HandleError(w, api.NewNotFoundError("fuel station not found"))
			return
		}
		slog.Error("listing distributions", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSONPaginated(w, http.StatusOK, list, total, params.Page, params.PageSize)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.StatsByFuelType(r.Context())
	if err != nil {
		slog.Error("computing distribution stats", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, stats)
}
