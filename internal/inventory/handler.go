package inventory

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/fuelquota-platform/fuelquota/internal/api"
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

type amountRequest struct {
	FuelType string          `json:"fuel_type" validate:"required,oneof=PETROL DIESEL KEROSENE"`
	Amount   decimal.Decimal `json:"amount"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	stationID, ok := h.stationID(w, r)
	if !ok {
		return
	}

	records, err := h.svc.ListByStation(r.Context(), stationID)
	if err != nil {
		if errors.Is(err, ErrStationNotFound) {
			api.HandleError(w, api.NewNotFoundError("fuel station not found"))
			return
		}
		slog.Error("listing inventory", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, records)
}

func (h *Handler) SetAmount(w http.ResponseWriter, r *http.Request) {
	stationID, ok := h.stationID(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeAmount(w, r)
	if !ok {
		return
	}

	rec, err := h.svc.SetAmount(r.Context(), stationID, req.FuelType, req.Amount)
	if err != nil {
		h.handleErr(w, err, "setting inventory amount")
		return
	}

	api.JSON(w, http.StatusOK, rec)
}

func (h *Handler) Consume(w http.ResponseWriter, r *http.Request) {
	stationID, ok := h.stationID(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeAmount(w, r)
	if !ok {
		return
	}

	rec, err := h.svc.Consume(r.Context(), stationID, req.FuelType, req.Amount)
	if err != nil {
		h.handleErr(w, err, "consuming inventory")
		return
	}

	api.JSON(w, http.StatusOK, rec)
}

func (h *Handler) Restock(w http.ResponseWriter, r *http.Request) {
	stationID, ok := h.stationID(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeAmount(w, r)
	if !ok {
		return
	}

	rec, err := h.svc.Restock(r.Context(), stationID, req.FuelType, req.Amount)
	if err != nil {
		h.handleErr(w, err, "restocking inventory")
		return
	}

	api.JSON(w, http.StatusOK, rec)
}

func (h *Handler) stationID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "stationID"), 10, 64)
	if err != nil {
		api.HandleError(w, api.NewBadRequestError("invalid station ID"))
		return 0, false
	}
	return id, true
}

func (h *Handler) decodeAmount(w http.ResponseWriter, r *http.Request) (*amountRequest, bool) {
	var req amountRequest
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

func (h *Handler) handleErr(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, ErrStationNotFound):
		api.HandleError(w, api.NewNotFoundError("fuel station not found"))
	case errors.Is(err, ErrInvalidAmount):
		api.HandleError(w, api.NewBadRequestError("amount must not be negative"))
	case errors.Is(err, ErrInsufficientStock):
		api.HandleError(w, api.ErrInsufficientStock)
	default:
		slog.Error(op, "error", err)
		api.HandleError(w, api.ErrInternalServer)
	}
}
