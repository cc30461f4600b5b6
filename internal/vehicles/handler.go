package vehicles

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

	v, err := h.svc.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateNumber):
			api.HandleError(w, api.NewConflictError("vehicle number already registered"))
		case errors.Is(err, ErrDuplicateChassis):
			api.HandleError(w, api.NewConflictError("chassis number already registered"))
		case errors.Is(err, ErrTypeRequired):
			api.HandleError(w, api.NewBadRequestError("vehicle type is required"))
		case errors.Is(err, ErrTypeNotFound):
			api.HandleError(w, api.NewNotFoundError("vehicle type not found"))
		case errors.Is(err, ErrOwnerNotFound):
			api.HandleError(w, api.NewNotFoundError("owner not found"))
		case errors.Is(err, ErrRegistryRejected):
			api.HandleError(w, api.NewBadRequestError("vehicle rejected by registry"))
		default:
			slog.Error("registering vehicle", "error", err)
			api.HandleError(w, api.ErrInternalServer)
		}
		return
	}

	api.JSON(w, http.StatusCreated, v)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	vehicleNumber := chi.URLParam(r, "vehicleNumber")

	v, err := h.svc.GetByVehicleNumber(r.Context(), vehicleNumber)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			api.HandleError(w, api.NewNotFoundError("vehicle not found"))
			return
		}
		slog.Error("fetching vehicle", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, v)
}

// ListMine returns the vehicles owned by the authenticated owner.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	ownerID, err := strconv.ParseInt(claims.SubjectID, 10, 64)
	if err != nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	list, err := h.svc.ListByOwner(r.Context(), ownerID)
	if err != nil {
		slog.Error("listing owner vehicles", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, list)
}

func (h *Handler) CreateType(w http.ResponseWriter, r *http.Request) {
	var in TypeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}
	if err := h.validate.Struct(in); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	vt, err := h.svc.CreateType(r.Context(), &in)
	if err != nil {
		if errors.Is(err, ErrInvalidQuota) {
			api.HandleError(w, api.NewBadRequestError("weekly quota must not be negative"))
			return
		}
		slog.Error("creating vehicle type", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusCreated, vt)
}

func (h *Handler) GetType(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "typeID"), 10, 64)
	if err != nil {
		api.HandleError(w, api.NewBadRequestError("invalid vehicle type ID"))
		return
	}

	vt, err := h.svc.GetType(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTypeNotFound) {
			api.HandleError(w, api.NewNotFoundError("vehicle type not found"))
			return
		}
		slog.Error("fetching vehicle type", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, vt)
}

func (h *Handler) ListTypes(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListTypes(r.Context())
	if err != nil {
		slog.Error("listing vehicle types", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, list)
}

func (h *Handler) UpdateType(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "typeID"), 10, 64)
	if err != nil {
		api.HandleError(w, api.NewBadRequestError("invalid vehicle type ID"))
		return
	}

	var in TypeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}
	if err := h.validate.Struct(in); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	vt, err := h.svc.UpdateType(r.Context(), id, &in)
	if err != nil {
		switch {
		case errors.Is(err, ErrTypeNotFound):
			api.HandleError(w, api.NewNotFoundError("vehicle type not found"))
		case errors.Is(err, ErrInvalidQuota):
			api.HandleError(w, api.NewBadRequestError("weekly quota must not be negative"))
		default:
			slog.Error("updating vehicle type", "error", err)
			api.HandleError(w, api.ErrInternalServer)
		}
		return
	}

	api.JSON(w, http.StatusOK, vt)
}

func (h *Handler) DeleteType(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "typeID"), 10, 64)
	if err != nil {
		api.HandleError(w, api.NewBadRequestError("invalid vehicle type ID"))
		return
	}

	if err := h.svc.DeleteType(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrTypeNotFound):
			api.HandleError(w, api.NewNotFoundError("vehicle type not found"))
		case errors.Is(err, ErrTypeInUse):
			api.HandleError(w, api.NewConflictError("vehicle type is referenced by vehicles"))
		default:
			slog.Error("deleting vehicle type", "error", err)
			api.HandleError(w, api.ErrInternalServer)
		}
		return
	}

	api.JSONMessage(w, http.StatusOK, "vehicle type deleted")
}
