package distribution

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a bulk fuel shipment.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusInTransit Status = "IN_TRANSIT"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInTransit, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Distribution is one bulk fuel shipment to a station.
type Distribution struct {
	ID            int64           `json:"id"`
	StationID     int64           `json:"station_id"`
	StationName   string          `json:"station_name"`
	FuelType      string          `json:"fuel_type"`
	Amount        decimal.Decimal `json:"amount"`
	Status        Status          `json:"status"`
	Reference     string          `json:"reference"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
}

// CreateInput is the payload for scheduling a new distribution.
type CreateInput struct {
	StationID int64           `json:"station_id" validate:"required"`
	FuelType  string          `json:"fuel_type" validate:"required,oneof=PETROL DIESEL KEROSENE"`
	Amount    decimal.Decimal `json:"amount"`
	Notes     string          `json:"notes" validate:"max=500"`
}

// ListParams holds filtering and pagination for station distribution queries.
type ListParams struct {
	Status   Status
	Page     int
	PageSize int
}

// DefaultListParams returns sensible defaults.
func DefaultListParams() ListParams {
	return ListParams{
		Page:     1,
		PageSize: 20,
	}
}
