package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a station-placed request for a bulk fuel delivery. It captures the
// demand side; the supply side is tracked separately as a distribution once
// the depot schedules a shipment.
type Order struct {
	ID        int64           `json:"id"`
	StationID int64           `json:"station_id"`
	FuelType  string          `json:"fuel_type"`
	Amount    decimal.Decimal `json:"amount"`
	OrderDate time.Time       `json:"order_date"`
	CreatedAt time.Time       `json:"created_at"`

	// Station details, joined for display.
	StationName   string `json:"station_name"`
	OwnerName     string `json:"owner_name"`
	Location      string `json:"location"`
	ContactNumber string `json:"contact_number"`
}

// CreateInput is the order placement payload. StationID is taken from the
// access token for station callers; admins supply it explicitly. OrderDate
// defaults to today when omitted.
type CreateInput struct {
	StationID int64           `json:"station_id"`
	FuelType  string          `json:"fuel_type" validate:"required,oneof=PETROL DIESEL KEROSENE"`
	Amount    decimal.Decimal `json:"amount"`
	OrderDate string          `json:"order_date" validate:"omitempty,datetime=2006-01-02"`
}
