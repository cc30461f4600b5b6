package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stream names.
const (
	StreamDistributions = "FUEL_DISTRIBUTIONS"
	StreamDispense      = "FUEL_DISPENSE"
)

// Subject constants.
const (
	SubjectDistributionCreated = "fuel.distributions.created"
	SubjectDispenseCompleted   = "fuel.dispense.completed"
)

// DistributionCreated is published when a bulk fuel shipment is scheduled
// for a station.
type DistributionCreated struct {
	DistributionID int64           `json:"distribution_id"`
	StationID      int64           `json:"station_id"`
	StationName    string          `json:"station_name"`
	FuelType       string          `json:"fuel_type"`
	Amount         decimal.Decimal `json:"amount"`
	Reference      string          `json:"reference"`
	Timestamp      time.Time       `json:"timestamp"`
}

// DispenseCompleted is published after a successful quota debit at a pump.
type DispenseCompleted struct {
	VehicleNumber string          `json:"vehicle_number"`
	FuelType      string          `json:"fuel_type"`
	Amount        decimal.Decimal `json:"amount"`
	Remaining     decimal.Decimal `json:"remaining"`
	Timestamp     time.Time       `json:"timestamp"`
}
