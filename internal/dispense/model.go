package dispense

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fuelquota-platform/fuelquota/internal/quota"
)

// Receipt is the snapshot handed back after a successful dispense: the
// vehicle and owner as they stood the moment the debit landed, plus the new
// remaining balance.
type Receipt struct {
	VehicleID       int64              `json:"vehicle_id"`
	VehicleNumber   string             `json:"vehicle_number"`
	ChassisNumber   string             `json:"chassis_number"`
	FuelType        string             `json:"fuel_type"`
	VehicleTypeName string             `json:"vehicle_type"`
	Amount          decimal.Decimal    `json:"amount"`
	Remaining       decimal.Decimal    `json:"remaining"`
	WeeklyQuota     decimal.Decimal    `json:"weekly_quota"`
	Owner           quota.OwnerSummary `json:"owner"`
	DispensedAt     time.Time          `json:"dispensed_at"`
}

// Request is the pump-side dispense payload. Credential carries the scanned
// QR content; its interpretation depends on the configured resolver.
type Request struct {
	Credential string          `json:"qr_code" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
}

// Transaction is one recorded dispense, the audit row behind a Receipt.
type Transaction struct {
	ID             int64           `json:"id"`
	VehicleID      int64           `json:"vehicle_id"`
	StationID      int64           `json:"station_id"`
	FuelType       string          `json:"fuel_type"`
	Amount         decimal.Decimal `json:"amount"`
	RemainingAfter decimal.Decimal `json:"remaining_after"`
	CreatedAt      time.Time       `json:"created_at"`
}
