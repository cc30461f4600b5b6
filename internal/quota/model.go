package quota

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a vehicle's weekly fuel allowance view: identity, the cached
// weekly quota copied from the vehicle type at registration, and the mutable
// remaining balance.
type Account struct {
	VehicleID       int64           `json:"vehicle_id"`
	VehicleNumber   string          `json:"vehicle_number"`
	ChassisNumber   string          `json:"chassis_number"`
	FuelType        string          `json:"fuel_type"`
	VehicleTypeName string          `json:"vehicle_type"`
	WeeklyQuota     decimal.Decimal `json:"weekly_quota"`
	Remaining       decimal.Decimal `json:"remaining"`
	Owner           OwnerSummary    `json:"owner"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OwnerSummary is the owner slice of an Account, enough for a pump attendant
// to cross-check identity.
type OwnerSummary struct {
	ID        int64  `json:"id"`
	NIC       string `json:"nic"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}
