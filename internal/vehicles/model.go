package vehicles

import (
	"time"

	"github.com/shopspring/decimal"
)

// VehicleType is an admin-managed quota class: each vehicle belongs to one
// type, and the type's weekly quota seeds the vehicle's allowance.
type VehicleType struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	FuelType    string          `json:"fuel_type"`
	WeeklyQuota decimal.Decimal `json:"weekly_quota"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Vehicle is a registered vehicle together with its quota account fields.
// weekly_quota is copied from the type at registration; weekly_available is
// the mutable balance.
type Vehicle struct {
	ID              int64           `json:"id"`
	VehicleNumber   string          `json:"vehicle_number"`
	ChassisNumber   string          `json:"chassis_number"`
	VehicleTypeID   int64           `json:"vehicle_type_id"`
	VehicleTypeName string          `json:"vehicle_type"`
	FuelType        string          `json:"fuel_type"`
	OwnerID         int64           `json:"owner_id"`
	QRIdentifier    string          `json:"qr_identifier"`
	QRPayload       string          `json:"qr_payload"`
	WeeklyQuota     decimal.Decimal `json:"weekly_quota"`
	WeeklyAvailable decimal.Decimal `json:"weekly_available"`
	Verified        bool            `json:"verified"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TypeRef names a vehicle type either by id or by name. Exactly one side is
// set; the boundary normalizes both spellings into a resolved VehicleType
// before the core sees them.
type TypeRef struct {
	ID   int64
	Name string
}

// RegisterRequest is the vehicle registration payload. The vehicle type may
// be given as "vehicle_type_id" or "vehicle_type" (name); at least one is
// required.
type RegisterRequest struct {
	VehicleNumber   string `json:"vehicle_number" validate:"required,max=20"`
	ChassisNumber   string `json:"chassis_number" validate:"required,max=50"`
	FuelType        string `json:"fuel_type" validate:"required,oneof=PETROL DIESEL KEROSENE"`
	OwnerNIC        string `json:"owner_nic" validate:"required,max=20"`
	VehicleTypeID   int64  `json:"vehicle_type_id"`
	VehicleTypeName string `json:"vehicle_type"`
}

// TypeRef returns the normalized type reference, or false when neither
// spelling is present.
func (r *RegisterRequest) TypeRef() (TypeRef, bool) {
	if r.VehicleTypeID != 0 {
		return TypeRef{ID: r.VehicleTypeID}, true
	}
	if r.VehicleTypeName != "" {
		return TypeRef{Name: r.VehicleTypeName}, true
	}
	return TypeRef{}, false
}

type TypeInput struct {
	Name        string          `json:"name" validate:"required,max=50"`
	Description string          `json:"description" validate:"max=500"`
	FuelType    string          `json:"fuel_type" validate:"required,oneof=PETROL DIESEL KEROSENE"`
	WeeklyQuota decimal.Decimal `json:"weekly_quota"`
}
