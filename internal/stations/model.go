package stations

import "time"

// Station is a registered fuel station. Stations hold inventory, receive
// bulk distributions, and run the pump-side dispense flow.
type Station struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Location      string    `json:"location"`
	OwnerName     string    `json:"owner_name"`
	ContactNumber string    `json:"contact_number"`
	PasswordHash  string    `json:"-"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

type RegisterRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	Location      string `json:"location" validate:"required,max=200"`
	OwnerName     string `json:"owner_name" validate:"required,max=100"`
	ContactNumber string `json:"contact_number" validate:"required,len=10,numeric"`
	Password      string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	ContactNumber string `json:"contact_number" validate:"required"`
	Password      string `json:"password" validate:"required"`
}
