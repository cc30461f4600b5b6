package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is the running stock for one (station, fuel type) key, in litres.
type Record struct {
	ID        int64           `json:"id"`
	StationID int64           `json:"station_id"`
	FuelType  string          `json:"fuel_type"`
	Amount    decimal.Decimal `json:"amount"`
	UpdatedAt time.Time       `json:"updated_at"`
}
