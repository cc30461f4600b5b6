package distribution

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// allowedTransitions is the directed graph of permitted status changes.
// DELIVERED and CANCELLED are terminal: nothing leaves them. This is
// deliberately stricter than the historical behavior, which accepted any
// status from any status.
var allowedTransitions = map[Status][]Status{
	StatusPending:   {StatusInTransit, StatusCancelled},
	StatusInTransit: {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

// CanTransition reports whether from -> to is a permitted status change.
// A no-op transition (from == to) is allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ApplyTransition moves d to the target status. Callers must persist the
// result. The completion timestamp is owned by the delivery flow: it is
// stamped only once the inventory credit has landed, so a DELIVERED row
// without it still owes its credit.
func (d *Distribution) ApplyTransition(to Status) error {
	if !CanTransition(d.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, d.Status, to)
	}
	d.Status = to
	return nil
}

// NewReference generates a human-traceable distribution reference of the form
// DIST-YYYYMMDD-XXXXXXXX. The suffix comes from a v4 UUID rather than
// math/rand, which keeps collisions on the same day implausible.
func NewReference(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("DIST-%s-%s", now.Format("20060102"), suffix)
}
