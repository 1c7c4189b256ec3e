// Package notify delivers booking event messages to salon owners.
// Delivery is fire-and-forget: failures are logged, never propagated
// to the booking transaction.
package notify

import "github.com/salonflow/salon-scheduler/internal/models"

type Event struct {
	Booking   *models.Booking
	SalonName string
	OldStatus string
	NewStatus string
	ChatID    int64
}

type Notifier interface {
	BookingCreated(ev Event)
	BookingStatusChanged(ev Event)
}

// Noop is used when no telegram token is configured and in tests.
type Noop struct{}

func (Noop) BookingCreated(Event)       {}
func (Noop) BookingStatusChanged(Event) {}
