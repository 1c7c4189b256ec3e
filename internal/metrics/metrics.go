package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salon_scheduler",
			Name:      "bookings_created_total",
			Help:      "Bookings created, by origin (public/staff/owner).",
		},
		[]string{"origin"},
	)

	bookingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salon_scheduler",
			Name:      "booking_conflicts_total",
			Help:      "Booking requests rejected due to interval conflicts.",
		},
	)

	slotQueries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salon_scheduler",
			Name:      "slot_queries_total",
			Help:      "Availability computations served.",
		},
	)

	autoCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salon_scheduler",
			Name:      "bookings_autocompleted_total",
			Help:      "Bookings flipped to COMPLETED by the sweeper.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			bookingsCreated,
			bookingConflicts,
			slotQueries,
			autoCompleted,
		)
	})
}

func IncBookingCreated(origin string) {
	bookingsCreated.WithLabelValues(origin).Inc()
}

func IncBookingConflict() {
	bookingConflicts.Inc()
}

func IncSlotQuery() {
	slotQueries.Inc()
}

func AddAutoCompleted(n int) {
	autoCompleted.Add(float64(n))
}
