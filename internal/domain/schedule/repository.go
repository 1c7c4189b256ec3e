package schedule

import (
	"context"

	"github.com/salonflow/salon-scheduler/internal/models"
)

type Repository interface {
	// -------- Salon --------
	GetSalonByID(
		ctx context.Context,
		id uint,
	) (*models.Salon, error)

	GetSalonBySlug(
		ctx context.Context,
		slug string,
	) (*models.Salon, error)

	// Salons eligible for the auto-complete sweep.
	ListActiveSalonIDs(
		ctx context.Context,
	) ([]uint, error)

	// -------- Master --------
	GetMaster(
		ctx context.Context,
		salonID uint,
		masterID uint,
	) (*models.Master, error)

	ListActiveMasters(
		ctx context.Context,
		salonID uint,
	) ([]models.Master, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		salonID uint,
		serviceID uint,
	) (*models.Service, error)

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		salonID uint,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	// -------- Notification boundary --------
	// Chat of the salon owner for fire-and-forget notifications;
	// 0 when the owner has no telegram linked.
	GetOwnerTelegramChatID(
		ctx context.Context,
		salonID uint,
	) (int64, error)

	// -------- Occupied intervals --------
	// Returns non-cancelled bookings plus time blocks for the master
	// and date, including salon-wide blocks (master_id IS NULL),
	// all-day blocks expanded to the whole day and weekly repeats
	// materialized for the queried date. Sorted by start.
	ListOccupied(
		ctx context.Context,
		salonID uint,
		masterID uint,
		date string,
	) ([]Interval, error)

	// -------- Booking (create / conflict) --------
	// Re-validates the overlap invariant inside the same transaction
	// that performs the insert (SELECT ... FOR UPDATE over the
	// master/date rows). Returns *ConflictError on overlap.
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// -------- Booking (state change) --------
	GetBooking(
		ctx context.Context,
		salonID uint,
		bookingID uint,
	) (*models.Booking, error)

	GetBookingByCancelToken(
		ctx context.Context,
		token string,
	) (*models.Booking, error)

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// CompleteBooking flips the status and updates the denormalized
	// client stats projection in one transaction.
	CompleteBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// -------- Sweeper --------
	ListConfirmedForDate(
		ctx context.Context,
		masterID uint,
		date string,
	) ([]models.Booking, error)

	// -------- Listing --------
	ListBookingsForDate(
		ctx context.Context,
		salonID uint,
		masterID *uint,
		date string,
	) ([]models.Booking, error)

	ListBookingsForDates(
		ctx context.Context,
		salonID uint,
		masterID *uint,
		dates []string,
	) ([]models.Booking, error)
}
