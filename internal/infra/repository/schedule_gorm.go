package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/salonflow/salon-scheduler/internal/domain/schedule"
	"github.com/salonflow/salon-scheduler/internal/models"
	"github.com/salonflow/salon-scheduler/internal/salontime"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Salon
// --------------------------------------------------

func (r *ScheduleGormRepository) GetSalonByID(
	ctx context.Context,
	id uint,
) (*models.Salon, error) {

	var salon models.Salon
	if err := r.db.WithContext(ctx).First(&salon, id).Error; err != nil {
		return nil, err
	}
	return &salon, nil
}

func (r *ScheduleGormRepository) GetSalonBySlug(
	ctx context.Context,
	slug string,
) (*models.Salon, error) {

	var salon models.Salon
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&salon).Error; err != nil {
		return nil, err
	}
	return &salon, nil
}

func (r *ScheduleGormRepository) ListActiveSalonIDs(
	ctx context.Context,
) ([]uint, error) {

	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Salon{}).
		Where("is_active = ?", true).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// --------------------------------------------------
// Master
// --------------------------------------------------

func (r *ScheduleGormRepository) GetMaster(
	ctx context.Context,
	salonID uint,
	masterID uint,
) (*models.Master, error) {

	var master models.Master
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ?", masterID, salonID).
		First(&master).Error; err != nil {
		return nil, err
	}
	return &master, nil
}

func (r *ScheduleGormRepository) ListActiveMasters(
	ctx context.Context,
	salonID uint,
) ([]models.Master, error) {

	var masters []models.Master
	if err := r.db.WithContext(ctx).
		Where("salon_id = ? AND is_active = ?", salonID, true).
		Order("id ASC").
		Find(&masters).Error; err != nil {
		return nil, err
	}
	return masters, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *ScheduleGormRepository) GetService(
	ctx context.Context,
	salonID uint,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ?", serviceID, salonID).
		First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *ScheduleGormRepository) GetOrCreateClient(
	ctx context.Context,
	salonID uint,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("salon_id = ? AND phone = ?", salonID, phone).
		First(&client).Error

	if err == nil {
		// Backfill the email when the client record has none yet.
		if email != "" && client.Email == "" {
			client.Email = email
			if err := r.db.WithContext(ctx).Save(&client).Error; err != nil {
				return nil, err
			}
		}
		return &client, nil
	}

	client = models.Client{
		SalonID: salonID,
		Name:    name,
		Phone:   phone,
		Email:   email,
	}

	if err := r.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}

	return &client, nil
}

// --------------------------------------------------
// Notification boundary
// --------------------------------------------------

func (r *ScheduleGormRepository) GetOwnerTelegramChatID(
	ctx context.Context,
	salonID uint,
) (int64, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("salon_id = ? AND role = ?", salonID, models.RoleOwner).
		First(&user).Error; err != nil {
		return 0, err
	}
	return user.TelegramChatID, nil
}

// --------------------------------------------------
// Occupied intervals
// --------------------------------------------------

func (r *ScheduleGormRepository) ListOccupied(
	ctx context.Context,
	salonID uint,
	masterID uint,
	date string,
) ([]schedule.Interval, error) {
	return r.listOccupiedTx(r.db.WithContext(ctx), salonID, masterID, date)
}

func (r *ScheduleGormRepository) listOccupiedTx(
	tx *gorm.DB,
	salonID uint,
	masterID uint,
	date string,
) ([]schedule.Interval, error) {

	var bookings []models.Booking
	if err := tx.
		Select("id", "time", "time_end", "duration_min").
		Where(
			"salon_id = ? AND master_id = ? AND date = ? AND status <> ?",
			salonID, masterID, date, string(schedule.StatusCancelled),
		).
		Order("time ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}

	intervals := make([]schedule.Interval, 0, len(bookings))
	for i := range bookings {
		iv, err := schedule.BookingInterval(&bookings[i])
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, iv)
	}

	blocks, err := r.listBlocksForDate(tx, salonID, masterID, date)
	if err != nil {
		return nil, err
	}
	intervals = append(intervals, blocks...)

	return schedule.Merge(intervals), nil
}

// listBlocksForDate collects the time blocks occupying a master on a
// date: the master's own blocks, salon-wide blocks (master_id IS
// NULL), and weekly repeats landing on the same weekday.
func (r *ScheduleGormRepository) listBlocksForDate(
	tx *gorm.DB,
	salonID uint,
	masterID uint,
	date string,
) ([]schedule.Interval, error) {

	var blocks []models.TimeBlock
	if err := tx.
		Where(
			"salon_id = ? AND (master_id = ? OR master_id IS NULL) AND (date = ? OR repeat = ?)",
			salonID, masterID, date, "weekly",
		).
		Order("start_time ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}

	weekday, err := salontime.Weekday(date)
	if err != nil {
		return nil, err
	}

	var out []schedule.Interval
	for _, tb := range blocks {
		if tb.Date != date {
			// Weekly repeat: applies from its anchor date onward, on
			// the same weekday only.
			if tb.Repeat != "weekly" || tb.Date > date {
				continue
			}
			wd, err := salontime.Weekday(tb.Date)
			if err != nil || wd != weekday {
				continue
			}
		}

		if tb.IsAllDay {
			out = append(out, schedule.Interval{
				Start:  schedule.DayStart,
				End:    schedule.DayEnd,
				Source: schedule.SourceTimeBlock,
				RefID:  tb.ID,
			})
			continue
		}

		start, err := salontime.MinutesOfDay(tb.StartTime)
		if err != nil {
			continue // malformed block never blocks validation paths
		}
		end, err := salontime.MinutesOfDay(tb.EndTime)
		if err != nil {
			continue
		}
		out = append(out, schedule.Interval{
			Start:  start,
			End:    end,
			Source: schedule.SourceTimeBlock,
			RefID:  tb.ID,
		})
	}

	return out, nil
}

// --------------------------------------------------
// Booking (create / conflict)
// --------------------------------------------------

// CreateBooking re-checks the overlap invariant and inserts inside one
// transaction. Same-master same-date rows are locked FOR UPDATE on
// postgres so two concurrent writers serialize on the check; the
// btree_gist exclusion constraint (see db.NewDB) is the storage-level
// backstop.
func (r *ScheduleGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {

	proposed, err := schedule.BookingInterval(b)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked := tx
		if tx.Dialector.Name() == "postgres" {
			locked = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		if b.MasterID != nil {
			var rows []models.Booking
			if err := locked.
				Where(
					"salon_id = ? AND master_id = ? AND date = ? AND status <> ?",
					b.SalonID, *b.MasterID, b.Date, string(schedule.StatusCancelled),
				).
				Find(&rows).Error; err != nil {
				return err
			}

			occupied := make([]schedule.Interval, 0, len(rows))
			for i := range rows {
				iv, err := schedule.BookingInterval(&rows[i])
				if err != nil {
					return err
				}
				occupied = append(occupied, iv)
			}

			blocks, err := r.listBlocksForDate(tx, b.SalonID, *b.MasterID, b.Date)
			if err != nil {
				return err
			}
			occupied = append(occupied, blocks...)

			if hit, found := schedule.FirstConflict(proposed, occupied); found {
				return &schedule.ConflictError{Conflicting: hit}
			}
		}

		return tx.Create(b).Error
	})
}

// --------------------------------------------------
// Booking (state change)
// --------------------------------------------------

func (r *ScheduleGormRepository) GetBooking(
	ctx context.Context,
	salonID uint,
	bookingID uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ?", bookingID, salonID).
		First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *ScheduleGormRepository) GetBookingByCancelToken(
	ctx context.Context,
	token string,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Where("cancel_token = ?", token).
		First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *ScheduleGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// CompleteBooking persists the COMPLETED flip together with the
// denormalized client stats, so the projection cannot drift from the
// status change.
func (r *ScheduleGormRepository) CompleteBooking(
	ctx context.Context,
	b *models.Booking,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(b).Error; err != nil {
			return err
		}

		if b.ClientID == 0 {
			return nil
		}

		return tx.Model(&models.Client{}).
			Where("id = ?", b.ClientID).
			Updates(map[string]any{
				"visits_count": gorm.Expr("visits_count + 1"),
				"total_spent":  gorm.Expr("total_spent + ?", b.Price),
				"last_visit":   time.Now(),
			}).Error
	})
}

// --------------------------------------------------
// Sweeper
// --------------------------------------------------

func (r *ScheduleGormRepository) ListConfirmedForDate(
	ctx context.Context,
	masterID uint,
	date string,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where(
			"master_id = ? AND date = ? AND status = ?",
			masterID, date, string(schedule.StatusConfirmed),
		).
		Order("time ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *ScheduleGormRepository) ListBookingsForDate(
	ctx context.Context,
	salonID uint,
	masterID *uint,
	date string,
) ([]models.Booking, error) {
	return r.ListBookingsForDates(ctx, salonID, masterID, []string{date})
}

func (r *ScheduleGormRepository) ListBookingsForDates(
	ctx context.Context,
	salonID uint,
	masterID *uint,
	dates []string,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).
		Where("salon_id = ? AND date IN ?", salonID, dates)

	if masterID != nil {
		q = q.Where("master_id = ?", *masterID)
	}

	var bookings []models.Booking
	if err := q.
		Order("date ASC, time ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// Compile-time check
var _ schedule.Repository = (*ScheduleGormRepository)(nil)
