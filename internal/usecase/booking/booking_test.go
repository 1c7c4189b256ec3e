package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/salonflow/salon-scheduler/internal/audit"
	"github.com/salonflow/salon-scheduler/internal/domain/schedule"
	"github.com/salonflow/salon-scheduler/internal/httperr"
	infraRepo "github.com/salonflow/salon-scheduler/internal/infra/repository"
	"github.com/salonflow/salon-scheduler/internal/models"
	"github.com/salonflow/salon-scheduler/internal/notify"
	"github.com/salonflow/salon-scheduler/internal/salontime"
)

// ----------------------------------------------------------
// Fixtures
// ----------------------------------------------------------

const allWeekOpen = `{
	"monday":    {"start":"09:00","end":"18:00","enabled":true},
	"tuesday":   {"start":"09:00","end":"18:00","enabled":true},
	"wednesday": {"start":"09:00","end":"18:00","enabled":true},
	"thursday":  {"start":"09:00","end":"18:00","enabled":true},
	"friday":    {"start":"09:00","end":"18:00","enabled":true},
	"saturday":  {"start":"09:00","end":"18:00","enabled":true},
	"sunday":    {"start":"09:00","end":"18:00","enabled":true}
}`

type fixture struct {
	db      *gorm.DB
	repo    schedule.Repository
	salon   models.Salon
	master  models.Master
	service models.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Salon{},
		&models.User{},
		&models.Master{},
		&models.Service{},
		&models.Client{},
		&models.Booking{},
		&models.TimeBlock{},
		&models.AuditLog{},
	))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	salon := models.Salon{
		Name:              "Тест Салон",
		Slug:              "test-salon",
		Timezone:          "Europe/Kiev",
		WorkingHours:      datatypes.JSON(allWeekOpen),
		MinAdvanceMinutes: 120,
		MaxAdvanceDays:    60,
		IsActive:          true,
	}
	require.NoError(t, db.Create(&salon).Error)

	master := models.Master{
		SalonID:  salon.ID,
		Name:     "Олена",
		IsActive: true,
	}
	require.NoError(t, db.Create(&master).Error)

	service := models.Service{
		SalonID:     salon.ID,
		Name:        "Стрижка",
		DurationMin: 60,
		Price:       400,
		IsActive:    true,
	}
	require.NoError(t, db.Create(&service).Error)

	return &fixture{
		db:      db,
		repo:    infraRepo.NewScheduleGormRepository(db),
		salon:   salon,
		master:  master,
		service: service,
	}
}

func (f *fixture) dispatcher() *audit.Dispatcher {
	return audit.NewDispatcher(audit.New(f.db), zerolog.Nop())
}

func (f *fixture) createUC() *CreateBooking {
	return NewCreateBooking(f.repo, f.dispatcher(), notify.Noop{}, zerolog.Nop())
}

// futureDate returns a date n days ahead, formatted salon-local.
func futureDate(t *testing.T, n int) string {
	t.Helper()
	today, _ := salontime.NowInZone(time.UTC)
	date, err := salontime.AddDays(today, n)
	require.NoError(t, err)
	return date
}

func (f *fixture) createInput(t *testing.T) CreateBookingInput {
	return CreateBookingInput{
		SalonID:     f.salon.ID,
		MasterID:    &f.master.ID,
		ServiceID:   &f.service.ID,
		ClientName:  "Марія Коваль",
		ClientPhone: "+380501234567",
		Date:        futureDate(t, 7),
		Time:        "10:00",
		Origin:      "public",
	}
}

// ----------------------------------------------------------
// Create
// ----------------------------------------------------------

func TestCreateBookingHappyPath(t *testing.T) {
	f := newFixture(t)
	uc := f.createUC()

	b, err := uc.Execute(context.Background(), f.createInput(t))
	require.NoError(t, err)

	assert.Equal(t, "CONFIRMED", b.Status)
	assert.Equal(t, "10:00", b.Time)
	assert.Equal(t, "11:00", b.TimeEnd)
	assert.Equal(t, 60, b.DurationMin)
	assert.Equal(t, "Стрижка", b.ServiceName)
	assert.Equal(t, "Олена", b.MasterName)
	assert.InDelta(t, 400.0, b.Price, 0.001)
	assert.Len(t, b.CancelToken, 36)
	assert.NotZero(t, b.ClientID)
}

// A created booking must immediately show up as an occupied interval:
// what the validator accepted, the availability engine must exclude.
func TestCreateBookingRoundTripsIntoOccupied(t *testing.T) {
	f := newFixture(t)
	uc := f.createUC()
	ctx := context.Background()

	in := f.createInput(t)
	b, err := uc.Execute(ctx, in)
	require.NoError(t, err)

	occupied, err := f.repo.ListOccupied(ctx, f.salon.ID, f.master.ID, in.Date)
	require.NoError(t, err)
	require.Len(t, occupied, 1)
	assert.Equal(t, 600, occupied[0].Start)
	assert.Equal(t, 660, occupied[0].End)
	assert.Equal(t, b.ID, occupied[0].RefID)
}

func TestCreateBookingConflict(t *testing.T) {
	f := newFixture(t)
	uc := f.createUC()
	ctx := context.Background()

	_, err := uc.Execute(ctx, f.createInput(t))
	require.NoError(t, err)

	second := f.createInput(t)
	second.Time = "10:30"
	second.ClientPhone = "+380671112233"

	_, err = uc.Execute(ctx, second)
	require.Error(t, err)
	_, ok := schedule.AsConflict(err)
	assert.True(t, ok)
}

func TestCreateBookingBackToBackAllowed(t *testing.T) {
	f := newFixture(t)
	uc := f.createUC()
	ctx := context.Background()

	_, err := uc.Execute(ctx, f.createInput(t))
	require.NoError(t, err)

	second := f.createInput(t)
	second.Time = "11:00"
	second.ClientPhone = "+380671112233"

	_, err = uc.Execute(ctx, second)
	require.NoError(t, err)
}

func TestCreateBookingPublicPhoneFormat(t *testing.T) {
	f := newFixture(t)
	uc := f.createUC()

	in := f.createInput(t)
	in.ClientPhone = "0501234567" // missing +380 prefix

	_, err := uc.Execute(context.Background(), in)
	assert.ErrorIs(t, err, httperr.ErrBusiness("invalid_phone"))
}

func TestCreateBookingRejectsHTMLInName(t *testing.T) {
	f := newFixture(t)
	uc := f.createUC()

	in := f.createInput(t)
	in.ClientName = "<script>alert(1)</script>"

	_, err := uc.Execute(context.Background(), in)
	assert.ErrorIs(t, err, httperr.ErrBusiness("invalid_name"))
}

func TestCreateBookingOutsideWorkingHours(t *testing.T) {
	f := newFixture(t)
	uc := f.createUC()

	in := f.createInput(t)
	in.Time = "08:00" // window opens at 09:00

	_, err := uc.Execute(context.Background(), in)
	assert.ErrorIs(t, err, httperr.ErrBusiness("outside_working_hours"))
}

func TestCreateBookingLunchOverlap(t *testing.T) {
	f := newFixture(t)

	f.master.LunchStart = "13:00"
	f.master.LunchDurationMin = 60
	require.NoError(t, f.db.Save(&f.master).Error)

	uc := f.createUC()

	in := f.createInput(t)
	in.Time = "12:30" // 60 min service runs into lunch

	_, err := uc.Execute(context.Background(), in)
	assert.ErrorIs(t, err, httperr.ErrBusiness("outside_working_hours"))
}

func TestCreateBookingTooFarAhead(t *testing.T) {
	f := newFixture(t)
	uc := f.createUC()

	in := f.createInput(t)
	in.Date = futureDate(t, 90) // horizon is 60 days

	_, err := uc.Execute(context.Background(), in)
	assert.ErrorIs(t, err, httperr.ErrBusiness("too_far_ahead"))
}

func TestCreateBookingTooSoonOnPublicPath(t *testing.T) {
	f := newFixture(t)
	uc := f.createUC()

	in := f.createInput(t)
	in.Date = futureDate(t, -1) // yesterday

	_, err := uc.Execute(context.Background(), in)
	assert.ErrorIs(t, err, httperr.ErrBusiness("too_soon"))
}

func TestCreateBookingBlockedByTimeBlock(t *testing.T) {
	f := newFixture(t)
	uc := f.createUC()
	in := f.createInput(t)

	block := models.TimeBlock{
		SalonID:   f.salon.ID,
		MasterID:  &f.master.ID,
		Date:      in.Date,
		StartTime: "10:15",
		EndTime:   "10:45",
		Type:      models.TimeBlockBreak,
	}
	require.NoError(t, f.db.Create(&block).Error)

	_, err := uc.Execute(context.Background(), in)
	require.Error(t, err)

	conflictErr, ok := schedule.AsConflict(err)
	require.True(t, ok)
	assert.Equal(t, schedule.SourceTimeBlock, conflictErr.Conflicting.Source)
}

// ----------------------------------------------------------
// Availability
// ----------------------------------------------------------

func TestAvailabilityExcludesBookedSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := f.createInput(t)
	_, err := f.createUC().Execute(ctx, in)
	require.NoError(t, err)

	slots, err := NewGetAvailability(f.repo, zerolog.Nop()).Execute(ctx, AvailabilityInput{
		SalonID:   f.salon.ID,
		MasterID:  f.master.ID,
		ServiceID: f.service.ID,
		Date:      in.Date,
	})
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	starts := make(map[string]bool, len(slots))
	for _, s := range slots {
		starts[s.Start] = true
	}

	assert.True(t, starts["09:00"])
	assert.False(t, starts["10:00"], "booked hour must not be offered")
	assert.False(t, starts["10:30"], "overlapping start must not be offered")
	assert.True(t, starts["11:00"])
	assert.False(t, starts["17:30"], "60 min service does not fit before close")
}

func TestAvailabilityClosedDayWithoutConfig(t *testing.T) {
	f := newFixture(t)

	f.salon.WorkingHours = nil
	require.NoError(t, f.db.Save(&f.salon).Error)

	slots, err := NewGetAvailability(f.repo, zerolog.Nop()).Execute(context.Background(), AvailabilityInput{
		SalonID:     f.salon.ID,
		MasterID:    f.master.ID,
		Date:        futureDate(t, 7),
		DurationMin: 30,
	})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAvailabilityBufferPadsBookingsOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.salon.BufferTimeMin = 15
	require.NoError(t, f.db.Save(&f.salon).Error)

	in := f.createInput(t)
	_, err := f.createUC().Execute(ctx, in)
	require.NoError(t, err)

	slots, err := NewGetAvailability(f.repo, zerolog.Nop()).Execute(ctx, AvailabilityInput{
		SalonID:   f.salon.ID,
		MasterID:  f.master.ID,
		ServiceID: f.service.ID,
		Date:      in.Date,
	})
	require.NoError(t, err)

	starts := make(map[string]bool, len(slots))
	for _, s := range slots {
		starts[s.Start] = true
	}

	// Booking 10:00-11:00 plus 15 min buffer occupies until 11:15, so
	// the 11:00 grid slot is out and 11:30 is the next one offered.
	assert.False(t, starts["11:00"])
	assert.True(t, starts["11:30"])
}

// ----------------------------------------------------------
// Auto-complete sweeper
// ----------------------------------------------------------

func TestAutoCompleteSweepsElapsedAndIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	loc, err := time.LoadLocation("Europe/Kiev")
	require.NoError(t, err)

	today, hm := salontime.NowInZone(loc)
	nowMin, err := salontime.MinutesOfDay(hm)
	require.NoError(t, err)

	if nowMin < 120 || nowMin > 1300 {
		t.Skip("too close to midnight for same-day fixtures")
	}

	elapsed := models.Booking{
		SalonID:     f.salon.ID,
		MasterID:    &f.master.ID,
		Date:        today,
		Time:        salontime.FormatMinutes(nowMin - 90),
		TimeEnd:     salontime.FormatMinutes(nowMin - 30),
		DurationMin: 60,
		Status:      "CONFIRMED",
		CancelToken: uuid.NewString(),
	}
	require.NoError(t, f.db.Create(&elapsed).Error)

	upcoming := models.Booking{
		SalonID:     f.salon.ID,
		MasterID:    &f.master.ID,
		Date:        today,
		Time:        salontime.FormatMinutes(nowMin + 60),
		TimeEnd:     salontime.FormatMinutes(nowMin + 90),
		DurationMin: 30,
		Status:      "CONFIRMED",
		CancelToken: uuid.NewString(),
	}
	require.NoError(t, f.db.Create(&upcoming).Error)

	uc := NewAutoComplete(f.repo, zerolog.Nop())

	n, err := uc.ExecuteForSalon(ctx, f.salon.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var got models.Booking
	require.NoError(t, f.db.First(&got, elapsed.ID).Error)
	assert.Equal(t, "COMPLETED", got.Status)
	require.NotNil(t, got.CompletedAt)

	got = models.Booking{}
	require.NoError(t, f.db.First(&got, upcoming.ID).Error)
	assert.Equal(t, "CONFIRMED", got.Status)

	// Second pass finds nothing left.
	n, err = uc.ExecuteForSalon(ctx, f.salon.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestAutoCompleteUpdatesClientStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	loc, err := time.LoadLocation("Europe/Kiev")
	require.NoError(t, err)

	today, hm := salontime.NowInZone(loc)
	nowMin, err := salontime.MinutesOfDay(hm)
	require.NoError(t, err)

	if nowMin < 120 || nowMin > 1300 {
		t.Skip("too close to midnight for same-day fixtures")
	}

	client, err := f.repo.GetOrCreateClient(ctx, f.salon.ID, "Марія", "+380501234567", "")
	require.NoError(t, err)

	b := models.Booking{
		SalonID:     f.salon.ID,
		MasterID:    &f.master.ID,
		ClientID:    client.ID,
		Date:        today,
		Time:        salontime.FormatMinutes(nowMin - 90),
		TimeEnd:     salontime.FormatMinutes(nowMin - 30),
		DurationMin: 60,
		Price:       400,
		Status:      "CONFIRMED",
	}
	require.NoError(t, f.db.Create(&b).Error)

	_, err = NewAutoComplete(f.repo, zerolog.Nop()).ExecuteForMaster(ctx, f.salon.ID, f.master.ID)
	require.NoError(t, err)

	var got models.Client
	require.NoError(t, f.db.First(&got, client.ID).Error)
	assert.Equal(t, 1, got.VisitsCount)
	assert.InDelta(t, 400.0, got.TotalSpent, 0.001)
}

// ----------------------------------------------------------
// Cancel / status ops
// ----------------------------------------------------------

func TestCancelByTokenFreesTheSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := f.createInput(t)
	b, err := f.createUC().Execute(ctx, in)
	require.NoError(t, err)

	cancelUC := NewCancelBooking(f.repo, f.dispatcher(), notify.Noop{})

	cancelled, err := cancelUC.ExecuteByToken(ctx, b.CancelToken)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	occupied, err := f.repo.ListOccupied(ctx, f.salon.ID, f.master.ID, in.Date)
	require.NoError(t, err)
	assert.Empty(t, occupied)

	// The freed time can be booked again.
	again := f.createInput(t)
	again.ClientPhone = "+380671112233"
	_, err = f.createUC().Execute(ctx, again)
	require.NoError(t, err)
}

func TestCancelTwiceFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.createUC().Execute(ctx, f.createInput(t))
	require.NoError(t, err)

	cancelUC := NewCancelBooking(f.repo, f.dispatcher(), notify.Noop{})

	_, err = cancelUC.Execute(ctx, f.salon.ID, nil, b.ID)
	require.NoError(t, err)

	_, err = cancelUC.Execute(ctx, f.salon.ID, nil, b.ID)
	assert.ErrorIs(t, err, httperr.ErrBusiness("invalid_state"))
}

func TestCompleteThenNoShowFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.createUC().Execute(ctx, f.createInput(t))
	require.NoError(t, err)

	_, err = NewCompleteBooking(f.repo, f.dispatcher()).Execute(ctx, f.salon.ID, nil, b.ID)
	require.NoError(t, err)

	_, err = NewMarkNoShow(f.repo, f.dispatcher()).Execute(ctx, f.salon.ID, nil, b.ID)
	assert.ErrorIs(t, err, httperr.ErrBusiness("invalid_state"))
}
