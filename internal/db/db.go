package db

import (
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/salonflow/salon-scheduler/internal/config"
	"github.com/salonflow/salon-scheduler/internal/models"
)

func NewDB(cfg *config.Config, log zerolog.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql.DB")
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db, cfg.DefaultTimezone); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate")
	}

	if err := ensureBookingExclusion(db); err != nil {
		// Transaction-level re-validation still guards the invariant;
		// the constraint is the database-side backstop.
		log.Warn().Err(err).Msg("booking exclusion constraint not installed")
	}

	return db
}

// Migrate runs the schema migration. Split out so the sqlite-backed
// tests can reuse it.
func Migrate(db *gorm.DB, defaultTZ string) error {
	if err := db.AutoMigrate(
		&models.Salon{},
		&models.User{},
		&models.Master{},
		&models.Service{},
		&models.Client{},
		&models.Booking{},
		&models.TimeBlock{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	db.Exec(`
        UPDATE salons
        SET timezone = ?
        WHERE timezone IS NULL OR timezone = ''
    `, defaultTZ)

	return nil
}

// ensureBookingExclusion installs a btree_gist exclusion constraint so
// two non-cancelled bookings of the same master can never hold
// overlapping minute ranges, even if two replicas race past the
// in-transaction check. Bookings without a fixed master are exempt.
func ensureBookingExclusion(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return err
	}

	return db.Exec(`
        DO $$
        BEGIN
            IF NOT EXISTS (
                SELECT 1 FROM pg_constraint WHERE conname = 'bookings_no_overlap'
            ) THEN
                ALTER TABLE bookings
                ADD CONSTRAINT bookings_no_overlap
                EXCLUDE USING gist (
                    master_id WITH =,
                    date WITH =,
                    int4range(
                        (split_part(time, ':', 1)::int * 60 + split_part(time, ':', 2)::int),
                        (split_part(time, ':', 1)::int * 60 + split_part(time, ':', 2)::int + duration_min)
                    ) WITH &&
                )
                WHERE (status <> 'CANCELLED' AND master_id IS NOT NULL);
            END IF;
        END
        $$;
    `).Error
}
