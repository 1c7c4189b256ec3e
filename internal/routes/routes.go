package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/salonflow/salon-scheduler/internal/audit"
	"github.com/salonflow/salon-scheduler/internal/config"
	"github.com/salonflow/salon-scheduler/internal/handlers"
	infraRepo "github.com/salonflow/salon-scheduler/internal/infra/repository"
	"github.com/salonflow/salon-scheduler/internal/middleware"
	"github.com/salonflow/salon-scheduler/internal/models"
	"github.com/salonflow/salon-scheduler/internal/notify"
	"github.com/salonflow/salon-scheduler/internal/ratelimit"
	"github.com/salonflow/salon-scheduler/internal/timezone"
	ucBooking "github.com/salonflow/salon-scheduler/internal/usecase/booking"
)

// Deps carries the process-level singletons main already owns.
type Deps struct {
	Log      zerolog.Logger
	Notifier notify.Notifier
	Limiter  *ratelimit.Limiter
	Resolver *timezone.Resolver
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, deps Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, deps.Log)

	// ======================================================
	// USE CASES — BOOKINGS
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(
		scheduleRepo,
		auditDispatcher,
		deps.Notifier,
		deps.Log,
	)

	cancelBookingUC := ucBooking.NewCancelBooking(
		scheduleRepo,
		auditDispatcher,
		deps.Notifier,
	)

	completeBookingUC := ucBooking.NewCompleteBooking(
		scheduleRepo,
		auditDispatcher,
	)

	confirmBookingUC := ucBooking.NewConfirmBooking(scheduleRepo, auditDispatcher)
	markNoShowUC := ucBooking.NewMarkNoShow(scheduleRepo, auditDispatcher)

	listBookingsUC := ucBooking.NewListBookings(scheduleRepo)
	availabilityUC := ucBooking.NewGetAvailability(scheduleRepo, deps.Log)
	autoCompleteUC := ucBooking.NewAutoComplete(scheduleRepo, deps.Log)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	salonHandler := handlers.NewSalonHandler(db, deps.Resolver)

	masterHandler := handlers.NewMasterHandler(db, auditDispatcher)
	serviceHandler := handlers.NewServiceHandler(db)
	clientHandler := handlers.NewClientHandler(db)
	timeBlockHandler := handlers.NewTimeBlockHandler(db, auditDispatcher)

	bookingHandler := handlers.NewBookingHandler(
		createBookingUC,
		cancelBookingUC,
		completeBookingUC,
		confirmBookingUC,
		markNoShowUC,
		listBookingsUC,
		availabilityUC,
		autoCompleteUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)
	adminHandler := handlers.NewAdminHandler(db)

	publicHandler := handlers.NewPublicHandler(
		db,
		createBookingUC,
		cancelBookingUC,
		availabilityUC,
		deps.Limiter,
	)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC WIDGET
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug", publicHandler.GetSalon)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/bookings", publicHandler.CreateBooking)
			publicAPI.POST("/bookings/cancel/:token", publicHandler.CancelByToken)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE (OWNER + STAFF)
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			owner := secured.Group("/")
			owner.Use(middleware.RequireRole(models.RoleOwner))
			{
				owner.GET("/me/salon", salonHandler.GetMySalon)
				owner.PATCH("/me/salon", salonHandler.UpdateMySalon)

				owner.GET("/me/masters", masterHandler.List)
				owner.POST("/me/masters", masterHandler.Create)
				owner.PATCH("/me/masters/:id", masterHandler.Update)
				owner.DELETE("/me/masters/:id", masterHandler.Deactivate)

				owner.GET("/me/services", serviceHandler.List)
				owner.POST("/me/services", serviceHandler.Create)
				owner.PATCH("/me/services/:id", serviceHandler.Update)
				owner.DELETE("/me/services/:id", serviceHandler.Deactivate)

				owner.GET("/me/clients", clientHandler.List)
				owner.GET("/me/clients/:id", clientHandler.Get)

				owner.GET("/me/audit-logs", auditLogsHandler.List)
			}

			// Staff and owner alike work the calendar.
			staff := secured.Group("/")
			staff.Use(middleware.RequireRole(models.RoleOwner, models.RoleMaster))
			{
				staff.POST("/me/bookings", bookingHandler.Create)
				staff.GET("/me/bookings", bookingHandler.ListByDate)
				staff.GET("/me/bookings/month", bookingHandler.ListByMonth)
				staff.GET("/me/bookings/availability", bookingHandler.Availability)
				staff.PATCH("/me/bookings/:id/confirm", bookingHandler.Confirm)
				staff.PATCH("/me/bookings/:id/cancel", bookingHandler.Cancel)
				staff.PATCH("/me/bookings/:id/complete", bookingHandler.Complete)
				staff.PATCH("/me/bookings/:id/no-show", bookingHandler.NoShow)
				staff.POST("/me/bookings/auto-complete", bookingHandler.RunAutoComplete)

				staff.GET("/me/time-blocks", timeBlockHandler.List)
				staff.POST("/me/time-blocks", timeBlockHandler.Create)
				staff.DELETE("/me/time-blocks/:id", timeBlockHandler.Delete)
			}

			// ------------------------------
			// PLATFORM ADMIN
			// ------------------------------
			admin := secured.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/salons", adminHandler.ListSalons)
				admin.PATCH("/salons/:id/active", adminHandler.SetSalonActive)
			}
		}
	}
}
