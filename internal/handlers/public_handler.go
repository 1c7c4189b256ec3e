package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salonflow/salon-scheduler/internal/httperr"
	"github.com/salonflow/salon-scheduler/internal/models"
	"github.com/salonflow/salon-scheduler/internal/ratelimit"
	"github.com/salonflow/salon-scheduler/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

// PublicHandler serves the embeddable booking widget: no auth, salon
// addressed by slug, write paths rate limited per client IP.
type PublicHandler struct {
	db           *gorm.DB
	create       *booking.CreateBooking
	cancel       *booking.CancelBooking
	availability *booking.GetAvailability
	limiter      *ratelimit.Limiter
}

func NewPublicHandler(
	db *gorm.DB,
	create *booking.CreateBooking,
	cancel *booking.CancelBooking,
	availability *booking.GetAvailability,
	limiter *ratelimit.Limiter,
) *PublicHandler {
	return &PublicHandler{
		db:           db,
		create:       create,
		cancel:       cancel,
		availability: availability,
		limiter:      limiter,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type PublicCreateBookingRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`

	MasterID  *uint `json:"master_id"`
	ServiceID uint  `json:"service_id" binding:"required"`

	Date  string `json:"date" binding:"required"` // YYYY-MM-DD
	Time  string `json:"time" binding:"required"` // HH:MM
	Notes string `json:"notes"`
}

// ======================================================
// HELPERS
// ======================================================

func (h *PublicHandler) salonBySlug(c *gin.Context) (*models.Salon, bool) {
	slug := c.Param("slug")

	var salon models.Salon
	if err := h.db.
		Where("slug = ? AND is_active = ?", slug, true).
		First(&salon).Error; err != nil {
		httperr.NotFound(c, "salon_not_found", "Салон не знайдено.")
		return nil, false
	}
	return &salon, true
}

func (h *PublicHandler) allow(c *gin.Context) bool {
	if h.limiter == nil {
		return true
	}
	if h.limiter.Allow(c.Request.Context(), c.ClientIP()) {
		return true
	}
	httperr.TooManyRequests(c, "rate_limited", "Забагато запитів, спробуйте пізніше.")
	return false
}

// ======================================================
// SALON INFO
// ======================================================

func (h *PublicHandler) GetSalon(c *gin.Context) {
	salon, ok := h.salonBySlug(c)
	if !ok {
		return
	}

	var services []models.Service
	h.db.
		Where("salon_id = ? AND is_active = ?", salon.ID, true).
		Order("id ASC").
		Find(&services)

	var masters []models.Master
	h.db.
		Select("id", "name", "color").
		Where("salon_id = ? AND is_active = ?", salon.ID, true).
		Order("id ASC").
		Find(&masters)

	c.JSON(http.StatusOK, gin.H{
		"salon": gin.H{
			"id":       salon.ID,
			"name":     salon.Name,
			"slug":     salon.Slug,
			"phone":    salon.Phone,
			"address":  salon.Address,
			"timezone": salon.Timezone,
		},
		"services": services,
		"masters":  masters,
	})
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *PublicHandler) Availability(c *gin.Context) {
	salon, ok := h.salonBySlug(c)
	if !ok {
		return
	}

	date := c.Query("date")
	masterIDStr := c.Query("master_id")
	serviceIDStr := c.Query("service_id")
	if date == "" || masterIDStr == "" || serviceIDStr == "" {
		httperr.BadRequest(c, "missing_params", "Дата, майстер і послуга обов'язкові.")
		return
	}

	masterID, err := strconv.ParseUint(masterIDStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_master_id", "Майстра вказано некоректно.")
		return
	}
	serviceID, err := strconv.ParseUint(serviceIDStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Послугу вказано некоректно.")
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), booking.AvailabilityInput{
		SalonID:   salon.ID,
		MasterID:  uint(masterID),
		ServiceID: uint(serviceID),
		Date:      date,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"slots": slots,
	})
}

// ======================================================
// CREATE BOOKING
// ======================================================

func (h *PublicHandler) CreateBooking(c *gin.Context) {
	if !h.allow(c) {
		return
	}

	salon, ok := h.salonBySlug(c)
	if !ok {
		return
	}

	var req PublicCreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Некоректні дані запиту.")
		return
	}

	serviceID := req.ServiceID
	b, err := h.create.Execute(c.Request.Context(), booking.CreateBookingInput{
		SalonID:     salon.ID,
		MasterID:    req.MasterID,
		ServiceID:   &serviceID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		Date:        req.Date,
		Time:        req.Time,
		Notes:       req.Notes,
		Origin:      "public",
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":           b.ID,
		"date":         b.Date,
		"time":         b.Time,
		"time_end":     b.TimeEnd,
		"master_name":  b.MasterName,
		"service_name": b.ServiceName,
		"status":       b.Status,
		"cancel_token": b.CancelToken,
	})
}

// ======================================================
// CANCEL BY TOKEN
// ======================================================

func (h *PublicHandler) CancelByToken(c *gin.Context) {
	if !h.allow(c) {
		return
	}

	token := c.Param("token")
	if len(token) != 36 {
		httperr.BadRequest(c, "invalid_token", "Посилання для скасування недійсне.")
		return
	}

	b, err := h.cancel.ExecuteByToken(c.Request.Context(), token)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     b.ID,
		"status": b.Status,
	})
}
