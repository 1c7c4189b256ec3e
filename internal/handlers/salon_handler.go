package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/salonflow/salon-scheduler/internal/domain/schedule"
	"github.com/salonflow/salon-scheduler/internal/httperr"
	"github.com/salonflow/salon-scheduler/internal/middleware"
	"github.com/salonflow/salon-scheduler/internal/models"
	"github.com/salonflow/salon-scheduler/internal/timezone"
)

type SalonHandler struct {
	db       *gorm.DB
	resolver *timezone.Resolver
}

func NewSalonHandler(db *gorm.DB, resolver *timezone.Resolver) *SalonHandler {
	return &SalonHandler{db: db, resolver: resolver}
}

type UpdateSalonRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`

	WorkingHours *json.RawMessage `json:"working_hours"`

	BufferTimeMin     *int `json:"buffer_time_min"`
	MinAdvanceMinutes *int `json:"min_advance_minutes"`
	MaxAdvanceDays    *int `json:"max_advance_days"`

	// Mirrors a freshly resolved salon timezone onto its masters;
	// defaults to true because masters usually work where the salon is.
	SyncMasterTimezones *bool `json:"sync_master_timezones"`
}

func (h *SalonHandler) GetMySalon(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	var salon models.Salon
	if err := h.db.First(&salon, salonID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "salon_not_found", "Салон не знайдено.")
			return
		}
		httperr.Internal(c, "failed_to_get_salon", "Не вдалося завантажити дані салону.")
		return
	}

	c.JSON(http.StatusOK, salon)
}

func (h *SalonHandler) UpdateMySalon(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	var salon models.Salon
	if err := h.db.First(&salon, salonID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "salon_not_found", "Салон не знайдено.")
			return
		}
		httperr.Internal(c, "failed_to_get_salon", "Не вдалося завантажити дані салону.")
		return
	}

	var req UpdateSalonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Некоректні дані запиту.")
		return
	}

	if req.Name != nil {
		salon.Name = *req.Name
	}
	if req.Phone != nil {
		salon.Phone = *req.Phone
	}

	if req.WorkingHours != nil {
		if _, err := schedule.ParseWeekHours(datatypes.JSON(*req.WorkingHours)); err != nil {
			httperr.BadRequest(c, "invalid_working_hours", "Некоректний графік роботи.")
			return
		}
		salon.WorkingHours = datatypes.JSON(*req.WorkingHours)
	}

	if req.BufferTimeMin != nil {
		if *req.BufferTimeMin < 0 || *req.BufferTimeMin > 120 {
			httperr.BadRequest(c, "invalid_buffer_time", "Буфер має бути від 0 до 120 хвилин.")
			return
		}
		salon.BufferTimeMin = *req.BufferTimeMin
	}
	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			httperr.BadRequest(c, "invalid_min_advance", "Мінімальний час до запису має бути невід'ємним.")
			return
		}
		salon.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}
	if req.MaxAdvanceDays != nil {
		if *req.MaxAdvanceDays < 1 || *req.MaxAdvanceDays > 365 {
			httperr.BadRequest(c, "invalid_max_advance", "Горизонт запису має бути від 1 до 365 днів.")
			return
		}
		salon.MaxAdvanceDays = *req.MaxAdvanceDays
	}

	// Address change re-resolves the timezone. Resolution failure is
	// not an error for the update: the previous timezone stays.
	tzChanged := false
	if req.Address != nil && *req.Address != salon.Address {
		salon.Address = *req.Address

		if res, err := h.resolver.Resolve(c.Request.Context(), salon.Address); err == nil {
			if res.Timezone != salon.Timezone {
				tzChanged = true
			}
			salon.Timezone = res.Timezone
			salon.Latitude = &res.Latitude
			salon.Longitude = &res.Longitude
		}
	}

	if err := h.db.Save(&salon).Error; err != nil {
		httperr.Internal(c, "failed_to_update_salon", "Не вдалося зберегти налаштування салону.")
		return
	}

	sync := tzChanged
	if req.SyncMasterTimezones != nil {
		sync = *req.SyncMasterTimezones && tzChanged
	}
	if sync {
		h.db.Model(&models.Master{}).
			Where("salon_id = ?", salon.ID).
			Update("timezone", salon.Timezone)
	}

	c.JSON(http.StatusOK, salon)
}
