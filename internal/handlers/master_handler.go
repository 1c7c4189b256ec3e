package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/salonflow/salon-scheduler/internal/audit"
	"github.com/salonflow/salon-scheduler/internal/domain/schedule"
	"github.com/salonflow/salon-scheduler/internal/httperr"
	"github.com/salonflow/salon-scheduler/internal/middleware"
	"github.com/salonflow/salon-scheduler/internal/models"
	"github.com/salonflow/salon-scheduler/internal/salontime"
	"github.com/salonflow/salon-scheduler/internal/timezone"
)

type MasterHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewMasterHandler(db *gorm.DB, auditor *audit.Dispatcher) *MasterHandler {
	return &MasterHandler{db: db, audit: auditor}
}

type MasterRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Color string `json:"color"`

	Timezone string `json:"timezone"`

	WorkingHours *json.RawMessage `json:"working_hours"`

	LunchStart       string `json:"lunch_start"`
	LunchDurationMin int    `json:"lunch_duration_min"`

	IsActive *bool `json:"is_active"`
}

func (h *MasterHandler) List(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	var masters []models.Master
	if err := h.db.
		Where("salon_id = ?", salonID).
		Order("id ASC").
		Find(&masters).Error; err != nil {
		httperr.Internal(c, "failed_to_list_masters", "Не вдалося завантажити майстрів.")
		return
	}

	c.JSON(http.StatusOK, masters)
}

func (h *MasterHandler) Create(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req MasterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Некоректні дані запиту.")
		return
	}

	master := models.Master{
		SalonID:  salonID,
		Name:     req.Name,
		Phone:    req.Phone,
		Color:    req.Color,
		IsActive: true,
	}

	if err := h.applyRequest(&master, &req, c); err != nil {
		return
	}

	if err := h.db.Create(&master).Error; err != nil {
		httperr.Internal(c, "failed_to_create_master", "Не вдалося створити майстра.")
		return
	}

	h.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   &userID,
		Action:   "master_created",
		Entity:   "master",
		EntityID: &master.ID,
	})

	c.JSON(http.StatusCreated, master)
}

func (h *MasterHandler) Update(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	var master models.Master
	if err := h.db.
		Where("id = ? AND salon_id = ?", id, salonID).
		First(&master).Error; err != nil {
		httperr.NotFound(c, "master_not_found", "Майстра не знайдено.")
		return
	}

	var req MasterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Некоректні дані запиту.")
		return
	}

	master.Name = req.Name
	master.Phone = req.Phone
	master.Color = req.Color

	if err := h.applyRequest(&master, &req, c); err != nil {
		return
	}

	if req.IsActive != nil {
		master.IsActive = *req.IsActive
	}

	if err := h.db.Save(&master).Error; err != nil {
		httperr.Internal(c, "failed_to_update_master", "Не вдалося зберегти майстра.")
		return
	}

	h.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   &userID,
		Action:   "master_updated",
		Entity:   "master",
		EntityID: &master.ID,
	})

	c.JSON(http.StatusOK, master)
}

// Deactivate instead of delete: history keeps pointing at the master.
func (h *MasterHandler) Deactivate(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	var master models.Master
	if err := h.db.
		Where("id = ? AND salon_id = ?", id, salonID).
		First(&master).Error; err != nil {
		httperr.NotFound(c, "master_not_found", "Майстра не знайдено.")
		return
	}

	master.IsActive = false
	if err := h.db.Save(&master).Error; err != nil {
		httperr.Internal(c, "failed_to_update_master", "Не вдалося деактивувати майстра.")
		return
	}

	h.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   &userID,
		Action:   "master_deactivated",
		Entity:   "master",
		EntityID: &master.ID,
	})

	c.JSON(http.StatusOK, master)
}

// applyRequest validates and copies the optional schedule-shaped
// fields. Writes the HTTP error itself and returns non-nil so callers
// can bail out with a bare return.
func (h *MasterHandler) applyRequest(master *models.Master, req *MasterRequest, c *gin.Context) error {
	if req.Timezone != "" {
		if !timezone.IsValid(req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Некоректний часовий пояс.")
			return httperr.ErrBusiness("invalid_timezone")
		}
		master.Timezone = req.Timezone
	}

	if req.WorkingHours != nil {
		if _, err := schedule.ParseWeekHours(datatypes.JSON(*req.WorkingHours)); err != nil {
			httperr.BadRequest(c, "invalid_working_hours", "Некоректний графік роботи.")
			return err
		}
		master.WorkingHours = datatypes.JSON(*req.WorkingHours)
	}

	if req.LunchStart != "" {
		if !salontime.IsValidTime(req.LunchStart) {
			httperr.BadRequest(c, "invalid_lunch_start", "Некоректний час обідньої перерви.")
			return httperr.ErrBusiness("invalid_lunch_start")
		}
		master.LunchStart = req.LunchStart
	}
	if req.LunchDurationMin < 0 || req.LunchDurationMin > 240 {
		httperr.BadRequest(c, "invalid_lunch_duration", "Некоректна тривалість обідньої перерви.")
		return httperr.ErrBusiness("invalid_lunch_duration")
	}
	master.LunchDurationMin = req.LunchDurationMin

	return nil
}
