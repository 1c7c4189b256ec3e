package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salonflow/salon-scheduler/internal/audit"
	"github.com/salonflow/salon-scheduler/internal/httperr"
	"github.com/salonflow/salon-scheduler/internal/middleware"
	"github.com/salonflow/salon-scheduler/internal/models"
	"github.com/salonflow/salon-scheduler/internal/salontime"
)

type TimeBlockHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewTimeBlockHandler(db *gorm.DB, auditor *audit.Dispatcher) *TimeBlockHandler {
	return &TimeBlockHandler{db: db, audit: auditor}
}

type TimeBlockRequest struct {
	MasterID *uint `json:"master_id"` // nil blocks the whole salon

	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
	StartTime string `json:"start_time"`              // HH:MM
	EndTime   string `json:"end_time"`

	Type     string `json:"type"`
	IsAllDay bool   `json:"is_all_day"`
	Repeat   string `json:"repeat"` // "" or "weekly"

	Title string `json:"title"`
	Color string `json:"color"`
}

func (r *TimeBlockRequest) validate(c *gin.Context) bool {
	if !salontime.IsValidDate(r.Date) {
		httperr.BadRequest(c, "invalid_date", "Дату вказано некоректно.")
		return false
	}

	if !r.IsAllDay {
		if !salontime.IsValidTime(r.StartTime) || !salontime.IsValidTime(r.EndTime) {
			httperr.BadRequest(c, "invalid_time", "Час вказано некоректно.")
			return false
		}
		start, _ := salontime.MinutesOfDay(r.StartTime)
		end, _ := salontime.MinutesOfDay(r.EndTime)
		if start >= end {
			httperr.BadRequest(c, "invalid_interval", "Початок має бути раніше за кінець.")
			return false
		}
	}

	switch r.Type {
	case "", models.TimeBlockBreak, models.TimeBlockVacation, models.TimeBlockOther:
	default:
		httperr.BadRequest(c, "invalid_type", "Невідомий тип блокування.")
		return false
	}

	if r.Repeat != "" && r.Repeat != "weekly" {
		httperr.BadRequest(c, "invalid_repeat", "Підтримується лише щотижневе повторення.")
		return false
	}

	return true
}

// Staff may only manage blocks on their own column; owners may touch
// anything in the salon, including salon-wide blocks.
func canManageBlock(c *gin.Context, masterID *uint) bool {
	staffVal, isStaff := c.Get(middleware.ContextMasterID)
	if !isStaff {
		return true
	}
	staffID, _ := staffVal.(uint)
	return masterID != nil && *masterID == staffID
}

func (h *TimeBlockHandler) List(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	q := h.db.Where("salon_id = ?", salonID)

	if date := c.Query("date"); date != "" {
		if !salontime.IsValidDate(date) {
			httperr.BadRequest(c, "invalid_date", "Дату вказано некоректно.")
			return
		}
		q = q.Where("date = ? OR repeat = 'weekly'", date)
	}
	if masterID := c.Query("master_id"); masterID != "" {
		q = q.Where("master_id = ? OR master_id IS NULL", masterID)
	}

	var blocks []models.TimeBlock
	if err := q.Order("date ASC, start_time ASC").Find(&blocks).Error; err != nil {
		httperr.Internal(c, "failed_to_list_time_blocks", "Не вдалося завантажити блокування.")
		return
	}

	c.JSON(http.StatusOK, blocks)
}

func (h *TimeBlockHandler) Create(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req TimeBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Некоректні дані запиту.")
		return
	}
	if !req.validate(c) {
		return
	}
	if !canManageBlock(c, req.MasterID) {
		httperr.Forbidden(c, "forbidden", "Можна керувати лише власними блокуваннями.")
		return
	}

	if req.MasterID != nil {
		var count int64
		h.db.Model(&models.Master{}).
			Where("id = ? AND salon_id = ?", *req.MasterID, salonID).
			Count(&count)
		if count == 0 {
			httperr.NotFound(c, "master_not_found", "Майстра не знайдено.")
			return
		}
	}

	blockType := req.Type
	if blockType == "" {
		blockType = models.TimeBlockBreak
	}

	block := models.TimeBlock{
		SalonID:   salonID,
		MasterID:  req.MasterID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Type:      blockType,
		IsAllDay:  req.IsAllDay,
		Repeat:    req.Repeat,
		Title:     req.Title,
		Color:     req.Color,
	}

	if err := h.db.Create(&block).Error; err != nil {
		httperr.Internal(c, "failed_to_create_time_block", "Не вдалося створити блокування.")
		return
	}

	h.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   &userID,
		Action:   "time_block_created",
		Entity:   "time_block",
		EntityID: &block.ID,
	})

	c.JSON(http.StatusCreated, block)
}

func (h *TimeBlockHandler) Delete(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	var block models.TimeBlock
	if err := h.db.
		Where("id = ? AND salon_id = ?", id, salonID).
		First(&block).Error; err != nil {
		httperr.NotFound(c, "time_block_not_found", "Блокування не знайдено.")
		return
	}

	if !canManageBlock(c, block.MasterID) {
		httperr.Forbidden(c, "forbidden", "Можна керувати лише власними блокуваннями.")
		return
	}

	if err := h.db.Delete(&block).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_time_block", "Не вдалося видалити блокування.")
		return
	}

	h.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   &userID,
		Action:   "time_block_deleted",
		Entity:   "time_block",
		EntityID: &block.ID,
	})

	c.JSON(http.StatusOK, gin.H{"deleted": block.ID})
}
