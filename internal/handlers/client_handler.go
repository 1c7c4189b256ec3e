package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salonflow/salon-scheduler/internal/httperr"
	"github.com/salonflow/salon-scheduler/internal/httpresp"
	"github.com/salonflow/salon-scheduler/internal/middleware"
	"github.com/salonflow/salon-scheduler/internal/models"
)

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

func (h *ClientHandler) List(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	q := h.db.Where("salon_id = ?", salonID)

	if query := strings.TrimSpace(strings.ToLower(c.Query("query"))); query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR phone LIKE ?", like, like)
	}

	var clients []models.Client
	if err := q.Order("last_visit DESC NULLS LAST, id DESC").Find(&clients).Error; err != nil {
		httperr.Internal(c, "failed_to_list_clients", "Не вдалося завантажити клієнтів.")
		return
	}

	httpresp.List(c, clients)
}

func (h *ClientHandler) Get(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)
	id := c.Param("id")

	var client models.Client
	if err := h.db.
		Where("id = ? AND salon_id = ?", id, salonID).
		First(&client).Error; err != nil {
		httperr.NotFound(c, "client_not_found", "Клієнта не знайдено.")
		return
	}

	var recent []models.Booking
	h.db.
		Where("salon_id = ? AND client_id = ?", salonID, client.ID).
		Order("date DESC, time DESC").
		Limit(20).
		Find(&recent)

	c.JSON(http.StatusOK, gin.H{
		"client":   client,
		"bookings": recent,
	})
}
