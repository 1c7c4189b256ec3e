package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salonflow/salon-scheduler/internal/httperr"
	"github.com/salonflow/salon-scheduler/internal/httpresp"
	"github.com/salonflow/salon-scheduler/internal/models"
)

// AdminHandler is the platform-operator surface, not salon staff.
type AdminHandler struct {
	db *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

func (h *AdminHandler) ListSalons(c *gin.Context) {
	var salons []models.Salon
	if err := h.db.Order("id ASC").Find(&salons).Error; err != nil {
		httperr.Internal(c, "failed_to_list_salons", "Не вдалося завантажити салони.")
		return
	}

	httpresp.List(c, salons)
}

type SetSalonActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

func (h *AdminHandler) SetSalonActive(c *gin.Context) {
	id := c.Param("id")

	var salon models.Salon
	if err := h.db.First(&salon, id).Error; err != nil {
		httperr.NotFound(c, "salon_not_found", "Салон не знайдено.")
		return
	}

	var req SetSalonActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Некоректні дані запиту.")
		return
	}

	salon.IsActive = *req.IsActive
	if err := h.db.Save(&salon).Error; err != nil {
		httperr.Internal(c, "failed_to_update_salon", "Не вдалося оновити салон.")
		return
	}

	c.JSON(http.StatusOK, salon)
}
