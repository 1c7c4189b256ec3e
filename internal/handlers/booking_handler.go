package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/salonflow/salon-scheduler/internal/domain/schedule"
	"github.com/salonflow/salon-scheduler/internal/httperr"
	"github.com/salonflow/salon-scheduler/internal/httpresp"
	"github.com/salonflow/salon-scheduler/internal/middleware"
	"github.com/salonflow/salon-scheduler/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	create       *booking.CreateBooking
	cancel       *booking.CancelBooking
	complete     *booking.CompleteBooking
	confirm      *booking.ConfirmBooking
	noShow       *booking.MarkNoShow
	list         *booking.ListBookings
	availability *booking.GetAvailability
	autoComplete *booking.AutoComplete
}

func NewBookingHandler(
	create *booking.CreateBooking,
	cancel *booking.CancelBooking,
	complete *booking.CompleteBooking,
	confirm *booking.ConfirmBooking,
	noShow *booking.MarkNoShow,
	list *booking.ListBookings,
	availability *booking.GetAvailability,
	autoComplete *booking.AutoComplete,
) *BookingHandler {
	return &BookingHandler{
		create:       create,
		cancel:       cancel,
		complete:     complete,
		confirm:      confirm,
		noShow:       noShow,
		list:         list,
		availability: availability,
		autoComplete: autoComplete,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`

	MasterID  *uint `json:"master_id"`
	ServiceID *uint `json:"service_id"`

	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:MM
	DurationMin int    `json:"duration_min"`
	Notes       string `json:"notes"`
}

// ======================================================
// HELPERS
// ======================================================

// Staff accounts only see their own master column; owners pass the
// master_id query param through (or get the whole salon).
func scopedMasterID(c *gin.Context) *uint {
	if v, ok := c.Get(middleware.ContextMasterID); ok {
		if id, ok := v.(uint); ok {
			return &id
		}
	}

	if s := c.Query("master_id"); s != "" {
		if id, err := strconv.ParseUint(s, 10, 64); err == nil {
			u := uint(id)
			return &u
		}
	}
	return nil
}

func writeBookingError(c *gin.Context, err error) {
	if conflictErr, ok := schedule.AsConflict(err); ok {
		httperr.Conflict(c, "time_conflict", "Цей час уже зайнято.", gin.H{
			"start": conflictErr.Conflicting.Start,
			"end":   conflictErr.Conflicting.End,
		})
		return
	}

	var be httperr.BusinessError
	if errors.As(err, &be) {
		switch be.Code {
		case "booking_not_found", "salon_not_found", "master_not_found", "service_not_found":
			httperr.NotFound(c, be.Code, "Запис не знайдено.")
		case "invalid_state":
			httperr.BadRequest(c, be.Code, "Запис у цьому статусі не можна змінити.")
		default:
			httperr.BadRequest(c, be.Code, "Некоректні дані запиту.")
		}
		return
	}

	httperr.Internal(c, "booking_operation_failed", "Не вдалося виконати операцію.")
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Некоректні дані запиту.")
		return
	}

	masterID := req.MasterID
	if staff := scopedMasterID(c); staff != nil && req.MasterID == nil {
		masterID = staff
	}

	b, err := h.create.Execute(c.Request.Context(), booking.CreateBookingInput{
		SalonID:     salonID,
		MasterID:    masterID,
		ServiceID:   req.ServiceID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		Date:        req.Date,
		Time:        req.Time,
		DurationMin: req.DurationMin,
		Notes:       req.Notes,
		Origin:      "dashboard",
		ActorID:     &userID,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

// ======================================================
// LIST
// ======================================================

func (h *BookingHandler) ListByDate(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Дата обов'язкова.")
		return
	}

	items, err := h.list.ByDate(c.Request.Context(), salonID, scopedMasterID(c), date)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	httpresp.List(c, items)
}

func (h *BookingHandler) ListByMonth(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		httperr.BadRequest(c, "invalid_year", "Рік вказано некоректно.")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "Місяць вказано некоректно.")
		return
	}

	items, err := h.list.ByMonth(c.Request.Context(), salonID, scopedMasterID(c), year, month)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":     year,
		"month":    month,
		"bookings": items,
	})
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *BookingHandler) Availability(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	date := c.Query("date")
	masterIDStr := c.Query("master_id")
	if date == "" || masterIDStr == "" {
		httperr.BadRequest(c, "missing_params", "Дата й майстер обов'язкові.")
		return
	}

	masterID, err := strconv.ParseUint(masterIDStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_master_id", "Майстра вказано некоректно.")
		return
	}

	in := booking.AvailabilityInput{
		SalonID:  salonID,
		MasterID: uint(masterID),
		Date:     date,
	}
	if s := c.Query("service_id"); s != "" {
		if id, err := strconv.ParseUint(s, 10, 64); err == nil {
			in.ServiceID = uint(id)
		}
	}
	if s := c.Query("duration_min"); s != "" {
		if d, err := strconv.Atoi(s); err == nil {
			in.DurationMin = d
		}
	}

	slots, err := h.availability.Execute(c.Request.Context(), in)
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
// STATUS OPS
// ======================================================

func (h *BookingHandler) bookingID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_booking_id", "Запис вказано некоректно.")
		return 0, false
	}
	return uint(id), true
}

func (h *BookingHandler) Confirm(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	b, err := h.confirm.Execute(c.Request.Context(), salonID, &userID, id)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	b, err := h.cancel.Execute(c.Request.Context(), salonID, &userID, id)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	b, err := h.complete.Execute(c.Request.Context(), salonID, &userID, id)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) NoShow(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	b, err := h.noShow.Execute(c.Request.Context(), salonID, &userID, id)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ======================================================
// AUTO-COMPLETE SWEEP
// ======================================================

// RunAutoComplete lets the dashboard trigger the elapsed-booking sweep
// without waiting for the background tick.
func (h *BookingHandler) RunAutoComplete(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	var (
		completed int
		err       error
	)

	if staff := scopedMasterID(c); staff != nil {
		completed, err = h.autoComplete.ExecuteForMaster(c.Request.Context(), salonID, *staff)
	} else {
		completed, err = h.autoComplete.ExecuteForSalon(c.Request.Context(), salonID)
	}
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"completed": completed})
}
