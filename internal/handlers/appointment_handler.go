package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arogyalink/health-portal/internal/httperr"
	"github.com/arogyalink/health-portal/internal/httpresp"
	"github.com/arogyalink/health-portal/internal/middleware"
	"github.com/arogyalink/health-portal/internal/models"
	ucBooking "github.com/arogyalink/health-portal/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	checkAvailability *ucBooking.CheckAvailability
	book              *ucBooking.Book
	cancel            *ucBooking.Cancel
	freeSlots         *ucBooking.ListFreeSlots
	listForPatient    *ucBooking.ListPatientAppointments
}

func NewAppointmentHandler(
	checkAvailability *ucBooking.CheckAvailability,
	book *ucBooking.Book,
	cancel *ucBooking.Cancel,
	freeSlots *ucBooking.ListFreeSlots,
	listForPatient *ucBooking.ListPatientAppointments,
) *AppointmentHandler {
	return &AppointmentHandler{
		checkAvailability: checkAvailability,
		book:              book,
		cancel:            cancel,
		freeSlots:         freeSlots,
		listForPatient:    listForPatient,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type BookAppointmentRequest struct {
	DoctorID string `json:"doctor_id" binding:"required"`
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
	Type     string `json:"type"`
	Notes    string `json:"notes"`
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) CheckAvailability(c *gin.Context) {
	doctorID := c.Query("doctor_id")
	dateStr := c.Query("date")
	if doctorID == "" || dateStr == "" {
		httperr.BadRequest(c, "doctor_id and date are required")
		return
	}

	slots, err := h.checkAvailability.Execute(c.Request.Context(), doctorID, dateStr)
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "doctor_not_found"):
			httperr.NotFound(c, "Doctor not found")
		case httperr.IsBusiness(err, "invalid_date"):
			httperr.BadRequest(c, "Invalid date")
		default:
			httperr.Internal(c, "Error checking availability")
		}
		return
	}

	httpresp.OK(c, slots)
}

// FreeSlots serves the path-parameterized variant of availability.
func (h *AppointmentHandler) FreeSlots(c *gin.Context) {
	doctorID := c.Param("doctor_id")
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "Date is required")
		return
	}

	slots, err := h.freeSlots.Execute(c.Request.Context(), doctorID, dateStr)
	if err != nil {
		if httperr.IsBusiness(err, "invalid_date") {
			httperr.BadRequest(c, "Invalid date")
			return
		}
		httperr.Internal(c, "Error fetching free slots")
		return
	}

	httpresp.OK(c, slots)
}

// ======================================================
// BOOK
// ======================================================

func (h *AppointmentHandler) Book(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextActorID).(uint)

	var req BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid appointment data")
		return
	}

	result, err := h.book.Execute(c.Request.Context(), ucBooking.BookInput{
		PatientID: patientID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Time:      req.Time,
		Type:      req.Type,
		Notes:     req.Notes,
	})
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "doctor_not_found"):
			httperr.NotFound(c, "Doctor not found")
		case httperr.IsBusiness(err, "slot_unavailable"):
			httperr.BadRequest(c, "Time slot is not available")
		case httperr.IsBusiness(err, "invalid_date"):
			httperr.BadRequest(c, "Invalid date")
		default:
			httperr.Internal(c, "Error booking appointment")
		}
		return
	}

	resp := gin.H{
		"message":     "Appointment booked successfully",
		"appointment": appointmentJSON(result.Appointment),
	}
	if result.PaymentURL != "" {
		resp["payment_url"] = result.PaymentURL
	}

	httpresp.Created(c, resp)
}

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextActorID).(uint)
	appointmentID := c.Param("id")

	if _, err := h.cancel.Execute(c.Request.Context(), patientID, appointmentID); err != nil {
		if httperr.IsBusiness(err, "appointment_not_found") || httperr.IsBusiness(err, "invalid_state") {
			httperr.NotFound(c, "Appointment not found or cannot be cancelled")
			return
		}
		httperr.Internal(c, "Error cancelling appointment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled successfully"})
}

// ======================================================
// LIST (patient)
// ======================================================

func (h *AppointmentHandler) ListMine(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextActorID).(uint)

	aps, err := h.listForPatient.Execute(c.Request.Context(), patientID)
	if err != nil {
		httperr.Internal(c, "Error fetching appointments")
		return
	}

	httpresp.OK(c, aps)
}

// ======================================================
// JSON shape
// ======================================================

func appointmentJSON(ap *models.Appointment) gin.H {
	return gin.H{
		"appointment_id": ap.AppointmentID,
		"doctor_id":      ap.DoctorID,
		"date":           ap.Date.Format("2006-01-02"),
		"time":           ap.Time,
		"type":           ap.Type,
		"status":         ap.Status,
		"amount":         ap.Amount,
	}
}
