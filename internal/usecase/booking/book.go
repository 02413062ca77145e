package booking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/arogyalink/health-portal/internal/audit"
	domain "github.com/arogyalink/health-portal/internal/domain/booking"
	"github.com/arogyalink/health-portal/internal/httperr"
	"github.com/arogyalink/health-portal/internal/metrics"
	"github.com/arogyalink/health-portal/internal/models"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type BookInput struct {
	PatientID uint

	DoctorID string
	Date     string
	Time     string
	Type     string
	Notes    string
}

type BookResult struct {
	Appointment *models.Appointment
	PaymentURL  string
}

// PaymentLinker creates a payment link for the consultation fee.
// A nil PaymentLinker disables payments entirely.
type PaymentLinker interface {
	PaymentLink(ctx context.Context, title string, amount float64, reference string) (string, error)
}

// ======================================================
// USE CASE
// ======================================================

type Book struct {
	repo     domain.Repository
	audit    audit.Sink
	payments PaymentLinker
	metrics  metrics.BookingMetrics
	logger   *slog.Logger
}

func NewBook(
	repo domain.Repository,
	auditDispatcher audit.Sink,
	payments PaymentLinker,
	m metrics.BookingMetrics,
	logger *slog.Logger,
) *Book {
	return &Book{
		repo:     repo,
		audit:    auditDispatcher,
		payments: payments,
		metrics:  m,
		logger:   logger,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *Book) Execute(ctx context.Context, in BookInput) (*BookResult, error) {

	date, err := parseDate(in.Date)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	doctor, err := uc.repo.GetDoctorByPublicID(ctx, in.DoctorID)
	if err != nil {
		return nil, httperr.ErrBusiness("doctor_not_found")
	}

	ap := &models.Appointment{
		AppointmentID: uuid.NewString(),
		DoctorID:      doctor.DoctorID,
		PatientID:     in.PatientID,
		Date:          date,
		Time:          in.Time,
		Type:          in.Type,
		Notes:         in.Notes,
		Amount:        doctor.ConsultationFee,
		Status:        string(domain.InitialStatus()),
	}

	// Slot claim and appointment insert happen in one transaction; a taken
	// or nonexistent slot surfaces as slot_unavailable.
	if err := uc.repo.Book(ctx, ap); err != nil {
		if httperr.IsBusiness(err, "slot_unavailable") {
			uc.metrics.RecordBookingConflict()
		}
		return nil, err
	}

	uc.metrics.RecordBooking()

	uc.audit.Dispatch(audit.Event{
		ActorKind: "patient",
		ActorID:   &in.PatientID,
		Action:    "appointment_booked",
		Entity:    "appointment",
		EntityID:  ap.AppointmentID,
	})

	result := &BookResult{Appointment: ap}

	if uc.payments != nil {
		title := fmt.Sprintf("Consultation with Dr. %s %s", doctor.FirstName, doctor.LastName)
		url, err := uc.payments.PaymentLink(ctx, title, ap.Amount, ap.AppointmentID)
		if err != nil {
			// payment link failure never fails a booking
			uc.logger.Warn("payment link creation failed",
				slog.String("appointment_id", ap.AppointmentID),
				slog.String("error", err.Error()),
			)
		} else {
			result.PaymentURL = url
		}
	}

	return result, nil
}
