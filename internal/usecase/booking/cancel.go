package booking

import (
	"context"
	"log/slog"
	"time"

	"github.com/arogyalink/health-portal/internal/audit"
	domain "github.com/arogyalink/health-portal/internal/domain/booking"
	"github.com/arogyalink/health-portal/internal/httperr"
	"github.com/arogyalink/health-portal/internal/metrics"
	"github.com/arogyalink/health-portal/internal/models"
)

type Cancel struct {
	repo    domain.Repository
	audit   audit.Sink
	metrics metrics.BookingMetrics
	logger  *slog.Logger
}

func NewCancel(
	repo domain.Repository,
	auditDispatcher audit.Sink,
	m metrics.BookingMetrics,
	logger *slog.Logger,
) *Cancel {
	return &Cancel{
		repo:    repo,
		audit:   auditDispatcher,
		metrics: m,
		logger:  logger,
	}
}

// Execute cancels an appointment owned by the caller. The lookup is scoped to
// (id, patient, scheduled), so a foreign or already-cancelled appointment is
// indistinguishable from a missing one.
func (uc *Cancel) Execute(
	ctx context.Context,
	patientID uint,
	appointmentID string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetScheduledAppointment(ctx, appointmentID, patientID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if err := domain.Cancel(ap, time.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	// Best-effort slot restore: a missing slot row is logged, not surfaced.
	restored, err := uc.repo.RestoreSlot(ctx, ap.DoctorID, ap.Date, ap.Time)
	if err != nil {
		uc.logger.Warn("slot restore failed after cancel",
			slog.String("appointment_id", ap.AppointmentID),
			slog.String("error", err.Error()),
		)
	} else if !restored {
		uc.logger.Warn("slot missing during cancel restore",
			slog.String("appointment_id", ap.AppointmentID),
			slog.String("doctor_id", ap.DoctorID),
			slog.String("time", ap.Time),
		)
	}

	uc.metrics.RecordCancellation()

	uc.audit.Dispatch(audit.Event{
		ActorKind: "patient",
		ActorID:   &patientID,
		Action:    "appointment_cancelled",
		Entity:    "appointment",
		EntityID:  ap.AppointmentID,
	})

	return ap, nil
}
