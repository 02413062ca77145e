package booking

import (
	"context"
	"time"

	"github.com/arogyalink/health-portal/internal/models"
)

type Repository interface {
	// -------- Doctor --------
	GetDoctorByPublicID(
		ctx context.Context,
		doctorID string,
	) (*models.Doctor, error)

	// -------- Slots --------
	ListAvailableSlots(
		ctx context.Context,
		doctorID string,
		date time.Time,
	) ([]models.TimeSlot, error)

	// CreateSlots inserts slots, skipping ones that already exist for their
	// (doctor, date, start) key. Returns the number actually created.
	CreateSlots(
		ctx context.Context,
		slots []models.TimeSlot,
	) (int, error)

	// RestoreSlot flips a slot back to available. Returns false when no
	// matching slot row exists.
	RestoreSlot(
		ctx context.Context,
		doctorID string,
		date time.Time,
		startTime string,
	) (bool, error)

	// -------- Appointment (book / state change) --------

	// Book atomically claims the slot and records the appointment: the slot
	// is marked unavailable only if currently available, and the appointment
	// is created only if that update affected exactly one row.
	Book(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetScheduledAppointment(
		ctx context.Context,
		appointmentID string,
		patientID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Listings --------
	ListPatientAppointments(
		ctx context.Context,
		patientID uint,
	) ([]models.Appointment, error)

	ListDoctorAppointments(
		ctx context.Context,
		doctorID string,
		date time.Time,
	) ([]models.Appointment, error)
}
