package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/arogyalink/health-portal/internal/domain/booking"
	"github.com/arogyalink/health-portal/internal/httperr"
	"github.com/arogyalink/health-portal/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Doctor
// --------------------------------------------------

func (r *BookingGormRepository) GetDoctorByPublicID(
	ctx context.Context,
	doctorID string,
) (*models.Doctor, error) {

	var doctor models.Doctor
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		First(&doctor).Error; err != nil {
		return nil, err
	}
	return &doctor, nil
}

// --------------------------------------------------
// Slots
// --------------------------------------------------

func (r *BookingGormRepository) ListAvailableSlots(
	ctx context.Context,
	doctorID string,
	date time.Time,
) ([]models.TimeSlot, error) {

	var slots []models.TimeSlot
	if err := r.db.WithContext(ctx).
		Where(
			"doctor_id = ? AND date = ? AND is_available = ?",
			doctorID, date, true,
		).
		Order("start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *BookingGormRepository) CreateSlots(
	ctx context.Context,
	slots []models.TimeSlot,
) (int, error) {

	if len(slots) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&slots)
	if result.Error != nil {
		return 0, result.Error
	}

	return int(result.RowsAffected), nil
}

func (r *BookingGormRepository) RestoreSlot(
	ctx context.Context,
	doctorID string,
	date time.Time,
	startTime string,
) (bool, error) {

	result := r.db.WithContext(ctx).
		Model(&models.TimeSlot{}).
		Where(
			"doctor_id = ? AND date = ? AND start_time = ?",
			doctorID, date, startTime,
		).
		Update("is_available", true)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

// Book runs the slot flip and the appointment insert in one transaction.
// The flip is conditional on is_available, so two concurrent bookings for
// the same slot cannot both succeed.
func (r *BookingGormRepository) Book(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		claim := tx.
			Model(&models.TimeSlot{}).
			Where(
				"doctor_id = ? AND date = ? AND start_time = ? AND is_available = ?",
				ap.DoctorID, ap.Date, ap.Time, true,
			).
			Update("is_available", false)
		if claim.Error != nil {
			return claim.Error
		}

		if claim.RowsAffected == 0 {
			return httperr.ErrBusiness("slot_unavailable")
		}

		return tx.Create(ap).Error
	})
}

func (r *BookingGormRepository) GetScheduledAppointment(
	ctx context.Context,
	appointmentID string,
	patientID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"appointment_id = ? AND patient_id = ? AND status = ?",
			appointmentID, patientID, string(domain.StatusScheduled),
		).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *BookingGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

// --------------------------------------------------
// Listings
// --------------------------------------------------

func (r *BookingGormRepository) ListPatientAppointments(
	ctx context.Context,
	patientID uint,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("date DESC, time DESC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

func (r *BookingGormRepository) ListDoctorAppointments(
	ctx context.Context,
	doctorID string,
	date time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Patient").
		Where(
			"doctor_id = ? AND date = ? AND status = ?",
			doctorID, date, string(domain.StatusScheduled),
		).
		Order("time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
