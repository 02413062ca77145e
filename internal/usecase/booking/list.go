package booking

import (
	"context"

	domain "github.com/arogyalink/health-portal/internal/domain/booking"
	"github.com/arogyalink/health-portal/internal/httperr"
	"github.com/arogyalink/health-portal/internal/models"
)

// ======================================================
// FREE SLOTS (path-parameterized availability)
// ======================================================

type ListFreeSlots struct {
	repo domain.Repository
}

func NewListFreeSlots(repo domain.Repository) *ListFreeSlots {
	return &ListFreeSlots{repo: repo}
}

func (uc *ListFreeSlots) Execute(
	ctx context.Context,
	doctorID string,
	dateStr string,
) ([]models.TimeSlot, error) {

	date, err := parseDate(dateStr)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	return uc.repo.ListAvailableSlots(ctx, doctorID, date)
}

// ======================================================
// PATIENT / DOCTOR LISTINGS
// ======================================================

type ListPatientAppointments struct {
	repo domain.Repository
}

func NewListPatientAppointments(repo domain.Repository) *ListPatientAppointments {
	return &ListPatientAppointments{repo: repo}
}

func (uc *ListPatientAppointments) Execute(
	ctx context.Context,
	patientID uint,
) ([]models.Appointment, error) {
	return uc.repo.ListPatientAppointments(ctx, patientID)
}

type ListDoctorSchedule struct {
	repo domain.Repository
}

func NewListDoctorSchedule(repo domain.Repository) *ListDoctorSchedule {
	return &ListDoctorSchedule{repo: repo}
}

func (uc *ListDoctorSchedule) Execute(
	ctx context.Context,
	doctorID string,
	dateStr string,
) ([]models.Appointment, error) {

	date, err := parseDate(dateStr)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	return uc.repo.ListDoctorAppointments(ctx, doctorID, date)
}
