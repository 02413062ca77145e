package booking

import (
	"context"
	"time"

	domain "github.com/arogyalink/health-portal/internal/domain/booking"
	"github.com/arogyalink/health-portal/internal/httperr"
	"github.com/arogyalink/health-portal/internal/models"
)

// ======================================================
// CHECK AVAILABILITY
// ======================================================

type CheckAvailability struct {
	repo domain.Repository
}

func NewCheckAvailability(repo domain.Repository) *CheckAvailability {
	return &CheckAvailability{repo: repo}
}

// Execute resolves the doctor by public identifier and returns the available
// slots for the date, ordered by start time ascending.
func (uc *CheckAvailability) Execute(
	ctx context.Context,
	doctorID string,
	dateStr string,
) ([]models.TimeSlot, error) {

	date, err := parseDate(dateStr)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	doctor, err := uc.repo.GetDoctorByPublicID(ctx, doctorID)
	if err != nil {
		return nil, httperr.ErrBusiness("doctor_not_found")
	}

	return uc.repo.ListAvailableSlots(ctx, doctor.DoctorID, date)
}

// parseDate parses a civil date. Slot dates carry no timezone.
func parseDate(dateStr string) (time.Time, error) {
	return time.Parse("2006-01-02", dateStr)
}
