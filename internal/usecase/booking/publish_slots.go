package booking

import (
	"context"

	domain "github.com/arogyalink/health-portal/internal/domain/booking"
	"github.com/arogyalink/health-portal/internal/httperr"
	"github.com/arogyalink/health-portal/internal/models"
)

type PublishSlotsInput struct {
	DoctorID string

	Date        string
	StartTime   string
	EndTime     string
	SlotMinutes int
}

type PublishSlots struct {
	repo domain.Repository
}

func NewPublishSlots(repo domain.Repository) *PublishSlots {
	return &PublishSlots{repo: repo}
}

// Execute expands a working window into slots and inserts them, skipping any
// (doctor, date, start) that already exists. Republishing is idempotent.
func (uc *PublishSlots) Execute(
	ctx context.Context,
	in PublishSlotsInput,
) ([]models.TimeSlot, int, error) {

	date, err := parseDate(in.Date)
	if err != nil {
		return nil, 0, httperr.ErrBusiness("invalid_date")
	}

	slots, err := domain.GenerateSlots(in.DoctorID, date, in.StartTime, in.EndTime, in.SlotMinutes)
	if err != nil {
		return nil, 0, err
	}
	if len(slots) == 0 {
		return nil, 0, httperr.ErrBusiness("invalid_window")
	}

	created, err := uc.repo.CreateSlots(ctx, slots)
	if err != nil {
		return nil, 0, err
	}

	return slots, created, nil
}
