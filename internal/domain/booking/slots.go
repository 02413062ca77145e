package booking

import (
	"time"

	"github.com/arogyalink/health-portal/internal/httperr"
	"github.com/arogyalink/health-portal/internal/models"
)

// GenerateSlots expands a working window into consecutive bookable slots of
// slotMinutes each. The last slot must end exactly at or before the window end.
func GenerateSlots(doctorID string, date time.Time, startHM, endHM string, slotMinutes int) ([]models.TimeSlot, error) {
	if slotMinutes <= 0 {
		return nil, httperr.ErrBusiness("invalid_slot_duration")
	}

	parseHM := func(hm string) (time.Time, error) {
		t, err := time.Parse("15:04", hm)
		if err != nil {
			return time.Time{}, err
		}
		return time.Date(
			date.Year(), date.Month(), date.Day(),
			t.Hour(), t.Minute(), 0, 0,
			time.UTC,
		), nil
	}

	windowStart, err := parseHM(startHM)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_time")
	}
	windowEnd, err := parseHM(endHM)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_time")
	}
	if !windowStart.Before(windowEnd) {
		return nil, httperr.ErrBusiness("invalid_window")
	}

	slotDuration := time.Duration(slotMinutes) * time.Minute

	var slots []models.TimeSlot
	for cur := windowStart; cur.Add(slotDuration).Before(windowEnd) || cur.Add(slotDuration).Equal(windowEnd); cur = cur.Add(slotDuration) {
		slots = append(slots, models.TimeSlot{
			DoctorID:    doctorID,
			Date:        date,
			StartTime:   cur.Format("15:04"),
			EndTime:     cur.Add(slotDuration).Format("15:04"),
			IsAvailable: true,
		})
	}

	return slots, nil
}
