package booking

import (
	"context"
	"errors"
	"time"

	"github.com/arogyalink/health-portal/internal/audit"
	"github.com/arogyalink/health-portal/internal/httperr"
	"github.com/arogyalink/health-portal/internal/models"
)

// fakeRepo is an in-memory stand-in for the gorm repository.
type fakeRepo struct {
	doctors map[string]*models.Doctor

	slots        []models.TimeSlot
	appointments map[string]*models.Appointment

	bookErr    error
	restoreErr error

	restoreCalls []string
	createdSlots []models.TimeSlot
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		doctors:      make(map[string]*models.Doctor),
		appointments: make(map[string]*models.Appointment),
	}
}

func (f *fakeRepo) GetDoctorByPublicID(_ context.Context, doctorID string) (*models.Doctor, error) {
	d, ok := f.doctors[doctorID]
	if !ok {
		return nil, errors.New("record not found")
	}
	return d, nil
}

func (f *fakeRepo) ListAvailableSlots(_ context.Context, doctorID string, date time.Time) ([]models.TimeSlot, error) {
	var out []models.TimeSlot
	for _, s := range f.slots {
		if s.DoctorID == doctorID && s.Date.Equal(date) && s.IsAvailable {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateSlots(_ context.Context, slots []models.TimeSlot) (int, error) {
	created := 0
	for _, s := range slots {
		if f.hasSlot(s.DoctorID, s.Date, s.StartTime) {
			continue
		}
		f.slots = append(f.slots, s)
		f.createdSlots = append(f.createdSlots, s)
		created++
	}
	return created, nil
}

func (f *fakeRepo) RestoreSlot(_ context.Context, doctorID string, date time.Time, startTime string) (bool, error) {
	f.restoreCalls = append(f.restoreCalls, doctorID+"/"+startTime)
	if f.restoreErr != nil {
		return false, f.restoreErr
	}
	for i, s := range f.slots {
		if s.DoctorID == doctorID && s.Date.Equal(date) && s.StartTime == startTime {
			f.slots[i].IsAvailable = true
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) Book(_ context.Context, ap *models.Appointment) error {
	if f.bookErr != nil {
		return f.bookErr
	}
	for i, s := range f.slots {
		if s.DoctorID == ap.DoctorID && s.Date.Equal(ap.Date) && s.StartTime == ap.Time {
			if !s.IsAvailable {
				return httperr.ErrBusiness("slot_unavailable")
			}
			f.slots[i].IsAvailable = false
			f.appointments[ap.AppointmentID] = ap
			return nil
		}
	}
	return httperr.ErrBusiness("slot_unavailable")
}

func (f *fakeRepo) GetScheduledAppointment(_ context.Context, appointmentID string, patientID uint) (*models.Appointment, error) {
	ap, ok := f.appointments[appointmentID]
	if !ok || ap.PatientID != patientID || ap.Status != "scheduled" {
		return nil, errors.New("record not found")
	}
	cp := *ap
	return &cp, nil
}

func (f *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	f.appointments[ap.AppointmentID] = ap
	return nil
}

func (f *fakeRepo) ListPatientAppointments(_ context.Context, patientID uint) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.PatientID == patientID {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListDoctorAppointments(_ context.Context, doctorID string, date time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.DoctorID == doctorID && ap.Date.Equal(date) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (f *fakeRepo) hasSlot(doctorID string, date time.Time, startTime string) bool {
	for _, s := range f.slots {
		if s.DoctorID == doctorID && s.Date.Equal(date) && s.StartTime == startTime {
			return true
		}
	}
	return false
}

// fakeSink records dispatched audit events synchronously.
type fakeSink struct {
	events []audit.Event
}

func (f *fakeSink) Dispatch(ev audit.Event) {
	f.events = append(f.events, ev)
}

// fakeMetrics counts metric calls.
type fakeMetrics struct {
	bookings      int
	conflicts     int
	cancellations int
}

func (f *fakeMetrics) RecordBooking()         { f.bookings++ }
func (f *fakeMetrics) RecordBookingConflict() { f.conflicts++ }
func (f *fakeMetrics) RecordCancellation()    { f.cancellations++ }

// fakePayments returns a fixed link or a fixed error.
type fakePayments struct {
	url string
	err error

	calls int
}

func (f *fakePayments) PaymentLink(_ context.Context, _ string, _ float64, _ string) (string, error) {
	f.calls++
	return f.url, f.err
}
