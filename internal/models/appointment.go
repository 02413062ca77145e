package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Public identifier handed to clients.
	AppointmentID string `gorm:"size:36;uniqueIndex;not null" json:"appointment_id"`

	DoctorID string `gorm:"size:20;not null;index" json:"doctor_id"`

	PatientID uint    `gorm:"not null;index" json:"patient_id"`
	Patient   Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Date time.Time `gorm:"type:date;not null" json:"date"`
	Time string    `gorm:"size:5;not null" json:"time"`

	// Type and Notes are opaque strings, no validated vocabulary.
	Type  string `gorm:"size:50" json:"type"`
	Notes string `gorm:"size:255" json:"notes"`

	// Amount is copied from the doctor's consultation fee at booking time.
	Amount float64 `json:"amount"`

	Status string `gorm:"size:20;default:'scheduled'" json:"status"`

	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
