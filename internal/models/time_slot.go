package models

import "time"

// TimeSlot is one bookable (doctor, date, start-time) unit.
// Date is stored date-only; StartTime and EndTime use the "15:04" format.
type TimeSlot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DoctorID string `gorm:"size:20;not null;uniqueIndex:idx_doctor_date_start" json:"doctor_id"`

	Date      time.Time `gorm:"type:date;not null;uniqueIndex:idx_doctor_date_start" json:"date"`
	StartTime string    `gorm:"size:5;not null;uniqueIndex:idx_doctor_date_start" json:"startTime"`
	EndTime   string    `gorm:"size:5" json:"endTime"`

	IsAvailable bool `gorm:"default:true" json:"isAvailable"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
