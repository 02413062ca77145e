package models

import "time"

type Doctor struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Public identifier in the DR<XXX><YY><NNN> format, unique across doctors.
	DoctorID string `gorm:"size:20;uniqueIndex;not null" json:"doctor_id"`

	FirstName string `gorm:"size:100;not null" json:"firstName"`
	LastName  string `gorm:"size:100;not null" json:"lastName"`

	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	Specialization string `gorm:"size:100;not null" json:"specialization"`
	Experience     int    `json:"experience"`
	Qualification  string `gorm:"size:100" json:"qualification"`
	License        string `gorm:"size:50;uniqueIndex;not null" json:"license"`
	Hospital       string `gorm:"size:150" json:"hospital"`
	Address        string `gorm:"size:255" json:"address"`
	Phone          string `gorm:"size:20" json:"phone"`

	ConsultationFee float64 `json:"consultationFee"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
