package models

import "time"

// AuthToken is one currently-valid bearer token issued to an actor.
// Logout deletes the row; verification requires it to still exist.
type AuthToken struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ActorKind string `gorm:"size:10;not null;index:idx_actor" json:"actor_kind"`
	ActorID   uint   `gorm:"not null;index:idx_actor" json:"actor_id"`

	// JWT ID claim of the issued token.
	JTI string `gorm:"size:36;uniqueIndex;not null" json:"jti"`

	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
