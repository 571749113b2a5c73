package models

import (
	"time"
	"vbs/src/types"
)

type User struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	Name          string          `json:"name,omitempty"`
	Email         string          `gorm:"uniqueIndex" json:"email,omitempty"`
	Role          string          `gorm:"default:'attendee'" json:"role,omitempty"`
	EmailVerified bool            `json:"email_verified,omitempty"`
	VerifiedAt    *time.Time      `json:"verified_at,omitempty"`
	Metadata      *types.Metadata `gorm:"type:jsonb" json:"metadata,omitempty"`

	Events        []Event        `gorm:"foreignKey:organizer_id" json:"events,omitempty"`
	Registrations []Registration `gorm:"foreignKey:user_id" json:"registrations,omitempty"`
	Purchases     []Purchase     `gorm:"foreignKey:user_id" json:"purchases,omitempty"`

	types.Timestamps
}
