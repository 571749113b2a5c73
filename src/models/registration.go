package models

import "vbs/src/types"

type Registration struct {
	ID      uint                     `gorm:"primarykey" json:"id"`
	EventID uint                     `gorm:"uniqueIndex:idx_registration_event_user" json:"event_id,omitempty"`
	UserID  uint                     `gorm:"uniqueIndex:idx_registration_event_user" json:"user_id,omitempty"`
	Status  types.RegistrationStatus `gorm:"default:'pending'" json:"status,omitempty"`

	Event  *Event  `gorm:"foreignKey:event_id" json:"event,omitempty"`
	User   *User   `gorm:"foreignKey:user_id" json:"user,omitempty"`
	Ticket *Ticket `gorm:"foreignKey:registration_id" json:"ticket,omitempty"`

	types.Timestamps
}
