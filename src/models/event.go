package models

import (
	"time"
	"vbs/src/types"
)

type Event struct {
	ID                    uint              `gorm:"primarykey" json:"id"`
	Name                  string            `json:"name,omitempty"`
	Slug                  string            `gorm:"uniqueIndex" json:"slug,omitempty"`
	Description           string            `json:"description,omitempty"`
	Status                types.EventStatus `gorm:"default:'draft'" json:"status,omitempty"`
	VenueID               uint              `json:"venue_id,omitempty"`
	OrganizerID           uint              `json:"organizer_id,omitempty"`
	ThemeID               *uint             `json:"theme_id,omitempty"`
	StartsAt              time.Time         `json:"starts_at,omitempty"`
	EndsAt                time.Time         `json:"ends_at,omitempty"`
	IsFree                bool              `json:"is_free"`
	TicketRequired        bool              `json:"ticket_required"`
	AutoDistribute        bool              `json:"auto_distribute"`
	AllowAttendeePurchase bool              `json:"allow_attendee_purchase"`
	RequestedResources    types.JSONB       `gorm:"type:jsonb" json:"requested_resources,omitempty"`

	Venue             *Venue             `gorm:"foreignKey:venue_id" json:"venue,omitempty"`
	Organizer         *User              `gorm:"foreignKey:organizer_id" json:"organizer,omitempty"`
	Booking           *Booking           `gorm:"foreignKey:event_id" json:"booking,omitempty"`
	TicketDefinitions []TicketDefinition `gorm:"foreignKey:event_id" json:"ticket_definitions,omitempty"`
	Registrations     []Registration     `gorm:"foreignKey:event_id" json:"registrations,omitempty"`

	types.Timestamps
}
