package models

import "vbs/src/types"

type Booking struct {
	ID             uint                `gorm:"primarykey" json:"id"`
	EventID        uint                `gorm:"uniqueIndex" json:"event_id,omitempty"`
	OrganizerID    uint                `json:"organizer_id,omitempty"`
	VenueID        uint                `json:"venue_id,omitempty"`
	Status         types.BookingStatus `gorm:"default:'pending_payment'" json:"status,omitempty"`
	CalculatedCost int64               `json:"calculated_cost"`
	DepositAmount  int64               `json:"deposit_amount"`
	DepositPaid    bool                `json:"deposit_paid"`
	TotalPaid      int64               `json:"total_paid"`
	Currency       string              `json:"currency,omitempty"`

	Event    *Event    `gorm:"foreignKey:event_id" json:"event,omitempty"`
	Venue    *Venue    `gorm:"foreignKey:venue_id" json:"venue,omitempty"`
	Invoices []Invoice `gorm:"foreignKey:booking_id" json:"invoices,omitempty"`

	types.Timestamps
}
