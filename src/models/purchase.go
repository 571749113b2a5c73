package models

import "vbs/src/types"

type Purchase struct {
	ID                 uint                 `gorm:"primarykey" json:"id"`
	UserID             uint                 `json:"user_id,omitempty"`
	EventID            uint                 `json:"event_id,omitempty"`
	TicketDefinitionID uint                 `json:"ticket_definition_id,omitempty"`
	Status             types.PurchaseStatus `gorm:"default:'pending'" json:"status,omitempty"`
	Amount             int64                `json:"amount"`
	Currency           string               `json:"currency,omitempty"`

	User       *User             `gorm:"foreignKey:user_id" json:"user,omitempty"`
	Event      *Event            `gorm:"foreignKey:event_id" json:"event,omitempty"`
	Definition *TicketDefinition `gorm:"foreignKey:ticket_definition_id" json:"definition,omitempty"`
	Invoice    *Invoice          `gorm:"foreignKey:purchase_id" json:"invoice,omitempty"`
	Ticket     *Ticket           `gorm:"foreignKey:purchase_id" json:"ticket,omitempty"`

	types.Timestamps
}
