package models

import (
	"time"
	"vbs/src/types"
)

type TicketDefinition struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	EventID  uint   `json:"event_id,omitempty"`
	Name     string `json:"name,omitempty"`
	Price    int64  `json:"price"`
	Quantity uint   `json:"quantity"`
	Currency string `json:"currency,omitempty"`

	Event   *Event   `gorm:"foreignKey:event_id" json:"event,omitempty"`
	Tickets []Ticket `gorm:"foreignKey:ticket_definition_id" json:"tickets,omitempty"`

	types.Timestamps
}

type Ticket struct {
	ID                 uint               `gorm:"primarykey" json:"id"`
	Serial             string             `gorm:"uniqueIndex" json:"serial,omitempty"`
	TicketDefinitionID uint               `json:"ticket_definition_id,omitempty"`
	EventID            uint               `json:"event_id,omitempty"`
	OwnerID            uint               `json:"owner_id,omitempty"`
	RegistrationID     *uint              `json:"registration_id,omitempty"`
	PurchaseID         *uint              `json:"purchase_id,omitempty"`
	Status             types.TicketStatus `gorm:"default:'issued'" json:"status,omitempty"`
	Redeemed           bool               `json:"redeemed"`
	RedeemedAt         *time.Time         `json:"redeemed_at,omitempty"`
	QRAssetID          *uint              `json:"qr_asset_id,omitempty"`

	Definition *TicketDefinition `gorm:"foreignKey:ticket_definition_id" json:"definition,omitempty"`
	Event      *Event            `gorm:"foreignKey:event_id" json:"event,omitempty"`
	Owner      *User             `gorm:"foreignKey:owner_id" json:"owner,omitempty"`

	types.Timestamps
}
