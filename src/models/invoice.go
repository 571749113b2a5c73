package models

import (
	"time"
	"vbs/src/types"
)

type Invoice struct {
	ID            uint                `gorm:"primarykey" json:"id"`
	InvoiceNo     string              `gorm:"uniqueIndex" json:"invoice_no,omitempty"`
	BookingID     *uint               `json:"booking_id,omitempty"`
	PurchaseID    *uint               `json:"purchase_id,omitempty"`
	VenueIssuerID uint                `json:"venue_issuer_id,omitempty"`
	Status        types.InvoiceStatus `gorm:"default:'pending'" json:"status,omitempty"`
	Amount        int64               `json:"amount"`
	Currency      string              `json:"currency,omitempty"`
	DueAt         *time.Time          `json:"due_at,omitempty"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
	Reference     *string             `json:"reference,omitempty"`

	Booking  *Booking  `gorm:"foreignKey:booking_id" json:"booking,omitempty"`
	Purchase *Purchase `gorm:"foreignKey:purchase_id" json:"purchase,omitempty"`

	types.Timestamps
}
