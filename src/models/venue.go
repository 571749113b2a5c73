package models

import "vbs/src/types"

type Venue struct {
	ID           uint                `gorm:"primarykey" json:"id"`
	Name         string              `json:"name,omitempty"`
	Slug         string              `gorm:"uniqueIndex" json:"slug,omitempty"`
	Location     string              `json:"location,omitempty"`
	Type         string              `gorm:"default:'general'" json:"type,omitempty"`
	Capacity     uint                `json:"capacity,omitempty"`
	RateType     types.VenueRateType `gorm:"default:'per_hour'" json:"rate_type,omitempty"`
	Price        int64               `json:"price"`
	DepositValue int64               `json:"deposit_value,omitempty"`
	ImageURLs    types.StringArray   `gorm:"type:jsonb" json:"image_urls,omitempty"`
	Metadata     *types.Metadata     `gorm:"type:jsonb" json:"metadata,omitempty"`

	Events []Event `gorm:"foreignKey:venue_id" json:"events,omitempty"`

	types.Timestamps
}
