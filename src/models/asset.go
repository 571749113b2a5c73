package models

import "vbs/src/types"

// Asset is a stored blob. Driver "db" keeps the bytes inline, driver "s3"
// keeps only the object key and the bytes live in the bucket.
type Asset struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Name        string `json:"name,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Driver      string `json:"driver,omitempty"`
	Key         string `json:"key,omitempty"`
	Size        int64  `json:"size,omitempty"`
	Data        []byte `gorm:"type:bytea" json:"-"`

	types.Timestamps
}
