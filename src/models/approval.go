package models

import (
	"time"
	"vbs/src/types"
)

type Approval struct {
	ID         uint                     `gorm:"primarykey" json:"id"`
	TargetKind types.ApprovalTargetKind `gorm:"index:idx_approval_target" json:"target_kind,omitempty"`
	TargetID   uint                     `gorm:"index:idx_approval_target" json:"target_id,omitempty"`
	Status     types.ApprovalStatus     `gorm:"default:'pending'" json:"status,omitempty"`
	Notes      string                   `json:"notes,omitempty"`
	DecidedBy  *uint                    `json:"decided_by,omitempty"`
	DecidedAt  *time.Time               `json:"decided_at,omitempty"`

	Decider *User `gorm:"foreignKey:decided_by" json:"decider,omitempty"`

	types.Timestamps
}

func (a *Approval) Target() types.ApprovalTarget {
	return types.ApprovalTarget{Kind: a.TargetKind, ID: a.TargetID}
}
