package utils

import (
	"fmt"
	"time"
	"vbs/src/db"
	"vbs/src/models"
	"vbs/src/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// approvalEventTransitions is the single table mapping an approval decision
// to the event status it produces. Both the admin decision path and the
// direct publish path read it, so the two can never disagree.
var approvalEventTransitions = map[types.ApprovalStatus]types.EventStatus{
	types.APPROVAL_APPROVED: types.EVENT_PUBLISHED,
	types.APPROVAL_REJECTED: types.EVENT_CANCELED,
}

// UpdateApprovalStatus settles a pending approval and applies the decision to
// its target. A decided approval is immutable.
func UpdateApprovalStatus(approvalID uint, adminID uint, status types.ApprovalStatus, notes string) error {
	var target types.ApprovalTarget
	var decision types.ApprovalStatus
	conn := db.GetDb()
	err := conn.Transaction(func(tx *gorm.DB) error {
		var approval models.Approval
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Approval{ID: approvalID}).
			First(&approval).Error; err != nil {
			return err
		}
		if approval.Status != types.APPROVAL_PENDING {
			return types.ErrApprovalSettled
		}
		now := time.Now().UTC()
		if err := tx.
			Model(&models.Approval{}).
			Where(&models.Approval{ID: approvalID}).
			Updates(&models.Approval{
				Status:    status,
				Notes:     notes,
				DecidedBy: &adminID,
				DecidedAt: &now,
			}).Error; err != nil {
			return err
		}
		target = approval.Target()
		decision = status
		return applyApprovalDecision(tx, target, status)
	})
	if err != nil {
		return err
	}
	if target.Kind == types.APPROVAL_TARGET_EVENT && decision == types.APPROVAL_APPROVED {
		go ScheduleEventLifecycle(target.ID)
	}
	return nil
}

func applyApprovalDecision(tx *gorm.DB, target types.ApprovalTarget, status types.ApprovalStatus) error {
	switch target.Kind {
	case types.APPROVAL_TARGET_EVENT:
		newStatus, ok := approvalEventTransitions[status]
		if !ok {
			return nil
		}
		var event models.Event
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Event{ID: target.ID}).
			First(&event).Error; err != nil {
			return err
		}
		if !CanTransitionEvent(event.Status, newStatus) {
			return types.ErrInvalidTransition
		}
		if newStatus == types.EVENT_PUBLISHED {
			if err := CheckVenueAvailability(tx, event.VenueID, event.StartsAt, event.EndsAt, event.ID); err != nil {
				return err
			}
		}
		return tx.
			Model(&models.Event{}).
			Where(&models.Event{ID: target.ID, Status: event.Status}).
			Update("status", newStatus).Error
	case types.APPROVAL_TARGET_ORGANIZER_PROFILE:
		if status != types.APPROVAL_APPROVED {
			return nil
		}
		return tx.
			Model(&models.User{}).
			Where(&models.User{ID: target.ID}).
			Update("role", types.ROLE_ORGANIZER).Error
	default:
		return fmt.Errorf("unknown approval target kind: %s", target.Kind)
	}
}
