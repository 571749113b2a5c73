package utils

import (
	"fmt"
	"log"
	"strings"
	"time"
	"vbs/src/config"
	"vbs/src/db"
	"vbs/src/lib"
	"vbs/src/models"
	"vbs/src/types"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// blockingStatuses are the event states that hold a venue. Draft and
// cancelled events never block a window.
var blockingStatuses = []types.EventStatus{
	types.EVENT_PUBLISHED,
	types.EVENT_ONGOING,
	types.EVENT_COMPLETED,
}

// CheckVenueAvailability reports whether the venue is free for the window
// after widening it by the cooling break on both sides. Events are compared
// with the half-open overlap rule: starts_at < end AND ends_at > start, so
// back-to-back windows only collide through the cooling break.
func CheckVenueAvailability(tx *gorm.DB, venueID uint, startsAt, endsAt time.Time, excludeEventID uint) error {
	coolingMinutes := GetSettingInt64(tx, SETTING_COOLING_BREAK_MINUTES, DEFAULT_COOLING_BREAK_MINUTES)
	cooling := time.Duration(coolingMinutes) * time.Minute
	expandedStart := startsAt.Add(-cooling)
	expandedEnd := endsAt.Add(cooling)

	var count int64
	q := tx.
		Model(&models.Event{}).
		Where("venue_id = ? AND status IN (?)", venueID, blockingStatuses).
		Where("starts_at < ? AND ends_at > ?", expandedEnd, expandedStart)
	if excludeEventID > 0 {
		q = q.Where("id <> ?", excludeEventID)
	}
	if err := q.Count(&count).Error; err != nil {
		log.Printf("[Availability] Error counting events for venue %d: %s\n", venueID, err.Error())
		return err
	}
	if count > 0 {
		return types.ErrVenueConflict
	}
	return nil
}

// ComputeBookingCost charges partial billing units in full: a booking of
// 90 minutes at an hourly rate pays for two hours.
func ComputeBookingCost(rateType types.VenueRateType, price int64, startsAt, endsAt time.Time) int64 {
	switch rateType {
	case types.RATE_PER_HOUR:
		minutes := int64(endsAt.Sub(startsAt) / time.Minute)
		hours := (minutes + 59) / 60
		return hours * price
	case types.RATE_PER_DAY:
		minutes := int64(endsAt.Sub(startsAt) / time.Minute)
		days := (minutes + 24*60 - 1) / (24 * 60)
		return days * price
	default:
		return price
	}
}

// ComputeDepositAmount applies the venue's own deposit if it has one,
// otherwise the percentage rule for costs above the threshold. Rounds up to
// the nearest minor unit.
func ComputeDepositAmount(cost, venueDeposit, threshold int64, percentage float64) int64 {
	if venueDeposit > 0 {
		return venueDeposit
	}
	if cost > threshold {
		deposit := int64(float64(cost) * percentage)
		if float64(deposit) < float64(cost)*percentage {
			deposit++
		}
		return deposit
	}
	return 0
}

func NewInvoiceNo() string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
	return fmt.Sprintf("INV-%s", fragment)
}

// CreateEventBooking creates the venue booking and its first invoice for an
// event inside the caller's transaction. The first invoice covers the deposit
// when one applies, otherwise the full calculated cost.
func CreateEventBooking(tx *gorm.DB, event *models.Event, venue *models.Venue) (*models.Booking, error) {
	cost := ComputeBookingCost(venue.RateType, venue.Price, event.StartsAt, event.EndsAt)
	threshold := GetSettingInt64(tx, SETTING_DEPOSIT_THRESHOLD, DEFAULT_DEPOSIT_THRESHOLD)
	percentage := GetSettingFloat64(tx, SETTING_DEPOSIT_PERCENTAGE, DEFAULT_DEPOSIT_PERCENTAGE)
	deposit := ComputeDepositAmount(cost, venue.DepositValue, threshold, percentage)
	currency := GetSettingString(tx, SETTING_CURRENCY, DEFAULT_CURRENCY)

	issuerID := GetSettingInt64(tx, SETTING_VENUE_ISSUER_ID, 0)
	if issuerID < 1 {
		log.Printf("[Booking] No venue issuer configured (%s)\n", SETTING_VENUE_ISSUER_ID)
		return nil, types.ErrNoVenueIssuer
	}

	status := types.BOOKING_PENDING_PAYMENT
	if deposit > 0 {
		status = types.BOOKING_PENDING_DEPOSIT
	}
	booking := models.Booking{
		EventID:        event.ID,
		OrganizerID:    event.OrganizerID,
		VenueID:        venue.ID,
		Status:         status,
		CalculatedCost: cost,
		DepositAmount:  deposit,
		Currency:       currency,
	}
	if err := tx.Create(&booking).Error; err != nil {
		log.Printf("[Booking] Error creating booking for event %d: %s\n", event.ID, err.Error())
		return nil, err
	}

	amount := cost
	if deposit > 0 {
		amount = deposit
	}
	dueDays := GetSettingInt64(tx, SETTING_INVOICE_DUE_DAYS, DEFAULT_INVOICE_DUE_DAYS)
	dueAt := time.Now().UTC().Add(time.Duration(dueDays) * 24 * time.Hour)
	invoice := models.Invoice{
		InvoiceNo:     NewInvoiceNo(),
		BookingID:     &booking.ID,
		VenueIssuerID: uint(issuerID),
		Status:        types.INVOICE_PENDING,
		Amount:        amount,
		Currency:      currency,
		DueAt:         &dueAt,
	}
	if err := tx.Create(&invoice).Error; err != nil {
		log.Printf("[Booking] Error creating invoice for booking %d: %s\n", booking.ID, err.Error())
		return nil, err
	}
	booking.Invoices = []models.Invoice{invoice}
	return &booking, nil
}

func ParseEventWindow(startsAt, endsAt string) (time.Time, time.Time, error) {
	start, err := time.Parse(config.TIME_PARSE_FORMAT, startsAt)
	if err != nil {
		log.Printf("Error parsing starts_at: %s\n", err.Error())
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(config.TIME_PARSE_FORMAT, endsAt)
	if err != nil {
		log.Printf("Error parsing ends_at: %s\n", err.Error())
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// CreateNewEvent creates the draft event with its ticket definitions, the
// venue booking with its first invoice, and a pending approval, all in one
// transaction.
func CreateNewEvent(params *types.CreateEventRequestBody, organizerID uint) (uint, error) {
	start, end, err := ParseEventWindow(params.StartsAt, params.EndsAt)
	if err != nil {
		return 0, err
	}

	var eventID uint
	conn := db.GetDb()
	err = conn.Transaction(func(tx *gorm.DB) error {
		var venue models.Venue
		if err := tx.First(&venue, params.VenueID).Error; err != nil {
			return err
		}
		if err := CheckVenueAvailability(tx, venue.ID, start, end, 0); err != nil {
			return err
		}

		currency := GetSettingString(tx, SETTING_CURRENCY, DEFAULT_CURRENCY)
		event := models.Event{
			Name:                  params.Name,
			Slug:                  fmt.Sprintf("%s-%s", slug.Make(params.Name), uuid.NewString()[:8]),
			Description:           params.Description,
			Status:                types.EVENT_DRAFT,
			VenueID:               venue.ID,
			OrganizerID:           organizerID,
			ThemeID:               params.ThemeID,
			StartsAt:              start,
			EndsAt:                end,
			IsFree:                params.IsFree,
			TicketRequired:        params.TicketRequired,
			AutoDistribute:        params.AutoDistribute,
			AllowAttendeePurchase: params.AllowAttendeePurchase,
			RequestedResources:    params.RequestedResources,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		eventID = event.ID

		for _, def := range params.TicketDefinitions {
			definition := models.TicketDefinition{
				EventID:  event.ID,
				Name:     def.Name,
				Price:    def.Price,
				Quantity: def.Quantity,
				Currency: currency,
			}
			if err := tx.Create(&definition).Error; err != nil {
				return err
			}
		}

		if _, err := CreateEventBooking(tx, &event, &venue); err != nil {
			return err
		}

		approval := models.Approval{
			TargetKind: types.APPROVAL_TARGET_EVENT,
			TargetID:   event.ID,
			Status:     types.APPROVAL_PENDING,
		}
		if err := tx.Create(&approval).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return eventID, nil
}

// eventStatusTransitions is the full status machine. Cancellation is only
// reachable before the event starts running.
var eventStatusTransitions = map[types.EventStatus][]types.EventStatus{
	types.EVENT_DRAFT:     {types.EVENT_PUBLISHED, types.EVENT_CANCELED},
	types.EVENT_PUBLISHED: {types.EVENT_ONGOING, types.EVENT_CANCELED},
	types.EVENT_ONGOING:   {types.EVENT_COMPLETED},
}

func CanTransitionEvent(from, to types.EventStatus) bool {
	for _, allowed := range eventStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// PublishEvent moves a draft event to published after re-checking that the
// venue window is still free.
func PublishEvent(id uint) error {
	conn := db.GetDb()
	err := conn.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Event{ID: id}).
			First(&event).Error; err != nil {
			return err
		}
		if event.Status != types.EVENT_DRAFT {
			return types.ErrInvalidTransition
		}
		if err := CheckVenueAvailability(tx, event.VenueID, event.StartsAt, event.EndsAt, event.ID); err != nil {
			return err
		}
		if err := tx.
			Model(&models.Event{}).
			Where(&models.Event{ID: id, Status: types.EVENT_DRAFT}).
			Update("status", types.EVENT_PUBLISHED).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	go ScheduleEventLifecycle(id)
	return nil
}

// SetEventStatus is the admin path through the status machine. Entering
// published re-checks availability and settles the pending approval in the
// admin's name.
func SetEventStatus(id uint, adminID uint, newStatus types.EventStatus) error {
	conn := db.GetDb()
	err := conn.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Event{ID: id}).
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
			now := time.Now().UTC()
			res := tx.
				Model(&models.Approval{}).
				Where(&models.Approval{
					TargetKind: types.APPROVAL_TARGET_EVENT,
					TargetID:   event.ID,
					Status:     types.APPROVAL_PENDING,
				}).
				Updates(&models.Approval{
					Status:    types.APPROVAL_APPROVED,
					DecidedBy: &adminID,
					DecidedAt: &now,
				})
			if res.Error != nil {
				return res.Error
			}
			// a direct admin publish with no pending approval still leaves
			// an approved record attributed to the acting admin
			if res.RowsAffected == 0 {
				approval := models.Approval{
					TargetKind: types.APPROVAL_TARGET_EVENT,
					TargetID:   event.ID,
					Status:     types.APPROVAL_APPROVED,
					DecidedBy:  &adminID,
					DecidedAt:  &now,
				}
				if err := tx.Create(&approval).Error; err != nil {
					return err
				}
			}
		}
		if err := tx.
			Model(&models.Event{}).
			Where(&models.Event{ID: id, Status: event.Status}).
			Update("status", newStatus).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	if newStatus == types.EVENT_PUBLISHED {
		go ScheduleEventLifecycle(id)
	}
	return nil
}

// UpdateEvent applies a partial update. The ticket policy flags are locked
// once a completed paid purchase exists, and moving the window re-runs the
// availability check against the other events on the venue.
func UpdateEvent(id uint, params *types.UpdateEventRequestBody) error {
	conn := db.GetDb()
	return conn.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Event{ID: id}).
			First(&event).Error; err != nil {
			return err
		}

		if params.IsFree != nil || params.TicketRequired != nil {
			var paid int64
			if err := tx.
				Model(&models.Purchase{}).
				Where(&models.Purchase{EventID: id, Status: types.PURCHASE_COMPLETED}).
				Where("amount > 0").
				Count(&paid).Error; err != nil {
				return err
			}
			if paid > 0 {
				return types.ErrPolicyLocked
			}
		}

		updates := map[string]any{}
		if params.Name != nil {
			updates["name"] = *params.Name
		}
		if params.Description != nil {
			updates["description"] = *params.Description
		}
		if params.IsFree != nil {
			updates["is_free"] = *params.IsFree
		}
		if params.TicketRequired != nil {
			updates["ticket_required"] = *params.TicketRequired
		}
		if params.RequestedResources != nil {
			updates["requested_resources"] = *params.RequestedResources
		}

		if params.StartsAt != nil || params.EndsAt != nil {
			start := event.StartsAt
			end := event.EndsAt
			if params.StartsAt != nil {
				parsed, err := time.Parse(config.TIME_PARSE_FORMAT, *params.StartsAt)
				if err != nil {
					return err
				}
				start = parsed
			}
			if params.EndsAt != nil {
				parsed, err := time.Parse(config.TIME_PARSE_FORMAT, *params.EndsAt)
				if err != nil {
					return err
				}
				end = parsed
			}
			if !end.After(start) {
				return fmt.Errorf("ends_at must be after starts_at")
			}
			if err := CheckVenueAvailability(tx, event.VenueID, start, end, event.ID); err != nil {
				return err
			}
			updates["starts_at"] = start
			updates["ends_at"] = end
		}

		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&models.Event{}).Where(&models.Event{ID: id}).Updates(updates).Error
	})
}

// DeleteEvent soft-deletes a draft. Anything already published has to go
// through cancellation so attendees keep an auditable record.
func DeleteEvent(id uint) error {
	conn := db.GetDb()
	return conn.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.Where(&models.Event{ID: id}).First(&event).Error; err != nil {
			return err
		}
		if event.Status != types.EVENT_DRAFT {
			return types.ErrEventNotDraft
		}
		return tx.Delete(&event).Error
	})
}

// advanceEventStatus is the guarded flip used by scheduled lifecycle jobs.
// The status predicate makes a stale job a no-op.
func advanceEventStatus(id uint, from, to types.EventStatus) {
	conn := db.GetDb()
	res := conn.
		Model(&models.Event{}).
		Where(&models.Event{ID: id, Status: from}).
		Update("status", to)
	if res.Error != nil {
		log.Printf("[Lifecycle] Error moving event %d to %s: %s\n", id, to, res.Error.Error())
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("[Lifecycle] Event %d is now %s\n", id, to)
	}
}

// ScheduleEventLifecycle sets the one-time jobs that flip a published event
// to ongoing at its start and to completed at its end.
func ScheduleEventLifecycle(id uint) {
	conn := db.GetDb()
	var event models.Event
	if err := conn.Where(&models.Event{ID: id}).First(&event).Error; err != nil {
		log.Printf("[Lifecycle] Error loading event %d: %s\n", id, err.Error())
		return
	}
	if _, err := lib.CreateOneTimeJob(func() {
		advanceEventStatus(id, types.EVENT_PUBLISHED, types.EVENT_ONGOING)
	}, event.StartsAt); err != nil {
		log.Printf("[Lifecycle] Error scheduling start job for event %d: %s\n", id, err.Error())
	}
	if _, err := lib.CreateOneTimeJob(func() {
		advanceEventStatus(id, types.EVENT_ONGOING, types.EVENT_COMPLETED)
	}, event.EndsAt); err != nil {
		log.Printf("[Lifecycle] Error scheduling end job for event %d: %s\n", id, err.Error())
	}
}
