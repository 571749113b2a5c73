package utils

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"
	"vbs/src/db"
	"vbs/src/lib"
	"vbs/src/models"
	"vbs/src/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreatePurchase opens a pending attendee purchase against a ticket
// definition and raises its invoice. Capacity is pre-checked here for a fast
// answer; the binding check happens again under lock when the ticket is
// actually issued.
func CreatePurchase(eventID, definitionID, userID uint) (*models.Purchase, error) {
	var purchase models.Purchase
	conn := db.GetDb()
	err := conn.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.Where(&models.Event{ID: eventID}).First(&event).Error; err != nil {
			return err
		}
		if event.Status != types.EVENT_PUBLISHED {
			return types.ErrInvalidTransition
		}
		if event.IsFree || !event.AllowAttendeePurchase {
			return errors.New("event does not sell tickets to attendees")
		}
		var definition models.TicketDefinition
		if err := tx.
			Where(&models.TicketDefinition{ID: definitionID, EventID: eventID}).
			First(&definition).Error; err != nil {
			return err
		}
		var issued int64
		if err := tx.
			Model(&models.Ticket{}).
			Where("ticket_definition_id = ? AND status <> ?", definition.ID, types.TICKET_CANCELED).
			Count(&issued).Error; err != nil {
			return err
		}
		if issued >= int64(definition.Quantity) {
			return types.ErrCapacityExceeded
		}

		purchase = models.Purchase{
			UserID:             userID,
			EventID:            eventID,
			TicketDefinitionID: definition.ID,
			Status:             types.PURCHASE_PENDING,
			Amount:             definition.Price,
			Currency:           definition.Currency,
		}
		if err := tx.Create(&purchase).Error; err != nil {
			return err
		}

		issuerID := GetSettingInt64(tx, SETTING_VENUE_ISSUER_ID, 0)
		if issuerID < 1 {
			return types.ErrNoVenueIssuer
		}
		dueDays := GetSettingInt64(tx, SETTING_INVOICE_DUE_DAYS, DEFAULT_INVOICE_DUE_DAYS)
		dueAt := time.Now().UTC().Add(time.Duration(dueDays) * 24 * time.Hour)
		invoice := models.Invoice{
			InvoiceNo:     NewInvoiceNo(),
			PurchaseID:    &purchase.ID,
			VenueIssuerID: uint(issuerID),
			Status:        types.INVOICE_PENDING,
			Amount:        definition.Price,
			Currency:      definition.Currency,
			DueAt:         &dueAt,
		}
		return tx.Create(&invoice).Error
	})
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// ProcessPurchasePayment settles an attendee purchase against the gateway's
// record of the charge. A declined or short charge marks the purchase failed;
// a successful one pays the invoice and issues the ticket in one transaction.
func ProcessPurchasePayment(ctx context.Context, purchaseID uint, reference string) (*models.Purchase, error) {
	verified, err := lib.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, err
	}

	var purchase models.Purchase
	var ticketID uint
	conn := db.GetDb()
	err = conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Purchase{ID: purchaseID}).
			First(&purchase).Error; err != nil {
			return err
		}
		if purchase.Status == types.PURCHASE_COMPLETED {
			return types.ErrInvoiceAlreadyPaid
		}
		var invoice models.Invoice
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("purchase_id = ?", purchaseID).
			First(&invoice).Error; err != nil {
			return err
		}
		if invoice.Status == types.INVOICE_PAID {
			return types.ErrInvoiceAlreadyPaid
		}

		if !verified.Successful() {
			return types.ErrGatewayDeclined
		}
		if verified.Amount < invoice.Amount {
			return types.ErrUnderpayment
		}

		now := time.Now().UTC()
		if err := tx.
			Model(&models.Invoice{}).
			Where(&models.Invoice{ID: invoice.ID}).
			Updates(&models.Invoice{
				Status:    types.INVOICE_PAID,
				PaidAt:    &now,
				Reference: &reference,
			}).Error; err != nil {
			return err
		}

		ticket, err := IssueTicket(tx, purchase.TicketDefinitionID, purchase.UserID, nil, &purchase.ID)
		if err != nil {
			return err
		}
		ticketID = ticket.ID

		if err := tx.
			Model(&models.Purchase{}).
			Where(&models.Purchase{ID: purchaseID}).
			Update("status", types.PURCHASE_COMPLETED).Error; err != nil {
			return err
		}
		purchase.Status = types.PURCHASE_COMPLETED
		return nil
	})
	if err != nil {
		// the failed status has to land even though the transaction above
		// rolled back with the error
		if errors.Is(err, types.ErrGatewayDeclined) || errors.Is(err, types.ErrUnderpayment) {
			if uerr := conn.
				Model(&models.Purchase{}).
				Where(&models.Purchase{ID: purchaseID, Status: types.PURCHASE_PENDING}).
				Update("status", types.PURCHASE_FAILED).Error; uerr != nil {
				log.Printf("[Payments] Error marking purchase %d failed: %s\n", purchaseID, uerr.Error())
			}
		}
		return nil, err
	}
	if ticketID > 0 {
		go AttachTicketQR(ticketID)
	}
	return &purchase, nil
}

// ProcessBookingPayment applies a verified gateway charge to a venue booking.
// The first landed payment clears the deposit stage, and the booking confirms
// once the accumulated total covers the calculated cost. Verification
// failures leave the booking untouched so the organizer can retry.
func ProcessBookingPayment(ctx context.Context, bookingID uint, reference string) (*models.Booking, error) {
	verified, err := lib.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, err
	}
	if !verified.Successful() {
		return nil, types.ErrGatewayDeclined
	}

	var booking models.Booking
	var confirmed bool
	conn := db.GetDb()
	err = conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Booking{ID: bookingID}).
			First(&booking).Error; err != nil {
			return err
		}
		if booking.Status == types.BOOKING_CANCELED {
			return errors.New("booking has been cancelled")
		}
		var invoice models.Invoice
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("booking_id = ? AND status IN (?)", bookingID, []types.InvoiceStatus{
				types.INVOICE_PENDING,
				types.INVOICE_OVERDUE,
			}).
			Order("id asc").
			First(&invoice).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrInvoiceAlreadyPaid
			}
			return err
		}
		if verified.Amount < invoice.Amount {
			return types.ErrUnderpayment
		}

		now := time.Now().UTC()
		if err := tx.
			Model(&models.Invoice{}).
			Where(&models.Invoice{ID: invoice.ID}).
			Updates(&models.Invoice{
				Status:    types.INVOICE_PAID,
				PaidAt:    &now,
				Reference: &reference,
			}).Error; err != nil {
			return err
		}

		updates := map[string]any{
			"total_paid": booking.TotalPaid + verified.Amount,
		}
		booking.TotalPaid += verified.Amount

		if booking.Status == types.BOOKING_PENDING_DEPOSIT {
			updates["deposit_paid"] = true
			updates["status"] = types.BOOKING_PENDING_PAYMENT
			booking.DepositPaid = true
			booking.Status = types.BOOKING_PENDING_PAYMENT

			remainder := booking.CalculatedCost - booking.TotalPaid
			if remainder > 0 {
				dueDays := GetSettingInt64(tx, SETTING_INVOICE_DUE_DAYS, DEFAULT_INVOICE_DUE_DAYS)
				dueAt := now.Add(time.Duration(dueDays) * 24 * time.Hour)
				balance := models.Invoice{
					InvoiceNo:     NewInvoiceNo(),
					BookingID:     &booking.ID,
					VenueIssuerID: invoice.VenueIssuerID,
					Status:        types.INVOICE_PENDING,
					Amount:        remainder,
					Currency:      booking.Currency,
					DueAt:         &dueAt,
				}
				if err := tx.Create(&balance).Error; err != nil {
					return err
				}
			}
		}

		if booking.TotalPaid >= booking.CalculatedCost {
			updates["status"] = types.BOOKING_CONFIRMED
			booking.Status = types.BOOKING_CONFIRMED
			confirmed = true
		}

		return tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bookingID}).
			Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	if confirmed {
		go SendBookingConfirmationMail(booking.ID)
	}
	return &booking, nil
}

// SendBookingConfirmationMail notifies the organizer once their venue booking
// is fully paid.
func SendBookingConfirmationMail(bookingID uint) {
	conn := db.GetDb()
	var booking models.Booking
	if err := conn.
		Preload("Event").
		Preload("Event.Organizer").
		Preload("Venue").
		Where(&models.Booking{ID: bookingID}).
		First(&booking).Error; err != nil {
		log.Printf("[Mailer] Error loading booking %d: %s\n", bookingID, err.Error())
		return
	}
	if booking.Event == nil || booking.Event.Organizer == nil || booking.Event.Organizer.Email == "" {
		return
	}
	body := fmt.Sprintf(
		"Your booking for %s at %s is confirmed.\nWindow: %s to %s\nTotal paid: %d %s\n",
		booking.Event.Name,
		booking.Venue.Name,
		booking.Event.StartsAt.Format(time.RFC1123),
		booking.Event.EndsAt.Format(time.RFC1123),
		booking.TotalPaid,
		booking.Currency,
	)
	err := lib.SendMail(&lib.SendMailInput{
		From:     os.Getenv("MAIL_FROM"),
		FromName: "Bookings",
		To:       []string{booking.Event.Organizer.Email},
		Subject:  fmt.Sprintf("Booking confirmed: %s", booking.Event.Name),
		Body:     body,
	})
	if err != nil {
		log.Printf("[Mailer] Error sending confirmation for booking %d: %s\n", bookingID, err.Error())
	}
}

// MarkOverdueInvoices flips pending invoices past their due date. Runs on the
// scheduler.
func MarkOverdueInvoices() {
	conn := db.GetDb()
	res := conn.
		Model(&models.Invoice{}).
		Where("status = ? AND due_at < ?", types.INVOICE_PENDING, time.Now().UTC()).
		Update("status", types.INVOICE_OVERDUE)
	if res.Error != nil {
		log.Printf("[Invoices] Error marking overdue invoices: %s\n", res.Error.Error())
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("[Invoices] Marked %d invoices overdue\n", res.RowsAffected)
	}
}
