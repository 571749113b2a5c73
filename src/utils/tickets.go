package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"time"
	"vbs/src/db"
	"vbs/src/lib"
	"vbs/src/models"
	"vbs/src/types"

	"github.com/google/uuid"
	"github.com/yeqown/go-qrcode"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IssueTicket creates a ticket against a definition inside the caller's
// transaction. The definition row is locked first so concurrent issues
// serialize, then the live ticket count is compared against the quantity
// under that lock.
func IssueTicket(tx *gorm.DB, definitionID, ownerID uint, registrationID, purchaseID *uint) (*models.Ticket, error) {
	var definition models.TicketDefinition
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(&models.TicketDefinition{ID: definitionID}).
		First(&definition).Error; err != nil {
		return nil, err
	}

	var issued int64
	if err := tx.
		Model(&models.Ticket{}).
		Where("ticket_definition_id = ? AND status <> ?", definitionID, types.TICKET_CANCELED).
		Count(&issued).Error; err != nil {
		return nil, err
	}
	if issued >= int64(definition.Quantity) {
		return nil, types.ErrCapacityExceeded
	}

	ticket := models.Ticket{
		Serial:             uuid.NewString(),
		TicketDefinitionID: definition.ID,
		EventID:            definition.EventID,
		OwnerID:            ownerID,
		RegistrationID:     registrationID,
		PurchaseID:         purchaseID,
		Status:             types.TICKET_ISSUED,
	}
	if err := tx.Create(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

// RedeemTicket marks a ticket as used at the door. Redemption happens once;
// a second scan of the same serial is rejected.
func RedeemTicket(serial string) (*models.Ticket, error) {
	var ticket models.Ticket
	conn := db.GetDb()
	err := conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Ticket{Serial: serial}).
			First(&ticket).Error; err != nil {
			return err
		}
		if ticket.Status == types.TICKET_CANCELED {
			return errors.New("ticket has been cancelled")
		}
		if ticket.Redeemed {
			return types.ErrAlreadyRedeemed
		}
		now := time.Now().UTC()
		if err := tx.
			Model(&models.Ticket{}).
			Where(&models.Ticket{ID: ticket.ID}).
			Updates(map[string]any{"redeemed": true, "redeemed_at": now}).Error; err != nil {
			return err
		}
		ticket.Redeemed = true
		ticket.RedeemedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// AttachTicketQR renders the ticket's QR code and persists it through the
// configured blob store. Runs after the issuing transaction commits; a
// failure here leaves the ticket valid and only the asset missing.
func AttachTicketQR(ticketID uint) {
	conn := db.GetDb()
	var ticket models.Ticket
	if err := conn.Where(&models.Ticket{ID: ticketID}).First(&ticket).Error; err != nil {
		log.Printf("[Tickets] Error loading ticket %d for QR: %s\n", ticketID, err.Error())
		return
	}
	rawData := map[string]any{
		"serial":  ticket.Serial,
		"eventId": ticket.EventID,
	}
	rawBytes, _ := json.Marshal(rawData)
	qrc, err := qrcode.New(string(rawBytes))
	if err != nil {
		log.Printf("[Tickets] Error generating QR for ticket %d: %s\n", ticketID, err.Error())
		return
	}
	tempdir := os.Getenv("TEMP_DIR")
	filename := fmt.Sprintf("ticketcode_%s.jpeg", ticket.Serial)
	filepath := path.Join(tempdir, filename)
	if err := qrc.Save(filepath); err != nil {
		log.Printf("[Tickets] Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
		return
	}
	defer os.Remove(filepath)
	data, err := os.ReadFile(filepath)
	if err != nil {
		log.Printf("[Tickets] Could not read qrcode file [%s]: %s\n", filepath, err.Error())
		return
	}
	store := lib.GetBlobStore()
	asset, err := store.Put(context.Background(), filename, "image/jpeg", data)
	if err != nil {
		log.Printf("[Tickets] Error storing QR asset for ticket %d: %s\n", ticketID, err.Error())
		return
	}
	if err := conn.
		Model(&models.Ticket{}).
		Where(&models.Ticket{ID: ticketID}).
		Update("qr_asset_id", asset.ID).Error; err != nil {
		log.Printf("[Tickets] Error linking QR asset for ticket %d: %s\n", ticketID, err.Error())
	}
}

// RegisterForEvent registers a user for a published event. Registrations are
// bounded by the venue capacity; free events with auto-distribution allocate
// a ticket from the first definition in the same transaction.
func RegisterForEvent(eventID, userID uint) (*models.Registration, error) {
	var registration models.Registration
	var issuedTicketID uint
	conn := db.GetDb()
	err := conn.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.Where(&models.Event{ID: eventID}).First(&event).Error; err != nil {
			return err
		}
		if event.Status != types.EVENT_PUBLISHED {
			return types.ErrInvalidTransition
		}

		var existing int64
		if err := tx.
			Model(&models.Registration{}).
			Where(&models.Registration{EventID: eventID, UserID: userID}).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return types.ErrAlreadyRegistered
		}

		var venue models.Venue
		if err := tx.Where(&models.Venue{ID: event.VenueID}).First(&venue).Error; err != nil {
			return err
		}
		if venue.Capacity > 0 {
			var taken int64
			if err := tx.
				Model(&models.Registration{}).
				Where("event_id = ? AND status <> ?", eventID, types.REGISTRATION_REJECTED).
				Count(&taken).Error; err != nil {
				return err
			}
			if taken >= int64(venue.Capacity) {
				return types.ErrCapacityExceeded
			}
		}

		registration = models.Registration{
			EventID: eventID,
			UserID:  userID,
			Status:  types.REGISTRATION_PENDING,
		}
		if !event.TicketRequired {
			registration.Status = types.REGISTRATION_APPROVED
		}
		if err := tx.Create(&registration).Error; err != nil {
			return err
		}

		if event.IsFree && event.AutoDistribute && event.TicketRequired {
			var definition models.TicketDefinition
			if err := tx.
				Where(&models.TicketDefinition{EventID: eventID}).
				Order("id asc").
				First(&definition).Error; err != nil {
				return err
			}
			ticket, err := IssueTicket(tx, definition.ID, userID, &registration.ID, nil)
			if err != nil {
				return err
			}
			issuedTicketID = ticket.ID
			if err := tx.
				Model(&models.Registration{}).
				Where(&models.Registration{ID: registration.ID}).
				Update("status", types.REGISTRATION_ALLOCATED).Error; err != nil {
				return err
			}
			registration.Status = types.REGISTRATION_ALLOCATED
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if issuedTicketID > 0 {
		go AttachTicketQR(issuedTicketID)
	}
	return &registration, nil
}
