package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any
type JSONBAny struct {
	Inner any
}

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

func (a JSONBAny) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a.Inner)
	return string(valueString), err
}
func (a *JSONBAny) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	var inner any
	if err := json.Unmarshal(b, &inner); err != nil {
		return err
	}
	a.Inner = inner
	return nil
}

type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *StringArray) Scan(value any) error {
	if value == nil {
		*a = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &a)
}

type Metadata map[string]any

type EventStatus string

const (
	EVENT_DRAFT     EventStatus = "draft"
	EVENT_PUBLISHED EventStatus = "published"
	EVENT_ONGOING   EventStatus = "ongoing"
	EVENT_COMPLETED EventStatus = "completed"
	EVENT_CANCELED  EventStatus = "cancelled"
)

type VenueRateType string

const (
	RATE_PER_HOUR VenueRateType = "per_hour"
	RATE_PER_DAY  VenueRateType = "per_day"
	RATE_OTHER    VenueRateType = "other"
)

type BookingStatus string

const (
	BOOKING_PENDING_DEPOSIT BookingStatus = "pending_deposit"
	BOOKING_PENDING_PAYMENT BookingStatus = "pending_payment"
	BOOKING_CONFIRMED       BookingStatus = "confirmed"
	BOOKING_CANCELED        BookingStatus = "cancelled"
)

type InvoiceStatus string

const (
	INVOICE_PENDING  InvoiceStatus = "pending"
	INVOICE_PAID     InvoiceStatus = "paid"
	INVOICE_CANCELED InvoiceStatus = "cancelled"
	INVOICE_OVERDUE  InvoiceStatus = "overdue"
)

type PurchaseStatus string

const (
	PURCHASE_PENDING   PurchaseStatus = "pending"
	PURCHASE_COMPLETED PurchaseStatus = "completed"
	PURCHASE_FAILED    PurchaseStatus = "failed"
)

type TicketStatus string

const (
	TICKET_ISSUED   TicketStatus = "issued"
	TICKET_CANCELED TicketStatus = "cancelled"
)

type ApprovalStatus string

const (
	APPROVAL_PENDING  ApprovalStatus = "pending"
	APPROVAL_APPROVED ApprovalStatus = "approved"
	APPROVAL_REJECTED ApprovalStatus = "rejected"
)

// ApprovalTargetKind discriminates what an Approval decision applies to.
// Kind and ID travel together so a mismatched pair cannot be constructed
// from a loose string/id combination.
type ApprovalTargetKind string

const (
	APPROVAL_TARGET_EVENT             ApprovalTargetKind = "event"
	APPROVAL_TARGET_ORGANIZER_PROFILE ApprovalTargetKind = "organizer_profile"
)

type ApprovalTarget struct {
	Kind ApprovalTargetKind
	ID   uint
}

func EventTarget(id uint) ApprovalTarget {
	return ApprovalTarget{Kind: APPROVAL_TARGET_EVENT, ID: id}
}

func OrganizerProfileTarget(id uint) ApprovalTarget {
	return ApprovalTarget{Kind: APPROVAL_TARGET_ORGANIZER_PROFILE, ID: id}
}

type RegistrationStatus string

const (
	REGISTRATION_PENDING   RegistrationStatus = "pending"
	REGISTRATION_APPROVED  RegistrationStatus = "approved"
	REGISTRATION_ALLOCATED RegistrationStatus = "allocated"
	REGISTRATION_REJECTED  RegistrationStatus = "rejected"
)

const (
	ROLE_ADMIN     = "admin"
	ROLE_ORGANIZER = "organizer"
	ROLE_ATTENDEE  = "attendee"
)

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type TicketDefinitionRequest struct {
	Name     string `json:"name" binding:"required"`
	Price    int64  `json:"price"`
	Quantity uint   `json:"quantity" binding:"required"`
}

type CreateEventRequestBody struct {
	Name                  string                    `json:"name" binding:"required"`
	Description           string                    `json:"description,omitempty"`
	VenueID               uint                      `json:"venue" binding:"required"`
	ThemeID               *uint                     `json:"theme,omitempty"`
	StartsAt              string                    `json:"starts_at" binding:"required,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	EndsAt                string                    `json:"ends_at" binding:"required,bookabledate,gtdate=StartsAt" time_format:"2006-01-02 15:04:05 -07:00"`
	IsFree                bool                      `json:"is_free,omitempty"`
	TicketRequired        bool                      `json:"ticket_required,omitempty"`
	AutoDistribute        bool                      `json:"auto_distribute,omitempty"`
	AllowAttendeePurchase bool                      `json:"allow_attendee_purchase,omitempty"`
	RequestedResources    JSONB                     `json:"requested_resources,omitempty"`
	TicketDefinitions     []TicketDefinitionRequest `json:"ticket_definitions,omitempty"`
}

type UpdateEventRequestBody struct {
	Name               *string `json:"name,omitempty"`
	Description        *string `json:"description,omitempty"`
	StartsAt           *string `json:"starts_at,omitempty" binding:"omitempty,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	EndsAt             *string `json:"ends_at,omitempty" binding:"omitempty,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	IsFree             *bool   `json:"is_free,omitempty"`
	TicketRequired     *bool   `json:"ticket_required,omitempty"`
	RequestedResources *JSONB  `json:"requested_resources,omitempty"`
}

type CreateVenueRequestBody struct {
	Name         string        `json:"name" binding:"required"`
	Location     string        `json:"location" binding:"required"`
	Capacity     uint          `json:"capacity" binding:"required"`
	Type         string        `json:"type,omitempty"`
	RateType     VenueRateType `json:"rate_type" binding:"required,oneof=per_hour per_day other"`
	Price        int64         `json:"price" binding:"required"`
	DepositValue int64         `json:"deposit_value,omitempty"`
	ImageURLs    []string      `json:"image_urls,omitempty"`
}

type UpdateVenueRequestBody struct {
	Name         *string        `json:"name,omitempty"`
	Location     *string        `json:"location,omitempty"`
	Capacity     *uint          `json:"capacity,omitempty"`
	Type         *string        `json:"type,omitempty"`
	RateType     *VenueRateType `json:"rate_type,omitempty" binding:"omitempty,oneof=per_hour per_day other"`
	Price        *int64         `json:"price,omitempty"`
	DepositValue *int64         `json:"deposit_value,omitempty"`
	ImageURLs    *[]string      `json:"image_urls,omitempty"`
}

type UpdateApprovalRequestBody struct {
	Status ApprovalStatus `json:"status" binding:"required,oneof=approved rejected"`
	Notes  string         `json:"notes,omitempty"`
}

type SetEventStatusRequestBody struct {
	NewStatus EventStatus `json:"new_status" binding:"required,oneof=published ongoing completed cancelled"`
}

type PayInvoiceRequestBody struct {
	Reference string `json:"reference" binding:"required"`
}

type CreatePurchaseRequestBody struct {
	TicketDefinitionID uint `json:"ticket_definition" binding:"required"`
}

type CreateSettingRequestBody struct {
	Key   string `json:"key" binding:"required"`
	Value any    `json:"value" binding:"required"`
	Group string `json:"group" binding:"required"`
}

type PageQuery struct {
	Page    int `form:"page,default=1" binding:"omitempty,min=1"`
	PerPage int `form:"per_page,default=20" binding:"omitempty,min=1,max=100"`
}

type PageMeta struct {
	TotalItems   int64 `json:"totalItems"`
	ItemCount    int   `json:"itemCount"`
	ItemsPerPage int   `json:"itemsPerPage"`
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}
