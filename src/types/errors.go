package types

import "errors"

// Domain errors surfaced by the service layer. Handlers map these onto
// HTTP status codes; anything else is treated as an unclassified server
// error and never leaked to the client in detail.
var (
	ErrVenueConflict      = errors.New("venue is not available for the requested time window")
	ErrCapacityExceeded   = errors.New("ticket definition has no remaining quantity")
	ErrInvoiceAlreadyPaid = errors.New("invoice has already been paid")
	ErrUnderpayment       = errors.New("charged amount is less than the expected amount")
	ErrGatewayDeclined    = errors.New("payment gateway did not report a successful transaction")
	ErrNoVenueIssuer      = errors.New("no default venue issuer is configured")
	ErrPolicyLocked       = errors.New("ticket policy cannot change after completed paid purchases exist")
	ErrInvalidTransition  = errors.New("event status transition is not allowed")
	ErrEventNotDraft      = errors.New("only draft events can be deleted")
	ErrAlreadyRegistered  = errors.New("user is already registered for this event")
	ErrAlreadyRedeemed    = errors.New("ticket has already been redeemed")
	ErrApprovalSettled    = errors.New("approval has already been decided")
)
