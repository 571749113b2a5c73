package main

import (
	"errors"
	"net/http"
	"vbs/src/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// statusForError maps service-layer errors onto HTTP statuses. Conflicts are
// things that exist in a state the request collides with, 422s are requests
// the domain rules refuse outright.
func statusForError(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrVenueConflict),
		errors.Is(err, types.ErrInvoiceAlreadyPaid),
		errors.Is(err, types.ErrAlreadyRegistered),
		errors.Is(err, types.ErrAlreadyRedeemed),
		errors.Is(err, types.ErrApprovalSettled),
		errors.Is(err, types.ErrCapacityExceeded),
		errors.Is(err, types.ErrPolicyLocked):
		return http.StatusConflict
	case errors.Is(err, types.ErrUnderpayment),
		errors.Is(err, types.ErrGatewayDeclined),
		errors.Is(err, types.ErrInvalidTransition),
		errors.Is(err, types.ErrEventNotDraft):
		return http.StatusUnprocessableEntity
	case errors.Is(err, types.ErrNoVenueIssuer):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(ctx *gin.Context, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		ctx.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}
