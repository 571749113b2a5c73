package utils

import (
	"testing"
	"time"
	"vbs/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestUpdateApprovalStatusApprovedPublishesEvent(t *testing.T) {
	_, mock := newMockDB()

	start := time.Now().UTC().Add(48 * time.Hour)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "approvals"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "target_kind", "target_id", "status"}).
			AddRow(12, "event", 5, "pending"))
	mock.ExpectExec(`UPDATE "approvals"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "venue_id", "status", "starts_at", "ends_at"}).
			AddRow(5, 1, "draft", start, start.Add(3*time.Hour)))
	// availability re-check before the event goes live
	mock.ExpectQuery(`SELECT \* FROM "settings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "setting_key"}))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE "events"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := UpdateApprovalStatus(12, 1, types.APPROVAL_APPROVED, "all good")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateApprovalStatusRejectedCancelsEvent(t *testing.T) {
	_, mock := newMockDB()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "approvals"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "target_kind", "target_id", "status"}).
			AddRow(12, "event", 5, "pending"))
	mock.ExpectExec(`UPDATE "approvals"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "venue_id", "status"}).
			AddRow(5, 1, "published"))
	mock.ExpectExec(`UPDATE "events"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := UpdateApprovalStatus(12, 1, types.APPROVAL_REJECTED, "double booked")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateApprovalStatusApprovedPromotesOrganizer(t *testing.T) {
	_, mock := newMockDB()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "approvals"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "target_kind", "target_id", "status"}).
			AddRow(13, "organizer_profile", 8, "pending"))
	mock.ExpectExec(`UPDATE "approvals"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "users"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := UpdateApprovalStatus(13, 1, types.APPROVAL_APPROVED, "")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateApprovalStatusSettled(t *testing.T) {
	_, mock := newMockDB()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "approvals"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "target_kind", "target_id", "status"}).
			AddRow(12, "event", 5, "approved"))
	mock.ExpectRollback()

	err := UpdateApprovalStatus(12, 1, types.APPROVAL_REJECTED, "")
	assert.ErrorIs(t, err, types.ErrApprovalSettled)
	assert.NoError(t, mock.ExpectationsWereMet())
}
