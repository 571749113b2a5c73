package utils

import (
	"testing"
	"vbs/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestIssueTicketCapacityExceeded(t *testing.T) {
	gormDB, mock := newMockDB()

	// 50 of 50 already issued, the next issue is rejected under the lock
	mock.ExpectQuery(`SELECT \* FROM "ticket_definitions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "name", "price", "quantity"}).
			AddRow(4, 3, "General Admission", 0, 50))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "tickets"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(50))

	_, err := IssueTicket(gormDB, 4, 9, nil, nil)
	assert.ErrorIs(t, err, types.ErrCapacityExceeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueTicketUnderCapacity(t *testing.T) {
	gormDB, mock := newMockDB()

	mock.ExpectQuery(`SELECT \* FROM "ticket_definitions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "name", "price", "quantity"}).
			AddRow(4, 3, "General Admission", 0, 50))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "tickets"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(49))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "tickets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(51))
	mock.ExpectCommit()

	ticket, err := IssueTicket(gormDB, 4, 9, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, types.TICKET_ISSUED, ticket.Status)
	assert.NotEmpty(t, ticket.Serial)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterForEventVenueCapacityFull(t *testing.T) {
	_, mock := newMockDB()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "venue_id", "status", "is_free", "ticket_required", "auto_distribute"}).
			AddRow(3, 1, "published", false, false, false))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "registrations"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "venues"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "capacity"}).AddRow(1, 2))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "registrations"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	_, err := RegisterForEvent(3, 9)
	assert.ErrorIs(t, err, types.ErrCapacityExceeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterForEventDuplicate(t *testing.T) {
	_, mock := newMockDB()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "venue_id", "status", "is_free", "ticket_required", "auto_distribute"}).
			AddRow(3, 1, "published", false, false, false))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "registrations"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err := RegisterForEvent(3, 9)
	assert.ErrorIs(t, err, types.ErrAlreadyRegistered)
	assert.NoError(t, mock.ExpectationsWereMet())
}
