package utils

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"vbs/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func newGatewayStub(t *testing.T, status string, amount int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":true,"message":"Verification successful","data":{"id":421,"status":%q,"amount":%d}}`, status, amount)
	}))
	t.Setenv("PAYMENT_GATEWAY_URL", srv.URL)
	return srv
}

func TestProcessBookingPaymentPartial(t *testing.T) {
	srv := newGatewayStub(t, "success", 10000)
	defer srv.Close()

	_, mock := newMockDB()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "event_id", "venue_id", "status", "calculated_cost", "deposit_amount", "deposit_paid", "total_paid", "currency",
		}).AddRow(7, 3, 1, "pending_payment", 20000, 0, false, 0, "USD"))
	mock.ExpectQuery(`SELECT \* FROM "invoices"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "invoice_no", "booking_id", "venue_issuer_id", "status", "amount", "currency",
		}).AddRow(11, "INV-AAAA000000", 7, 2, "pending", 10000, "USD"))
	mock.ExpectExec(`UPDATE "invoices"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "bookings"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	booking, err := ProcessBookingPayment(context.Background(), 7, "ref_partial")
	assert.NoError(t, err)
	assert.Equal(t, int64(10000), booking.TotalPaid)
	assert.Equal(t, types.BOOKING_PENDING_PAYMENT, booking.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessBookingPaymentDepositFlip(t *testing.T) {
	srv := newGatewayStub(t, "success", 300)
	defer srv.Close()

	_, mock := newMockDB()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "event_id", "venue_id", "status", "calculated_cost", "deposit_amount", "deposit_paid", "total_paid", "currency",
		}).AddRow(7, 3, 1, "pending_deposit", 1500, 300, false, 0, "USD"))
	mock.ExpectQuery(`SELECT \* FROM "invoices"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "invoice_no", "booking_id", "venue_issuer_id", "status", "amount", "currency",
		}).AddRow(11, "INV-AAAA000000", 7, 2, "pending", 300, "USD"))
	mock.ExpectExec(`UPDATE "invoices"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// due-days setting not configured, default applies to the balance invoice
	mock.ExpectQuery(`SELECT \* FROM "settings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "setting_key"}))
	mock.ExpectQuery(`INSERT INTO "invoices"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
	mock.ExpectExec(`UPDATE "bookings"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	booking, err := ProcessBookingPayment(context.Background(), 7, "ref_deposit")
	assert.NoError(t, err)
	assert.True(t, booking.DepositPaid)
	assert.Equal(t, types.BOOKING_PENDING_PAYMENT, booking.Status)
	assert.Equal(t, int64(300), booking.TotalPaid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessBookingPaymentConfirms(t *testing.T) {
	srv := newGatewayStub(t, "success", 1200)
	defer srv.Close()

	_, mock := newMockDB()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "event_id", "venue_id", "status", "calculated_cost", "deposit_amount", "deposit_paid", "total_paid", "currency",
		}).AddRow(7, 3, 1, "pending_payment", 1500, 300, true, 300, "USD"))
	mock.ExpectQuery(`SELECT \* FROM "invoices"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "invoice_no", "booking_id", "venue_issuer_id", "status", "amount", "currency",
		}).AddRow(12, "INV-BBBB000000", 7, 2, "pending", 1200, "USD"))
	mock.ExpectExec(`UPDATE "invoices"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "bookings"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	booking, err := ProcessBookingPayment(context.Background(), 7, "ref_balance")
	assert.NoError(t, err)
	assert.Equal(t, types.BOOKING_CONFIRMED, booking.Status)
	assert.Equal(t, int64(1500), booking.TotalPaid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessBookingPaymentUnderpayment(t *testing.T) {
	srv := newGatewayStub(t, "success", 500)
	defer srv.Close()

	_, mock := newMockDB()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "event_id", "venue_id", "status", "calculated_cost", "deposit_amount", "deposit_paid", "total_paid", "currency",
		}).AddRow(7, 3, 1, "pending_payment", 20000, 0, false, 0, "USD"))
	mock.ExpectQuery(`SELECT \* FROM "invoices"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "invoice_no", "booking_id", "venue_issuer_id", "status", "amount", "currency",
		}).AddRow(11, "INV-AAAA000000", 7, 2, "pending", 10000, "USD"))
	mock.ExpectRollback()

	_, err := ProcessBookingPayment(context.Background(), 7, "ref_short")
	assert.ErrorIs(t, err, types.ErrUnderpayment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessBookingPaymentDeclined(t *testing.T) {
	srv := newGatewayStub(t, "failed", 10000)
	defer srv.Close()

	_, mock := newMockDB()

	// the booking must not be touched when the gateway declines
	_, err := ProcessBookingPayment(context.Background(), 7, "ref_declined")
	assert.ErrorIs(t, err, types.ErrGatewayDeclined)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkOverdueInvoices(t *testing.T) {
	_, mock := newMockDB()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "invoices"`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "pending", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	MarkOverdueInvoices()
	assert.NoError(t, mock.ExpectationsWereMet())
}
