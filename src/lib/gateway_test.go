package lib

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyTransactionSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/ref_ok", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":true,"message":"Verification successful","data":{"id":9137,"status":"success","amount":25000}}`)
	}))
	defer srv.Close()
	t.Setenv("PAYMENT_GATEWAY_URL", srv.URL)
	t.Setenv("PAYMENT_GATEWAY_SECRET_KEY", "sk_test_secret")

	tx, err := VerifyTransaction(context.Background(), "ref_ok")
	assert.NoError(t, err)
	assert.Equal(t, int64(9137), tx.ID)
	assert.Equal(t, int64(25000), tx.Amount)
	assert.True(t, tx.Successful())
}

func TestVerifyTransactionDeclined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":true,"message":"Verification successful","data":{"id":9138,"status":"failed","amount":25000}}`)
	}))
	defer srv.Close()
	t.Setenv("PAYMENT_GATEWAY_URL", srv.URL)

	tx, err := VerifyTransaction(context.Background(), "ref_declined")
	assert.NoError(t, err)
	assert.False(t, tx.Successful())
}

func TestVerifyTransactionUnknownReference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":false,"message":"Transaction reference not found"}`)
	}))
	defer srv.Close()
	t.Setenv("PAYMENT_GATEWAY_URL", srv.URL)

	_, err := VerifyTransaction(context.Background(), "ref_missing")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Transaction reference not found")
}

func TestVerifyTransactionServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	t.Setenv("PAYMENT_GATEWAY_URL", srv.URL)

	_, err := VerifyTransaction(context.Background(), "ref_boom")
	assert.Error(t, err)
}
