package middlewares

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"vbs/src/lib"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func newIdempotencyRouter(handler gin.HandlerFunc) (*gin.Engine, redismock.ClientMock) {
	gin.SetMode(gin.TestMode)
	client, mock := redismock.NewClientMock()
	lib.NewRedisClient(client)
	r := gin.New()
	r.POST("/things", Idempotency("things"), handler)
	return r, mock
}

func postThing(r *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/things", nil)
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestIdempotencyPassThroughWithoutKey(t *testing.T) {
	r, mock := newIdempotencyRouter(func(ctx *gin.Context) {
		ctx.Data(201, "application/json", []byte(`{"data":{"id":9}}`))
	})

	rec := postThing(r, "")
	assert.Equal(t, 201, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyDuplicateInFlight(t *testing.T) {
	called := false
	r, mock := newIdempotencyRouter(func(ctx *gin.Context) {
		called = true
	})

	mock.ExpectSetNX("idempotency:things:k1", "processing", idempotencyTTL).SetVal(false)
	mock.ExpectGet("idempotency:things:k1").SetVal("processing")

	rec := postThing(r, "k1")
	assert.Equal(t, 409, rec.Code)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyReplaysCompletedResponse(t *testing.T) {
	called := false
	r, mock := newIdempotencyRouter(func(ctx *gin.Context) {
		called = true
	})

	cached, err := json.Marshal(cachedResponse{Status: 201, Body: json.RawMessage(`{"data":{"id":9}}`)})
	assert.NoError(t, err)
	mock.ExpectSetNX("idempotency:things:k1", "processing", idempotencyTTL).SetVal(false)
	mock.ExpectGet("idempotency:things:k1").SetVal(string(cached))

	rec := postThing(r, "k1")
	assert.Equal(t, 201, rec.Code)
	assert.JSONEq(t, `{"data":{"id":9}}`, rec.Body.String())
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRecordsSuccessfulResponse(t *testing.T) {
	body := `{"data":{"id":9}}`
	r, mock := newIdempotencyRouter(func(ctx *gin.Context) {
		ctx.Data(201, "application/json", []byte(body))
	})

	raw, err := json.Marshal(cachedResponse{Status: 201, Body: json.RawMessage(body)})
	assert.NoError(t, err)
	mock.ExpectSetNX("idempotency:things:k1", "processing", idempotencyTTL).SetVal(true)
	mock.ExpectSet("idempotency:things:k1", raw, idempotencyTTL).SetVal("OK")

	rec := postThing(r, "k1")
	assert.Equal(t, 201, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyReleasesKeyOnError(t *testing.T) {
	r, mock := newIdempotencyRouter(func(ctx *gin.Context) {
		ctx.JSON(422, gin.H{"error": "amount is less than the invoice total"})
	})

	mock.ExpectSetNX("idempotency:things:k1", "processing", idempotencyTTL).SetVal(true)
	mock.ExpectDel("idempotency:things:k1").SetVal(1)

	rec := postThing(r, "k1")
	assert.Equal(t, 422, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
