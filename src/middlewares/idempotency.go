package middlewares

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"time"
	"vbs/src/lib"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

type cachedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency makes mutating endpoints safe to retry when the client sends an
// Idempotency-Key header. The key state lives in redis so every instance sees
// the same record: a key marked processing means a duplicate is in flight
// (409), a completed key replays the recorded response verbatim, and a key
// whose request ended in an error is released so the client can retry.
// Requests without the header pass through untouched.
func Idempotency(scope string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		key := ctx.Request.Header.Get("Idempotency-Key")
		if key == "" {
			ctx.Next()
			return
		}
		rdb := lib.GetRedisClient()
		rkey := fmt.Sprintf("idempotency:%s:%s", scope, key)
		set, err := rdb.SetNX(ctx.Request.Context(), rkey, "processing", idempotencyTTL).Result()
		if err != nil {
			log.Printf("[Idempotency] Error reserving key %s: %s\n", rkey, err.Error())
			ctx.AbortWithStatusJSON(500, gin.H{"error": "idempotency store unavailable"})
			return
		}
		if !set {
			val, err := rdb.Get(ctx.Request.Context(), rkey).Result()
			if err == redis.Nil {
				// record expired between SetNX and Get, treat as fresh
				ctx.Next()
				return
			}
			if err != nil {
				log.Printf("[Idempotency] Error reading key %s: %s\n", rkey, err.Error())
				ctx.AbortWithStatusJSON(500, gin.H{"error": "idempotency store unavailable"})
				return
			}
			if val == "processing" {
				ctx.AbortWithStatusJSON(409, gin.H{"error": "request with this idempotency key is already being processed"})
				return
			}
			var cached cachedResponse
			if err := json.Unmarshal([]byte(val), &cached); err != nil {
				log.Printf("[Idempotency] Corrupt record for key %s: %s\n", rkey, err.Error())
				ctx.AbortWithStatusJSON(500, gin.H{"error": "idempotency record corrupt"})
				return
			}
			ctx.Data(cached.Status, "application/json", cached.Body)
			ctx.Abort()
			return
		}

		w := &captureWriter{ResponseWriter: ctx.Writer}
		ctx.Writer = w
		ctx.Next()

		// error responses release the key so a corrected retry with the same
		// key re-executes instead of replaying the failure
		if w.Status() >= 400 {
			if err := rdb.Del(ctx.Request.Context(), rkey).Err(); err != nil {
				log.Printf("[Idempotency] Error releasing key %s: %s\n", rkey, err.Error())
			}
			return
		}

		record := cachedResponse{Status: w.Status(), Body: w.buf.Bytes()}
		raw, err := json.Marshal(record)
		if err != nil {
			log.Printf("[Idempotency] Error marshaling response for key %s: %s\n", rkey, err.Error())
			return
		}
		if err := rdb.Set(ctx.Request.Context(), rkey, raw, idempotencyTTL).Err(); err != nil {
			log.Printf("[Idempotency] Error recording response for key %s: %s\n", rkey, err.Error())
		}
	}
}
