package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/supermercado/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader names the header clients use to make a write safe to retry
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// Idempotency claims the Idempotency-Key header before the handler runs.
// A key already held answers 409. The key is released when the handler
// fails so the client can retry with it. Keys are scoped per user and route.
// Requests without the header pass.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || store == nil {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			abortWithError(c, http.StatusBadRequest, shared.CodeValidation, "Idempotency-Key is too long")
			return
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		scoped := c.GetString(JWTUserIDKey) + ":" + c.Request.Method + " " + route + ":" + key
		ctx := c.Request.Context()
		acquired, err := store.Acquire(ctx, scoped, ttl)
		if err != nil {
			// fail open like the token blacklist
			log.Error("Idempotency store unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if !acquired {
			abortWithError(c, http.StatusConflict, shared.CodeDuplicateRequest, shared.ErrDuplicateRequest.Message)
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := store.Release(context.WithoutCancel(ctx), scoped); err != nil {
				log.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(err))
			}
		}
	}
}
