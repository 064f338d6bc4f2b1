package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"utrippin/internal/cache"
	"utrippin/internal/utils"
)

const idempotencyHeader = "Idempotency-Key"

type IdempotencyStore interface {
	Enabled() bool
	Begin(ctx context.Context, key string) (*cache.StoredResponse, error)
	Complete(ctx context.Context, key string, resp cache.StoredResponse) error
	Release(ctx context.Context, key string) error
}

type capturingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response of a write that already ran
// with the same Idempotency-Key. Keys are scoped to the caller and route.
// Server errors release the key so the client can retry.
func Idempotency(store IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		m := c.Request.Method
		if m != http.MethodPost && m != http.MethodPut && m != http.MethodPatch {
			c.Next()
			return
		}
		raw := strings.TrimSpace(c.GetHeader(idempotencyHeader))
		if raw == "" || store == nil || !store.Enabled() {
			c.Next()
			return
		}

		key := GetUserID(c) + ":" + m + ":" + c.FullPath() + ":" + raw
		ctx := c.Request.Context()
		reqID := GetRequestID(c)

		stored, err := store.Begin(ctx, key)
		switch {
		case errors.Is(err, cache.ErrInProgress):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error":      "a request with this idempotency key is in progress",
				"code":       "idempotency_in_progress",
				"request_id": reqID,
			})
			return
		case err != nil:
			utils.LogFailure(reqID, "idempotency", "begin", err)
			c.Next()
			return
		case stored != nil:
			c.Header("Idempotent-Replayed", "true")
			c.Data(stored.Status, stored.ContentType, stored.Body)
			c.Abort()
			return
		}

		w := &capturingWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		status := w.Status()
		if status >= http.StatusInternalServerError {
			if err := store.Release(context.WithoutCancel(ctx), key); err != nil {
				utils.LogFailure(reqID, "idempotency", "release", err)
			}
			return
		}
		resp := cache.StoredResponse{
			Status:      status,
			ContentType: w.Header().Get("Content-Type"),
			Body:        w.body.Bytes(),
		}
		if err := store.Complete(context.WithoutCancel(ctx), key, resp); err != nil {
			utils.LogFailure(reqID, "idempotency", "complete", err)
		}
	}
}
