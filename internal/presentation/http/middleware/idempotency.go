package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/spareshop-api/internal/domain/entity"
	"github.com/sangkips/spareshop-api/internal/domain/repository"
	"github.com/sangkips/spareshop-api/internal/presentation/http/dto/response"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
	// IdempotencyPendingTTL bounds how long a reservation blocks retries if
	// the process dies before the request finishes
	IdempotencyPendingTTL = 5 * time.Minute
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo   repository.IdempotencyRepository
	Logger *zap.Logger
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyRequired rejects POSTs without an Idempotency-Key and replays
// the stored response when a key is retried. Reusing a key with a different
// body is rejected. The key is reserved before the handler runs, so a
// concurrent duplicate gets 409 instead of running twice. Only 2xx responses
// are stored; any other outcome releases the key for a retry.
func IdempotencyRequired(config IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			response.BadRequest(c, "Idempotency-Key header is required for this request")
			c.Abort()
			return
		}
		if len(idempotencyKey) > 255 {
			response.BadRequest(c, "Idempotency-Key must be at most 255 characters")
			c.Abort()
			return
		}

		userIDValue, exists := c.Get(ContextUserID)
		if !exists {
			response.Unauthorized(c, "User not authenticated")
			c.Abort()
			return
		}
		userID, ok := userIDValue.(uuid.UUID)
		if !ok {
			response.Unauthorized(c, "Invalid user ID")
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.BadRequest(c, "Could not read request body")
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		sum := sha256.Sum256(body)
		requestHash := hex.EncodeToString(sum[:])
		endpoint := c.Request.Method + " " + c.Request.URL.Path

		existing, err := config.Repo.GetByKey(c.Request.Context(), idempotencyKey, userID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		if existing != nil && !existing.IsExpired() {
			replayOrReject(c, existing, endpoint, requestHash)
			return
		}

		ikey := &entity.IdempotencyKey{
			Key:         idempotencyKey,
			UserID:      userID,
			Endpoint:    endpoint,
			RequestHash: requestHash,
			ExpiresAt:   time.Now().Add(IdempotencyPendingTTL),
		}
		reserved, err := config.Repo.Reserve(c.Request.Context(), ikey)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if !reserved {
			// Lost the race to a concurrent request with the same key
			existing, err = config.Repo.GetByKey(c.Request.Context(), idempotencyKey, userID)
			if err != nil {
				response.Error(c, err)
				c.Abort()
				return
			}
			if existing == nil {
				response.ErrorWithCode(c, http.StatusConflict, "A request with this Idempotency-Key is already in progress")
				c.Abort()
				return
			}
			replayOrReject(c, existing, endpoint, requestHash)
			return
		}

		completed := false
		defer func() {
			if completed {
				return
			}
			// Released even when the client has gone away
			if err := config.Repo.Release(context.WithoutCancel(c.Request.Context()), idempotencyKey, userID); err != nil {
				logWarn(config.Logger, "failed to release idempotency key", endpoint, err)
			}
		}()

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return
		}

		ikey.ResponseCode = status
		ikey.ResponseBody = blw.body.String()
		ikey.ExpiresAt = time.Now().Add(IdempotencyKeyTTL)
		if err := config.Repo.Complete(context.WithoutCancel(c.Request.Context()), ikey); err != nil {
			logWarn(config.Logger, "failed to store idempotency key", endpoint, err)
			return
		}
		completed = true
	}
}

func replayOrReject(c *gin.Context, existing *entity.IdempotencyKey, endpoint, requestHash string) {
	switch {
	case !existing.Matches(endpoint, requestHash):
		response.ErrorWithCode(c, http.StatusUnprocessableEntity, "Idempotency-Key was already used for a different request")
	case existing.IsPending():
		response.ErrorWithCode(c, http.StatusConflict, "A request with this Idempotency-Key is already in progress")
	default:
		c.Header("X-Idempotency-Replayed", "true")
		c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
	}
	c.Abort()
}

func logWarn(logger *zap.Logger, msg, endpoint string, err error) {
	if logger == nil {
		return
	}
	logger.Warn(msg, zap.String("endpoint", endpoint), zap.Error(err))
}
