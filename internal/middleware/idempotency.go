package middleware

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/metaember/habitsv2/internal/apierror"
	"github.com/metaember/habitsv2/internal/logger"
	"github.com/metaember/habitsv2/internal/repository"
)

// IdempotencyKeyHeader is the HTTP header name for idempotency keys
const IdempotencyKeyHeader = "Idempotency-Key"

// idempotencyBodyWriter wraps gin.ResponseWriter to capture the response body for caching
type idempotencyBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *idempotencyBodyWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency middleware ensures exactly-once semantics for create operations.
// If an Idempotency-Key header is provided:
//   - Check if we've seen this key before for the same route and user
//   - If yes, return the cached response (replay)
//   - If no, process the request and cache the response for future replays
//
// The middleware only applies to mutating requests (POST, PUT, PATCH).
func Idempotency(repo repository.IdempotencyRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.FromContext(c.Request.Context())

		method := c.Request.Method
		if method != http.MethodPost && method != http.MethodPut && method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		// User ID is set by the auth middleware
		v, exists := c.Get("user_id")
		if !exists {
			log.Warn("idempotency check failed: no user_id in context")
			requestID := apierror.GetRequestID(c)
			apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID))
			c.Abort()
			return
		}

		userID, ok := v.(uuid.UUID)
		if !ok {
			log.Error("idempotency check failed: invalid user_id type")
			requestID := apierror.GetRequestID(c)
			apierror.WriteProblem(c, apierror.NewInternalError(requestID))
			c.Abort()
			return
		}

		// Route identifier (method + path template)
		route := method + " " + c.FullPath()

		existing, err := repo.Get(c.Request.Context(), key, route, userID)
		if err != nil {
			log.Error("failed to check idempotency key",
				logger.Err(err),
				logger.String("key", key),
			)
			// On error, proceed without idempotency to avoid blocking valid requests
			c.Next()
			return
		}

		// Replay the cached response
		if existing != nil {
			log.Info("replaying idempotent response",
				logger.String("key", key),
				logger.String("route", route),
				logger.Int("status_code", existing.StatusCode),
			)

			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.StatusCode, "application/json", existing.ResponseBody)
			c.Abort()
			return
		}

		// Capture the response for storage
		blw := &idempotencyBodyWriter{
			body:           bytes.NewBuffer(nil),
			ResponseWriter: c.Writer,
		}
		c.Writer = blw

		c.Next()

		// Only cache successful responses (2xx)
		statusCode := c.Writer.Status()
		if statusCode >= 200 && statusCode < 300 {
			if err := repo.Store(c.Request.Context(), key, route, userID, blw.body.Bytes(), statusCode); err != nil {
				// Log but don't fail, the request already succeeded
				log.Warn("failed to store idempotency key",
					logger.Err(err),
					logger.String("key", key),
				)
			} else {
				log.Debug("stored idempotency key",
					logger.String("key", key),
					logger.String("route", route),
					logger.Int("status_code", statusCode),
				)
			}
		}
	}
}
