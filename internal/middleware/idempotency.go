package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

// ResponseCache stores serialized responses by idempotency key.
// Get returns nil, nil on a miss.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// cachedResponse stores the response for idempotent requests.
type cachedResponse struct {
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body"`
	Headers    http.Header     `json:"headers"`
}

// responseWriter wraps gin.ResponseWriter to capture the response.
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware returns middleware that replays the stored response
// for a repeated Idempotency-Key, so a retried POST /ride does not record a
// second ride. Keys are scoped to the caller named by claim in the claims
// set by ClaimsMiddleware, which must run first; anonymous requests are not
// cached. A nil cache disables it.
func IdempotencyMiddleware(cache ResponseCache, claim string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cache == nil {
			c.Next()
			return
		}

		// Only apply to mutating methods.
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		// Get idempotency key from header.
		idempotencyKey := c.GetHeader(idempotencyHeader)
		if idempotencyKey == "" {
			// No idempotency key - proceed normally.
			c.Next()
			return
		}

		caller := callerIdentity(c, claim)
		if caller == "" {
			c.Next()
			return
		}
		key := scopedKey(caller, idempotencyKey)

		ctx := c.Request.Context()

		// Check for cached response.
		cached, err := getCachedResponse(ctx, cache, key)
		if err != nil {
			// Cache error - proceed without idempotency.
			c.Next()
			return
		}

		if cached != nil {
			// Return cached response.
			for k, v := range cached.Headers {
				for _, val := range v {
					c.Header(k, val)
				}
			}
			c.Data(cached.StatusCode, "application/json", cached.Body)
			c.Abort()
			return
		}

		// Wrap response writer to capture response.
		w := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = w

		// Process request.
		c.Next()

		// 5xx responses are left retryable.
		if c.Writer.Status() >= 200 && c.Writer.Status() < 500 {
			response := cachedResponse{
				StatusCode: c.Writer.Status(),
				Body:       w.body.Bytes(),
				Headers:    extractResponseHeaders(c),
			}
			_ = setCachedResponse(ctx, cache, key, &response, idempotencyTTL)
		}
	}
}

// callerIdentity returns the claim value identifying the caller, or "" when
// the request carries no such claim.
func callerIdentity(c *gin.Context, claim string) string {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return ""
	}
	claims, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	caller, _ := claims[claim].(string)
	return caller
}

// scopedKey hashes the caller so arbitrary usernames cannot collide with the
// separator.
func scopedKey(caller, idempotencyKey string) string {
	sum := sha256.Sum256([]byte(caller))
	return hex.EncodeToString(sum[:]) + ":" + idempotencyKey
}

// getCachedResponse retrieves a cached response.
func getCachedResponse(ctx context.Context, cache ResponseCache, key string) (*cachedResponse, error) {
	data, err := cache.Get(ctx, key)
	if err != nil || data == nil {
		return nil, err
	}

	var cached cachedResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}

	return &cached, nil
}

// setCachedResponse stores a response.
func setCachedResponse(ctx context.Context, cache ResponseCache, key string, response *cachedResponse, ttl time.Duration) error {
	data, err := json.Marshal(response)
	if err != nil {
		return err
	}

	return cache.Set(ctx, key, data, ttl)
}

// extractResponseHeaders extracts headers to cache.
func extractResponseHeaders(c *gin.Context) http.Header {
	headers := make(http.Header)
	for _, name := range []string{"Content-Type", "Access-Control-Allow-Origin"} {
		if v := c.Writer.Header().Get(name); v != "" {
			headers.Set(name, v)
		}
	}
	return headers
}
