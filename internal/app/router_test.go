package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riderequest/internal/domain"
	"riderequest/internal/handler"
	"riderequest/internal/service"
	"riderequest/internal/tests"
)

const rideBody = `{"PickupLocation":{"Latitude":47.6174755835663,"Longitude":-122.28837066650185}}`

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *mapCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *mapCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *tests.MockRideRepository) {
	return newTestRouterWithCache(t, nil)
}

func newTestRouterWithCache(t *testing.T, cache *mapCache) (*gin.Engine, *tests.MockRideRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rideRepo := tests.NewMockRideRepository()
	rideService := service.NewRideService(tests.NewMockCarRepository(domain.Car{"carName": "Herbie"}), rideRepo, nil, logger)

	deps := RouterDeps{
		RideHandler: handler.NewRideHandler(rideService, "", logger),
		Logger:      logger,
	}
	if cache != nil {
		deps.IdempotencyCache = cache
	}
	return NewRouter(deps), rideRepo
}

func postRide(t *testing.T, router *gin.Engine, rider, idempotencyKey string) handler.RequestRideResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/ride", strings.NewReader(rideBody))
	req.Header.Set("Authorization", bearer(t, rider))
	req.Header.Set("Idempotency-Key", idempotencyKey)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body handler.RequestRideResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func bearer(t *testing.T, username string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"cognito:username": username,
		"token_use":        "id",
	}).SignedString([]byte("local-only"))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRouter_RequestRide(t *testing.T) {
	router, rideRepo := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/ride", strings.NewReader(rideBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, "rider-1"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var body handler.RequestRideResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "rider-1", body.Rider)
	assert.Equal(t, "Herbie", body.CarName)
	assert.Equal(t, 1, rideRepo.Count())
}

func TestRouter_NoTokenMeansNoAuthorizer(t *testing.T) {
	router, rideRepo := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/ride", strings.NewReader(rideBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var body handler.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Authorization not configured", body.Error)
	assert.NotEmpty(t, body.Reference)
	assert.Equal(t, 0, rideRepo.Count())
}

func TestRouter_GarbageTokenMeansNoAuthorizer(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/ride", strings.NewReader(rideBody))
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouter_Preflight(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/ride", nil)
	req.Header.Set("Origin", "https://rides.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_Health(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_IdempotencyKeyIsPerRider(t *testing.T) {
	router, rideRepo := newTestRouterWithCache(t, &mapCache{data: make(map[string][]byte)})

	alice := postRide(t, router, "alice", "retry-1")
	aliceRetry := postRide(t, router, "alice", "retry-1")
	bob := postRide(t, router, "bob", "retry-1")

	assert.Equal(t, alice.RideID, aliceRetry.RideID)
	assert.Equal(t, "bob", bob.Rider)
	assert.NotEqual(t, alice.RideID, bob.RideID)
	assert.Equal(t, 2, rideRepo.Count())
}
