// Package tests holds in-memory test doubles shared by package tests.
package tests

import (
	"context"
	"sync"
	"sync/atomic"

	"riderequest/internal/domain"
	"riderequest/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK CAR REPOSITORY
// ──────────────────────────────────────────────

// MockCarRepository is a mock implementation of CarRepository.
type MockCarRepository struct {
	mu   sync.RWMutex
	cars []domain.Car

	// Counters for verification
	ListAllCallCount int32

	// Error injection
	ListAllError error
}

// NewMockCarRepository creates a mock car repository holding the given cars.
func NewMockCarRepository(cars ...domain.Car) *MockCarRepository {
	return &MockCarRepository{cars: cars}
}

// AddCar adds a car to the mock repository.
func (m *MockCarRepository) AddCar(car domain.Car) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cars = append(m.cars, car)
}

func (m *MockCarRepository) ListAll(ctx context.Context) (*repository.CarList, error) {
	atomic.AddInt32(&m.ListAllCallCount, 1)
	if m.ListAllError != nil {
		return nil, m.ListAllError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]domain.Car, len(m.cars))
	copy(items, m.cars)
	return &repository.CarList{Items: items, Count: len(items)}, nil
}

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is a mock implementation of RideRepository.
type MockRideRepository struct {
	mu    sync.RWMutex
	rides map[string]*domain.RideRecord

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{
		rides: make(map[string]*domain.RideRecord),
	}
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.RideRecord) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.RideID] = ride
	return nil
}

// GetRide returns the ride by ID (for test assertions).
func (m *MockRideRepository) GetRide(id string) *domain.RideRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rides[id]
}

// Count returns the number of stored rides.
func (m *MockRideRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rides)
}

// ──────────────────────────────────────────────
// FIXED PICKER
// ──────────────────────────────────────────────

// FixedPicker always returns Index and records the n it was asked for.
type FixedPicker struct {
	Index int
	LastN int
	Calls int32
}

func (p *FixedPicker) Intn(n int) int {
	atomic.AddInt32(&p.Calls, 1)
	p.LastN = n
	return p.Index
}

// Ensure mocks implement interfaces.
var (
	_ repository.CarRepository  = (*MockCarRepository)(nil)
	_ repository.RideRepository = (*MockRideRepository)(nil)
)
