package service

import (
	"context"
	"crypto/rand"
	"io"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"

	"riderequest/internal/domain"
	"riderequest/internal/repository"
)

// Eta is the fixed arrival estimate returned for every ride.
const Eta = "30 seconds"

// RideService handles ride requests.
type RideService struct {
	carRepo  repository.CarRepository
	rideRepo repository.RideRepository
	picker   CarPicker
	entropy  io.Reader
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a RideService.
type Option func(*RideService)

// WithClock overrides the time source used for RequestTime.
func WithClock(now func() time.Time) Option {
	return func(s *RideService) { s.now = now }
}

// WithEntropy overrides the random source used for ride ids.
func WithEntropy(r io.Reader) Option {
	return func(s *RideService) { s.entropy = r }
}

// NewRideService creates a new RideService. A nil picker means RandomPicker.
func NewRideService(
	carRepo repository.CarRepository,
	rideRepo repository.RideRepository,
	picker CarPicker,
	logger *slog.Logger,
	opts ...Option,
) *RideService {
	if picker == nil {
		picker = RandomPicker{}
	}
	s := &RideService{
		carRepo:  carRepo,
		rideRepo: rideRepo,
		picker:   picker,
		entropy:  rand.Reader,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestRideInput contains the parameters for requesting a ride.
type RequestRideInput struct {
	RideID  string
	Request domain.RideRequest
}

// RequestRideResult contains the persisted ride.
type RequestRideResult struct {
	Ride *domain.RideRecord
	Eta  string
}

// NewRideID generates a fresh ride id from the service's entropy source.
func (s *RideService) NewRideID() (string, error) {
	return NewRideID(s.entropy)
}

// RequestRide picks a car and records the ride. The car read and the ride
// write run strictly one after the other; a failed write leaves nothing behind.
func (s *RideService) RequestRide(ctx context.Context, in RequestRideInput) (*RequestRideResult, error) {
	if in.Request.RiderID == "" {
		return nil, ErrMissingRider
	}

	rideID := in.RideID
	if rideID == "" {
		var err error
		if rideID, err = s.NewRideID(); err != nil {
			return nil, err
		}
	}

	car, err := s.findCar(ctx, in.Request.PickupLocation)
	if err != nil {
		return nil, err
	}

	ride := &domain.RideRecord{
		RideID:      rideID,
		User:        in.Request.RiderID,
		Car:         car,
		CarName:     car.Name(),
		RequestTime: domain.FormatRequestTime(s.now()),
	}

	s.logger.InfoContext(ctx, "recording ride",
		slog.String("ride_id", ride.RideID),
		slog.String("car_name", ride.CarName),
	)
	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}

	return &RequestRideResult{Ride: ride, Eta: Eta}, nil
}

// findCar selects a car for the pickup. The location is logged but not used:
// selection is uniform over the whole collection.
func (s *RideService) findCar(ctx context.Context, pickup domain.Location) (domain.Car, error) {
	s.logger.InfoContext(ctx, "finding car",
		slog.Float64("latitude", pickup.Latitude),
		slog.Float64("longitude", pickup.Longitude),
	)

	cars, err := s.carRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "cars retrieved", slog.Int("count", cars.Count))

	n := len(cars.Items)
	if n == 0 {
		return nil, ErrNoCarsAvailable
	}

	idx := s.picker.Intn(n)
	if idx < 0 || idx >= n {
		return nil, errors.Newf("car picker returned index %d outside [0, %d)", idx, n)
	}
	return cars.Items[idx], nil
}
