package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"riderequest/internal/domain"
	"riderequest/internal/service"
)

// RideHandler handles ride requests arriving through a proxy integration.
type RideHandler struct {
	rideService   *service.RideService
	usernameClaim string
	logger        *slog.Logger
}

// NewRideHandler creates a new RideHandler. An empty usernameClaim means
// DefaultUsernameClaim.
func NewRideHandler(rideService *service.RideService, usernameClaim string, logger *slog.Logger) *RideHandler {
	if usernameClaim == "" {
		usernameClaim = DefaultUsernameClaim
	}
	return &RideHandler{
		rideService:   rideService,
		usernameClaim: usernameClaim,
		logger:        logger,
	}
}

// RequestRideResponse is the response body for a recorded ride.
type RequestRideResponse struct {
	RideID  string     `json:"RideId"`
	Car     domain.Car `json:"Car"`
	CarName string     `json:"CarName"`
	Eta     string     `json:"Eta"`
	Rider   string     `json:"Rider"`
}

// RequestRide handles POST /ride. It never returns a Go error: every
// failure is turned into a 500 proxy response.
func (h *RideHandler) RequestRide(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	reference := requestReference(ctx, req)

	if !hasAuthorizer(req) {
		return h.fail(ctx, ErrAuthorizationNotConfigured, reference), nil
	}

	rideID, err := h.rideService.NewRideID()
	if err != nil {
		return h.fail(ctx, err, reference), nil
	}

	h.logger.InfoContext(ctx, "received event",
		slog.String("ride_id", rideID),
		slog.String("reference", reference),
		slog.String("method", req.HTTPMethod),
		slog.String("path", req.Path),
	)

	rider := claimString(req, h.usernameClaim)

	body, err := DecodeRideRequestBody(req.Body, req.IsBase64Encoded)
	if err != nil {
		return h.fail(ctx, err, reference), nil
	}

	result, err := h.rideService.RequestRide(ctx, service.RequestRideInput{
		RideID: rideID,
		Request: domain.RideRequest{
			RiderID:        rider,
			PickupLocation: body.PickupLocation.Location(),
		},
	})
	if err != nil {
		return h.fail(ctx, err, reference), nil
	}

	return respondJSON(http.StatusCreated, RequestRideResponse{
		RideID:  result.Ride.RideID,
		Car:     result.Ride.Car,
		CarName: result.Ride.CarName,
		Eta:     result.Eta,
		Rider:   result.Ride.User,
	}), nil
}

func (h *RideHandler) fail(ctx context.Context, err error, reference string) events.APIGatewayProxyResponse {
	h.logger.ErrorContext(ctx, "ride request failed",
		slog.String("kind", errorKind(err)),
		slog.String("reference", reference),
		slog.Any("error", err),
	)
	return respondError(err, reference)
}

// requestReference returns the Lambda request id when running inside Lambda
// and the gateway request id otherwise.
func requestReference(ctx context.Context, req events.APIGatewayProxyRequest) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return req.RequestContext.RequestID
}
