package handler_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riderequest/internal/domain"
	"riderequest/internal/handler"
	"riderequest/internal/service"
	"riderequest/internal/tests"
)

const validBody = `{"PickupLocation":{"Latitude":47.6174755835663,"Longitude":-122.28837066650185}}`

type fixture struct {
	carRepo  *tests.MockCarRepository
	rideRepo *tests.MockRideRepository
	handler  *handler.RideHandler
}

func newFixture(cars ...domain.Car) *fixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	carRepo := tests.NewMockCarRepository(cars...)
	rideRepo := tests.NewMockRideRepository()
	rideService := service.NewRideService(carRepo, rideRepo, nil, logger)
	return &fixture{
		carRepo:  carRepo,
		rideRepo: rideRepo,
		handler:  handler.NewRideHandler(rideService, "", logger),
	}
}

func authorizedRequest(body string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/ride",
		Body:       body,
		RequestContext: events.APIGatewayProxyRequestContext{
			RequestID: "gateway-req-1",
			Authorizer: map[string]any{
				"claims": map[string]any{
					"cognito:username": "rider-1",
					"email":            "rider@example.com",
				},
			},
		},
	}
}

func lambdaContext(requestID string) context.Context {
	return lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{AwsRequestID: requestID})
}

func decodeError(t *testing.T, resp events.APIGatewayProxyResponse) handler.ErrorResponse {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	return body
}

func TestRequestRide_MissingAuthorizer(t *testing.T) {
	f := newFixture(domain.Car{"carName": "Herbie"})
	req := authorizedRequest(validBody)
	req.RequestContext.Authorizer = nil

	resp, err := f.handler.RequestRide(lambdaContext("aws-req-1"), req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	body := decodeError(t, resp)
	assert.Equal(t, "Authorization not configured", body.Error)
	assert.Equal(t, "aws-req-1", body.Reference)
	assert.EqualValues(t, 0, f.carRepo.ListAllCallCount)
	assert.EqualValues(t, 0, f.rideRepo.CreateCallCount)
}

func TestRequestRide_EmptyAuthorizerIsPresent(t *testing.T) {
	f := newFixture(domain.Car{"carName": "Herbie"})
	req := authorizedRequest(validBody)
	req.RequestContext.Authorizer = map[string]any{}

	resp, err := f.handler.RequestRide(lambdaContext("aws-req-1"), req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "rider identity missing", body.Error)
	assert.Equal(t, "aws-req-1", body.Reference)
	assert.EqualValues(t, 0, f.rideRepo.CreateCallCount)
}

func TestRequestRide_Success(t *testing.T) {
	car := domain.Car{"carName": "Herbie", "color": "white", "seats": float64(4)}
	f := newFixture(car)

	resp, err := f.handler.RequestRide(lambdaContext("aws-req-2"), authorizedRequest(validBody))
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])

	var body struct {
		RideID  string          `json:"RideId"`
		Car     json.RawMessage `json:"Car"`
		CarName string          `json:"CarName"`
		Eta     string          `json:"Eta"`
		Rider   string          `json:"Rider"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))

	assert.Regexp(t, `^[A-Za-z0-9_-]{22}$`, body.RideID)
	assert.Equal(t, "Herbie", body.CarName)
	assert.Equal(t, "30 seconds", body.Eta)
	assert.Equal(t, "rider-1", body.Rider)

	wantCar, err := json.Marshal(car)
	require.NoError(t, err)
	assert.Equal(t, string(wantCar), string(body.Car))

	stored := f.rideRepo.GetRide(body.RideID)
	require.NotNil(t, stored)
	assert.Equal(t, "rider-1", stored.User)
	assert.Equal(t, "Herbie", stored.CarName)
	assert.Equal(t, car, stored.Car)
}

func TestRequestRide_CarIsOneOfTheStoredCars(t *testing.T) {
	cars := []domain.Car{
		{"carName": "Herbie", "plate": "OFP 857"},
		{"carName": "KITT", "plate": "KNIGHT"},
		{"carName": "Ecto-1", "plate": "ECTO-1"},
	}
	f := newFixture(cars...)

	stored := make(map[string]bool, len(cars))
	for _, c := range cars {
		b, err := json.Marshal(c)
		require.NoError(t, err)
		stored[string(b)] = true
	}

	for i := 0; i < 30; i++ {
		resp, err := f.handler.RequestRide(context.Background(), authorizedRequest(validBody))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var body struct {
			Car json.RawMessage `json:"Car"`
		}
		require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
		assert.True(t, stored[string(body.Car)], "unexpected car %s", body.Car)
	}
}

func TestRequestRide_WriteFailure(t *testing.T) {
	f := newFixture(domain.Car{"carName": "Herbie"})
	f.rideRepo.CreateError = errors.New("Requested resource not found")

	resp, err := f.handler.RequestRide(lambdaContext("aws-req-3"), authorizedRequest(validBody))
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	body := decodeError(t, resp)
	assert.Equal(t, "Requested resource not found", body.Error)
	assert.Equal(t, "aws-req-3", body.Reference)
}

func TestRequestRide_ReadFailure(t *testing.T) {
	f := newFixture(domain.Car{"carName": "Herbie"})
	f.carRepo.ListAllError = errors.New("scan throttled")

	resp, err := f.handler.RequestRide(context.Background(), authorizedRequest(validBody))
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "scan throttled", body.Error)
	assert.Equal(t, "gateway-req-1", body.Reference)
	assert.EqualValues(t, 0, f.rideRepo.CreateCallCount)
}

func TestRequestRide_MalformedBodies(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"not json", "{PickupLocation"},
		{"missing pickup", `{}`},
		{"missing latitude", `{"PickupLocation":{"Longitude":-122.2}}`},
		{"missing longitude", `{"PickupLocation":{"Latitude":47.6}}`},
		{"latitude out of range", `{"PickupLocation":{"Latitude":91,"Longitude":-122.2}}`},
		{"longitude out of range", `{"PickupLocation":{"Latitude":47.6,"Longitude":-181}}`},
		{"wrong type", `{"PickupLocation":{"Latitude":"north","Longitude":-122.2}}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(domain.Car{"carName": "Herbie"})

			resp, err := f.handler.RequestRide(context.Background(), authorizedRequest(tc.body))
			require.NoError(t, err)

			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
			body := decodeError(t, resp)
			assert.Contains(t, body.Error, "malformed request body")
			assert.EqualValues(t, 0, f.carRepo.ListAllCallCount)
		})
	}
}

func TestRequestRide_Base64Body(t *testing.T) {
	f := newFixture(domain.Car{"carName": "Herbie"})
	req := authorizedRequest(base64.StdEncoding.EncodeToString([]byte(validBody)))
	req.IsBase64Encoded = true

	resp, err := f.handler.RequestRide(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestRequestRide_MissingUsernameClaim(t *testing.T) {
	f := newFixture(domain.Car{"carName": "Herbie"})
	req := authorizedRequest(validBody)
	req.RequestContext.Authorizer = map[string]any{"claims": map[string]any{"email": "rider@example.com"}}

	resp, err := f.handler.RequestRide(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "rider identity missing", decodeError(t, resp).Error)
	assert.EqualValues(t, 0, f.rideRepo.CreateCallCount)
}

func TestRequestRide_NoCars(t *testing.T) {
	f := newFixture()

	resp, err := f.handler.RequestRide(context.Background(), authorizedRequest(validBody))
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "no cars available", decodeError(t, resp).Error)
}

func TestRequestRide_CustomUsernameClaim(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rideRepo := tests.NewMockRideRepository()
	rideService := service.NewRideService(tests.NewMockCarRepository(domain.Car{"carName": "Herbie"}), rideRepo, nil, logger)
	h := handler.NewRideHandler(rideService, "email", logger)

	resp, err := h.RequestRide(context.Background(), authorizedRequest(validBody))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body handler.RequestRideResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Equal(t, "rider@example.com", body.Rider)
}
