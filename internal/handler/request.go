package handler

import (
	"encoding/base64"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"riderequest/internal/domain"
	"riderequest/internal/service"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// RideRequestBody is the inbound body of a ride request.
type RideRequestBody struct {
	PickupLocation *PickupLocation `json:"PickupLocation" validate:"required"`
}

// PickupLocation is the pickup point in the request body.
type PickupLocation struct {
	Latitude  *float64 `json:"Latitude" validate:"required,latitude"`
	Longitude *float64 `json:"Longitude" validate:"required,longitude"`
}

// Location converts the validated body into a domain location.
func (p *PickupLocation) Location() domain.Location {
	return domain.Location{Latitude: *p.Latitude, Longitude: *p.Longitude}
}

// DecodeRideRequestBody parses and validates a proxy request body. Failures
// are marked with service.ErrMalformedRequest.
func DecodeRideRequestBody(raw string, isBase64 bool) (*RideRequestBody, error) {
	data := []byte(raw)
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, malformed(err)
		}
		data = decoded
	}

	var body RideRequestBody
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, malformed(err)
	}

	if err := validate.Struct(&body); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, malformed(errors.Newf("%s failed on the '%s' rule", fieldPath(verrs[0]), verrs[0].Tag()))
		}
		return nil, malformed(err)
	}

	return &body, nil
}

func malformed(err error) error {
	return errors.Mark(errors.Wrap(err, "malformed request body"), service.ErrMalformedRequest)
}

// fieldPath drops the root struct name from the validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
