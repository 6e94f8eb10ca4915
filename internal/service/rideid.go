package service

import (
	"encoding/base64"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
)

// rideIDBytes is the amount of entropy in a ride id.
const rideIDBytes = 16

// NewRideID reads 16 bytes from src and encodes them as unpadded base64url.
func NewRideID(src io.Reader) (string, error) {
	buf := make([]byte, rideIDBytes)
	if _, err := io.ReadFull(src, buf); err != nil {
		return "", errors.Wrap(err, "generate ride id")
	}
	return toURLString(buf), nil
}

// toURLString turns standard base64 into its URL-safe unpadded form.
func toURLString(b []byte) string {
	s := base64.StdEncoding.EncodeToString(b)
	s = strings.ReplaceAll(s, "+", "-")
	s = strings.ReplaceAll(s, "/", "_")
	return strings.ReplaceAll(s, "=", "")
}
