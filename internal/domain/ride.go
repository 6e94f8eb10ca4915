package domain

import "time"

// RequestTimeLayout is the ISO-8601 layout used for RideRecord.RequestTime.
const RequestTimeLayout = "2006-01-02T15:04:05.000Z"

// Location is a geographic point.
type Location struct {
	Latitude  float64 `json:"Latitude"`
	Longitude float64 `json:"Longitude"`
}

// RideRequest is what a rider asks for. It only lives for one invocation.
type RideRequest struct {
	RiderID        string
	PickupLocation Location
}

// RideRecord is the persisted ride written to the rides table.
type RideRecord struct {
	RideID      string `dynamodbav:"RideId" json:"RideId"`
	User        string `dynamodbav:"User" json:"User"`
	Car         Car    `dynamodbav:"Car" json:"Car"`
	CarName     string `dynamodbav:"CarName" json:"CarName"`
	RequestTime string `dynamodbav:"RequestTime" json:"RequestTime"`
}

// FormatRequestTime renders t in UTC the way RequestTime is stored.
func FormatRequestTime(t time.Time) string {
	return t.UTC().Format(RequestTimeLayout)
}
