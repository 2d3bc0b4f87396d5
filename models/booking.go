package models

import "time"

// Booking states
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingRejected  = "rejected"
)

// BookingTypes is the fixed set of bookable services.
var BookingTypes = []string{"Langar Seva", "Akhand Path", "Anand Karaj", "Hall Booking"}

type Booking struct {
	ID          string    `json:"id" bson:"id"`
	Type        string    `json:"type" bson:"type"`
	Name        string    `json:"name" bson:"name"`
	Date        string    `json:"date" bson:"date"`
	Phone       string    `json:"phone" bson:"phone"`
	People      int       `json:"people" bson:"people"`
	Note        string    `json:"note,omitempty" bson:"note,omitempty"`
	UserID      string    `json:"userId" bson:"userId"`
	Status      string    `json:"status" bson:"status"`
	ShowAsEvent bool      `json:"showAsEvent" bson:"showAsEvent"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}
