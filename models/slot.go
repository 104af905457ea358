package models

import "time"

// Slot represents a fixed-capacity, time-bound bookable instance of a product.
// Capacity is fixed at creation; the booked state lives in the reservations
// collection, which is the authoritative source for capacity accounting.
type Slot struct {
	ID            string             `bson:"id" json:"id"`
	ProductID     string             `bson:"productId" json:"productId"`
	Capacity      int                `bson:"capacity" json:"capacity"`           // total tickets for the slot
	StartDateTime time.Time          `bson:"startDateTime" json:"startDateTime"` // activity start (date + local time)
	Price         float64            `bson:"price" json:"price"`                 // price per ticket
	Policy        CancellationPolicy `bson:"policy" json:"policy"`
	// ReservationIDs is a denormalized list of reservations currently holding
	// capacity. Maintained alongside the reservations collection for operator
	// dashboards; never used for capacity decisions.
	ReservationIDs []string `bson:"reservationIds,omitempty" json:"reservationIds,omitempty"`
}

// Availability is a point-in-time capacity snapshot for a slot. It is a read
// without any reservation guarantee; the booking path recomputes the count
// inside the slot's accounting unit.
type Availability struct {
	SlotID            string `json:"slotId"`
	Capacity          int    `json:"capacity"`
	ActiveTicketCount int    `json:"activeTicketCount"`
	FreeCapacity      int    `json:"freeCapacity"`
}
