// Package domain contains the core data types for the truck trip tracker.
// This package has no infrastructure dependencies and is imported by every
// other internal package (repo, service, handler, auth).
package domain

import "time"

// Trip is one logistics movement: a truck carrying a load from one plant to
// another. Field names in JSON match the document field names in the store.
//
// ID is empty until the trip has been persisted. CreatedAt is always assigned
// by the backend clock, never by the caller.
type Trip struct {
	ID            string     `json:"id"`
	Truck         string     `json:"truck"`
	Status        string     `json:"status"`
	Time          string     `json:"time"`
	BidNo         string     `json:"bidNo"` // the "LR No" on the consignment note
	Quantity      string     `json:"quantity"`
	DepartureTime time.Time  `json:"departureTime"`
	ArrivalTime   *time.Time `json:"arrivalTime"` // nil while the trip is ongoing
	FuelFilled    string     `json:"fuelFilled"`
	CreatedAt     time.Time  `json:"createdAt"`
	UserID        string     `json:"userId,omitempty"`
	DriverName    string     `json:"driverName"`
	FromPlant     string     `json:"fromPlant"`
	ToPlant       string     `json:"toPlant"`
	CompanyName   string     `json:"companyName"`
	ItemType      string     `json:"itemType"`
}

// Ongoing reports whether the trip has not arrived yet.
func (t Trip) Ongoing() bool {
	return t.ArrivalTime == nil
}

// TripPatch is a partial update. A nil field is left untouched.
//
// ArrivalTime needs three states, so it is paired with ClearArrivalTime:
// ClearArrivalTime=true writes an explicit null (the trip is ongoing again),
// otherwise a non-nil ArrivalTime sets it.
type TripPatch struct {
	Truck            *string
	Status           *string
	Time             *string
	BidNo            *string
	Quantity         *string
	DepartureTime    *time.Time
	ArrivalTime      *time.Time
	ClearArrivalTime bool
	FuelFilled       *string
	UserID           *string
	DriverName       *string
	FromPlant        *string
	ToPlant          *string
	CompanyName      *string
	ItemType         *string
}

// Empty reports whether the patch would change nothing.
func (p TripPatch) Empty() bool {
	return p.Truck == nil && p.Status == nil && p.Time == nil && p.BidNo == nil &&
		p.Quantity == nil && p.DepartureTime == nil && p.ArrivalTime == nil &&
		!p.ClearArrivalTime && p.FuelFilled == nil && p.UserID == nil &&
		p.DriverName == nil && p.FromPlant == nil && p.ToPlant == nil &&
		p.CompanyName == nil && p.ItemType == nil
}
