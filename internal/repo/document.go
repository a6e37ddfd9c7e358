package repo

import (
	"time"

	"github.com/spf13/cast"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pkordes/truck-tracker/internal/domain"
)

// Document field names. They are shared by both backends so a document
// exported from one can be imported into the other unchanged.
const (
	fieldTruck         = "truck"
	fieldStatus        = "status"
	fieldTime          = "time"
	fieldBidNo         = "bidNo"
	fieldQuantity      = "quantity"
	fieldDepartureTime = "departureTime"
	fieldArrivalTime   = "arrivalTime"
	fieldFuelFilled    = "fuelFilled"
	fieldCreatedAt     = "createdAt"
	fieldUserID        = "userId"
	fieldDriverName    = "driverName"
	fieldFromPlant     = "fromPlant"
	fieldToPlant       = "toPlant"
	fieldCompanyName   = "companyName"
	fieldItemType      = "itemType"
)

// now is the read-time fallback clock. Tests replace it.
var now = time.Now

// toTime collapses the timestamp shapes a stored document can hold into a
// plain time or nil. Unknown shapes are treated as absent.
func toTime(v any) *time.Time {
	var t time.Time
	switch ts := v.(type) {
	case nil:
		return nil
	case time.Time:
		t = ts
	case *time.Time:
		if ts == nil {
			return nil
		}
		t = *ts
	case primitive.DateTime:
		t = ts.Time()
	case primitive.Timestamp:
		t = time.Unix(int64(ts.T), 0)
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil
		}
		t = parsed
	default:
		return nil
	}
	t = t.UTC()
	return &t
}

// timeOrNow is toTime with the read-time fallback: documents missing a
// required timestamp get the current time rather than failing the read.
func timeOrNow(v any) time.Time {
	if t := toTime(v); t != nil {
		return *t
	}
	return now().UTC()
}

// toString returns v as a string, or "" when it is absent or cannot be
// represented as one. Numbers stored by older clients (e.g. quantity) are
// stringified.
func toString(v any) string {
	if v == nil {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

// tripFromFields builds a domain.Trip from a decoded document.
// The caller supplies the id because each backend stores it differently.
func tripFromFields(id string, m map[string]any) domain.Trip {
	return domain.Trip{
		ID:            id,
		Truck:         toString(m[fieldTruck]),
		Status:        toString(m[fieldStatus]),
		Time:          toString(m[fieldTime]),
		BidNo:         toString(m[fieldBidNo]),
		Quantity:      toString(m[fieldQuantity]),
		DepartureTime: timeOrNow(m[fieldDepartureTime]),
		ArrivalTime:   toTime(m[fieldArrivalTime]),
		FuelFilled:    toString(m[fieldFuelFilled]),
		CreatedAt:     timeOrNow(m[fieldCreatedAt]),
		UserID:        toString(m[fieldUserID]),
		DriverName:    toString(m[fieldDriverName]),
		FromPlant:     toString(m[fieldFromPlant]),
		ToPlant:       toString(m[fieldToPlant]),
		CompanyName:   toString(m[fieldCompanyName]),
		ItemType:      toString(m[fieldItemType]),
	}
}

// fieldsFromTrip returns the writable fields of a trip. createdAt and id are
// never included. timeValue converts times into the backend's native form.
func fieldsFromTrip(t domain.Trip, timeValue func(time.Time) any) map[string]any {
	m := map[string]any{
		fieldTruck:         t.Truck,
		fieldStatus:        t.Status,
		fieldTime:          t.Time,
		fieldBidNo:         t.BidNo,
		fieldQuantity:      t.Quantity,
		fieldDepartureTime: timeValue(t.DepartureTime),
		fieldArrivalTime:   nil,
		fieldFuelFilled:    t.FuelFilled,
		fieldDriverName:    t.DriverName,
		fieldFromPlant:     t.FromPlant,
		fieldToPlant:       t.ToPlant,
		fieldCompanyName:   t.CompanyName,
		fieldItemType:      t.ItemType,
	}
	if t.ArrivalTime != nil {
		m[fieldArrivalTime] = timeValue(*t.ArrivalTime)
	}
	if t.UserID != "" {
		m[fieldUserID] = t.UserID
	}
	return m
}

// fieldsFromPatch returns only the fields present in the patch.
func fieldsFromPatch(p domain.TripPatch, timeValue func(time.Time) any) map[string]any {
	m := map[string]any{}
	setString := func(key string, v *string) {
		if v != nil {
			m[key] = *v
		}
	}
	setString(fieldTruck, p.Truck)
	setString(fieldStatus, p.Status)
	setString(fieldTime, p.Time)
	setString(fieldBidNo, p.BidNo)
	setString(fieldQuantity, p.Quantity)
	setString(fieldFuelFilled, p.FuelFilled)
	setString(fieldUserID, p.UserID)
	setString(fieldDriverName, p.DriverName)
	setString(fieldFromPlant, p.FromPlant)
	setString(fieldToPlant, p.ToPlant)
	setString(fieldCompanyName, p.CompanyName)
	setString(fieldItemType, p.ItemType)
	if p.DepartureTime != nil {
		m[fieldDepartureTime] = timeValue(*p.DepartureTime)
	}
	switch {
	case p.ClearArrivalTime:
		m[fieldArrivalTime] = nil
	case p.ArrivalTime != nil:
		m[fieldArrivalTime] = timeValue(*p.ArrivalTime)
	}
	return m
}
