package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkordes/truck-tracker/internal/auth"
	"github.com/pkordes/truck-tracker/internal/domain"
)

// tripRequest is the body of POST /trips and PATCH /trips/{id}.
// Every field is optional at this layer; presence matters for PATCH and the
// service decides what is required on create.
type tripRequest struct {
	Truck         *string         `json:"truck"`
	Status        *string         `json:"status"`
	Time          *string         `json:"time"`
	BidNo         *string         `json:"bidNo"`
	Quantity      *string         `json:"quantity"`
	DepartureTime json.RawMessage `json:"departureTime"`
	ArrivalTime   json.RawMessage `json:"arrivalTime"`
	FuelFilled    *string         `json:"fuelFilled"`
	UserID        *string         `json:"userId"`
	DriverName    *string         `json:"driverName"`
	FromPlant     *string         `json:"fromPlant"`
	ToPlant       *string         `json:"toPlant"`
	CompanyName   *string         `json:"companyName"`
	ItemType      *string         `json:"itemType"`
}

type listTripsResponse struct {
	Data []domain.Trip `json:"data"`
}

type createTripResponse struct {
	ID   string      `json:"id"`
	Trip domain.Trip `json:"trip"`
}

// ListTrips handles GET /trips.
// Always 200: a store that cannot be read yields an empty list.
// ?mine=true restricts the list to trips owned by the caller.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	mine, err := queryBool(r, "mine")
	if err != nil {
		requestError(w, err)
		return
	}
	owner := ""
	if mine {
		owner = auth.UserFromContext(r.Context()).ID
	}
	writeJSON(w, http.StatusOK, listTripsResponse{Data: s.trips.List(r.Context(), owner)})
}

// CreateTrip handles POST /trips. The trip is owned by the caller; a body
// naming another userId is rejected.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req tripRequest
	if err := decodeBody(r, &req); err != nil {
		requestError(w, err)
		return
	}
	trip, err := requestToTrip(req)
	if err != nil {
		requestError(w, err)
		return
	}
	caller := auth.UserFromContext(r.Context()).ID
	if trip.UserID != "" && trip.UserID != caller {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "userId must be the signed-in user")
		return
	}
	trip.UserID = caller

	created, err := s.trips.Create(r.Context(), trip)
	if err != nil {
		serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, createTripResponse{ID: created.ID, Trip: created})
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		requestError(w, err)
		return
	}
	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// UpdateTrip handles PATCH /trips/{id}. Only the fields present in the body
// change; "arrivalTime": null marks the trip as ongoing again. The owner
// (userId) is fixed at creation.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		requestError(w, err)
		return
	}
	var req tripRequest
	if err := decodeBody(r, &req); err != nil {
		requestError(w, err)
		return
	}
	patch, err := requestToPatch(req)
	if err != nil {
		requestError(w, err)
		return
	}

	if err := s.trips.Update(r.Context(), id, patch); err != nil {
		serviceError(w, r, err, "trip not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteTrip handles DELETE /trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		requestError(w, err)
		return
	}
	if err := s.trips.Delete(r.Context(), id); err != nil {
		serviceError(w, r, err, "trip not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeBody decodes a JSON body. Unknown fields are an error.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func requestToTrip(req tripRequest) (domain.Trip, error) {
	departure, _, err := optionalTime(req.DepartureTime)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("departureTime: %w", err)
	}
	arrival, _, err := optionalTime(req.ArrivalTime)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("arrivalTime: %w", err)
	}

	t := domain.Trip{
		Truck:       deref(req.Truck),
		Status:      deref(req.Status),
		Time:        deref(req.Time),
		BidNo:       deref(req.BidNo),
		Quantity:    deref(req.Quantity),
		ArrivalTime: arrival,
		FuelFilled:  deref(req.FuelFilled),
		UserID:      deref(req.UserID),
		DriverName:  deref(req.DriverName),
		FromPlant:   deref(req.FromPlant),
		ToPlant:     deref(req.ToPlant),
		CompanyName: deref(req.CompanyName),
		ItemType:    deref(req.ItemType),
	}
	if departure != nil {
		t.DepartureTime = *departure
	}
	return t, nil
}

func requestToPatch(req tripRequest) (domain.TripPatch, error) {
	departure, present, err := optionalTime(req.DepartureTime)
	if err != nil {
		return domain.TripPatch{}, fmt.Errorf("departureTime: %w", err)
	}
	if present && departure == nil {
		return domain.TripPatch{}, fmt.Errorf("departureTime: must not be null")
	}
	arrival, arrivalPresent, err := optionalTime(req.ArrivalTime)
	if err != nil {
		return domain.TripPatch{}, fmt.Errorf("arrivalTime: %w", err)
	}
	if req.UserID != nil {
		return domain.TripPatch{}, fmt.Errorf("userId: cannot be changed")
	}

	return domain.TripPatch{
		Truck:            req.Truck,
		Status:           req.Status,
		Time:             req.Time,
		BidNo:            req.BidNo,
		Quantity:         req.Quantity,
		DepartureTime:    departure,
		ArrivalTime:      arrival,
		ClearArrivalTime: arrivalPresent && arrival == nil,
		FuelFilled:       req.FuelFilled,
		DriverName:       req.DriverName,
		FromPlant:        req.FromPlant,
		ToPlant:          req.ToPlant,
		CompanyName:      req.CompanyName,
		ItemType:         req.ItemType,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
