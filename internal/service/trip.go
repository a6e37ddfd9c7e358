// Package service contains the business logic for the trip tracker.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No queries live here: services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkordes/truck-tracker/internal/domain"
	"github.com/pkordes/truck-tracker/internal/repo"
)

// statusTimeLayout formats times inside a derived status label.
const statusTimeLayout = "02 Jan 15:04"

// justNow is the time label given to a trip created without one.
const justNow = "Just now"

// TripService is the Trip Store: the CRUD boundary the handlers call.
//
// Error policy:
//   - List is fail-soft. A backend failure is logged and an empty list is
//     returned; callers never see the error.
//   - Create, Update and Delete are fail-loud. Errors are returned wrapped so
//     the caller can tell the user their change was not saved.
type TripService struct {
	repo repo.TripRepo
	log  *slog.Logger
}

// NewTripService constructs a TripService backed by the provided TripRepo.
// A nil logger falls back to slog.Default().
func NewTripService(r repo.TripRepo, log *slog.Logger) *TripService {
	if log == nil {
		log = slog.Default()
	}
	return &TripService{repo: r, log: log}
}

// List returns trips newest first, restricted to owner when it is non-empty.
// It never returns an error; see the TripService error policy.
func (s *TripService) List(ctx context.Context, owner string) []domain.Trip {
	trips, err := s.repo.List(ctx, owner)
	if err != nil {
		s.log.ErrorContext(ctx, "list trips failed", "owner", owner, "error", err)
		return []domain.Trip{}
	}
	if trips == nil {
		return []domain.Trip{}
	}
	return trips
}

// Create validates and persists a new trip, then re-reads it so the returned
// record carries the backend-assigned id and createdAt. If only the re-read
// fails, the submitted trip is returned with its new id and an approximate
// createdAt, and no error.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip = normalizeTrip(trip)
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	id, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	// The write has landed; a failed read-back must not report it as lost.
	created, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.log.WarnContext(ctx, "read back created trip failed", "id", id, "error", err)
		trip.ID = id
		trip.CreatedAt = time.Now().UTC()
		return trip, nil
	}
	return created, nil
}

// GetByID returns a single trip.
func (s *TripService) GetByID(ctx context.Context, id string) (domain.Trip, error) {
	trip, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// Update validates a partial update and merges it into the stored trip.
func (s *TripService) Update(ctx context.Context, id string, patch domain.TripPatch) error {
	if patch.Empty() {
		return fmt.Errorf("service.TripService.Update: %w: no fields to update", domain.ErrValidation)
	}
	patch = normalizePatch(patch)
	if err := validatePatch(patch); err != nil {
		return fmt.Errorf("service.TripService.Update: %w", err)
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return fmt.Errorf("service.TripService.Update: %w", err)
	}
	return nil
}

// Delete removes a trip by id.
func (s *TripService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// normalizeTrip applies the dashboard's input conventions: truck numbers are
// upper case, and a blank status or time label is filled in.
func normalizeTrip(t domain.Trip) domain.Trip {
	t.Truck = strings.ToUpper(strings.TrimSpace(t.Truck))
	t.BidNo = strings.TrimSpace(t.BidNo)
	t.Quantity = strings.TrimSpace(t.Quantity)
	if strings.TrimSpace(t.Status) == "" {
		t.Status = routeStatus(t.DepartureTime, t.ArrivalTime)
	}
	if strings.TrimSpace(t.Time) == "" {
		t.Time = justNow
	}
	return t
}

func normalizePatch(p domain.TripPatch) domain.TripPatch {
	if p.Truck != nil {
		truck := strings.ToUpper(strings.TrimSpace(*p.Truck))
		p.Truck = &truck
	}
	return p
}

// routeStatus builds the "From: … → To: …" label shown for a trip that was
// added without an explicit status.
func routeStatus(departure time.Time, arrival *time.Time) string {
	to := "Ongoing"
	if arrival != nil {
		to = arrival.Format(statusTimeLayout)
	}
	return fmt.Sprintf("From: %s → To: %s", departure.Format(statusTimeLayout), to)
}

// validateTrip enforces the required fields of the add-trip form:
// vehicle, bid (LR) number, quantity, and departure time.
// An arrival time, when given, must not be before departure.
func validateTrip(t domain.Trip) error {
	var missing []string
	if t.Truck == "" {
		missing = append(missing, "truck")
	}
	if t.BidNo == "" {
		missing = append(missing, "bidNo")
	}
	if t.Quantity == "" {
		missing = append(missing, "quantity")
	}
	if t.DepartureTime.IsZero() {
		missing = append(missing, "departureTime")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: required fields missing: %s", domain.ErrValidation, strings.Join(missing, ", "))
	}
	if t.ArrivalTime != nil && t.ArrivalTime.Before(t.DepartureTime) {
		return fmt.Errorf("%w: arrivalTime must not be before departureTime", domain.ErrValidation)
	}
	return nil
}

// validatePatch rejects blanking a required field. Cross-field checks need
// the stored document and are not applied to partial updates.
func validatePatch(p domain.TripPatch) error {
	blank := func(v *string) bool { return v != nil && strings.TrimSpace(*v) == "" }
	switch {
	case blank(p.Truck):
		return fmt.Errorf("%w: truck must not be empty", domain.ErrValidation)
	case blank(p.BidNo):
		return fmt.Errorf("%w: bidNo must not be empty", domain.ErrValidation)
	case blank(p.Quantity):
		return fmt.Errorf("%w: quantity must not be empty", domain.ErrValidation)
	case p.DepartureTime != nil && p.DepartureTime.IsZero():
		return fmt.Errorf("%w: departureTime must not be empty", domain.ErrValidation)
	}
	return nil
}
