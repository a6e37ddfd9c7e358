// Package repo contains all backend access logic for the trip tracker.
// TripRepo has two implementations: a MongoDB document collection and a
// Postgres JSONB document table. No business logic lives here, only queries
// and the conversion between stored documents and domain.Trip.
package repo

import (
	"context"
	"strings"

	"github.com/pkordes/truck-tracker/internal/domain"
)

// TripsCollection is the default name of the trips collection.
const TripsCollection = "trips"

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not on a concrete backend,
// which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create writes a new trip document and returns its backend-assigned id.
	// trip.ID and trip.CreatedAt are ignored: createdAt is set by the
	// backend clock at write time.
	Create(ctx context.Context, trip domain.Trip) (string, error)

	// List returns all trips ordered by createdAt descending (newest first).
	// A non-empty owner restricts the result to trips with that userId.
	List(ctx context.Context, owner string) ([]domain.Trip, error)

	// GetByID retrieves a single trip.
	// Returns domain.ErrNotFound if no trip with that id exists.
	GetByID(ctx context.Context, id string) (domain.Trip, error)

	// Update merges the present fields of patch into the stored document.
	// Fields absent from the patch are left untouched.
	// Returns domain.ErrNotFound if no trip with that id exists.
	Update(ctx context.Context, id string, patch domain.TripPatch) error

	// Delete removes a trip. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error
}

// Backend identifies which TripRepo implementation a database URL selects.
type Backend string

const (
	BackendMongo    Backend = "mongo"
	BackendPostgres Backend = "postgres"
	BackendUnknown  Backend = ""
)

// BackendFor picks the backend from the URL scheme.
func BackendFor(databaseURL string) Backend {
	switch {
	case strings.HasPrefix(databaseURL, "mongodb://"), strings.HasPrefix(databaseURL, "mongodb+srv://"):
		return BackendMongo
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return BackendPostgres
	default:
		return BackendUnknown
	}
}
