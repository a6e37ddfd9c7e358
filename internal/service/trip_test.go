package service_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/truck-tracker/internal/domain"
	"github.com/pkordes/truck-tracker/internal/repo"
	"github.com/pkordes/truck-tracker/internal/service"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field; set only the ones your test needs.
type mockTripRepo struct {
	create  func(ctx context.Context, trip domain.Trip) (string, error)
	list    func(ctx context.Context, owner string) ([]domain.Trip, error)
	getByID func(ctx context.Context, id string) (domain.Trip, error)
	update  func(ctx context.Context, id string, patch domain.TripPatch) error
	delete  func(ctx context.Context, id string) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (string, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) List(ctx context.Context, owner string) ([]domain.Trip, error) {
	return m.list(ctx, owner)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id string) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) Update(ctx context.Context, id string, patch domain.TripPatch) error {
	return m.update(ctx, id, patch)
}
func (m *mockTripRepo) Delete(ctx context.Context, id string) error {
	return m.delete(ctx, id)
}

// compile-time check: mockTripRepo must satisfy repo.TripRepo.
var _ repo.TripRepo = (*mockTripRepo)(nil)

// ---- helpers ---------------------------------------------------------------

func validTrip() domain.Trip {
	return domain.Trip{
		Truck:         "trk-101",
		BidNo:         "LR-5521",
		Quantity:      "24",
		DepartureTime: time.Date(2025, 6, 1, 6, 30, 0, 0, time.UTC),
		DriverName:    "Ramesh",
	}
}

// storingRepo remembers the last created trip and serves it back from
// GetByID, like a real store would.
func storingRepo() (*mockTripRepo, *domain.Trip) {
	var stored domain.Trip
	return &mockTripRepo{
		create: func(_ context.Context, t domain.Trip) (string, error) {
			stored = t
			stored.ID = "trip-1"
			stored.CreatedAt = time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)
			return stored.ID, nil
		},
		getByID: func(_ context.Context, id string) (domain.Trip, error) {
			if id != stored.ID {
				return domain.Trip{}, domain.ErrNotFound
			}
			return stored, nil
		},
	}, &stored
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// ---- Create tests ----------------------------------------------------------

func TestTripService_Create_Valid(t *testing.T) {
	r, _ := storingRepo()
	svc := service.NewTripService(r, discardLogger())

	got, err := svc.Create(context.Background(), validTrip())

	require.NoError(t, err)
	assert.Equal(t, "trip-1", got.ID)
	assert.Equal(t, "TRK-101", got.Truck, "truck is upper-cased")
	assert.Equal(t, "From: 01 Jun 06:30 → To: Ongoing", got.Status)
	assert.Equal(t, "Just now", got.Time)
	assert.False(t, got.CreatedAt.IsZero(), "createdAt comes from the store")
}

func TestTripService_Create_KeepsExplicitStatus(t *testing.T) {
	r, _ := storingRepo()
	svc := service.NewTripService(r, discardLogger())

	trip := validTrip()
	trip.Status = "En route to Delhi"
	arr := trip.DepartureTime.Add(3 * time.Hour)
	trip.ArrivalTime = &arr

	got, err := svc.Create(context.Background(), trip)

	require.NoError(t, err)
	assert.Equal(t, "En route to Delhi", got.Status)
}

func TestTripService_Create_DerivedStatusWithArrival(t *testing.T) {
	r, _ := storingRepo()
	svc := service.NewTripService(r, discardLogger())

	trip := validTrip()
	arr := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	trip.ArrivalTime = &arr

	got, err := svc.Create(context.Background(), trip)

	require.NoError(t, err)
	assert.Equal(t, "From: 01 Jun 06:30 → To: 01 Jun 18:00", got.Status)
}

func TestTripService_Create_MissingRequiredFields(t *testing.T) {
	r, _ := storingRepo()
	svc := service.NewTripService(r, discardLogger())

	tests := []struct {
		name   string
		mutate func(*domain.Trip)
		field  string
	}{
		{"truck", func(t *domain.Trip) { t.Truck = "   " }, "truck"},
		{"bid", func(t *domain.Trip) { t.BidNo = "" }, "bidNo"},
		{"quantity", func(t *domain.Trip) { t.Quantity = "" }, "quantity"},
		{"departure", func(t *domain.Trip) { t.DepartureTime = time.Time{} }, "departureTime"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			trip := validTrip()
			tc.mutate(&trip)

			_, err := svc.Create(context.Background(), trip)

			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.ErrorContains(t, err, tc.field)
		})
	}
}

func TestTripService_Create_ArrivalBeforeDeparture(t *testing.T) {
	r, _ := storingRepo()
	svc := service.NewTripService(r, discardLogger())

	trip := validTrip()
	bad := trip.DepartureTime.Add(-time.Hour)
	trip.ArrivalTime = &bad

	_, err := svc.Create(context.Background(), trip)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_RepoErrorIsReturned(t *testing.T) {
	repoErr := errors.New("backend unavailable")
	r := &mockTripRepo{
		create: func(_ context.Context, _ domain.Trip) (string, error) { return "", repoErr },
	}
	svc := service.NewTripService(r, discardLogger())

	_, err := svc.Create(context.Background(), validTrip())

	assert.ErrorIs(t, err, repoErr)
}

func TestTripService_Create_ReadBackFailureKeepsID(t *testing.T) {
	var buf bytes.Buffer
	writes := 0
	r := &mockTripRepo{
		create: func(_ context.Context, _ domain.Trip) (string, error) {
			writes++
			return "abc123", nil
		},
		getByID: func(_ context.Context, _ string) (domain.Trip, error) {
			return domain.Trip{}, errors.New("read timeout")
		},
	}
	svc := service.NewTripService(r, slog.New(slog.NewJSONHandler(&buf, nil)))

	got, err := svc.Create(context.Background(), validTrip())

	require.NoError(t, err, "the write succeeded")
	assert.Equal(t, 1, writes)
	assert.Equal(t, "abc123", got.ID)
	assert.Equal(t, "TRK-101", got.Truck)
	assert.Equal(t, "LR-5521", got.BidNo)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Contains(t, buf.String(), "read back created trip failed")
	assert.Contains(t, buf.String(), "read timeout")
}

// ---- List tests ------------------------------------------------------------

func TestTripService_List_PassesOwner(t *testing.T) {
	var gotOwner string
	r := &mockTripRepo{
		list: func(_ context.Context, owner string) ([]domain.Trip, error) {
			gotOwner = owner
			return []domain.Trip{validTrip(), validTrip()}, nil
		},
	}
	svc := service.NewTripService(r, discardLogger())

	got := svc.List(context.Background(), "user-1")

	assert.Len(t, got, 2)
	assert.Equal(t, "user-1", gotOwner)
}

func TestTripService_List_EmptyIsNonNil(t *testing.T) {
	r := &mockTripRepo{
		list: func(_ context.Context, _ string) ([]domain.Trip, error) { return nil, nil },
	}
	svc := service.NewTripService(r, discardLogger())

	got := svc.List(context.Background(), "")

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTripService_List_FailureIsSwallowedAndLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	r := &mockTripRepo{
		list: func(_ context.Context, _ string) ([]domain.Trip, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := service.NewTripService(r, logger)

	got := svc.List(context.Background(), "")

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Contains(t, buf.String(), "list trips failed")
	assert.Contains(t, buf.String(), "connection refused")
}

// ---- GetByID tests ---------------------------------------------------------

func TestTripService_GetByID_NotFound(t *testing.T) {
	r := &mockTripRepo{
		getByID: func(_ context.Context, _ string) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	}
	svc := service.NewTripService(r, discardLogger())

	_, err := svc.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Update tests ----------------------------------------------------------

func TestTripService_Update_Valid(t *testing.T) {
	var got domain.TripPatch
	r := &mockTripRepo{
		update: func(_ context.Context, _ string, p domain.TripPatch) error {
			got = p
			return nil
		},
	}
	svc := service.NewTripService(r, discardLogger())

	truck := " trk-9 "
	status := "Delivered"
	err := svc.Update(context.Background(), "trip-1", domain.TripPatch{Truck: &truck, Status: &status})

	require.NoError(t, err)
	require.NotNil(t, got.Truck)
	assert.Equal(t, "TRK-9", *got.Truck)
	assert.Equal(t, "Delivered", *got.Status)
	assert.Nil(t, got.DriverName, "absent fields stay absent")
}

func TestTripService_Update_EmptyPatch(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{}, discardLogger())

	err := svc.Update(context.Background(), "trip-1", domain.TripPatch{})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Update_BlankRequiredField(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{}, discardLogger())

	blank := ""
	err := svc.Update(context.Background(), "trip-1", domain.TripPatch{BidNo: &blank})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Update_RepoErrorIsReturned(t *testing.T) {
	r := &mockTripRepo{
		update: func(_ context.Context, _ string, _ domain.TripPatch) error { return domain.ErrNotFound },
	}
	svc := service.NewTripService(r, discardLogger())

	status := "Delivered"
	err := svc.Update(context.Background(), "missing", domain.TripPatch{Status: &status})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Delete tests ----------------------------------------------------------

func TestTripService_Delete_OK(t *testing.T) {
	r := &mockTripRepo{
		delete: func(_ context.Context, _ string) error { return nil },
	}
	svc := service.NewTripService(r, discardLogger())

	assert.NoError(t, svc.Delete(context.Background(), "trip-1"))
}

func TestTripService_Delete_RepoErrorIsReturned(t *testing.T) {
	repoErr := errors.New("backend unavailable")
	r := &mockTripRepo{
		delete: func(_ context.Context, _ string) error { return repoErr },
	}
	svc := service.NewTripService(r, discardLogger())

	assert.ErrorIs(t, svc.Delete(context.Background(), "trip-1"), repoErr)
}
