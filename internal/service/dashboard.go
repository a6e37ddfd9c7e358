package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pkordes/truck-tracker/internal/domain"
)

// Dashboard stat titles, in display order.
const (
	StatTotalTrucks   = "Total Trucks"
	StatActiveTrips   = "Active Trips"
	StatDriversOnTrip = "Drivers On Trip"
	StatPendingLoads  = "Pending Loads"
)

// DefaultRecentTrips is how many trips the dashboard shows when the caller
// does not ask for a specific number. MaxRecentTrips caps the request.
const (
	DefaultRecentTrips = 5
	MaxRecentTrips     = 50
)

// tripLister is the slice of TripService the dashboard reads from.
type tripLister interface {
	List(ctx context.Context, owner string) []domain.Trip
}

// DashboardService builds the dashboard view from the Trip Store.
// It keeps no trip list of its own: every call re-reads the store, so a trip
// added through TripService.Create shows up on the next dashboard read.
type DashboardService struct {
	trips tripLister
	now   func() time.Time
}

// NewDashboardService constructs a DashboardService reading from trips.
// now is the clock used for relative times and pending loads; nil means time.Now.
func NewDashboardService(trips tripLister, now func() time.Time) *DashboardService {
	if now == nil {
		now = time.Now
	}
	return &DashboardService{trips: trips, now: now}
}

// Dashboard returns statistics over all trips and the newest recent trips.
// recent outside 1..MaxRecentTrips falls back to DefaultRecentTrips or the cap.
func (s *DashboardService) Dashboard(ctx context.Context, user domain.User, recent int) domain.Dashboard {
	switch {
	case recent <= 0:
		recent = DefaultRecentTrips
	case recent > MaxRecentTrips:
		recent = MaxRecentTrips
	}

	trips := s.trips.List(ctx, "")
	now := s.now()

	email := user.Email
	if email == "" {
		email = "User"
	}

	out := domain.Dashboard{
		Email:       email,
		Stats:       computeStats(trips, now),
		RecentTrips: make([]domain.RecentTrip, 0, min(recent, len(trips))),
	}
	for _, t := range trips[:min(recent, len(trips))] {
		out.RecentTrips = append(out.RecentTrips, domain.RecentTrip{
			Trip:         t,
			RelativeTime: RelativeTime(t.CreatedAt, now),
		})
	}
	return out
}

func computeStats(trips []domain.Trip, now time.Time) []domain.Stat {
	trucks := map[string]struct{}{}
	drivers := map[string]struct{}{}
	var active, pending int

	for _, t := range trips {
		if t.Truck != "" {
			trucks[t.Truck] = struct{}{}
		}
		if t.Ongoing() {
			active++
			if t.DriverName != "" {
				drivers[t.DriverName] = struct{}{}
			}
		}
		if t.DepartureTime.After(now) {
			pending++
		}
	}

	return []domain.Stat{
		{Title: StatTotalTrucks, Value: len(trucks)},
		{Title: StatActiveTrips, Value: active},
		{Title: StatDriversOnTrip, Value: len(drivers)},
		{Title: StatPendingLoads, Value: pending},
	}
}

// RelativeTime renders how long ago t was, as seen at now:
// "Just now", "1 minute ago", "3 hours ago", "2 days ago".
// Times in the future also read "Just now".
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return justNow
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour")
	default:
		return plural(int(d/(24*time.Hour)), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
