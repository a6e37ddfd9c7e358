package domain

// Stat is one tile in the dashboard statistics grid.
type Stat struct {
	Title string `json:"title"`
	Value int    `json:"value"`
}

// RecentTrip is a trip as shown in the dashboard's recent list, with a
// relative time label computed from CreatedAt when the dashboard is read.
type RecentTrip struct {
	Trip
	RelativeTime string `json:"relativeTime"`
}

// Dashboard is the full dashboard view for one user.
type Dashboard struct {
	Email       string       `json:"email"`
	Stats       []Stat       `json:"stats"`
	RecentTrips []RecentTrip `json:"recentTrips"`
}
