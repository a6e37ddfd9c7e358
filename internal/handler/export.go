package handler

import (
	"bytes"
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/pkordes/truck-tracker/internal/auth"
	"github.com/pkordes/truck-tracker/internal/domain"
)

// csvHeaders defines the column names written as the first row of the export.
var csvHeaders = []string{
	"id", "truck", "status", "time", "bid_no", "quantity", "driver_name",
	"company_name", "item_type", "from_plant", "to_plant", "fuel_filled",
	"departure_time", "arrival_time", "created_at", "user_id",
}

// ExportTrips handles GET /trips/export.
// Returns the trip log as CSV, newest first. Like ListTrips it honours
// ?mine=true, and an unreadable store produces a header-only file.
func (s *Server) ExportTrips(w http.ResponseWriter, r *http.Request) {
	mine, err := queryBool(r, "mine")
	if err != nil {
		requestError(w, err)
		return
	}
	owner := ""
	if mine {
		owner = auth.UserFromContext(r.Context()).ID
	}

	body := buildCSV(s.trips.List(r.Context(), owner))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="trips.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := body.WriteTo(w); err != nil {
		slog.WarnContext(r.Context(), "write export", "error", err)
	}
}

func buildCSV(trips []domain.Trip) *bytes.Buffer {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	w.Write(csvHeaders)
	for _, t := range trips {
		//nolint:errcheck
		w.Write(tripToCSVRecord(t))
	}
	w.Flush()
	return &buf
}

// tripToCSVRecord flattens a trip. An ongoing trip has an empty arrival_time.
func tripToCSVRecord(t domain.Trip) []string {
	return []string{
		t.ID,
		t.Truck,
		t.Status,
		t.Time,
		t.BidNo,
		t.Quantity,
		t.DriverName,
		t.CompanyName,
		t.ItemType,
		t.FromPlant,
		t.ToPlant,
		t.FuelFilled,
		formatTime(&t.DepartureTime),
		formatTime(t.ArrivalTime),
		formatTime(&t.CreatedAt),
		t.UserID,
	}
}

// formatTime returns the RFC3339 representation of t, or "" if t is nil.
func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
