package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/truck-tracker/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgTripRepo is the Postgres implementation of TripRepo.
// Trips live in a JSONB document table so the schema stays as flexible as
// the Mongo collection; only id and created_at are real columns.
type pgTripRepo struct {
	db db
}

// NewPgTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPgTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// Create inserts a new document. created_at comes from the column default.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (string, error) {
	const q = `
		INSERT INTO trips (doc)
		VALUES (@doc::jsonb)
		RETURNING id`

	doc, err := json.Marshal(fieldsFromTrip(trip, pgTime))
	if err != nil {
		return "", fmt.Errorf("repo.PgTripRepo.Create: encode: %w", err)
	}

	var id pgtype.UUID
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"doc": string(doc)}).Scan(&id); err != nil {
		return "", fmt.Errorf("repo.PgTripRepo.Create: %w", err)
	}
	return uuid.UUID(id.Bytes).String(), nil
}

// List returns trips ordered by created_at descending (newest first).
func (r *pgTripRepo) List(ctx context.Context, owner string) ([]domain.Trip, error) {
	const q = `
		SELECT id, doc, created_at
		FROM trips
		WHERE (@owner = '' OR doc->>'userId' = @owner)
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"owner": owner})
	if err != nil {
		return nil, fmt.Errorf("repo.PgTripRepo.List: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PgTripRepo.List: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PgTripRepo.List: rows: %w", err)
	}
	return trips, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id string) (domain.Trip, error) {
	const q = `
		SELECT id, doc, created_at
		FROM trips
		WHERE id = @id`

	uid, err := uuid.Parse(id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.PgTripRepo.GetByID: %w", domain.ErrNotFound)
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": uid}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.PgTripRepo.GetByID: %w", err)
	}
	return result, nil
}

// Update merges the patch into the stored document with jsonb concatenation,
// which overwrites the given keys and keeps every other key.
func (r *pgTripRepo) Update(ctx context.Context, id string, patch domain.TripPatch) error {
	const q = `
		UPDATE trips
		SET doc = doc || @patch::jsonb
		WHERE id = @id`

	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("repo.PgTripRepo.Update: %w", domain.ErrNotFound)
	}

	b, err := json.Marshal(fieldsFromPatch(patch, pgTime))
	if err != nil {
		return fmt.Errorf("repo.PgTripRepo.Update: encode: %w", err)
	}

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": uid, "patch": string(b)})
	if err != nil {
		return fmt.Errorf("repo.PgTripRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PgTripRepo.Update: %w", domain.ErrNotFound)
	}
	return nil
}

// Delete removes a trip by primary key.
func (r *pgTripRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM trips WHERE id = @id`

	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("repo.PgTripRepo.Delete: %w", domain.ErrNotFound)
	}

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": uid})
	if err != nil {
		return fmt.Errorf("repo.PgTripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PgTripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanTrip to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps one (id, doc, created_at) row into a domain.Trip.
// The created_at column always wins over any createdAt key inside doc.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		id        pgtype.UUID
		raw       []byte
		createdAt time.Time
	)

	if err := s.Scan(&id, &raw, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	fields := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &fields); err != nil {
			return domain.Trip{}, fmt.Errorf("decode doc: %w", err)
		}
	}
	fields[fieldCreatedAt] = createdAt

	return tripFromFields(uuid.UUID(id.Bytes).String(), fields), nil
}

// pgTime stores times inside the JSONB document as RFC 3339 strings.
func pgTime(t time.Time) any {
	return t.UTC().Format(time.RFC3339Nano)
}
