// Package contacted persists the record kept for every lead the dispatcher
// reaches out to, and exposes it to operators.
package contacted

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a contacted lead does not exist.
var ErrNotFound = errors.New("contacted lead not found")

// StatusNotContacted is the status every record starts with; the write
// happens before the dial attempt.
const StatusNotContacted = "Not contacted yet"

// TranscriptTurn mirrors one conversation turn in the persisted transcript.
type TranscriptTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Lead is one persisted contacted-lead row. Rows are written once and never
// mutated; post-call updates are out of scope.
type Lead struct {
	ID         uuid.UUID
	Phone      string
	Address    string
	CallTime   time.Time
	Tags       []string
	Status     string
	Summary    string
	Transcript []TranscriptTurn
	CreatedAt  time.Time
}

// CreateParams are the fields for one contacted-lead insert.
type CreateParams struct {
	Phone      string
	Address    string
	CallTime   time.Time
	Tags       []string
	Status     string
	Summary    string
	Transcript []TranscriptTurn
}

// Repository stores contacted leads in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a repository over the given pool.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert persists one contacted lead. Missing optional fields are defaulted:
// empty call time becomes now, nil tags an empty list, nil transcript an
// empty array.
func (r *Repository) Insert(ctx context.Context, params CreateParams) (Lead, error) {
	if params.CallTime.IsZero() {
		params.CallTime = time.Now().UTC()
	}
	if params.Tags == nil {
		params.Tags = []string{}
	}
	if params.Transcript == nil {
		params.Transcript = []TranscriptTurn{}
	}

	transcript, err := json.Marshal(params.Transcript)
	if err != nil {
		return Lead{}, err
	}

	var lead Lead
	var rawTranscript []byte
	err = r.pool.QueryRow(ctx, `
		INSERT INTO contacted_leads (phone, address, call_time, tags, status, summary, transcript)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, phone, address, call_time, tags, status, summary, transcript, created_at
	`,
		params.Phone, params.Address, params.CallTime, params.Tags, params.Status, params.Summary, transcript,
	).Scan(
		&lead.ID, &lead.Phone, &lead.Address, &lead.CallTime, &lead.Tags,
		&lead.Status, &lead.Summary, &rawTranscript, &lead.CreatedAt,
	)
	if err != nil {
		return Lead{}, err
	}

	if err := json.Unmarshal(rawTranscript, &lead.Transcript); err != nil {
		return Lead{}, err
	}

	return lead, nil
}

// List returns contacted leads newest first.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, phone, address, call_time, tags, status, summary, transcript, created_at
		FROM contacted_leads
		ORDER BY call_time DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		var lead Lead
		var rawTranscript []byte
		if err := rows.Scan(
			&lead.ID, &lead.Phone, &lead.Address, &lead.CallTime, &lead.Tags,
			&lead.Status, &lead.Summary, &rawTranscript, &lead.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(rawTranscript, &lead.Transcript); err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return leads, nil
}

// Count returns the total number of contacted leads.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contacted_leads`).Scan(&total)
	return total, err
}
