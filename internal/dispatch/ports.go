// Package dispatch orchestrates lead sync passes: page candidates from the
// catalog, select dialable phones, persist a contacted-lead record, and
// place rate-limited outbound calls up to a caller-supplied budget.
package dispatch

import (
	"context"

	"dialer_backend/internal/contacted"
	"dialer_backend/internal/leadsource"
)

// LeadSource fetches one page of candidate leads from the external catalog.
type LeadSource interface {
	ListProperties(ctx context.Context, page, pageSize int) ([]leadsource.Property, error)
}

// CallPlacer requests initiation of one outbound call.
type CallPlacer interface {
	PlaceCall(ctx context.Context, to string) error
}

// LeadStore persists one contacted-lead record.
type LeadStore interface {
	Insert(ctx context.Context, params contacted.CreateParams) (contacted.Lead, error)
}
