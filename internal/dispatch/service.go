package dispatch

import (
	"context"
	"time"

	"dialer_backend/internal/contacted"
	"dialer_backend/internal/events"
	"dialer_backend/internal/leadsource"
	"dialer_backend/platform/apperr"
	"dialer_backend/platform/config"
	"dialer_backend/platform/logger"
	"dialer_backend/platform/phone"
)

// Service runs lead sync passes. One pass is a single logical unit; passes
// are not coordinated against each other, so the budget is only meaningful
// with at most one pass in flight.
type Service struct {
	source LeadSource
	placer CallPlacer
	store  LeadStore
	bus    events.Bus
	log    *logger.Logger

	pageSize      int
	defaultLimit  int
	allowedPrefix string
}

// NewService creates the dispatcher with its injected collaborators.
func NewService(source LeadSource, placer CallPlacer, store LeadStore, bus events.Bus, cfg config.DispatchConfig, log *logger.Logger) *Service {
	return &Service{
		source:        source,
		placer:        placer,
		store:         store,
		bus:           bus,
		log:           log,
		pageSize:      cfg.GetDispatchPageSize(),
		defaultLimit:  cfg.GetDispatchDefaultLimit(),
		allowedPrefix: cfg.GetDispatchAllowedPrefix(),
	}
}

// Sync pages candidate leads and processes qualifying phones until the
// budget is spent or the catalog is exhausted. Each processed candidate is
// persisted before the dial attempt; store and placement failures are
// isolated per candidate. A lead-source failure aborts the whole pass.
//
// The returned count is candidates processed to completion, whether or not
// the dial itself succeeded; a record exists for each.
func (s *Service) Sync(ctx context.Context, maxCalls int) (int, error) {
	if s.source == nil {
		return 0, apperr.Upstream("lead source is not configured")
	}

	if maxCalls < 1 {
		maxCalls = s.defaultLimit
	}

	placed := 0
	pages := 0

	for page := 1; placed < maxCalls; page++ {
		leads, err := s.source.ListProperties(ctx, page, s.pageSize)
		if err != nil {
			s.log.Error("lead source listing failed, aborting pass", "page", page, "error", err)
			return 0, apperr.Wrap(apperr.KindUpstream, "failed to sync leads", err)
		}
		if len(leads) == 0 {
			break
		}

		pages++
		s.log.Debug("lead page fetched", "page", page, "leads", len(leads))

		for _, lead := range leads {
			placed += s.processLead(ctx, lead, maxCalls-placed)
			if placed >= maxCalls {
				break
			}
		}
	}

	s.log.Info("dispatch pass complete", "placed", placed, "requested", maxCalls, "pages", pages)
	s.bus.Publish(ctx, events.DispatchCompleted{
		BaseEvent: events.NewBaseEvent(),
		Requested: maxCalls,
		Placed:    placed,
		Pages:     pages,
	})

	return placed, nil
}

// processLead handles up to budget candidate phones on one lead and returns
// how many were processed.
func (s *Service) processLead(ctx context.Context, lead leadsource.Property, budget int) int {
	processed := 0
	for _, candidate := range candidatePhones(lead) {
		if processed >= budget {
			break
		}

		if candidate.DoNotCall {
			s.log.Debug("skipping do-not-call number", "number", candidate.Number)
			continue
		}
		if !phone.IsDialable(candidate.Number, s.allowedPrefix) {
			s.log.Debug("skipping non-dialable number", "number", candidate.Number)
			continue
		}

		s.contactCandidate(ctx, lead, candidate.Number)
		processed++
	}
	return processed
}

// contactCandidate logs the lead and then attempts the dial. The record is
// written first so it survives a placement failure; neither failure aborts
// the pass.
func (s *Service) contactCandidate(ctx context.Context, lead leadsource.Property, number string) {
	address := lead.Address
	if address == "" {
		address = "Unknown"
	}

	_, err := s.store.Insert(ctx, contacted.CreateParams{
		Phone:      number,
		Address:    address,
		CallTime:   time.Now().UTC(),
		Tags:       lead.Tags,
		Status:     contacted.StatusNotContacted,
		Summary:    "",
		Transcript: []contacted.TranscriptTurn{},
	})
	if err != nil {
		s.log.Error("failed to log contacted lead", "number", number, "error", err)
	}

	if err := s.placer.PlaceCall(ctx, number); err != nil {
		s.log.Error("call placement failed", "number", number, "error", err)
		return
	}

	s.log.Info("call queued for lead", "number", number, "address", address)
}

// candidatePhones computes the phone list for one lead: the owner's phones
// when present, otherwise the first contact's phone synthesized as a single
// diallable entry.
func candidatePhones(lead leadsource.Property) []leadsource.Phone {
	if lead.Owner != nil && len(lead.Owner.Phones) > 0 {
		return lead.Owner.Phones
	}

	if len(lead.Contacts) > 0 && lead.Contacts[0].Phone != "" {
		return []leadsource.Phone{{Number: lead.Contacts[0].Phone, DoNotCall: false}}
	}

	return nil
}
