package contacted

import "time"

// LeadResponse is the JSON shape returned to operators.
type LeadResponse struct {
	ID         string           `json:"id"`
	Phone      string           `json:"phone"`
	Address    string           `json:"address"`
	CallTime   time.Time        `json:"callTime"`
	Tags       []string         `json:"tags"`
	Status     string           `json:"status"`
	Summary    string           `json:"summary"`
	Transcript []TranscriptTurn `json:"transcript"`
}

// ListResponse wraps a page of contacted leads.
type ListResponse struct {
	Items []LeadResponse `json:"items"`
	Total int64          `json:"total"`
}

func toLeadResponse(lead Lead) LeadResponse {
	return LeadResponse{
		ID:         lead.ID.String(),
		Phone:      lead.Phone,
		Address:    lead.Address,
		CallTime:   lead.CallTime,
		Tags:       lead.Tags,
		Status:     lead.Status,
		Summary:    lead.Summary,
		Transcript: lead.Transcript,
	}
}
