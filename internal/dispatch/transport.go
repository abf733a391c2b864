package dispatch

import (
	"time"

	"dialer_backend/internal/contacted"
)

// SyncResponse reports the outcome of one dispatch pass.
type SyncResponse struct {
	Placed  int    `json:"placed"`
	Message string `json:"message"`
}

// LogLeadRequest is the explicit lead logging payload.
type LogLeadRequest struct {
	Phone      string                     `json:"phone" validate:"required,e164"`
	Address    string                     `json:"address"`
	CallTime   *time.Time                 `json:"callTime"`
	Tags       []string                   `json:"tags"`
	Status     string                     `json:"status"`
	Summary    string                     `json:"summary"`
	Transcript []contacted.TranscriptTurn `json:"transcript"`
}

func (r LogLeadRequest) toCreateParams() contacted.CreateParams {
	params := contacted.CreateParams{
		Phone:      r.Phone,
		Address:    r.Address,
		Tags:       r.Tags,
		Status:     r.Status,
		Summary:    r.Summary,
		Transcript: r.Transcript,
	}
	if r.CallTime != nil {
		params.CallTime = *r.CallTime
	}
	if params.Address == "" {
		params.Address = "Unknown"
	}
	if params.Status == "" {
		params.Status = contacted.StatusNotContacted
	}
	return params
}
