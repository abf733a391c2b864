package events

// DispatchCompleted is published after a lead sync pass finishes without a
// structural lead-source failure.
type DispatchCompleted struct {
	BaseEvent
	Requested int `json:"requested"`
	Placed    int `json:"placed"`
	Pages     int `json:"pages"`
}

// EventName returns the unique identifier for DispatchCompleted.
func (e DispatchCompleted) EventName() string {
	return "dispatch.completed"
}

// CallSessionEnded is published when the telephony gateway reports a
// terminal call status and the conversation session is evicted.
type CallSessionEnded struct {
	BaseEvent
	CallSID string `json:"callSid"`
	Status  string `json:"status"`
	Turns   int    `json:"turns"`
}

// EventName returns the unique identifier for CallSessionEnded.
func (e CallSessionEnded) EventName() string {
	return "conversation.call_ended"
}
