package scheduler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// TaskDispatchPass runs one lead sync pass with the configured default budget.
const TaskDispatchPass = "dispatch.pass"

// DispatchPassPayload carries the budget for a scheduled pass. A zero
// MaxCalls uses the dispatcher's configured default.
type DispatchPassPayload struct {
	MaxCalls int `json:"maxCalls"`
}

// NewDispatchPassTask builds the asynq task for one dispatch pass.
func NewDispatchPassTask(payload DispatchPassPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDispatchPass, data), nil
}

// NextPassTime returns the first interval boundary after now. Passes run on
// a fixed grid so every scheduling site computes the same slot for the same
// window; combined with per-slot task IDs, duplicate enqueues collapse onto
// one task instead of forking parallel chains.
func NextPassTime(now time.Time, interval time.Duration) time.Time {
	return now.Truncate(interval).Add(interval)
}

func passTaskID(runAt time.Time) string {
	return fmt.Sprintf("%s:%d", TaskDispatchPass, runAt.UTC().Unix())
}

// ParseDispatchPassPayload decodes a dispatch pass task payload.
func ParseDispatchPassPayload(task *asynq.Task) (DispatchPassPayload, error) {
	var payload DispatchPassPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return DispatchPassPayload{}, err
	}
	return payload, nil
}
