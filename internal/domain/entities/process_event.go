package entities

import "time"

// Process event types published on the event bus after each persisted
// stage transition.
const (
	ProcessEventStarted             = "processing_started"
	ProcessEventDecisionCompleted   = "decision_completed"
	ProcessEventGenerationCompleted = "generation_completed"
	ProcessEventComplianceCompleted = "compliance_completed"
	ProcessEventCompleted           = "processing_completed"
	ProcessEventFailed              = "processing_failed"
)

// ProcessEvent notifies subscribers of a pipeline stage transition.
type ProcessEvent struct {
	ID         string        `json:"id"`
	ProcessID  string        `json:"process_id"`
	DocumentID string        `json:"document_id"`
	EventType  string        `json:"event_type"`
	Status     ProcessStatus `json:"status"`
	OccurredAt time.Time     `json:"occurred_at"`
}
