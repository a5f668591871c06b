package entities

import "time"

// AuditEntry is an append-only record of a pipeline action. Entries
// carry a TTL; failures to write one never alter pipeline state.
type AuditEntry struct {
	LogID       string                 `json:"log_id" db:"id"`
	ProcessID   string                 `json:"process_id" db:"process_id"`
	ActionType  string                 `json:"action_type" db:"action_type"`
	Description string                 `json:"description" db:"description"`
	Data        map[string]interface{} `json:"data,omitempty" db:"data"`
	Timestamp   time.Time              `json:"timestamp" db:"timestamp"`
	ExpiresAt   time.Time              `json:"expires_at" db:"expires_at"`
}
