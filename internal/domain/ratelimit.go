package domain

import "time"

// Action identifies a rate-limited operation type.
type Action string

// Rate-limited actions.
const (
	ActionComment    Action = "comment"
	ActionCreatePost Action = "create_post"
	ActionDedication Action = "dedication"
	ActionReport     Action = "report"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionComment, ActionCreatePost, ActionDedication, ActionReport:
		return true
	}
	return false
}

// RateLimitRecord is the persisted counter for one (identifier, action) pair.
// The record is created on the identifier's first request and mutated on
// every subsequent one; it is never deleted by the service.
type RateLimitRecord struct {
	Identifier   string    `db:"identifier"    json:"identifier"`
	Action       Action    `db:"action_type"   json:"action_type"`
	WindowStart  time.Time `db:"window_start"  json:"window_start"`
	RequestCount int       `db:"request_count" json:"request_count"`
}
