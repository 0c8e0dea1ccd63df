package models

import "time"

// Record event actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// RecordEvent is the Kafka payload emitted after a successful write.
type RecordEvent struct {
	Action     string    `json:"action"`
	Table      string    `json:"table"`
	ID         string    `json:"id"`
	Owner      string    `json:"owner"`
	OccurredAt time.Time `json:"occurred_at"`
}
