package events

import (
	"time"

	"github.com/spec-kit/sheet-analytics/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered  EventType = "user_registered"
	EventDatasetIngested EventType = "dataset_ingested"
	EventDatasetDeleted  EventType = "dataset_deleted"
	EventUserModerated   EventType = "user_moderated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// DatasetIngestedPayload payload.
type DatasetIngestedPayload struct {
	DatasetID string `json:"dataset_id"`
	FileName  string `json:"file_name"`
	RowCount  int    `json:"row_count"`
}

// DatasetDeletedPayload payload.
type DatasetDeletedPayload struct {
	DatasetID string `json:"dataset_id"`
}

// UserModeratedPayload payload.
type UserModeratedPayload struct {
	TargetUserID string            `json:"target_user_id"`
	Role         domain.Role       `json:"role"`
	Status       domain.UserStatus `json:"status"`
}
