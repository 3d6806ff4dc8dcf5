// Package audit records who did what on the platform: profile completions,
// moderation decisions, privacy erasures. Events always land in the in-memory
// trail; a Kafka sink can be attached for durable shipping.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action identifies what happened.
type Action string

const (
	ActionProfileCompleted   Action = "profile.completed"
	ActionProfileDeleted     Action = "profile.deleted"
	ActionDataExported       Action = "privacy.data_exported"
	ActionSubmissionDecided  Action = "moderation.submission_decided"
	ActionSubmissionReceived Action = "moderation.submission_received"
)

// Event is one audit record. Detail carries small, non-sensitive context;
// never put full documents in it.
type Event struct {
	ID      uuid.UUID         `json:"id"`
	Time    time.Time         `json:"time"`
	Actor   string            `json:"actor"`
	Action  Action            `json:"action"`
	Subject string            `json:"subject,omitempty"`
	Detail  map[string]string `json:"detail,omitempty"`
}

// NewEvent stamps an event with an ID and the current time.
func NewEvent(actor string, action Action, subject string, detail map[string]string) Event {
	return Event{
		ID:      uuid.New(),
		Time:    time.Now().UTC(),
		Actor:   actor,
		Action:  action,
		Subject: subject,
		Detail:  detail,
	}
}
