// Package models defines the moderation queue types.
package models

import (
	"time"

	"github.com/google/uuid"

	dErrors "quire/pkg/domain-errors"
)

// Status is a submission's position in the moderation lifecycle.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Verdict is the decision a moderator hands down.
type Verdict string

const (
	VerdictApprove Verdict = "approve"
	VerdictReject  Verdict = "reject"
)

// ParseVerdict validates a verdict from external input.
func ParseVerdict(s string) (Verdict, error) {
	switch Verdict(s) {
	case VerdictApprove:
		return VerdictApprove, nil
	case VerdictReject:
		return VerdictReject, nil
	default:
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid verdict %q", s)
	}
}

// Submission is one manuscript awaiting (or past) moderation.
type Submission struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Abstract    string    `json:"abstract"`
	SubmitterID string    `json:"submitterId"`
	Status      Status    `json:"status"`
	SubmittedAt time.Time `json:"submittedAt"`

	DecidedBy  string    `json:"decidedBy,omitempty"`
	DecidedAt  time.Time `json:"decidedAt,omitzero"`
	ReviewNote string    `json:"reviewNote,omitempty"`
}
