// Package events publishes progress events to interested consumers.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type names a progress event
type Type string

const (
	LessonCompleted     Type = "lesson.completed"
	CheckpointCompleted Type = "checkpoint.completed"
	ChallengeSubmitted  Type = "challenge.submitted"
)

// Event is one progress change of one session
type Event struct {
	ID          uuid.UUID `json:"id"`
	Type        Type      `json:"type"`
	SessionID   string    `json:"sessionId"`
	NodeID      string    `json:"nodeId,omitempty"`
	ChallengeID string    `json:"challengeId,omitempty"`
	XP          int       `json:"xp"`
	FirstTime   bool      `json:"firstTime,omitempty"`
	Time        int       `json:"time,omitempty"`
	MeetsGoal   bool      `json:"meetsGoal,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// New returns an event of the given type with a fresh id
func New(eventType Type, sessionID string, now time.Time) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		SessionID:  sessionID,
		OccurredAt: now.UTC(),
	}
}

// Publisher delivers events
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event Event) error { return nil }

func (NopPublisher) Close() error { return nil }
