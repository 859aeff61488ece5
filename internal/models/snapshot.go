package models

import "time"

// ProgressSnapshot is the persisted form of one session's progress
type ProgressSnapshot struct {
	SessionID            string                `json:"sessionId"`
	Handle               string                `json:"handle"`
	XP                   int                   `json:"xp"`
	Lives                int                   `json:"lives"`
	Streak               int                   `json:"streak"`
	CompletedLessons     []string              `json:"completedLessons"`
	CompletedCheckpoints []string              `json:"completedCheckpoints"`
	BestResults          map[string]BestResult `json:"bestResults"`
	CreatedAt            time.Time             `json:"createdAt"`
	UpdatedAt            time.Time             `json:"updatedAt"`
}
