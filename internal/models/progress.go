package models

import "codespark/internal/catalog"

// NodeStatus is the derived state of a path node for one learner
type NodeStatus string

const (
	StatusLocked    NodeStatus = "locked"
	StatusAvailable NodeStatus = "available"
	StatusCompleted NodeStatus = "completed"
)

// PathNodeWithStatus is a catalog node annotated with the learner's status
type PathNodeWithStatus struct {
	catalog.PathNode
	Status NodeStatus `json:"status"`
}

// Profile is the summary shown next to the learning path
type Profile struct {
	Handle               string `json:"handle"`
	XP                   int    `json:"xp"`
	CompletedLessons     int    `json:"completedLessons"`
	CompletedCheckpoints int    `json:"completedCheckpoints"`
	Lives                int    `json:"lives"`
	Streak               int    `json:"streak"`
}

// LessonStats are optional client-reported values sent when a lesson is finished
type LessonStats struct {
	HeartsLeft *int `json:"heartsLeft,omitempty"`
	Streak     *int `json:"streak,omitempty"`
}

// LessonProgress is returned after completing a lesson
type LessonProgress struct {
	XP               int      `json:"xp"`
	CompletedLessons []string `json:"completedLessons"`
	Lives            int      `json:"lives"`
	Streak           int      `json:"streak"`
}

// CheckpointProgress is returned after completing a checkpoint
type CheckpointProgress struct {
	XP                   int      `json:"xp"`
	CompletedCheckpoints []string `json:"completedCheckpoints"`
	Lives                int      `json:"lives"`
}

// LessonView is a lesson's content merged with its path node
type LessonView struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Skill           string         `json:"skill"`
	DurationMinutes int            `json:"durationMinutes"`
	Cards           []catalog.Card `json:"cards"`
	RewardXP        int            `json:"rewardXp"`
}

// ChallengeWithStatus is a challenge annotated with the learner's results
type ChallengeWithStatus struct {
	catalog.Challenge
	Status           string      `json:"status"`
	BestResult       *BestResult `json:"bestResult,omitempty"`
	Ranking          *Ranking    `json:"ranking"`
	CheckpointStatus NodeStatus  `json:"checkpointStatus"`
}
