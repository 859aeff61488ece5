// Package progress holds one learner's progress and the rules that change it.
//
// A State is a plain value owned by whoever loaded it. Nothing in this package
// keeps global state, and no method is safe for concurrent use: callers
// serialize access per learner.
package progress

import (
	"time"

	"codespark/internal/catalog"
	"codespark/internal/models"
	"codespark/internal/simulation"
)

const (
	MaxLives      = 3
	initialStreak = 1
)

// State is the mutable progress of one learner
type State struct {
	Handle               string
	CompletedLessons     []string
	CompletedCheckpoints []string
	XP                   int
	Lives                int
	Streak               int
	BestResults          map[string]models.BestResult
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// New returns the starting state for a learner
func New(handle string, now time.Time) *State {
	return &State{
		Handle:      handle,
		Lives:       MaxLives,
		Streak:      initialStreak,
		BestResults: make(map[string]models.BestResult),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Clone returns a deep copy of the state
func (s *State) Clone() *State {
	clone := *s
	clone.CompletedLessons = append([]string(nil), s.CompletedLessons...)
	clone.CompletedCheckpoints = append([]string(nil), s.CompletedCheckpoints...)
	clone.BestResults = make(map[string]models.BestResult, len(s.BestResults))
	for id, best := range s.BestResults {
		best.Path = append([]models.Point(nil), best.Path...)
		clone.BestResults[id] = best
	}
	return &clone
}

// HasLesson reports whether the lesson was completed
func (s *State) HasLesson(id string) bool {
	return contains(s.CompletedLessons, id)
}

// HasCheckpoint reports whether the checkpoint was completed
func (s *State) HasCheckpoint(id string) bool {
	return contains(s.CompletedCheckpoints, id)
}

// PathWithStatus annotates the catalog path with this learner's status.
// Only the first node after the latest completed run is available.
func (s *State) PathWithStatus(c *catalog.Catalog) []models.PathNodeWithStatus {
	path := c.Path()
	result := make([]models.PathNodeWithStatus, 0, len(path))

	lessons := idSet(s.CompletedLessons)
	checkpoints := idSet(s.CompletedCheckpoints)

	nextAvailable := true
	for _, node := range path {
		var completed bool
		if node.Type == catalog.NodeLesson {
			completed = lessons[node.ID]
		} else {
			completed = checkpoints[node.ID]
		}

		var status models.NodeStatus
		switch {
		case completed:
			status = models.StatusCompleted
			nextAvailable = true
		case nextAvailable:
			status = models.StatusAvailable
			nextAvailable = false
		default:
			status = models.StatusLocked
		}

		result = append(result, models.PathNodeWithStatus{PathNode: node, Status: status})
	}

	return result
}

// CheckpointStatus returns the path status of a node, or locked if it is unknown
func (s *State) CheckpointStatus(c *catalog.Catalog, id string) models.NodeStatus {
	for _, node := range s.PathWithStatus(c) {
		if node.ID == id {
			return node.Status
		}
	}
	return models.StatusLocked
}

// CompleteLesson marks a lesson completed. XP and the automatic streak bump
// only apply the first time; client stats apply every time.
func (s *State) CompleteLesson(c *catalog.Catalog, lessonID string, stats models.LessonStats, now time.Time) (models.LessonProgress, error) {
	node, err := c.LessonNode(lessonID)
	if err != nil {
		return models.LessonProgress{}, err
	}

	firstTime := !s.HasLesson(lessonID)
	if firstTime {
		s.CompletedLessons = append(s.CompletedLessons, lessonID)
		s.XP += node.RewardXP
	}

	if stats.HeartsLeft != nil {
		s.Lives = clamp(*stats.HeartsLeft, 0, MaxLives)
	}

	// TODO: reject a client streak lower than the stored one once the client sends day boundaries
	if stats.Streak != nil {
		s.Streak = max(initialStreak, *stats.Streak)
	} else if firstTime {
		s.Streak++
	}

	s.UpdatedAt = now

	return models.LessonProgress{
		XP:               s.XP,
		CompletedLessons: append([]string(nil), s.CompletedLessons...),
		Lives:            s.Lives,
		Streak:           s.Streak,
	}, nil
}

// CompleteCheckpoint marks a checkpoint completed. The first completion
// grants its XP and restores every life; repeats change nothing.
func (s *State) CompleteCheckpoint(c *catalog.Catalog, checkpointID string, now time.Time) (models.CheckpointProgress, error) {
	node, err := c.CheckpointNode(checkpointID)
	if err != nil {
		return models.CheckpointProgress{}, err
	}

	if !s.HasCheckpoint(checkpointID) {
		s.CompletedCheckpoints = append(s.CompletedCheckpoints, checkpointID)
		s.XP += node.RewardXP
		s.Lives = MaxLives
		s.UpdatedAt = now
	}

	return models.CheckpointProgress{
		XP:                   s.XP,
		CompletedCheckpoints: append([]string(nil), s.CompletedCheckpoints...),
		Lives:                s.Lives,
	}, nil
}

// RecordResult keeps the result if it is the first or strictly faster than the
// stored best, and returns whichever result is best afterwards.
func (s *State) RecordResult(challengeID, code string, result models.SimulationResult, now time.Time) models.BestResult {
	if s.BestResults == nil {
		s.BestResults = make(map[string]models.BestResult)
	}

	existing, ok := s.BestResults[challengeID]
	if ok && result.Time >= existing.Time {
		return existing
	}

	best := models.BestResult{
		SimulationResult: result,
		Code:             code,
		SubmittedAt:      now.UTC(),
	}
	s.BestResults[challengeID] = best
	s.UpdatedAt = now
	return best
}

// Profile summarizes the state
func (s *State) Profile() models.Profile {
	return models.Profile{
		Handle:               s.Handle,
		XP:                   s.XP,
		CompletedLessons:     len(s.CompletedLessons),
		CompletedCheckpoints: len(s.CompletedCheckpoints),
		Lives:                s.Lives,
		Streak:               s.Streak,
	}
}

// ChallengesWithStatus lists every challenge with this learner's best result and ranking
func (s *State) ChallengesWithStatus(c *catalog.Catalog) []models.ChallengeWithStatus {
	challenges := c.Challenges()
	result := make([]models.ChallengeWithStatus, 0, len(challenges))

	for _, challenge := range challenges {
		entry := models.ChallengeWithStatus{
			Challenge:        challenge,
			Status:           string(models.StatusAvailable),
			CheckpointStatus: s.CheckpointStatus(c, challenge.CheckpointID),
		}
		if best, ok := s.BestResults[challenge.ID]; ok {
			entry.BestResult = &best
			entry.Ranking = simulation.Rank(&best)
		}
		result = append(result, entry)
	}

	return result
}

func contains(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

// idSet indexes an ordered id list for membership checks
func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// Snapshot returns the persisted form of the state
func (s *State) Snapshot(sessionID string) models.ProgressSnapshot {
	c := s.Clone()
	return models.ProgressSnapshot{
		SessionID:            sessionID,
		Handle:               c.Handle,
		XP:                   c.XP,
		Lives:                c.Lives,
		Streak:               c.Streak,
		CompletedLessons:     c.CompletedLessons,
		CompletedCheckpoints: c.CompletedCheckpoints,
		BestResults:          c.BestResults,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
}

// FromSnapshot rebuilds a state from its persisted form
func FromSnapshot(snap models.ProgressSnapshot) *State {
	s := &State{
		Handle:               snap.Handle,
		CompletedLessons:     snap.CompletedLessons,
		CompletedCheckpoints: snap.CompletedCheckpoints,
		XP:                   snap.XP,
		Lives:                snap.Lives,
		Streak:               snap.Streak,
		BestResults:          snap.BestResults,
		CreatedAt:            snap.CreatedAt,
		UpdatedAt:            snap.UpdatedAt,
	}
	if s.BestResults == nil {
		s.BestResults = make(map[string]models.BestResult)
	}
	return s.Clone()
}
