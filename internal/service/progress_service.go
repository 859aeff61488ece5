package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"codespark/internal/catalog"
	"codespark/internal/credentials"
	"codespark/internal/events"
	"codespark/internal/models"
	"codespark/internal/progress"
	"codespark/internal/simulation"
)

// ProgressStore persists progress per session. Load returns nil, nil for an unknown session.
type ProgressStore interface {
	Load(ctx context.Context, sessionID string) (*progress.State, error)
	Save(ctx context.Context, sessionID string, state *progress.State) error
}

// Learner identifies whose progress an operation runs against. Handle names a
// learner with no stored progress yet; when empty a new handle is generated.
type Learner struct {
	SessionID string
	Handle    string
}

// ProgressService runs academy and arena operations against a session's progress.
// Operations on one session are serialized; different sessions run in parallel.
type ProgressService struct {
	catalog   *catalog.Catalog
	store     ProgressStore
	publisher events.Publisher
	locks     *sessionLocks
	now       func() time.Time
	newHandle func() (string, error)
}

// NewProgressService creates a new progress service
func NewProgressService(cat *catalog.Catalog, store ProgressStore, publisher events.Publisher) *ProgressService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &ProgressService{
		catalog:   cat,
		store:     store,
		publisher: publisher,
		locks:     newSessionLocks(),
		now:       time.Now,
		newHandle: credentials.GenerateHandle,
	}
}

// NewHandle generates a display handle for a new learner
func (s *ProgressService) NewHandle() (string, error) {
	handle, err := s.newHandle()
	if err != nil {
		return "", fmt.Errorf("failed to generate handle: %w", err)
	}
	return handle, nil
}

// Session returns the learner's display handle. Nothing is stored for a new learner.
func (s *ProgressService) Session(ctx context.Context, learner Learner) (string, error) {
	var handle string
	err := s.read(ctx, learner, func(state *progress.State) {
		handle = state.Handle
	})
	return handle, err
}

// Path returns the learning path with statuses and the profile
func (s *ProgressService) Path(ctx context.Context, learner Learner) (models.PathView, error) {
	var view models.PathView
	err := s.read(ctx, learner, func(state *progress.State) {
		view = s.pathView(state)
	})
	return view, err
}

// Profile returns the session's profile summary
func (s *ProgressService) Profile(ctx context.Context, learner Learner) (models.Profile, error) {
	var profile models.Profile
	err := s.read(ctx, learner, func(state *progress.State) {
		profile = state.Profile()
	})
	return profile, err
}

// Lesson returns a lesson's content merged with its path node
func (s *ProgressService) Lesson(lessonID string) (models.LessonView, error) {
	content, err := s.catalog.Lesson(lessonID)
	if err != nil {
		return models.LessonView{}, err
	}

	view := models.LessonView{
		ID:              lessonID,
		DurationMinutes: content.DurationMinutes,
		Cards:           content.Cards,
	}
	if node, ok := s.catalog.Node(lessonID); ok {
		view.Title = node.Title
		view.Skill = node.Skill
		view.RewardXP = node.RewardXP
	}
	return view, nil
}

// CompleteLesson marks a lesson completed for the session
func (s *ProgressService) CompleteLesson(ctx context.Context, learner Learner, lessonID string, stats models.LessonStats) (*models.LessonCompletion, error) {
	var (
		result    models.LessonCompletion
		firstTime bool
	)

	err := s.update(ctx, learner, func(state *progress.State) error {
		firstTime = !state.HasLesson(lessonID)
		delta, err := state.CompleteLesson(s.catalog, lessonID, stats, s.now())
		if err != nil {
			return err
		}
		result = models.LessonCompletion{PathView: s.pathView(state), Progress: delta}
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := events.New(events.LessonCompleted, learner.SessionID, s.now())
	event.NodeID = lessonID
	event.XP = result.Progress.XP
	event.FirstTime = firstTime
	s.publish(ctx, event)

	return &result, nil
}

// CompleteCheckpoint marks a checkpoint completed for the session
func (s *ProgressService) CompleteCheckpoint(ctx context.Context, learner Learner, checkpointID string) (*models.CheckpointCompletion, error) {
	var (
		result    models.CheckpointCompletion
		firstTime bool
	)

	err := s.update(ctx, learner, func(state *progress.State) error {
		firstTime = !state.HasCheckpoint(checkpointID)
		delta, err := state.CompleteCheckpoint(s.catalog, checkpointID, s.now())
		if err != nil {
			return err
		}
		result = models.CheckpointCompletion{PathView: s.pathView(state), Progress: delta}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishCheckpoint(ctx, learner.SessionID, checkpointID, result.Progress.XP, firstTime)
	return &result, nil
}

// Challenges lists the arena challenges with the session's results
func (s *ProgressService) Challenges(ctx context.Context, learner Learner) ([]models.ChallengeWithStatus, error) {
	var challenges []models.ChallengeWithStatus
	err := s.read(ctx, learner, func(state *progress.State) {
		challenges = state.ChallengesWithStatus(s.catalog)
	})
	return challenges, err
}

// Simulate scores code against a challenge without recording anything
func (s *ProgressService) Simulate(challengeID, code string) (models.SimulationResult, error) {
	challenge, err := s.catalog.Challenge(challengeID)
	if err != nil {
		return models.SimulationResult{}, err
	}
	return simulation.Run(challenge, code), nil
}

// Submit scores code, keeps it if it is the session's fastest, and completes
// the challenge's checkpoint when the goal is met.
func (s *ProgressService) Submit(ctx context.Context, learner Learner, challengeID, code string) (*models.SubmitResult, error) {
	challenge, err := s.catalog.Challenge(challengeID)
	if err != nil {
		return nil, err
	}

	sim := simulation.Run(challenge, code)
	meetsGoal := simulation.MeetsGoal(challenge, sim)

	var (
		result          models.SubmitResult
		checkpointFirst bool
	)

	err = s.update(ctx, learner, func(state *progress.State) error {
		now := s.now()
		result = models.SubmitResult{
			Simulation: sim,
			MeetsGoal:  meetsGoal,
			BestResult: state.RecordResult(challenge.ID, code, sim, now),
		}

		if meetsGoal {
			checkpointFirst = !state.HasCheckpoint(challenge.CheckpointID)
			delta, err := state.CompleteCheckpoint(s.catalog, challenge.CheckpointID, now)
			if err != nil {
				return fmt.Errorf("challenge %s: %w", challenge.ID, err)
			}
			result.Checkpoint = &delta
		}

		result.PathView = s.pathView(state)
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := events.New(events.ChallengeSubmitted, learner.SessionID, s.now())
	event.ChallengeID = challenge.ID
	event.XP = result.Profile.XP
	event.Time = sim.Time
	event.MeetsGoal = meetsGoal
	s.publish(ctx, event)

	if result.Checkpoint != nil {
		s.publishCheckpoint(ctx, learner.SessionID, challenge.CheckpointID, result.Checkpoint.XP, checkpointFirst)
	}

	return &result, nil
}

func (s *ProgressService) pathView(state *progress.State) models.PathView {
	return models.PathView{
		Path:    state.PathWithStatus(s.catalog),
		Profile: state.Profile(),
	}
}

// read runs fn against the learner's state. A learner with no stored progress
// reads a fresh state that is not saved.
func (s *ProgressService) read(ctx context.Context, learner Learner, fn func(state *progress.State)) error {
	unlock := s.locks.lock(learner.SessionID)
	defer unlock()

	state, err := s.load(ctx, learner)
	if err != nil {
		return err
	}

	fn(state)
	return nil
}

// update runs fn against the session's state and saves it unless fn fails
func (s *ProgressService) update(ctx context.Context, learner Learner, fn func(state *progress.State) error) error {
	unlock := s.locks.lock(learner.SessionID)
	defer unlock()

	state, err := s.load(ctx, learner)
	if err != nil {
		return err
	}

	if err := fn(state); err != nil {
		return err
	}

	return s.save(ctx, learner.SessionID, state)
}

func (s *ProgressService) load(ctx context.Context, learner Learner) (*progress.State, error) {
	state, err := s.store.Load(ctx, learner.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	if state != nil {
		return state, nil
	}

	handle := learner.Handle
	if handle == "" {
		if handle, err = s.NewHandle(); err != nil {
			return nil, err
		}
	}
	return progress.New(handle, s.now()), nil
}

func (s *ProgressService) save(ctx context.Context, sessionID string, state *progress.State) error {
	if err := s.store.Save(ctx, sessionID, state); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

func (s *ProgressService) publishCheckpoint(ctx context.Context, sessionID, checkpointID string, xp int, firstTime bool) {
	event := events.New(events.CheckpointCompleted, sessionID, s.now())
	event.NodeID = checkpointID
	event.XP = xp
	event.FirstTime = firstTime
	s.publish(ctx, event)
}

// publish delivers an event; failures are logged and never reach the caller
func (s *ProgressService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("Failed to publish %s for session %s: %v", event.Type, event.SessionID, err)
	}
}

// sessionLocks hands out one mutex per session, dropping it once nobody holds or waits on it
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

func (l *sessionLocks) lock(sessionID string) func() {
	l.mu.Lock()
	entry, ok := l.locks[sessionID]
	if !ok {
		entry = &sessionLock{}
		l.locks[sessionID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, sessionID)
		}
		l.mu.Unlock()
	}
}

func (l *sessionLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
