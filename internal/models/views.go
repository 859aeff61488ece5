package models

// PathView is the learning path with the learner's profile
type PathView struct {
	Path    []PathNodeWithStatus `json:"path"`
	Profile Profile              `json:"profile"`
}

// LessonCompletion is the outcome of completing a lesson
type LessonCompletion struct {
	PathView
	Progress LessonProgress `json:"progress"`
}

// CheckpointCompletion is the outcome of completing a checkpoint
type CheckpointCompletion struct {
	PathView
	Progress CheckpointProgress `json:"progress"`
}

// SubmitResult is the outcome of submitting code to a challenge.
// Checkpoint is set only when the submission met the goal.
type SubmitResult struct {
	PathView
	Simulation SimulationResult    `json:"simulation"`
	MeetsGoal  bool                `json:"meetsGoal"`
	BestResult BestResult          `json:"bestResult"`
	Checkpoint *CheckpointProgress `json:"checkpoint,omitempty"`
}
