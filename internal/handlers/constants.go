package handlers

const (
	ErrInvalidJSON         = "Invalid JSON body"
	ErrInvalidCode         = "Invalid code submission"
	ErrLessonNotFound      = "Lesson not found"
	ErrCheckpointNotFound  = "Checkpoint not found"
	ErrChallengeNotFound   = "Challenge not found"
	ErrInvalidCSRFToken    = "Invalid CSRF token"
	ErrTooManyRequests     = "Too many requests, please slow down"
	ErrForbiddenOrigin     = "Origin not allowed"
	ErrInternalServerError = "Internal server error"

	MsgLessonCompleted     = "Lesson completed"
	MsgCheckpointUnlocked  = "Checkpoint unlocked"
	MsgSubmittedGoalMet    = "Result submitted! Checkpoint unlocked."
	MsgSubmittedKeepTrying = "Result submitted, keep optimizing to unlock the checkpoint."

	// extra room for the JSON envelope around submitted code
	jsonEnvelopeBytes = 4 << 10
	smallBodyBytes    = 4 << 10
)
