package handlers

import "net/http"

// NewRouter wires the API routes and the middleware chain
func NewRouter(academy *AcademyHandler, arena *ArenaHandler, session *SessionHandler, middleware *Middleware, corsOrigins []string) http.Handler {
	api := http.NewServeMux()

	api.HandleFunc("GET /api/session", session.Session)

	api.HandleFunc("GET /api/academy/path", academy.Path)
	api.HandleFunc("GET /api/academy/lessons/{lessonId}", academy.Lesson)
	api.HandleFunc("POST /api/academy/lessons/{lessonId}/complete", middleware.CSRFProtect(academy.CompleteLesson))
	api.HandleFunc("POST /api/academy/checkpoints/{checkpointId}/complete", middleware.CSRFProtect(academy.CompleteCheckpoint))

	api.HandleFunc("GET /api/arena/challenges", arena.Challenges)
	api.HandleFunc("POST /api/arena/challenges/{challengeId}/simulate", middleware.RateLimit(middleware.CSRFProtect(arena.Simulate)))
	api.HandleFunc("POST /api/arena/challenges/{challengeId}/submit", middleware.RateLimit(middleware.CSRFProtect(arena.Submit)))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", Health)
	mux.Handle("/api/", middleware.Sessions(api))

	return Logging(CORS(corsOrigins)(mux))
}
