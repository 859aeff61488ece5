package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"codespark/internal/security"
	"codespark/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const SessionContextKey ContextKey = "session"

// Session identifies the learner behind a request
type Session struct {
	ID     string
	Handle string
}

// Learner returns the progress identity of the session
func (s Session) Learner() service.Learner {
	return service.Learner{SessionID: s.ID, Handle: s.Handle}
}

// Middleware holds dependencies for middleware functions
type Middleware struct {
	sessions    *security.SessionManager
	csrf        *security.CSRFGenerator
	csrfEnabled bool
	limiter     *security.RateLimiter
	progress    *service.ProgressService
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(sessions *security.SessionManager, csrf *security.CSRFGenerator, csrfEnabled bool, limiter *security.RateLimiter, progress *service.ProgressService) *Middleware {
	return &Middleware{
		sessions:    sessions,
		csrf:        csrf,
		csrfEnabled: csrfEnabled,
		limiter:     limiter,
		progress:    progress,
	}
}

// Sessions attaches the learner session to every request. A missing, forged or
// expired cookie starts a new session and sets a fresh cookie. Nothing is stored
// for the new session until it first changes progress.
func (m *Middleware) Sessions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(security.SessionCookieName); err == nil {
			claims, err := m.sessions.Parse(cookie.Value)
			if err == nil {
				session := Session{ID: claims.Subject, Handle: claims.Handle}
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), SessionContextKey, session)))
				return
			}
		}

		handle, err := m.progress.NewHandle()
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to start session", err)
			return
		}
		session := Session{ID: security.GenerateSessionID(), Handle: handle}

		token, expires, err := m.sessions.Issue(session.ID, session.Handle)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to issue session", err)
			return
		}
		http.SetCookie(w, security.CreateSessionCookie(r, security.SessionCookieName, token, expires))

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), SessionContextKey, session)))
	})
}

// CSRFProtect requires a valid X-CSRF-Token header when CSRF protection is enabled
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.csrfEnabled {
			session, ok := GetSessionFromContext(r.Context())
			if !ok || !m.csrf.ValidateToken(session.ID, r.Header.Get(security.CSRFTokenHeader)) {
				respondWithError(w, http.StatusForbidden, ErrInvalidCSRFToken, "", nil)
				return
			}
		}
		next(w, r)
	}
}

// RateLimit limits requests per client IP
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.limiter.Allow(security.GetClientIP(r)) {
			w.Header().Set("Retry-After", retryAfter(m.limiter.Window()))
			respondWithError(w, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
			return
		}
		next(w, r)
	}
}

// CSRFToken returns the token for the session, or "" when CSRF protection is off
func (m *Middleware) CSRFToken(sessionID string) (string, error) {
	if !m.csrfEnabled {
		return "", nil
	}
	return m.csrf.GenerateToken(sessionID)
}

// CORS allows cross-origin requests from the configured origins; "*" allows any
func CORS(origins []string) func(http.Handler) http.Handler {
	allowAll := false
	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAll || allowed[origin]) {
				// Cookies need an echoed origin, never the wildcard
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if origin != "" && !allowAll && !allowed[origin] {
					respondWithError(w, http.StatusForbidden, ErrForbiddenOrigin, "", nil)
					return
				}
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+security.CSRFTokenHeader)
				w.Header().Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		log.Printf("%s %s %d %s", r.Method, r.URL.Path, recorder.status, time.Since(start))
	})
}

// GetSessionFromContext retrieves the session from the request context
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(SessionContextKey).(Session)
	return session, ok
}

func retryAfter(window time.Duration) string {
	return strconv.Itoa(max(1, int(window.Seconds())))
}
