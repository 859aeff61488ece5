package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
)

// CSRFTokenHeader is the request header carrying the token on unsafe methods
const CSRFTokenHeader = "X-CSRF-Token"

// CSRFGenerator issues stateless, expiring CSRF tokens bound to a session.
// A token is "<expiry unix>.<HMAC-SHA256(session|expiry)>", so any replica
// holding the same key validates it without shared storage.
type CSRFGenerator struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewCSRFGenerator creates a generator whose tokens stay valid for ttl
func NewCSRFGenerator(key []byte, ttl time.Duration) *CSRFGenerator {
	return &CSRFGenerator{key: key, ttl: ttl, now: time.Now}
}

// GenerateToken returns a fresh token for the session
func (g *CSRFGenerator) GenerateToken(sessionID string) (string, error) {
	if sessionID == "" {
		return "", errors.New("session ID is required")
	}
	expires := strconv.FormatInt(g.now().Add(g.ttl).Unix(), 10)
	return expires + "." + g.sign(sessionID, expires), nil
}

// ValidateToken reports whether token was issued for sessionID and has not expired
func (g *CSRFGenerator) ValidateToken(sessionID, token string) bool {
	if sessionID == "" {
		return false
	}

	expires, mac, ok := strings.Cut(token, ".")
	if !ok {
		return false
	}
	unix, err := strconv.ParseInt(expires, 10, 64)
	if err != nil || g.now().Unix() > unix {
		return false
	}

	return hmac.Equal([]byte(mac), []byte(g.sign(sessionID, expires)))
}

func (g *CSRFGenerator) sign(sessionID, expires string) string {
	h := hmac.New(sha256.New, g.key)
	h.Write([]byte(sessionID))
	h.Write([]byte{'|'})
	h.Write([]byte(expires))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
