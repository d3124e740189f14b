package auth

import (
	"net/http"
	"time"

	"github.com/agentdesk/backend/internal/domain/identity"
	"github.com/agentdesk/backend/internal/infrastructure/config"
)

// DefaultCookieName is used when the config leaves the name empty
const DefaultCookieName = "auth_token"

// CookieCarrier moves session tokens in and out of the session cookie.
// The cookie is the only accepted carrier; Authorization headers are ignored.
type CookieCarrier struct {
	codec  *SessionCodec
	name   string
	domain string
	path   string
	secure bool
}

// NewCookieCarrier creates a carrier backed by codec
func NewCookieCarrier(codec *SessionCodec, cfg config.CookieConfig) *CookieCarrier {
	name := cfg.Name
	if name == "" {
		name = DefaultCookieName
	}
	path := cfg.Path
	if path == "" {
		path = "/"
	}
	return &CookieCarrier{
		codec:  codec,
		name:   name,
		domain: cfg.Domain,
		path:   path,
		secure: cfg.Secure,
	}
}

// Name returns the cookie name
func (c *CookieCarrier) Name() string {
	return c.name
}

// Issue signs the session and attaches the resulting token to the response
func (c *CookieCarrier) Issue(w http.ResponseWriter, session identity.Session) (time.Time, error) {
	token, expiresAt, err := c.codec.Issue(session)
	if err != nil {
		return time.Time{}, err
	}
	c.Attach(w, token)
	return expiresAt, nil
}

// Attach sets the session cookie carrying token
func (c *CookieCarrier) Attach(w http.ResponseWriter, token string) {
	http.SetCookie(w, c.cookie(token, int(c.codec.TTL().Seconds())))
}

// Clear overwrites the session cookie with an empty, immediately expiring value
func (c *CookieCarrier) Clear(w http.ResponseWriter) {
	// MaxAge < 0 is rendered as Max-Age=0
	http.SetCookie(w, c.cookie("", -1))
}

// FromRequest reads and verifies the session cookie.
// A missing, expired or forged cookie yields (nil, false).
func (c *CookieCarrier) FromRequest(r *http.Request) (*identity.Session, bool) {
	cookie, err := r.Cookie(c.name)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	return c.codec.Verify(cookie.Value)
}

func (c *CookieCarrier) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     c.name,
		Value:    value,
		Path:     c.path,
		Domain:   c.domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
