package session

import (
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

// Cookie names.
const (
	CookieName      = "session"
	StateCookieName = "pkce_state"
)

// Codec signs and verifies cookie values with the app secret.
type Codec struct {
	sc *securecookie.SecureCookie
}

// NewCodec creates a codec keyed by secret. Values are signed, not encrypted;
// they only ever carry opaque IDs. Signed values older than maxAge fail
// verification; maxAge must cover the longest cookie the codec issues, and a
// zero maxAge keeps the securecookie default of 30 days.
func NewCodec(secret string, maxAge time.Duration) *Codec {
	sc := securecookie.New([]byte(secret), nil)
	if maxAge > 0 {
		sc.MaxAge(int(maxAge.Seconds()))
	}
	return &Codec{sc: sc}
}

// Encode signs value for the named cookie.
func (c *Codec) Encode(name, value string) (string, error) {
	return c.sc.Encode(name, value)
}

// Decode verifies an encoded cookie value.
func (c *Codec) Decode(name, encoded string) (string, error) {
	var v string
	if err := c.sc.Decode(name, encoded, &v); err != nil {
		return "", err
	}
	return v, nil
}

// SetCookie writes a signed, HTTP-only cookie. A zero maxAge makes it a
// browser-session cookie.
func (c *Codec) SetCookie(w http.ResponseWriter, name, value string, maxAge time.Duration) error {
	encoded, err := c.Encode(name, value)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ReadCookie returns the verified value of the named cookie, or "" if it is
// missing or fails verification.
func (c *Codec) ReadCookie(r *http.Request, name string) string {
	ck, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	v, err := c.Decode(name, ck.Value)
	if err != nil {
		return ""
	}
	return v
}

// ClearCookie expires the named cookie.
func ClearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
