// Package flash provides one-time web notices persisted across redirects.
//
// A notice travels as a short-lived HS256 token in a cookie: the mutating
// request writes it and the next list render reads and clears it.
package flash

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/louisbranch/agenda/internal/services/web/platform/requestmeta"
)

// CookieName is the canonical cookie used for one-time web notices.
const CookieName = "agenda_flash"

// DefaultTTL bounds how long an unread notice stays valid.
const DefaultTTL = 5 * time.Minute

const (
	issuer    = "agenda"
	keyLength = 32
)

// Kind classifies flash notice presentation.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindError   Kind = "error"
)

// Notice stores one flash message reference.
type Notice struct {
	Kind Kind   `json:"kind"`
	Key  string `json:"key"`
}

// NoticeSuccess creates a success notice for the provided localization key.
func NoticeSuccess(key string) Notice {
	return Notice{Kind: KindSuccess, Key: key}
}

// NoticeError creates an error notice for the provided localization key.
func NoticeError(key string) Notice {
	return Notice{Kind: KindError, Key: key}
}

type claims struct {
	Notice
	jwt.RegisteredClaims
}

// Option configures a Codec.
type Option func(*Codec)

// WithClock overrides the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Codec) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithSchemePolicy controls the Secure attribute of the flash cookie.
func WithSchemePolicy(policy requestmeta.SchemePolicy) Option {
	return func(c *Codec) {
		c.policy = policy
	}
}

// Codec signs and verifies flash cookies.
type Codec struct {
	key    []byte
	ttl    time.Duration
	policy requestmeta.SchemePolicy
	now    func() time.Time
}

// NewCodec builds a codec signing with key. An empty key is replaced by a
// random per-process key, which invalidates pending notices on restart.
func NewCodec(key []byte, opts ...Option) (*Codec, error) {
	if len(key) == 0 {
		key = make([]byte, keyLength)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate flash key: %w", err)
		}
	} else if len(key) < 16 {
		return nil, errors.New("flash key must be at least 16 bytes")
	}
	c := &Codec{
		key: append([]byte(nil), key...),
		ttl: DefaultTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Write stores a flash notice cookie for the next page render.
func (c *Codec) Write(w http.ResponseWriter, r *http.Request, notice Notice) {
	if c == nil || w == nil {
		return
	}
	normalized, ok := normalizeNotice(notice)
	if !ok {
		return
	}
	token, err := c.sign(normalized)
	if err != nil {
		log.Printf("flash: sign notice key=%s: %v", normalized.Key, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.ttl / time.Second),
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPS(r, c.policy),
		SameSite: http.SameSiteLaxMode,
	})
}

// ReadAndClear reads and clears the flash notice cookie. Tampered, expired or
// malformed tokens are cleared and reported as absent.
func (c *Codec) ReadAndClear(w http.ResponseWriter, r *http.Request) (Notice, bool) {
	if c == nil || r == nil {
		return Notice{}, false
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie == nil {
		return Notice{}, false
	}
	if w != nil {
		c.Clear(w, r)
	}
	notice, err := c.verify(cookie.Value)
	if err != nil {
		log.Printf("flash: discard notice: %v", err)
		return Notice{}, false
	}
	return notice, true
}

// Clear expires any flash notice cookie.
func (c *Codec) Clear(w http.ResponseWriter, r *http.Request) {
	if c == nil || w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPS(r, c.policy),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func (c *Codec) sign(notice Notice) (string, error) {
	issuedAt := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Notice: notice,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.ttl)),
		},
	})
	return token.SignedString(c.key)
}

func (c *Codec) verify(raw string) (Notice, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Notice{}, errors.New("empty token")
	}
	var parsed claims
	_, err := jwt.ParseWithClaims(value, &parsed, func(*jwt.Token) (any, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return Notice{}, fmt.Errorf("parse token: %w", err)
	}
	normalized, ok := normalizeNotice(parsed.Notice)
	if !ok {
		return Notice{}, errors.New("invalid notice payload")
	}
	return normalized, nil
}

func normalizeNotice(notice Notice) (Notice, bool) {
	notice.Key = strings.TrimSpace(notice.Key)
	if notice.Key == "" {
		return Notice{}, false
	}
	notice.Kind = Kind(strings.ToLower(strings.TrimSpace(string(notice.Kind))))
	switch notice.Kind {
	case KindSuccess, KindInfo, KindError:
		return notice, true
	default:
		return Notice{}, false
	}
}
