package middleware

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"

	"github.com/m04kA/SMC-SportHub/internal/api/handlers"
)

const (
	msgCSRFMismatch = "недействительный CSRF токен"

	csrfTokenBytes = 32
)

// ErrCSRFToken возвращается, если токен не удалось выпустить
var ErrCSRFToken = errors.New("middleware: csrf token")

// CSRFConfig параметры double-submit защиты
type CSRFConfig struct {
	HashKey    []byte
	CookieName string
	HeaderName string
	Secure     bool
	MaxAge     int
}

// CSRF double-submit защита: подписанная cookie + тот же токен в заголовке
type CSRF struct {
	codec  *securecookie.SecureCookie
	cfg    CSRFConfig
	logger Logger
}

// NewCSRF создает CSRF защиту
func NewCSRF(cfg CSRFConfig, logger Logger) *CSRF {
	codec := securecookie.New(cfg.HashKey, nil)
	codec.MaxAge(cfg.MaxAge)
	return &CSRF{codec: codec, cfg: cfg, logger: logger}
}

// IssueToken выпускает новый токен и выставляет подписанную cookie
func (c *CSRF) IssueToken(w http.ResponseWriter) (string, error) {
	raw := securecookie.GenerateRandomKey(csrfTokenBytes)
	if raw == nil {
		return "", fmt.Errorf("%w: generate random key", ErrCSRFToken)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	encoded, err := c.codec.Encode(c.cfg.CookieName, token)
	if err != nil {
		return "", fmt.Errorf("%w: encode cookie: %v", ErrCSRFToken, err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.cfg.CookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   c.cfg.MaxAge,
		HttpOnly: true,
		Secure:   c.cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	return token, nil
}

// Protect проверяет токен на изменяющих запросах
func (c *CSRF) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		if !c.valid(r) {
			c.logger.Warn("CSRF - %s %s: token mismatch", r.Method, r.URL.Path)
			handlers.RespondForbidden(w, msgCSRFMismatch)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (c *CSRF) valid(r *http.Request) bool {
	header := r.Header.Get(c.cfg.HeaderName)
	if header == "" {
		return false
	}
	cookie, err := r.Cookie(c.cfg.CookieName)
	if err != nil {
		return false
	}
	var token string
	if err := c.codec.Decode(c.cfg.CookieName, cookie.Value, &token); err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(header)) == 1
}
