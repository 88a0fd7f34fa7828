package common

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"refstaff/internal/models"
)

type contextKey string

const (
	PrincipalKey contextKey = "principal"
)

// SetPrincipal stores the authenticated caller on the echo context.
func SetPrincipal(c echo.Context, p *models.Principal) {
	c.Set(string(PrincipalKey), p)
}

// GetPrincipal returns the caller set by the auth middleware.
func GetPrincipal(c echo.Context) (*models.Principal, bool) {
	p, ok := c.Get(string(PrincipalKey)).(*models.Principal)
	return p, ok && p != nil
}

// QueryInt64 parses an optional positive id from the query string. A missing
// parameter returns 0 and no error.
func QueryInt64(c echo.Context, name string) (int64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return id, nil
}

// NormalizeEmail trims and lowercases an address the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail is the loose check used by public forms: an @ and a dot after it.
func ValidEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || !strings.Contains(email[at:], ".") {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

// SafeString safely handles string pointer operations
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// OptionalString turns an empty or blank value into nil.
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
