package middleware

import (
	"errors"
	"net/http"

	"refstaff/internal/common"
	"refstaff/internal/models"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// Session tokens are accepted from X-Auth-Token as is, or as a bearer value of
// X-Authorization or Authorization. Header names are matched case-insensitively.
const tokenLookup = "header:X-Auth-Token,header:X-Authorization:Bearer ,header:Authorization:Bearer "

const authErrorKey = "auth_error"

var (
	ErrMissingToken = echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	ErrInvalidToken = echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
)

// Authenticator resolves a session token to the calling principal.
type Authenticator interface {
	Authenticate(token string) (*models.Principal, error)
}

func config(auth Authenticator) echojwt.Config {
	return echojwt.Config{
		TokenLookup: tokenLookup,
		ContextKey:  string(common.PrincipalKey),
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return auth.Authenticate(token)
		},
		SuccessHandler: func(c echo.Context) {
			if p, ok := c.Get(string(common.PrincipalKey)).(*models.Principal); ok {
				common.SetPrincipal(c, p)
			}
		},
	}
}

func authError(err error) *echo.HTTPError {
	var parseErr *echojwt.TokenParsingError
	if errors.As(err, &parseErr) {
		return ErrInvalidToken
	}
	return ErrMissingToken
}

// RequireAuth rejects requests without a valid session token with 401.
func RequireAuth(auth Authenticator) echo.MiddlewareFunc {
	cfg := config(auth)
	cfg.ErrorHandler = func(c echo.Context, err error) error {
		return authError(err)
	}
	return echojwt.WithConfig(cfg)
}

// OptionalAuth sets the principal when a valid token is present and lets every
// request through. Routes that mix public and private actions call
// RequirePrincipal per action.
func OptionalAuth(auth Authenticator) echo.MiddlewareFunc {
	cfg := config(auth)
	cfg.ContinueOnIgnoredError = true
	cfg.ErrorHandler = func(c echo.Context, err error) error {
		c.Set(authErrorKey, authError(err))
		return nil
	}
	return echojwt.WithConfig(cfg)
}

// RequirePrincipal returns the authenticated caller or the 401 explaining why
// there is none.
func RequirePrincipal(c echo.Context) (*models.Principal, error) {
	if p, ok := common.GetPrincipal(c); ok {
		return p, nil
	}
	if err, ok := c.Get(authErrorKey).(*echo.HTTPError); ok {
		return nil, err
	}
	return nil, ErrMissingToken
}
