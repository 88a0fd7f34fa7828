package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

var (
	corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	corsHeaders = []string{echo.HeaderContentType, "X-Auth-Token", "X-Authorization", echo.HeaderAuthorization}
)

const corsMaxAge = 86400

// CORS allows any origin. Preflight requests are answered with 200 and an
// empty body on every path, the frontend checks for that status.
func CORS() echo.MiddlewareFunc {
	cors := echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: corsMethods,
		AllowHeaders: corsHeaders,
		MaxAge:       corsMaxAge,
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		actual := cors(next)
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodOptions {
				return actual(c)
			}
			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, "*")
			h.Set(echo.HeaderAccessControlAllowMethods, strings.Join(corsMethods, ", "))
			h.Set(echo.HeaderAccessControlAllowHeaders, strings.Join(corsHeaders, ", "))
			h.Set(echo.HeaderAccessControlMaxAge, strconv.Itoa(corsMaxAge))
			return c.NoContent(http.StatusOK)
		}
	}
}
