package handlers

import (
	"net/http"

	"refstaff/internal/middleware"

	"github.com/labstack/echo/v4"
)

// Handlers bundles every HTTP handler group served by the application.
type Handlers struct {
	Auth          *AuthHandlers
	API           *APIHandlers
	Payouts       *PayoutHandlers
	Games         *GameScoreHandlers
	Public        *PublicHandlers
	Notifications *NotificationHandlers
	OG            *OGHandlers
	Health        *HealthHandlers
}

// RegisterRoutes mounts the application routes on e. Routes that mix public
// and private actions use optional authentication and check per action.
func RegisterRoutes(e *echo.Echo, h *Handlers, auth middleware.Authenticator) {
	optional := middleware.OptionalAuth(auth)
	required := middleware.RequireAuth(auth)

	e.Any("/auth", h.Auth.Auth, optional)
	e.POST("/send-email", h.Auth.SendVerification)

	e.Match([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}, "/api", h.API.Dispatch, optional)

	e.GET("/payouts", h.Payouts.List, required)
	e.POST("/payouts", h.Payouts.Create, required)
	e.PUT("/payouts", h.Payouts.Review, required)

	e.GET("/game-scores", h.Games.Leaderboard, required)
	e.POST("/game-scores", h.Games.Submit, required)

	e.POST("/notify-company", h.Notifications.NotifyCompany, required)

	e.POST("/verify-inn", h.Public.VerifyINN)
	e.POST("/request-password-reset", h.Public.RequestPasswordReset)
	e.POST("/reset-password", h.Public.ResetPassword)
	e.GET("/get-company-by-token", h.Public.CompanyByInviteToken)
	e.POST("/contact-form", h.Public.Contact)

	e.GET("/og-image", h.OG.Image)
	e.GET("/og-proxy", h.OG.Proxy)

	if h.Health != nil {
		e.GET("/health", h.Health.HealthCheck)
	}
}
