package handlers

import (
	"io"
	"net/http"

	"refstaff/internal/middleware"
	"refstaff/internal/models"
	"refstaff/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers serves the /auth endpoint.
type AuthHandlers struct {
	authService services.AuthService
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

type authAction struct {
	Action string `json:"action"`
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Message string             `json:"message"`
	Token   string             `json:"token"`
	User    models.UserSummary `json:"user"`
}

// LoginResponse is returned after login and email verification.
type LoginResponse struct {
	Message string             `json:"message"`
	Token   string             `json:"token"`
	User    models.UserProfile `json:"user"`
}

type InviteResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

type WhoAmIResponse struct {
	User *models.User `json:"user"`
}

// Auth dispatches /auth by method and, for POST, by the "action" field.
// @Summary Register, log in, invite, verify email or fetch the current user
// @Tags auth
// @Accept json
// @Produce json
// @Param X-Auth-Token header string false "Session token"
// @Success 200 {object} LoginResponse
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth [post]
// @Router /auth [get]
func (h *AuthHandlers) Auth(c echo.Context) error {
	switch c.Request().Method {
	case http.MethodPost:
		return h.post(c)
	case http.MethodGet:
		return h.WhoAmI(c)
	}
	return errMethodNotAllowed
}

func (h *AuthHandlers) post(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return errInvalidJSON
	}
	var action authAction
	if err := decodeJSON(body, &action); err != nil {
		return err
	}

	switch action.Action {
	case "", "login":
		var req services.LoginRequest
		if err := decodeJSON(body, &req); err != nil {
			return err
		}
		return h.login(c, &req)
	case "register":
		var req services.RegisterRequest
		if err := decodeJSON(body, &req); err != nil {
			return err
		}
		return h.register(c, &req)
	case "invite_employee":
		var req services.InviteEmployeeRequest
		if err := decodeJSON(body, &req); err != nil {
			return err
		}
		return h.invite(c, &req)
	case "register_employee":
		var req services.RegisterEmployeeRequest
		if err := decodeJSON(body, &req); err != nil {
			return err
		}
		return h.RegisterEmployee(c, &req)
	case "verify_email":
		var req verifyEmailRequest
		if err := decodeJSON(body, &req); err != nil {
			return err
		}
		return h.verifyEmail(c, req.Token)
	}
	return errInvalidAuthAction
}

func (h *AuthHandlers) register(c echo.Context, req *services.RegisterRequest) error {
	res, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, RegisterResponse{
		Message: "Registration successful",
		Token:   res.Token,
		User:    res.User.Summary(),
	})
}

func (h *AuthHandlers) login(c echo.Context, req *services.LoginRequest) error {
	res, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, LoginResponse{
		Message: "Login successful",
		Token:   res.Token,
		User:    res.User.Profile(),
	})
}

func (h *AuthHandlers) invite(c echo.Context, req *services.InviteEmployeeRequest) error {
	p, err := middleware.RequirePrincipal(c)
	if err != nil {
		return err
	}
	userID, err := h.authService.InviteEmployee(c.Request().Context(), p, req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, InviteResponse{Message: "Employee invited successfully", UserID: userID})
}

// RegisterEmployee is shared by /auth and the public employees resource of /api.
func (h *AuthHandlers) RegisterEmployee(c echo.Context, req *services.RegisterEmployeeRequest) error {
	res, err := h.authService.RegisterEmployee(c.Request().Context(), req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, RegisterResponse{
		Message: "Registration successful",
		Token:   res.Token,
		User:    res.User.Summary(),
	})
}

func (h *AuthHandlers) verifyEmail(c echo.Context, token string) error {
	res, err := h.authService.VerifyEmail(c.Request().Context(), token)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, LoginResponse{
		Message: "Email verified",
		Token:   res.Token,
		User:    res.User.Profile(),
	})
}

// WhoAmI returns the full profile of the token holder.
func (h *AuthHandlers) WhoAmI(c echo.Context) error {
	p, err := middleware.RequirePrincipal(c)
	if err != nil {
		return err
	}
	user, err := h.authService.WhoAmI(c.Request().Context(), p)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, WhoAmIResponse{User: user})
}

// SendVerification (re)sends the verification email for an unverified address.
// @Summary Send the email verification link
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.VerificationEmailRequest true "Recipient and token"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Router /send-email [post]
func (h *AuthHandlers) SendVerification(c echo.Context) error {
	var req services.VerificationEmailRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.authService.ResendVerification(c.Request().Context(), &req); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Verification email sent"})
}
