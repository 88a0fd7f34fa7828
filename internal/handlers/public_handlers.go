package handlers

import (
	"net/http"
	"time"

	"refstaff/internal/models"
	"refstaff/internal/services"

	"github.com/labstack/echo/v4"
)

const resetRequestedMessage = "If the email exists, a password reset link has been sent"

// PublicHandlers serves the endpoints that need no session.
type PublicHandlers struct {
	innService           services.INNService
	passwordResetService services.PasswordResetService
	companyService       services.CompanyService
	contactService       services.ContactService
}

func NewPublicHandlers(innService services.INNService, passwordResetService services.PasswordResetService,
	companyService services.CompanyService, contactService services.ContactService) *PublicHandlers {
	return &PublicHandlers{
		innService:           innService,
		passwordResetService: passwordResetService,
		companyService:       companyService,
		contactService:       contactService,
	}
}

type VerifyINNRequest struct {
	INN string `json:"inn"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type CompanyResponse struct {
	Company *models.CompanyRef `json:"company"`
}

type ContactResponse struct {
	Message   string    `json:"message"`
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// VerifyINN checks the INN checksum and looks the organization up in DaData.
// @Summary Verify a company INN
// @Tags public
// @Accept json
// @Produce json
// @Param request body VerifyINNRequest true "INN"
// @Success 200 {object} models.Party
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /verify-inn [post]
func (h *PublicHandlers) VerifyINN(c echo.Context) error {
	var req VerifyINNRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	party, err := h.innService.Verify(c.Request().Context(), req.INN)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, party)
}

// RequestPasswordReset answers the same way whether or not the address exists.
// @Summary Request a password reset link
// @Tags public
// @Accept json
// @Produce json
// @Param request body PasswordResetRequest true "Email"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Router /request-password-reset [post]
func (h *PublicHandlers) RequestPasswordReset(c echo.Context) error {
	var req PasswordResetRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.passwordResetService.Request(c.Request().Context(), req.Email); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: resetRequestedMessage})
}

// ResetPassword redeems a reset token.
// @Summary Set a new password with a reset token
// @Tags public
// @Accept json
// @Produce json
// @Param request body services.ResetPasswordRequest true "Token and new password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Router /reset-password [post]
func (h *PublicHandlers) ResetPassword(c echo.Context) error {
	var req services.ResetPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.passwordResetService.Reset(c.Request().Context(), &req); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Password changed successfully"})
}

// CompanyByInviteToken resolves an invite link to its company.
// @Summary Company by invite token
// @Tags public
// @Produce json
// @Param invite_token query string true "Invite token"
// @Success 200 {object} CompanyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /get-company-by-token [get]
func (h *PublicHandlers) CompanyByInviteToken(c echo.Context) error {
	ref, err := h.companyService.GetByInviteToken(c.Request().Context(), c.QueryParam("invite_token"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, CompanyResponse{Company: ref})
}

// Contact stores a message from the landing page form.
// @Summary Submit the contact form
// @Tags public
// @Accept json
// @Produce json
// @Param request body services.ContactRequest true "Message"
// @Success 201 {object} ContactResponse
// @Failure 400 {object} ErrorResponse
// @Router /contact-form [post]
func (h *PublicHandlers) Contact(c echo.Context) error {
	var req services.ContactRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	msg, err := h.contactService.Submit(c.Request().Context(), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, ContactResponse{
		Message:   "Message sent successfully",
		ID:        msg.ID,
		CreatedAt: msg.CreatedAt,
	})
}
