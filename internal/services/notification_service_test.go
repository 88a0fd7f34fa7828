package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"refstaff/internal/models"
	"refstaff/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newNotificationFixture() (*notificationService, *MockCompanyRepository, *MockUserRepository, *MockMailer) {
	companies := &MockCompanyRepository{}
	users := &MockUserRepository{}
	mailer := &MockMailer{}
	svc := NewNotificationService(companies, users, mailer, "https://app.example.com").(*notificationService)
	return svc, companies, users, mailer
}

func TestNotifyCompany_SendsToEveryVerifiedAdmin(t *testing.T) {
	svc, companies, users, mailer := newNotificationFixture()
	ctx := context.Background()

	companies.On("GetByID", ctx, int64(3)).Return(&models.Company{ID: 3, Name: "Acme & Co"}, nil)
	users.On("ListVerifiedAdmins", ctx, int64(3)).Return([]models.Recipient{
		{Email: "a1@acme.ru"}, {Email: "a2@acme.ru"},
	}, nil)
	mailer.On("Configured").Return(true)
	mailer.On("Send", ctx, mock.MatchedBy(func(e models.Email) bool {
		return e.Subject == "iHUNT — Новая рекомендация кандидата" &&
			strings.Contains(e.HTML, "Acme &amp; Co") &&
			strings.Contains(e.HTML, "Анна") &&
			strings.Contains(e.HTML, "30,000 ₽") &&
			strings.Contains(e.HTML, "https://app.example.com")
	})).Return(nil).Twice()

	res, err := svc.NotifyCompany(ctx, 3, models.Notification{
		Event: models.EventNewRecommendation,
		Data: map[string]interface{}{
			"candidate_name":  "Анна",
			"candidate_email": "anna@example.com",
			"vacancy_title":   "Go developer",
			"recommended_by":  "Ivan Petrov",
			"reward_amount":   30000.0,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Recipients)
	assert.Equal(t, 2, res.Sent)
	mailer.AssertExpectations(t)
}

func TestNotifyCompany_PartialFailureStillSucceeds(t *testing.T) {
	svc, companies, users, mailer := newNotificationFixture()
	ctx := context.Background()

	companies.On("GetByID", ctx, int64(3)).Return(&models.Company{ID: 3, Name: "Acme"}, nil)
	users.On("ListVerifiedAdmins", ctx, int64(3)).Return([]models.Recipient{{Email: "ok@acme.ru"}, {Email: "bad@acme.ru"}}, nil)
	mailer.On("Configured").Return(true)
	mailer.On("Send", ctx, mock.MatchedBy(func(e models.Email) bool { return e.To == "ok@acme.ru" })).Return(nil)
	mailer.On("Send", ctx, mock.MatchedBy(func(e models.Email) bool { return e.To == "bad@acme.ru" })).Return(errors.New("smtp down"))

	res, err := svc.NotifyCompany(ctx, 3, models.Notification{Event: models.EventNewEmployee, Data: map[string]interface{}{}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
}

func TestNotifyCompany_AllFailuresIsUpstream(t *testing.T) {
	svc, companies, users, mailer := newNotificationFixture()
	ctx := context.Background()

	companies.On("GetByID", ctx, int64(3)).Return(&models.Company{ID: 3, Name: "Acme"}, nil)
	users.On("ListVerifiedAdmins", ctx, int64(3)).Return([]models.Recipient{{Email: "bad@acme.ru"}}, nil)
	mailer.On("Configured").Return(true)
	mailer.On("Send", ctx, mock.Anything).Return(errors.New("smtp down"))

	_, err := svc.NotifyCompany(ctx, 3, models.Notification{Event: models.EventNewPayoutRequest})
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestNotifyCompany_NoAdmins(t *testing.T) {
	svc, companies, users, mailer := newNotificationFixture()
	ctx := context.Background()

	companies.On("GetByID", ctx, int64(3)).Return(&models.Company{ID: 3}, nil)
	users.On("ListVerifiedAdmins", ctx, int64(3)).Return(nil, nil)

	res, err := svc.NotifyCompany(ctx, 3, models.Notification{Event: models.EventNewEmployee})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Recipients)
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestNotifyCompany_Validation(t *testing.T) {
	svc, companies, _, _ := newNotificationFixture()
	ctx := context.Background()

	_, err := svc.NotifyCompany(ctx, 0, models.Notification{Event: models.EventNewEmployee})
	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "company_id and event_type required")

	_, err = svc.NotifyCompany(ctx, 1, models.Notification{Event: "party_time"})
	assert.EqualError(t, err, "Unknown event type")

	companies.On("GetByID", ctx, int64(99)).Return(nil, repositories.ErrNotFound)
	_, err = svc.NotifyCompany(ctx, 99, models.Notification{Event: models.EventNewEmployee})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotifyCompany_MailerNotConfigured(t *testing.T) {
	svc, companies, users, mailer := newNotificationFixture()
	ctx := context.Background()

	companies.On("GetByID", ctx, int64(3)).Return(&models.Company{ID: 3}, nil)
	users.On("ListVerifiedAdmins", ctx, int64(3)).Return([]models.Recipient{{Email: "a@acme.ru"}}, nil)
	mailer.On("Configured").Return(false)

	_, err := svc.NotifyCompany(ctx, 3, models.Notification{Event: models.EventNewEmployee})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.EqualError(t, err, "Email not configured")
}

func TestSendVerification(t *testing.T) {
	svc, _, _, mailer := newNotificationFixture()
	ctx := context.Background()

	mailer.On("Configured").Return(true)
	mailer.On("Send", ctx, mock.MatchedBy(func(e models.Email) bool {
		return e.To == "new@acme.ru" &&
			e.Subject == subjectVerification &&
			strings.Contains(e.HTML, "https://site.example.com/verify-email?token=abc") &&
			strings.Contains(e.HTML, "Подтвердить email") &&
			strings.Contains(e.HTML, "Управление вакансиями")
	})).Return(nil)

	err := svc.SendVerification(ctx, &VerificationEmailRequest{
		ToEmail:           "new@acme.ru",
		UserName:          "Ivan",
		VerificationToken: "abc",
		BaseURL:           "https://site.example.com",
		UserType:          "company",
	})
	require.NoError(t, err)
	mailer.AssertExpectations(t)
}

func TestSendVerification_Errors(t *testing.T) {
	svc, _, _, mailer := newNotificationFixture()
	ctx := context.Background()

	err := svc.SendVerification(ctx, &VerificationEmailRequest{ToEmail: "x@y.z"})
	assert.EqualError(t, err, "Missing required fields")

	mailer.On("Configured").Return(false).Once()
	err = svc.SendVerification(ctx, &VerificationEmailRequest{ToEmail: "x@y.z", VerificationToken: "t"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	mailer.On("Configured").Return(true)
	mailer.On("Send", ctx, mock.Anything).Return(errors.New("dial tcp: timeout"))
	err = svc.SendVerification(ctx, &VerificationEmailRequest{ToEmail: "x@y.z", VerificationToken: "t"})
	assert.ErrorIs(t, err, ErrUpstream)
	assert.EqualError(t, err, "Failed to send email")
}

func TestSendPasswordReset(t *testing.T) {
	svc, _, _, mailer := newNotificationFixture()
	ctx := context.Background()

	mailer.On("Configured").Return(true)
	mailer.On("Send", ctx, mock.MatchedBy(func(e models.Email) bool {
		return e.Subject == subjectPasswordReset &&
			strings.Contains(e.HTML, "https://site.example.com/?token=abc") &&
			strings.Contains(e.HTML, "Восстановить пароль")
	})).Return(nil)

	require.NoError(t, svc.SendPasswordReset(ctx, "x@y.z", "https://site.example.com/?token=abc"))
	mailer.AssertExpectations(t)
}

func TestRenderNotification_EscapesData(t *testing.T) {
	_, html, err := renderNotification("Acme", "https://app.example.com", models.Notification{
		Event: models.EventNewEmployee,
		Data:  map[string]interface{}{"first_name": "<script>alert(1)</script>"},
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "Не указана")
}

func TestFormatRubles(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "0 ₽"},
		{999, "999 ₽"},
		{30000, "30,000 ₽"},
		{1234567, "1,234,567 ₽"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatRubles(tt.amount))
	}
}
