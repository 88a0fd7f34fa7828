package models

// NotificationEvent names a company-wide event that admins are emailed about.
type NotificationEvent string

const (
	EventNewEmployee       NotificationEvent = "new_employee"
	EventNewRecommendation NotificationEvent = "new_recommendation"
	EventNewPayoutRequest  NotificationEvent = "new_payout_request"
)

func (e NotificationEvent) Valid() bool {
	switch e {
	case EventNewEmployee, EventNewRecommendation, EventNewPayoutRequest:
		return true
	}
	return false
}

// Notification carries the event and the loosely typed data rendered into the email.
type Notification struct {
	Event NotificationEvent      `json:"event_type"`
	Data  map[string]interface{} `json:"data"`
}

// Recipient is a verified company admin.
type Recipient struct {
	Email     string
	FirstName string
	LastName  string
}

// Email is a rendered message ready for the mailer.
type Email struct {
	To      string
	Subject string
	HTML    string
}
