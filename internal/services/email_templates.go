package services

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"

	"refstaff/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var htmlTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	subjectVerification  = "Подтвердите вашу электронную почту"
	subjectPasswordReset = "Восстановление пароля i-Hunt"
	notificationFooter   = "Это автоматическое уведомление от iHUNT"
	cabinetButtonText    = "Открыть личный кабинет"
)

var eventSubjects = map[models.NotificationEvent]string{
	models.EventNewEmployee:       "iHUNT — Новый сотрудник зарегистрирован",
	models.EventNewRecommendation: "iHUNT — Новая рекомендация кандидата",
	models.EventNewPayoutRequest:  "iHUNT — Новый запрос на выплату",
}

type layoutView struct {
	CompanyName string
	Content     template.HTML
	ActionURL   string
	ActionText  string
	Footer      string
}

type eventRow struct {
	Label string
	Value string
}

type eventView struct {
	From, To template.CSS
	Title    string
	Subtitle string
	Rows     []eventRow
}

type benefit struct {
	Title string
	Text  string
}

type verificationView struct {
	UserName string
	Welcome  string
	Action   string
	Benefits []benefit
	URL      string
}

func render(name string, data interface{}) (template.HTML, error) {
	var buf bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

func renderPage(content template.HTML, layout layoutView) (string, error) {
	layout.Content = content
	page, err := render("layout", layout)
	if err != nil {
		return "", err
	}
	return string(page), nil
}

// renderNotification builds the admin email for a company event.
func renderNotification(companyName, appURL string, n models.Notification) (subject, html string, err error) {
	subject, ok := eventSubjects[n.Event]
	if !ok {
		return "", "", validationError("Unknown event type")
	}
	view := eventCard(n)
	content, err := render("event", view)
	if err != nil {
		return "", "", err
	}
	html, err = renderPage(content, layoutView{
		CompanyName: companyName,
		ActionURL:   appURL,
		ActionText:  cabinetButtonText,
		Footer:      notificationFooter,
	})
	return subject, html, err
}

func eventCard(n models.Notification) eventView {
	d := n.Data
	switch n.Event {
	case models.EventNewEmployee:
		return eventView{
			From: "#3b82f6", To: "#2563eb",
			Title:    "Новый сотрудник",
			Subtitle: "Зарегистрирован в системе iHUNT",
			Rows: []eventRow{
				{"Имя", strings.TrimSpace(dataString(d, "first_name") + " " + dataString(d, "last_name"))},
				{"Должность", orDefault(dataString(d, "position"), "Не указана")},
				{"Email", dataString(d, "email")},
			},
		}
	case models.EventNewRecommendation:
		return eventView{
			From: "#10b981", To: "#059669",
			Title:    "Новая рекомендация",
			Subtitle: "Сотрудник рекомендовал кандидата",
			Rows: []eventRow{
				{"Кандидат", dataString(d, "candidate_name")},
				{"Email кандидата", dataString(d, "candidate_email")},
				{"Вакансия", dataString(d, "vacancy_title")},
				{"Рекомендовал", dataString(d, "recommended_by")},
				{"Вознаграждение", formatRubles(dataFloat(d, "reward_amount"))},
			},
		}
	default:
		return eventView{
			From: "#f59e0b", To: "#d97706",
			Title:    "Запрос на выплату",
			Subtitle: "Сотрудник запросил вывод средств",
			Rows: []eventRow{
				{"Сотрудник", dataString(d, "employee_name")},
				{"Сумма", formatRubles(dataFloat(d, "amount"))},
				{"Способ выплаты", orDefault(dataString(d, "payment_method"), "Не указан")},
			},
		}
	}
}

// renderVerification builds the email-confirmation letter. userType "company"
// gets the company onboarding text, anything else the employee text.
func renderVerification(userName, link, userType string) (string, error) {
	view := verificationView{UserName: userName, URL: link}
	if userType == "company" {
		view.Welcome = "Спасибо за регистрацию компании на платформе iHUNT! Теперь вы можете привлекать лучших кандидатов через рекомендации ваших сотрудников."
		view.Action = "Подтвердите адрес электронной почты, чтобы активировать аккаунт компании."
		view.Benefits = []benefit{
			{"Управление вакансиями", "Публикуйте вакансии и назначайте вознаграждение за рекомендации"},
			{"Умная система рекомендаций", "Сотрудники рекомендуют проверенных кандидатов из своего окружения"},
			{"Аналитика и отчеты", "Отслеживайте эффективность реферальной программы"},
			{"Быстрый найм", "Сокращайте время закрытия вакансий"},
		}
	} else {
		view.Welcome = "Добро пожаловать в iHUNT! Рекомендуйте знакомых в свою компанию и получайте вознаграждение."
		view.Action = "Подтвердите адрес электронной почты, чтобы начать работу."
		view.Benefits = []benefit{
			{"Зарабатывайте на рекомендациях", "Получайте вознаграждение за каждого нанятого кандидата"},
			{"Быстрые выплаты", "Выводите заработанные средства удобным способом"},
			{"Простой процесс", "Рекомендуйте кандидатов в пару кликов"},
			{"Отслеживание статуса", "Следите за статусом каждой рекомендации"},
		}
	}
	content, err := render("verification", view)
	if err != nil {
		return "", err
	}
	return renderPage(content, layoutView{
		ActionURL:  link,
		ActionText: "Подтвердить email",
		Footer:     "Если вы не регистрировались в iHUNT, просто проигнорируйте это письмо.",
	})
}

func renderPasswordReset(link string) (string, error) {
	content, err := render("password_reset", nil)
	if err != nil {
		return "", err
	}
	return renderPage(content, layoutView{
		ActionURL:  link,
		ActionText: "Восстановить пароль",
		Footer:     "С уважением, команда i-Hunt",
	})
}

func dataString(d map[string]interface{}, key string) string {
	switch v := d[key].(type) {
	case string:
		return v
	case nil:
		return ""
	case *string:
		if v == nil {
			return ""
		}
		return *v
	default:
		return fmt.Sprint(v)
	}
}

func dataFloat(d map[string]interface{}, key string) float64 {
	switch v := d[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	return 0
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// formatRubles renders an amount as whole rubles with comma grouping, e.g. "30,000 ₽".
func formatRubles(amount float64) string {
	n := int64(math.Round(amount))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + " ₽"
}
