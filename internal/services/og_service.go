package services

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"refstaff/internal/common"
	"refstaff/internal/models"
	"refstaff/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ShareTypeVacancy  = "vacancy"
	ShareTypeReferral = "referral"

	ogDescriptionRunes = 160
	ogFallbackTitle    = "Вакансия | iHUNT"
	ogFallbackText     = "Реферальный рекрутинг — нанимайте лучших через рекомендации сотрудников"
)

var botAgents = []string{
	"vkshare", "facebookexternalhit", "twitterbot", "telegrambot",
	"whatsapp", "linkedinbot", "slackbot", "discordbot", "bot",
	"crawler", "spider", "scraper", "preview",
}

// ogNamespace keys cached share images by their rendered text.
var ogNamespace = uuid.MustParse("6f1f4b8e-2c1d-4a55-9a39-1d7f0c7e6b10")

// IsBot reports whether a user agent belongs to a link-preview crawler.
func IsBot(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, b := range botAgents {
		if strings.Contains(ua, b) {
			return true
		}
	}
	return false
}

type OGService interface {
	Image(ctx context.Context, card OGCard) ([]byte, error)
	SharePage(ctx context.Context, req *SharePageRequest) (*SharePage, error)
}

type ogService struct {
	vacancyRepo repositories.VacancyRepository
	store       MinioService
	appURL      string
}

// NewOGService builds share pages and images. A nil store disables the image cache.
func NewOGService(vacancyRepo repositories.VacancyRepository, store MinioService, appURL string) OGService {
	return &ogService{vacancyRepo: vacancyRepo, store: store, appURL: appURL}
}

type SharePageRequest struct {
	Type      string
	ID        string
	Ref       string
	UserAgent string
	// ImageBase is the public origin serving /og-image.
	ImageBase string
}

// SharePage is either a redirect for browsers or a meta page for crawlers.
type SharePage struct {
	RedirectURL string
	Bot         bool
	HTML        string
}

type ogPageView struct {
	Title       string
	Description string
	ImageURL    string
	RedirectURL string
}

func ogObjectName(card OGCard) string {
	key := card.Title + "\x00" + card.Department + "\x00" + card.Salary
	return "og/" + uuid.NewSHA1(ogNamespace, []byte(key)).String() + ".png"
}

// Image returns the PNG share card, served from the object store when cached.
func (s *ogService) Image(ctx context.Context, card OGCard) ([]byte, error) {
	name := ogObjectName(card)
	if s.store != nil {
		data, err := s.store.GetObject(ctx, name)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, ErrObjectNotFound) {
			zap.L().Warn("OG image cache read failed", zap.String("object", name), zap.Error(err))
		}
	}

	data, err := RenderOGImage(card)
	if err != nil {
		return nil, err
	}
	if s.store != nil {
		if err := s.store.PutObject(ctx, name, data, "image/png"); err != nil {
			zap.L().Warn("OG image cache write failed", zap.String("object", name), zap.Error(err))
		}
	}
	return data, nil
}

func (s *ogService) SharePage(ctx context.Context, req *SharePageRequest) (*SharePage, error) {
	if req.Type == "" || req.ID == "" {
		return nil, validationError("type and id are required")
	}

	var (
		vacancy *models.Vacancy
		err     error
		page    = &SharePage{Bot: IsBot(req.UserAgent)}
	)
	switch req.Type {
	case ShareTypeVacancy:
		id, convErr := strconv.ParseInt(req.ID, 10, 64)
		if convErr != nil || id <= 0 {
			return nil, validationError("id must be a positive integer")
		}
		page.RedirectURL = s.appURL + "/vacancy/" + req.ID
		if page.Bot {
			vacancy, err = s.vacancyRepo.GetByID(ctx, id)
		}
	case ShareTypeReferral:
		page.RedirectURL = s.appURL + "/r/" + url.PathEscape(req.ID)
		if req.Ref != "" {
			page.RedirectURL += "?ref=" + url.QueryEscape(req.Ref)
		}
		if page.Bot {
			vacancy, err = s.vacancyRepo.GetByReferralToken(ctx, req.ID)
		}
	default:
		return nil, validationError("unknown type")
	}
	if !page.Bot {
		return page, nil
	}
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	view := ogPageView{
		Title:       ogFallbackTitle,
		Description: ogFallbackText,
		RedirectURL: page.RedirectURL,
	}
	card := OGCard{}
	if vacancy != nil {
		card = OGCard{
			Title:      vacancy.Title,
			Department: common.SafeString(vacancy.Department),
			Salary:     common.SafeString(vacancy.SalaryDisplay),
		}
		view.Title = vacancyShareTitle(card)
		view.Description = vacancyShareDescription(vacancy)
	}
	view.ImageURL = ogImageURL(req.ImageBase, card)

	html, err := render("og_page", view)
	if err != nil {
		return nil, err
	}
	page.HTML = string(html)
	return page, nil
}

func vacancyShareTitle(card OGCard) string {
	if card.Department == "" {
		return card.Title + " | iHUNT"
	}
	return card.Title + " — " + card.Department + " | iHUNT"
}

func vacancyShareDescription(v *models.Vacancy) string {
	if req := strings.TrimSpace(common.SafeString(v.Requirements)); req != "" {
		return common.Truncate(req, ogDescriptionRunes)
	}
	return "Вакансия " + v.Title + ". Заработная плата: " + common.SafeString(v.SalaryDisplay)
}

func ogImageURL(base string, card OGCard) string {
	q := url.Values{}
	if card.Title != "" {
		q.Set("title", card.Title)
	}
	if card.Department != "" {
		q.Set("department", card.Department)
	}
	if card.Salary != "" {
		q.Set("salary", card.Salary)
	}
	u := base + "/og-image"
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}
