package dadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"refstaff/internal/models"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://suggestions.dadata.ru/suggestions/api/4_1/rs"
	requestTimeout = 10 * time.Second
)

// ErrNoSuggestions means the registry knows no organization for the query.
var ErrNoSuggestions = errors.New("dadata: no suggestions")

// Client looks organizations up in the DaData registry.
type Client interface {
	FindPartyByINN(ctx context.Context, inn string) (*models.Party, error)
}

type client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a DaData suggestions client. An empty baseURL selects the public API.
func NewClient(baseURL, apiKey string) Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

type findByIDRequest struct {
	Query string `json:"query"`
}

type findByIDResponse struct {
	Suggestions []struct {
		Data partyData `json:"data"`
	} `json:"suggestions"`
}

type partyData struct {
	INN  string `json:"inn"`
	OGRN string `json:"ogrn"`
	KPP  string `json:"kpp"`
	Name struct {
		FullWithOPF  string `json:"full_with_opf"`
		ShortWithOPF string `json:"short_with_opf"`
	} `json:"name"`
	Address struct {
		Value string                 `json:"value"`
		Data  map[string]interface{} `json:"data"`
	} `json:"address"`
	Management struct {
		Name string `json:"name"`
		Post string `json:"post"`
	} `json:"management"`
	State struct {
		Status           string `json:"status"`
		RegistrationDate *int64 `json:"registration_date"`
	} `json:"state"`
	Type string `json:"type"`
	OPF  struct {
		Code  string `json:"code"`
		Full  string `json:"full"`
		Short string `json:"short"`
	} `json:"opf"`
}

func (c *client) makeRequest(ctx context.Context, endpoint string, payload interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Token "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	return resp, nil
}

// FindPartyByINN calls findById/party and maps the first suggestion.
func (c *client) FindPartyByINN(ctx context.Context, inn string) (*models.Party, error) {
	resp, err := c.makeRequest(ctx, "/findById/party", findByIDRequest{Query: inn})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		zap.L().Warn("DaData API error", zap.Int("status", resp.StatusCode), zap.ByteString("body", body))
		return nil, fmt.Errorf("dadata returned status %d", resp.StatusCode)
	}

	var out findByIDResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode dadata response: %w", err)
	}
	if len(out.Suggestions) == 0 {
		return nil, ErrNoSuggestions
	}
	return toParty(out.Suggestions[0].Data), nil
}

func toParty(d partyData) *models.Party {
	active := d.State.Status == "ACTIVE"
	statusText := "Не действует"
	if active {
		statusText = "Действующая"
	}
	addrData := d.Address.Data
	if addrData == nil {
		addrData = map[string]interface{}{}
	}
	return &models.Party{
		INN:  d.INN,
		OGRN: d.OGRN,
		KPP:  d.KPP,
		Name: models.PartyName{Full: d.Name.FullWithOPF, Short: d.Name.ShortWithOPF},
		Address: models.PartyAddress{
			Full: d.Address.Value,
			Data: addrData,
		},
		Management: models.PartyManagement{Name: d.Management.Name, Post: d.Management.Post},
		Status: models.PartyStatus{
			Code:     d.State.Status,
			IsActive: active,
			Text:     statusText,
		},
		RegistrationDate: d.State.RegistrationDate,
		Type:             d.Type,
		OPF:              models.PartyOPF{Code: d.OPF.Code, Full: d.OPF.Full, Short: d.OPF.Short},
	}
}
