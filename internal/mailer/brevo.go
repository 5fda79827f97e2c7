package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.brevo.com/v3"

// ErrDuplicateContact the contact already exists upstream. Callers treat
// this as a soft success (the subscriber just has to confirm again).
var ErrDuplicateContact = errors.New("contact already exists")

// Recipient a name/address pair as Brevo expects it
type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// BrevoClient is a thin client for the Brevo transactional email and
// campaign HTTP API.
type BrevoClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewBrevoClient creates a new Brevo API client
func NewBrevoClient(apiKey string) *BrevoClient {
	return &BrevoClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SetBaseURL overrides the API endpoint (tests)
func (c *BrevoClient) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// do sends a JSON request and decodes the response body into out when the
// call succeeds and out is non nil.
func (c *BrevoClient) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("brevo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil {
			if apiErr.Code == "duplicate_parameter" {
				return ErrDuplicateContact
			}
			return fmt.Errorf("brevo API error (%d): %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("brevo API error (%d)", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

type sendEmailRequest struct {
	Sender     Recipient              `json:"sender"`
	To         []Recipient            `json:"to"`
	TemplateID int64                  `json:"templateId"`
	Params     map[string]interface{} `json:"params,omitempty"`
}

// SendTemplateEmail sends a transactional email built from a template
func (c *BrevoClient) SendTemplateEmail(ctx context.Context, sender Recipient, to []Recipient, templateID int64, params map[string]interface{}) error {
	return c.do(ctx, http.MethodPost, "/smtp/email", sendEmailRequest{
		Sender:     sender,
		To:         to,
		TemplateID: templateID,
		Params:     params,
	}, nil)
}

type createContactRequest struct {
	Email          string  `json:"email"`
	IncludeListIDs []int64 `json:"includeListIds"`
	TemplateID     int64   `json:"templateId,omitempty"`
	RedirectionURL string  `json:"redirectionUrl,omitempty"`
}

// CreateContact subscribes an address to a list; a confirmation template
// is sent when templateID is set. ErrDuplicateContact when already present.
func (c *BrevoClient) CreateContact(ctx context.Context, email string, listID, templateID int64, redirectionURL string) error {
	return c.do(ctx, http.MethodPost, "/contacts", createContactRequest{
		Email:          email,
		IncludeListIDs: []int64{listID},
		TemplateID:     templateID,
		RedirectionURL: redirectionURL,
	}, nil)
}

// Contact one list subscriber
type Contact struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type listContactsResponse struct {
	Contacts []Contact `json:"contacts"`
	Count    int64     `json:"count"`
}

// ListContacts fetches the subscribers of a list
func (c *BrevoClient) ListContacts(ctx context.Context, listID int64) ([]Contact, error) {
	var resp listContactsResponse
	path := fmt.Sprintf("/contacts/lists/%d/contacts", listID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Contacts, nil
}

type createCampaignRequest struct {
	Name        string    `json:"name"`
	Subject     string    `json:"subject"`
	Sender      Recipient `json:"sender"`
	HTMLContent string    `json:"htmlContent"`
	Recipients  struct {
		ListIDs []int64 `json:"listIds"`
	} `json:"recipients"`
}

type createCampaignResponse struct {
	ID int64 `json:"id"`
}

// CreateCampaign creates a draft email campaign and returns its id
func (c *BrevoClient) CreateCampaign(ctx context.Context, name, subject string, sender Recipient, htmlContent string, listID int64) (int64, error) {
	req := createCampaignRequest{
		Name:        name,
		Subject:     subject,
		Sender:      sender,
		HTMLContent: htmlContent,
	}
	req.Recipients.ListIDs = []int64{listID}

	var resp createCampaignResponse
	if err := c.do(ctx, http.MethodPost, "/emailCampaigns", req, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// SendCampaignNow triggers immediate delivery of a campaign
func (c *BrevoClient) SendCampaignNow(ctx context.Context, campaignID int64) error {
	path := fmt.Sprintf("/emailCampaigns/%d/sendNow", campaignID)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}
