package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/noah-isme/swim-school-site/pkg/config"
)

const sendPath = "/api/v1.0/email/send"

// DeliveryResult mirrors the status line returned by the email service.
type DeliveryResult struct {
	Status int    `json:"status"`
	Text   string `json:"text"`
}

// DeliveryError is returned when the service answers with a non-2xx status.
type DeliveryError struct {
	Result DeliveryResult
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("email service responded %d: %s", e.Result.Status, e.Result.Text)
}

// Client sends template parameters to an EmailJS-compatible REST endpoint.
type Client struct {
	endpoint   string
	serviceID  string
	templateID string
	publicKey  string
	privateKey string
	httpClient *http.Client
}

// NewClient builds a client from the email configuration. The HTTP client has no timeout.
func NewClient(cfg config.EmailConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		serviceID:  cfg.ServiceID,
		templateID: cfg.TemplateID,
		publicKey:  cfg.PublicKey,
		privateKey: cfg.PrivateKey,
		httpClient: httpClient,
	}
}

// Configured reports whether service, template and public key are all set.
func (c *Client) Configured() bool {
	return c.serviceID != "" && c.templateID != "" && c.publicKey != ""
}

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

// Send delivers one message. There is no retry.
func (c *Client) Send(ctx context.Context, params map[string]string) (*DeliveryResult, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("email service is not configured")
	}

	body, err := json.Marshal(sendRequest{
		ServiceID:      c.serviceID,
		TemplateID:     c.templateID,
		UserID:         c.publicKey,
		AccessToken:    c.privateKey,
		TemplateParams: params,
	})
	if err != nil {
		return nil, fmt.Errorf("encode email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+sendPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return nil, fmt.Errorf("read email response: %w", err)
	}

	result := DeliveryResult{Status: resp.StatusCode, Text: strings.TrimSpace(string(text))}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &DeliveryError{Result: result}
	}
	return &result, nil
}
