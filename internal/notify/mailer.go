// Package notify sends transactional email through an EmailJS-style HTTP
// API. Callers treat sends as best-effort.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spec-kit/it-helpdesk/internal/config"
)

// Mailer sends one templated notification to one recipient.
type Mailer interface {
	Send(ctx context.Context, templateID, recipient string, fields map[string]string) error
}

type emailJSMailer struct {
	apiURL    string
	serviceID string
	userID    string
	client    *http.Client
}

// NewEmailJSMailer builds the HTTP mailer from config.
func NewEmailJSMailer(cfg config.NotificationConfig) Mailer {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &emailJSMailer{
		apiURL:    cfg.APIURL,
		serviceID: cfg.ServiceID,
		userID:    cfg.UserID,
		client:    &http.Client{Timeout: timeout},
	}
}

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

func (m *emailJSMailer) Send(ctx context.Context, templateID, recipient string, fields map[string]string) error {
	params := make(map[string]string, len(fields)+1)
	for k, v := range fields {
		params[k] = v
	}
	params["to_email"] = recipient

	payload, err := json.Marshal(sendRequest{
		ServiceID:      m.serviceID,
		TemplateID:     templateID,
		UserID:         m.userID,
		TemplateParams: params,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mail service returned status %d", resp.StatusCode)
	}
	return nil
}
