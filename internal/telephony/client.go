// Package telephony provides the outbound call placement client for the
// voice gateway.
package telephony

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dialer_backend/internal/conversation"
	"dialer_backend/platform/config"
	"dialer_backend/platform/logger"
)

// Client requests outbound call initiation from a Twilio-style REST API.
// Each placed call is pointed at the conversation webhook so the dialogue
// engine receives its turns.
type Client struct {
	baseURL     string
	accountSID  string
	authToken   string
	from        string
	callbackURL string
	http        *http.Client
	log         *logger.Logger
}

type providerError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewClient creates a call placement client from config. Returns nil when
// telephony credentials are not configured.
func NewClient(cfg config.TelephonyConfig, log *logger.Logger) *Client {
	if !cfg.IsTelephonyEnabled() {
		return nil
	}

	return &Client{
		baseURL:     strings.TrimRight(cfg.GetTelephonyBaseURL(), "/"),
		accountSID:  cfg.GetTelephonyAccountSID(),
		authToken:   cfg.GetTelephonyAuthToken(),
		from:        cfg.GetOriginPhoneNumber(),
		callbackURL: strings.TrimRight(cfg.GetVoiceCallbackBaseURL(), "/") + conversation.WebhookPath,
		http:        &http.Client{Timeout: 10 * time.Second},
		log:         log,
	}
}

// PlaceCall asks the gateway to dial the destination number. The gateway
// posts call events to the conversation webhook once the callee answers.
func (c *Client) PlaceCall(ctx context.Context, to string) error {
	if c == nil {
		return fmt.Errorf("telephony is not configured")
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.from)
	form.Set("Url", c.callbackURL)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Calls.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}

	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call placement request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)

		var provErr providerError
		if err := json.Unmarshal(data, &provErr); err == nil && provErr.Message != "" {
			return fmt.Errorf("call placement rejected (%d): %s", provErr.Code, provErr.Message)
		}
		return fmt.Errorf("call placement returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	c.log.Info("call queued", "to", to)
	return nil
}
