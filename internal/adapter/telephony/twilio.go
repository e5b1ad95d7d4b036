// Package telephony wraps the Twilio REST API for outbound call placement.
package telephony

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// CreateCallInput describes one outbound call to place.
type CreateCallInput struct {
	// To is the callee number in E.164 form.
	To string
	// From is the caller-id number.
	From string
	// WebhookURL is invoked by the provider when the call connects; it must
	// carry the dispute identifier and serialized context, because it is the
	// only state that survives to the first webhook turn.
	WebhookURL string
	// StatusCallbackURL receives lifecycle status updates.
	StatusCallbackURL string
	// Record enables call recording.
	Record bool
	// RecordingStatusCallbackURL receives recording notifications.
	RecordingStatusCallbackURL string
}

// Dialer places outbound calls.
type Dialer interface {
	// CreateCall starts an outbound call and returns the provider call SID.
	CreateCall(ctx context.Context, in *CreateCallInput) (string, error)
}

// TwilioClient implements Dialer against the Twilio Calls API.
type TwilioClient struct {
	accountSID string
	authToken  string
	baseURL    string
	client     *http.Client
}

// NewTwilioClient creates a new Twilio dialer.
func NewTwilioClient(accountSID, authToken string) (*TwilioClient, error) {
	if accountSID == "" {
		return nil, errors.New("twilio: account SID is required")
	}
	if authToken == "" {
		return nil, errors.New("twilio: auth token is required")
	}
	return &TwilioClient{
		accountSID: accountSID,
		authToken:  authToken,
		baseURL:    fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s", accountSID),
		client:     &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Ensure TwilioClient implements Dialer interface.
var _ Dialer = (*TwilioClient)(nil)

// CreateCall starts an outbound call via the Twilio API.
func (c *TwilioClient) CreateCall(ctx context.Context, in *CreateCallInput) (string, error) {
	if in.To == "" {
		return "", errors.New("twilio: destination number is required")
	}
	if in.WebhookURL == "" {
		return "", errors.New("twilio: webhook URL is required")
	}

	params := url.Values{
		"To":                   {in.To},
		"From":                 {in.From},
		"Url":                  {in.WebhookURL},
		"StatusCallback":       {in.StatusCallbackURL},
		"StatusCallbackEvent":  {"initiated", "ringing", "answered", "completed"},
		"StatusCallbackMethod": {"POST"},
		"Timeout":              {"30"},
	}
	if in.Record {
		params.Set("Record", "true")
		params.Set("RecordingStatusCallback", in.RecordingStatusCallbackURL)
	}

	body, err := c.apiRequest(ctx, "/Calls.json", params)
	if err != nil {
		return "", fmt.Errorf("twilio: failed to initiate call: %w", err)
	}

	var result struct {
		SID string `json:"sid"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("twilio: failed to parse response: %w", err)
	}
	if result.SID == "" {
		return "", errors.New("twilio: response missing call sid")
	}
	return result.SID, nil
}

// apiRequest makes an authenticated request to the Twilio API.
func (c *TwilioClient) apiRequest(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewBufferString(params.Encode()))
	if err != nil {
		return nil, err
	}

	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}
