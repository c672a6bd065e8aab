package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// TwilioBaseURL is the Twilio REST API root
const TwilioBaseURL = "https://api.twilio.com"

// Twilio sends messages through the Twilio Messages API
type Twilio struct {
	baseURL    string
	accountSID string
	authToken  string
	from       string
	client     *http.Client
}

// NewTwilio creates a Twilio provider. An empty baseURL uses TwilioBaseURL.
func NewTwilio(baseURL, accountSID, authToken, from string) *Twilio {
	if baseURL == "" {
		baseURL = TwilioBaseURL
	}
	return &Twilio{
		baseURL:    strings.TrimRight(baseURL, "/"),
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (*Twilio) Name() string { return "twilio" }

type twilioResponse struct {
	SID     string `json:"sid"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (t *Twilio) Send(ctx context.Context, to, body string) (string, error) {
	if t.accountSID == "" || t.authToken == "" || t.from == "" {
		return "", errors.New("twilio is not configured (TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, TWILIO_FROM)")
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.baseURL, url.PathEscape(t.accountSID))
	form := url.Values{"To": {to}, "From": {t.from}, "Body": {body}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build twilio request: %w", err)
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("twilio request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var parsed twilioResponse
	_ = json.Unmarshal(raw, &parsed)

	if resp.StatusCode >= 300 {
		if parsed.Message != "" {
			return "", fmt.Errorf("twilio HTTP %d: %s (code %d)", resp.StatusCode, parsed.Message, parsed.Code)
		}
		return "", fmt.Errorf("twilio HTTP %d", resp.StatusCode)
	}
	return parsed.SID, nil
}
