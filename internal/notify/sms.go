package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fuelquota-platform/fuelquota/internal/config"
)

// HTTPSMSSender posts form-encoded send requests to an SMS gateway
// (notify.lk-compatible API). It backs the best-effort post-dispense
// receipts.
type HTTPSMSSender struct {
	client   *http.Client
	baseURL  string
	userID   string
	apiKey   string
	senderID string
}

func NewHTTPSMSSender(cfg config.NotifyConfig) *HTTPSMSSender {
	return &HTTPSMSSender{
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  strings.TrimRight(cfg.SMSBaseURL, "/"),
		userID:   cfg.SMSUserID,
		apiKey:   cfg.SMSAPIKey,
		senderID: cfg.SMSSenderID,
	}
}

func (s *HTTPSMSSender) Send(ctx context.Context, destination, message string) error {
	form := url.Values{}
	form.Set("user_id", s.userID)
	form.Set("api_key", s.apiKey)
	form.Set("sender_id", s.senderID)
	form.Set("to", destination)
	form.Set("message", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/send", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting sms to %s: %w", destination, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned %d", resp.StatusCode)
	}
	return nil
}
