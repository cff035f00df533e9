package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// webhookService posts text reports to a WeCom-style group robot webhook.
type webhookService struct {
	httpClient *http.Client
}

// NewWebhookService creates a new WebhookSender.
func NewWebhookService() WebhookSender {
	return &webhookService{
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// textPayload is the robot message envelope the webhook expects.
type textPayload struct {
	MsgType string `json:"msgtype"`
	Text    struct {
		Content string `json:"content"`
	} `json:"text"`
}

// SendText posts the content as a text message. The caller decides what to
// do with a failure; the snapshot job only logs it.
func (s *webhookService) SendText(ctx context.Context, url, content string) error {
	payload := textPayload{MsgType: "text"}
	payload.Text.Content = content

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
