package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, phone, message string) error {
	log.Printf("sms to %s: %s", phone, message)
	return nil
}

type NoopNotifier struct{}

func (NoopNotifier) Send(context.Context, string, string) error {
	return nil
}

// WebhookNotifier posts {recipient, message} as JSON to an SMS gateway.
type WebhookNotifier struct {
	url    string
	token  string
	client *http.Client
}

func NewWebhookNotifier(url, token string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (n *WebhookNotifier) Send(ctx context.Context, phone, message string) error {
	body, err := json.Marshal(map[string]string{
		"channel":   "sms",
		"recipient": phone,
		"message":   message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway rejected request: %s", resp.Status)
	}
	return nil
}
