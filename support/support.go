// Package support relays a help request to the store's chat contact.
package support

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pos-storefront/model"
)

type Notifier struct {
	client  *http.Client
	url     string
	token   string
	chatID  string
	message string
}

func NewNotifier(url, token, chatID, message string, timeout time.Duration) *Notifier {
	return &Notifier{
		client:  &http.Client{Timeout: timeout},
		url:     url,
		token:   token,
		chatID:  chatID,
		message: message,
	}
}

type sendMessageReq struct {
	ChatID  string `json:"chatId"`
	Message string `json:"message"`
}

// Send posts the configured message once. Any non-2xx answer is a backend
// error carrying the status and the start of the body.
func (n *Notifier) Send(ctx context.Context) error {
	body, err := json.Marshal(sendMessageReq{ChatID: n.chatID, Message: n.message})
	if err != nil {
		return model.Backend("support request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return model.Backend("support request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return model.Backend("support request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return model.Backend("support request", fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet)))
	}
	return nil
}
