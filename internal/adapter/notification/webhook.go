package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"coopfin-backend/internal/domain/notify"
)

// WebhookNotifier posts notification events to the host system's inbox
// endpoint. Delivery is best-effort: posts run in their own goroutine, and
// a failed delivery is logged and dropped, never retried and never surfaced
// to the workflow that produced the event.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

var _ notify.Notifier = (*WebhookNotifier)(nil)

// NewWebhookNotifier returns a notifier posting to url. An empty url yields
// a no-op notifier, which is how local and test runs disable delivery.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

type webhookPayload struct {
	// Target is a user id for direct notifications, or a cooperative id
	// with Broadcast set for admin fan-out.
	Target    string         `json:"target"`
	Broadcast bool           `json:"broadcast,omitempty"`
	Exclude   []string       `json:"exclude,omitempty"`
	Event     string         `json:"event"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Data      map[string]any `json:"data,omitempty"`
	SentAt    time.Time      `json:"sent_at"`
}

func (n *WebhookNotifier) Notify(ctx context.Context, userID, event, title, body string, data map[string]any) {
	n.post(webhookPayload{
		Target: userID,
		Event:  event,
		Title:  title,
		Body:   body,
		Data:   data,
		SentAt: time.Now().UTC(),
	})
}

func (n *WebhookNotifier) NotifyAdmins(ctx context.Context, cooperativeID, event, title, body string, data map[string]any, exclude ...string) {
	n.post(webhookPayload{
		Target:    cooperativeID,
		Broadcast: true,
		Exclude:   exclude,
		Event:     event,
		Title:     title,
		Body:      body,
		Data:      data,
		SentAt:    time.Now().UTC(),
	})
}

func (n *WebhookNotifier) post(p webhookPayload) {
	if n.url == "" {
		return
	}
	go func() {
		payload, err := json.Marshal(p)
		if err != nil {
			log.Printf("notification: marshal %s: %v", p.Event, err)
			return
		}
		// fresh context: the triggering request may already be done
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
		if err != nil {
			log.Printf("notification: build request: %v", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := n.client.Do(req)
		if err != nil {
			log.Printf("notification: deliver %s: %v", p.Event, err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			log.Printf("notification: deliver %s: status %d", p.Event, resp.StatusCode)
		}
	}()
}
