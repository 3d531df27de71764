package notifymock

import (
	"context"
	"sync"

	"coopfin-backend/internal/domain/notify"
)

var (
	_ notify.Notifier = (*Notifier)(nil)
	_ notify.Mailer   = (*Mailer)(nil)
)

// Sent is one recorded notification.
type Sent struct {
	UserID        string // empty for admin broadcasts
	CooperativeID string // set for admin broadcasts
	Event         string
	Title         string
	Body          string
	Data          map[string]any
	Excluded      []string
}

// Notifier records every delivery so tests can assert on what was sent.
type Notifier struct {
	mu     sync.Mutex
	Direct []Sent
	Admin  []Sent
}

func (n *Notifier) Notify(_ context.Context, userID, event, title, body string, data map[string]any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Direct = append(n.Direct, Sent{UserID: userID, Event: event, Title: title, Body: body, Data: data})
}

func (n *Notifier) NotifyAdmins(_ context.Context, cooperativeID, event, title, body string, data map[string]any, exclude ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Admin = append(n.Admin, Sent{CooperativeID: cooperativeID, Event: event, Title: title, Body: body, Data: data, Excluded: exclude})
}

// AdminEvents returns the event names of admin broadcasts, in order.
func (n *Notifier) AdminEvents() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.Admin))
	for _, s := range n.Admin {
		out = append(out, s.Event)
	}
	return out
}

// Mail is one recorded email.
type Mail struct {
	To      string
	Subject string
	Body    string
}

// Mailer records every send.
type Mailer struct {
	mu    sync.Mutex
	Sends []Mail
}

func (m *Mailer) Send(_ context.Context, to, subject, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sends = append(m.Sends, Mail{To: to, Subject: subject, Body: body})
}
