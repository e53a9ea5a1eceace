package db

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Change describes a single row-level mutation reported by the database.
// Row triggers publish these as JSON payloads on the notification channel.
type Change struct {
	Table    string `json:"table"`
	TenantID string `json:"tenant_id"`
}

// ChangeChannel is the LISTEN/NOTIFY channel the row triggers publish on.
const ChangeChannel = "clinic_changes"

// TableAll is the table name of a resync marker: it stands in for changes
// that were dropped while a subscriber's buffer was full, and the consumer
// must treat every table as changed.
const TableAll = "*"

type changeSub struct {
	tenantID string
	ch       chan Change
	dropped  bool
}

// Listener holds a dedicated database connection with LISTEN active and fans
// incoming change notifications out to subscribers by tenant. Subscriber
// channels are buffered; a slow consumer drops notifications rather than
// blocking the listen loop.
type Listener struct {
	url string
	log zerolog.Logger

	mu   sync.RWMutex
	subs map[int]*changeSub
	next int
}

// NewListener creates a Listener for the given database URL. Run must be
// called before any notifications are delivered.
func NewListener(databaseURL string, log zerolog.Logger) *Listener {
	return &Listener{
		url:  databaseURL,
		log:  log,
		subs: make(map[int]*changeSub),
	}
}

// Subscribe registers interest in changes for one tenant. An empty tenantID
// subscribes to all tenants. The returned cancel func must be called to
// release the subscription.
func (l *Listener) Subscribe(tenantID string) (<-chan Change, func()) {
	ch := make(chan Change, 64)

	l.mu.Lock()
	id := l.next
	l.next++
	l.subs[id] = &changeSub{tenantID: tenantID, ch: ch}
	l.mu.Unlock()

	cancel := func() {
		l.mu.Lock()
		if _, ok := l.subs[id]; ok {
			delete(l.subs, id)
			close(ch)
		}
		l.mu.Unlock()
	}
	return ch, cancel
}

// Run connects, issues LISTEN, and delivers notifications until the context
// is cancelled. Connection failures are retried with backoff; subscribers
// stay registered across reconnects.
func (l *Listener) Run(ctx context.Context) {
	backoff := time.Second
	for {
		if err := l.listen(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			l.log.Warn().Err(err).Dur("retry_in", backoff).Msg("change listener disconnected")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.url)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+ChangeChannel); err != nil {
		return err
	}
	l.log.Info().Str("channel", ChangeChannel).Msg("change listener connected")

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}

		var c Change
		if err := json.Unmarshal([]byte(n.Payload), &c); err != nil {
			l.log.Warn().Str("payload", n.Payload).Msg("malformed change notification")
			continue
		}
		l.dispatch(c)
	}
}

// dispatch fans one change out to matching subscribers without blocking. A
// full buffer marks the subscriber dropped; once its buffer has room again
// it receives a TableAll resync marker covering everything it missed.
func (l *Listener) dispatch(c Change) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, sub := range l.subs {
		if sub.tenantID != "" && sub.tenantID != c.TenantID {
			continue
		}
		if sub.dropped {
			select {
			case sub.ch <- Change{Table: TableAll, TenantID: sub.tenantID}:
				sub.dropped = false
			default:
				continue // still full; the pending resync covers this change too
			}
		}
		select {
		case sub.ch <- c:
		default:
			sub.dropped = true
		}
	}
}

// SubscriberCount returns the number of active subscriptions.
func (l *Listener) SubscriberCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.subs)
}
