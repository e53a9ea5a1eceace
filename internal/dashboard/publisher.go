package dashboard

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	ws "github.com/clinicops/clinicops/internal/platform/websocket"
)

// Publisher holds the latest completed snapshot for one tenant and fans it
// out to stream subscribers. Until the first publish it reports loading;
// after that the previous snapshot stays visible while a newer computation
// is in flight.
type Publisher struct {
	latest atomic.Pointer[MetricsSnapshot]
	events ws.EventPublisher
	log    zerolog.Logger
}

func NewPublisher(events ws.EventPublisher, log zerolog.Logger) *Publisher {
	return &Publisher{events: events, log: log}
}

// Publish atomically replaces the visible snapshot and notifies stream
// subscribers.
func (p *Publisher) Publish(snap *MetricsSnapshot) {
	p.latest.Store(snap)
	if p.events == nil {
		return
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		p.log.Error().Err(err).Str("tenant_id", snap.TenantID).Msg("snapshot marshal failed")
		return
	}
	event := ws.Event{
		Type:      ws.EventSnapshot,
		TenantID:  snap.TenantID,
		Timestamp: snap.GeneratedAt,
		Data:      payload,
	}
	if err := p.events.Publish(context.Background(), event); err != nil {
		p.log.Warn().Err(err).Str("tenant_id", snap.TenantID).Msg("snapshot broadcast failed")
	}
}

// PublishError emits a non-blocking error notification to stream
// subscribers. The latest snapshot is untouched.
func (p *Publisher) PublishError(tenantID, msg string) {
	if p.events == nil {
		return
	}
	event := ws.Event{
		Type:      ws.EventError,
		TenantID:  tenantID,
		Timestamp: time.Now(),
		Message:   msg,
	}
	if err := p.events.Publish(context.Background(), event); err != nil {
		p.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("error broadcast failed")
	}
}

// Latest returns the most recent snapshot, or nil with loading=true before
// the first publish.
func (p *Publisher) Latest() (*MetricsSnapshot, bool) {
	snap := p.latest.Load()
	return snap, snap == nil
}
