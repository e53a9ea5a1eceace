package dashboard

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	ws "github.com/clinicops/clinicops/internal/platform/websocket"
)

// Manager starts one engine per tenant on first use and keeps it running
// for the process lifetime. All engines share one base context so Shutdown
// tears down every subscription together.
type Manager struct {
	store  Store
	feed   ChangeFeed
	events ws.EventPublisher
	log    zerolog.Logger

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	engines map[string]*tenantEngine
}

type tenantEngine struct {
	pub    *Publisher
	cancel context.CancelFunc
}

func NewManager(store Store, feed ChangeFeed, events ws.EventPublisher, log zerolog.Logger) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		store:   store,
		feed:    feed,
		events:  events,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
		engines: make(map[string]*tenantEngine),
	}
}

// Publisher returns the snapshot publisher for a tenant, starting that
// tenant's engine if it is not running yet.
func (m *Manager) Publisher(tenantID string) *Publisher {
	m.mu.Lock()
	defer m.mu.Unlock()

	if te, ok := m.engines[tenantID]; ok {
		return te.pub
	}

	pub := NewPublisher(m.events, m.log)
	engineCtx, cancel := context.WithCancel(m.ctx)
	engine := NewEngine(tenantID, m.store, m.feed, pub, m.log)
	go engine.Run(engineCtx)

	m.engines[tenantID] = &tenantEngine{pub: pub, cancel: cancel}
	m.log.Info().Str("tenant_id", tenantID).Msg("metrics engine started")
	return pub
}

// StopTenant tears down one tenant's engine, for example after its clinic
// is deactivated. The next Publisher call starts a fresh one.
func (m *Manager) StopTenant(tenantID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if te, ok := m.engines[tenantID]; ok {
		te.cancel()
		delete(m.engines, tenantID)
	}
}

// EngineCount reports how many tenant engines are running.
func (m *Manager) EngineCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.engines)
}

// Shutdown stops every engine.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancel()
	m.engines = make(map[string]*tenantEngine)
}
