package dashboard

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicops/clinicops/internal/domain/appointment"
	"github.com/clinicops/clinicops/internal/domain/inventory"
	"github.com/clinicops/clinicops/internal/domain/patient"
)

// Engine aggregates one tenant's live sources into published snapshots.
//
// All state lives on a single event loop: change notifications, fetch
// completions and computation results arrive over channels and are applied
// in order. Fetches and computations run in short-lived goroutines that
// only report back over those channels, so no locking is needed.
//
// The barrier rule: nothing is published until every source has delivered
// at least once. After that, any source change bumps the generation
// counter; a computation carries the generation it was started from, and a
// result whose generation is stale by the time it lands is discarded and a
// fresh computation started from the latest data.
type Engine struct {
	tenantID string
	store    Store
	feed     ChangeFeed
	pub      *Publisher
	log      zerolog.Logger
	now      func() time.Time

	fetches chan fetchResult
	results chan computeResult

	state       map[sourceKey]*sourceState
	inFlight    map[sourceKey]bool
	pending     map[sourceKey]bool
	gen         uint64
	computedGen uint64
	computing   bool
}

type fetchResult struct {
	key  sourceKey
	data any
	err  error
}

type computeResult struct {
	gen  uint64
	snap *MetricsSnapshot
}

func NewEngine(tenantID string, store Store, feed ChangeFeed, pub *Publisher, log zerolog.Logger) *Engine {
	e := &Engine{
		tenantID: tenantID,
		store:    store,
		feed:     feed,
		pub:      pub,
		log:      log.With().Str("tenant_id", tenantID).Logger(),
		now:      time.Now,
		fetches:  make(chan fetchResult),
		results:  make(chan computeResult),
		state:    make(map[sourceKey]*sourceState, len(allSources)),
		inFlight: make(map[sourceKey]bool, len(allSources)),
		pending:  make(map[sourceKey]bool, len(allSources)),
	}
	for _, key := range allSources {
		e.state[key] = &sourceState{}
	}
	return e
}

// Run subscribes to the change feed, primes all sources and processes
// events until ctx is cancelled. Cancelling ctx releases the subscription
// and every outstanding fetch together.
func (e *Engine) Run(ctx context.Context) {
	changes, cancel := e.feed.Subscribe(e.tenantID)
	defer cancel()

	for _, key := range allSources {
		e.refetch(ctx, key)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ch, ok := <-changes:
			if !ok {
				return
			}
			for _, key := range sourcesForTable(ch.Table) {
				e.refetch(ctx, key)
			}
		case res := <-e.fetches:
			e.applyFetch(ctx, res)
		case res := <-e.results:
			e.applyResult(ctx, res)
		}
	}
}

// refetch reloads one source. A change arriving while that source is
// already being fetched is coalesced into a single follow-up fetch.
func (e *Engine) refetch(ctx context.Context, key sourceKey) {
	if e.inFlight[key] {
		e.pending[key] = true
		return
	}
	e.inFlight[key] = true
	go func() {
		data, err := e.fetch(ctx, key)
		select {
		case e.fetches <- fetchResult{key: key, data: data, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (e *Engine) fetch(ctx context.Context, key sourceKey) (any, error) {
	now := e.now()
	switch key {
	case srcPatients:
		return e.store.Patients(ctx, e.tenantID)
	case srcToday:
		return e.store.TodayAppointments(ctx, e.tenantID, now)
	case srcUpcoming:
		return e.store.UpcomingAppointments(ctx, e.tenantID, now, upcomingLimit)
	case srcMonth:
		return e.store.MonthAppointments(ctx, e.tenantID, now)
	case srcInventory:
		return e.store.Inventory(ctx, e.tenantID)
	}
	return nil, nil
}

// applyFetch records a fetch outcome. A failure marks the source failed but
// does not clear ready: the last good collection stays in use until fresh
// data lands.
func (e *Engine) applyFetch(ctx context.Context, res fetchResult) {
	e.inFlight[res.key] = false
	st := e.state[res.key]
	if res.err != nil {
		st.failed = true
		e.log.Warn().Err(res.err).Str("source", string(res.key)).Msg("source fetch failed")
		e.pub.PublishError(e.tenantID, string(res.key)+" could not be refreshed")
	} else {
		st.data = res.data
		st.ready = true
		st.failed = false
		e.gen++
	}
	if e.pending[res.key] {
		e.pending[res.key] = false
		e.refetch(ctx, res.key)
	}
	e.maybeCompute(ctx)
}

// applyResult publishes a computation result unless a newer generation has
// superseded it, in which case the result is dropped and maybeCompute
// starts over from current data.
func (e *Engine) applyResult(ctx context.Context, res computeResult) {
	e.computing = false
	if res.gen == e.gen {
		e.pub.Publish(res.snap)
	} else {
		e.log.Debug().Uint64("stale_gen", res.gen).Uint64("current_gen", e.gen).Msg("discarding superseded snapshot")
	}
	e.maybeCompute(ctx)
}

func (e *Engine) allReady() bool {
	for _, key := range allSources {
		if !e.state[key].ready {
			return false
		}
	}
	return true
}

func (e *Engine) maybeCompute(ctx context.Context) {
	if e.computing || e.gen == e.computedGen || !e.allReady() {
		return
	}
	e.computing = true
	e.computedGen = e.gen

	gen := e.gen
	data := e.capture()
	now := e.now()
	go func() {
		revenue := fetchRevenue(ctx, e.store, e.tenantID, now, e.log, e.pub)
		snap := buildSnapshot(e.tenantID, data, revenue, now)
		select {
		case e.results <- computeResult{gen: gen, snap: snap}:
		case <-ctx.Done():
		}
	}()
}

// capture copies the five collection references for a computation. The
// loop never mutates a delivered collection, so sharing the slices is safe.
func (e *Engine) capture() sourceData {
	return sourceData{
		patients:  e.state[srcPatients].data.([]*patient.Patient),
		today:     e.state[srcToday].data.([]*appointment.Appointment),
		upcoming:  e.state[srcUpcoming].data.([]*appointment.Appointment),
		month:     e.state[srcMonth].data.([]*appointment.Appointment),
		inventory: e.state[srcInventory].data.([]*inventory.Item),
	}
}
