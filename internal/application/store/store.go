// Package store holds the per-feature resource stores. Each store owns a
// mutex-guarded snapshot of server state plus IsLoading and Error, and every
// action runs begin, service call, then commit or fail. Actions report
// success as a bool and leave the failure text in Error.
package store

import (
	"log/slog"
	"sync"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/shared"
	"github.com/jatmnk9/UNAYOE-web-sub001/pkg/logger"
)

// Status is the loading and error pair every snapshot carries. Both may be
// set at once.
type Status struct {
	IsLoading bool
	Error     string
}

// HasError reports whether the last action failed.
func (s Status) HasError() bool { return s.Error != "" }

// Options configure a store.
type Options struct {
	Logger *slog.Logger

	// Events receives a store.changed event after every state change.
	Events shared.EventPublisher

	// SerializeToggles runs like toggles for the same recommendation one at
	// a time.
	SerializeToggles bool
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// call tracks one running action. token is non-zero for list loads.
type call struct {
	action   string
	fallback string
	list     string
	token    uint64
	epoch    uint64
}

// base is embedded by every store. mu also guards the embedding store's
// fields; apply callbacks run with it held and must not block.
type base struct {
	name   string
	logger *slog.Logger
	events shared.EventPublisher

	mu       sync.Mutex
	inflight int
	errMsg   string

	// seq issues load tokens; latest holds the newest token per list.
	seq    uint64
	latest map[string]uint64

	// epoch advances on every reset. Results of calls begun in an earlier
	// epoch are dropped.
	epoch uint64
}

func (b *base) init(name string, opts Options) {
	opts = opts.withDefaults()
	b.name = name
	b.logger = opts.Logger.With(logger.Store(name))
	b.events = opts.Events
	b.latest = make(map[string]uint64)
}

// begin marks an action as running and clears the previous error.
func (b *base) begin(action, fallback string) call {
	b.mu.Lock()
	b.inflight++
	b.errMsg = ""
	epoch := b.epoch
	st := b.statusLocked()
	b.mu.Unlock()

	b.logger.Debug("action started", logger.Operation(action))
	b.notify(action, st)
	return call{action: action, fallback: fallback, epoch: epoch}
}

// beginLoad is begin for a load that replaces list. A load that is no
// longer the newest for its list when it resolves is discarded.
func (b *base) beginLoad(list, action, fallback string) call {
	b.mu.Lock()
	b.seq++
	token := b.seq
	b.latest[list] = token
	b.mu.Unlock()

	c := b.begin(action, fallback)
	c.list = list
	c.token = token
	return c
}

// end settles c, running apply on success.
func (b *base) end(c call, err error, apply func()) bool {
	return b.settle(c, err, apply, nil)
}

// settle settles c. onSuccess or onFailure run under the lock unless the
// call is a stale load or the store was reset since c began. A call
// dropped by a reset reports false.
func (b *base) settle(c call, err error, onSuccess, onFailure func()) bool {
	b.mu.Lock()
	if c.epoch != b.epoch {
		b.mu.Unlock()
		b.logger.Debug("result dropped after reset", logger.Operation(c.action), logger.Err(err))
		return false
	}
	if b.inflight > 0 {
		b.inflight--
	}
	stale := c.token != 0 && c.token != b.latest[c.list]
	if !stale {
		if err != nil {
			b.errMsg = shared.Message(err, c.fallback)
			if onFailure != nil {
				onFailure()
			}
		} else if onSuccess != nil {
			onSuccess()
		}
	}
	st := b.statusLocked()
	b.mu.Unlock()

	switch {
	case stale:
		b.logger.Debug("stale load discarded", logger.Operation(c.action))
	case err != nil:
		b.logger.Warn("action failed", logger.Operation(c.action), logger.Err(err))
	}
	if !stale {
		b.notify(c.action, st)
	}
	return err == nil
}

// mutate applies a local-only change.
func (b *base) mutate(action string, fn func()) {
	b.mu.Lock()
	fn()
	st := b.statusLocked()
	b.mu.Unlock()
	b.notify(action, st)
}

// since returns the current epoch, for local changes that must not
// outlive a reset.
func (b *base) since() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.epoch
}

// mutateSince is mutate that does nothing when the store was reset after
// epoch was taken.
func (b *base) mutateSince(epoch uint64, action string, fn func()) bool {
	b.mu.Lock()
	if b.epoch != epoch {
		b.mu.Unlock()
		b.logger.Debug("change dropped after reset", logger.Operation(action))
		return false
	}
	fn()
	st := b.statusLocked()
	b.mu.Unlock()
	b.notify(action, st)
	return true
}

// ClearError clears the recorded error.
func (b *base) ClearError() {
	b.mutate("ClearError", func() { b.errMsg = "" })
}

// resetLocked clears status and invalidates every call still in flight.
func (b *base) resetLocked() {
	b.epoch++
	b.inflight = 0
	b.errMsg = ""
	clear(b.latest)
}

func (b *base) statusLocked() Status {
	return Status{IsLoading: b.inflight > 0, Error: b.errMsg}
}

func (b *base) notify(action string, st Status) {
	if b.events == nil {
		return
	}
	if err := b.events.Publish(shared.NewStoreChangedEvent(b.name, action, st.IsLoading, st.Error)); err != nil {
		b.logger.Debug("change event dropped", logger.Operation(action), logger.Err(err))
	}
}

func (b *base) publish(e shared.Event) {
	if b.events == nil {
		return
	}
	if err := b.events.Publish(e); err != nil {
		b.logger.Debug("event dropped", "event_type", e.EventType(), logger.Err(err))
	}
}
