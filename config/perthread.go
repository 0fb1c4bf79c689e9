package config

import (
	"runtime"
	"sync"

	"github.com/indexedmem/idxpool/arena"
)

// threadID identifies the calling OS thread. Go has no first-class TLS;
// PerThread approximates indexed::SingleArenaConfig's thread-local
// storage by keying a map on the OS thread id, which requires the caller
// to pin its goroutine with runtime.LockOSThread for the duration it
// holds thread-scoped state (otherwise the Go runtime may migrate the
// goroutine to a different OS thread between calls, silently switching
// context). See Bind for the pinning helper.
type threadID = int64

// PerThread holds one Config per OS thread, the per-thread counterpart of
// Static. Every thread gets its own arena/stack/container triple; each
// thread must call SetStackTop once, via Bind, before its first handle
// operation (spec.md §4.F).
type PerThread[I arena.Unsigned] struct {
	opts Options

	mu   sync.RWMutex
	byID map[threadID]*Config[I]
}

// NewPerThread creates a PerThread; every thread's Config is constructed
// lazily on first access with the same opts.
func NewPerThread[I arena.Unsigned](opts Options) *PerThread[I] {
	return &PerThread[I]{
		opts: opts,
		byID: make(map[threadID]*Config[I]),
	}
}

func (p *PerThread[I]) configFor(id threadID) *Config[I] {
	p.mu.RLock()
	cfg, ok := p.byID[id]
	p.mu.RUnlock()
	if ok {
		return cfg
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if cfg, ok := p.byID[id]; ok {
		return cfg
	}
	cfg = New[I](p.opts)
	p.byID[id] = cfg
	return cfg
}

// Bind locks the calling goroutine to its current OS thread and returns
// that thread's Config along with an unlock function the caller must run
// when done performing thread-scoped operations (typically deferred).
// Callers that only need ToHandle/ToAddress on an already-configured
// thread can skip Bind and call Current/Of directly; Bind exists for the
// setup calls (SetArena, SetStackTop) that must land on a stable thread.
func (p *PerThread[I]) Bind() (*Config[I], func()) {
	runtime.LockOSThread()
	cfg := p.configFor(currentThreadID())
	return cfg, runtime.UnlockOSThread
}

// Current returns the calling thread's Config without pinning. The
// caller is responsible for having pinned earlier (e.g. via Bind) if it
// needs the result to stay valid for more than this call.
func (p *PerThread[I]) Current() *Config[I] {
	return p.configFor(currentThreadID())
}

// Forget drops a thread's Config, e.g. after the thread exits. Safe to
// call from a different thread than id named.
func (p *PerThread[I]) Forget(id int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.byID, id)
}
