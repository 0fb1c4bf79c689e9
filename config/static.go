package config

import (
	"sync"

	"github.com/indexedmem/idxpool/arena"
)

// Static holds one process-wide Config, the direct counterpart of
// indexed::SingleArenaConfig's static storage: one arena, one stack top,
// one container base shared by every caller in the process. It exists for
// parity with the original design; New's explicit-context Config is the
// recommended shape for new code (spec.md §9's redesign note (b)).
//
// Mutating a Static's context while live handles built against the old
// context still exist is undefined, same as the embedded Config.
type Static[I arena.Unsigned] struct {
	mu  sync.RWMutex
	cfg *Config[I]
}

// NewStatic wraps a fresh Config as process-wide shared state.
func NewStatic[I arena.Unsigned](opts Options) *Static[I] {
	return &Static[I]{cfg: New[I](opts)}
}

func (s *Static[I]) SetArena(a ArenaRef[I]) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.SetArena(a)
}

func (s *Static[I]) GetArena() ArenaRef[I] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.GetArena()
}

func (s *Static[I]) SetStackTop(addr uintptr) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.stackTop = addr
}

func (s *Static[I]) GetStackTop() uintptr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.stackTop
}

func (s *Static[I]) SetContainer(addr uintptr) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.mode != Universal {
		return ErrContainerBaseUnsupported
	}
	s.cfg.containerBase = addr
	return nil
}

func (s *Static[I]) GetContainer() uintptr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.containerBase
}

// ToHandle and ToAddress take the read lock for the duration of the
// translation; concurrent readers don't block each other, only a
// concurrent context mutation does.
func (s *Static[I]) ToHandle(addr uintptr) I {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.ToHandle(ptrFromUintptr(addr))
}

func (s *Static[I]) ToAddress(h I) uintptr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uintptrFromPtr(s.cfg.ToAddress(h))
}
