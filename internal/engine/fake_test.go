//go:build unit

package engine

import (
	"context"
	"strings"
	"sync"

	"netprofiler/internal/types"
)

// fakeHost is a stateful stand-in for the OS: it serves both the link
// listing and the platform backend from one table of interfaces.
type fakeHost struct {
	mu         sync.Mutex
	interfaces map[string]types.InterfaceSnapshot

	// applyHook runs before a state is stored; a non-nil error aborts the
	// apply, and keep=false drops the write so it never takes effect.
	applyHook func(call int, iface string, target types.AddressingState) (keep bool, err error)

	// foldCase makes interface names case-insensitive, as on Windows.
	foldCase bool

	reads   int
	applies []types.AddressingState
}

func newFakeHost(snaps ...types.InterfaceSnapshot) *fakeHost {
	h := &fakeHost{interfaces: make(map[string]types.InterfaceSnapshot)}
	for _, s := range snaps {
		h.interfaces[s.Name] = s
	}
	return h
}

func (h *fakeHost) Name() string { return "fake" }

func (h *fakeHost) CanonicalName(name string) string {
	if h.foldCase {
		return strings.ToLower(name)
	}
	return name
}

func (h *fakeHost) ListLinks(ctx context.Context) ([]types.Link, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	links := make([]types.Link, 0, len(h.interfaces))
	for _, s := range h.interfaces {
		links = append(links, types.Link{Name: s.Name, HardwareAddress: s.HardwareAddress, IsUp: s.IsUp})
	}
	return links, nil
}

func (h *fakeHost) ReadState(ctx context.Context, name string) (types.InterfaceSnapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.reads++
	s, ok := h.interfaces[name]
	if !ok {
		return types.InterfaceSnapshot{}, types.NewInterfaceNotFoundError(name, nil)
	}
	st := s.State()
	s.Static = st.Static
	return s, nil
}

func (h *fakeHost) ApplyState(ctx context.Context, name string, target types.AddressingState) error {
	h.mu.Lock()
	call := len(h.applies)
	h.applies = append(h.applies, target)
	hook := h.applyHook
	h.mu.Unlock()

	keep := true
	if hook != nil {
		var err error
		if keep, err = hook(call, name, target); err != nil {
			return err
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.interfaces[name]
	if !ok {
		return types.NewInterfaceNotFoundError(name, nil)
	}
	if keep {
		st := types.AddressingState{Mode: target.Mode}
		if target.Static != nil {
			st = types.StaticState(*target.Static)
		}
		s.Mode = st.Mode
		s.Static = st.Static
		h.interfaces[name] = s
	}
	return nil
}

func (h *fakeHost) state(name string) types.InterfaceSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interfaces[name]
}

func (h *fakeHost) applyCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.applies)
}

func (h *fakeHost) readCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.reads
}

type memoryRecorder struct {
	mu      sync.Mutex
	results []*types.ApplyResult
}

func (r *memoryRecorder) Record(ctx context.Context, result *types.ApplyResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
	return nil
}

func (r *memoryRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}
