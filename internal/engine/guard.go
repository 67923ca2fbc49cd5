package engine

import "sync"

// inFlight admits at most one operation per interface. Callers key it by the
// platform's canonical interface name.
type inFlight struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func newInFlight() *inFlight {
	return &inFlight{active: make(map[string]struct{})}
}

// acquire claims iface and reports whether it was free.
func (g *inFlight) acquire(iface string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.active[iface]; busy {
		return false
	}
	g.active[iface] = struct{}{}
	return true
}

func (g *inFlight) release(iface string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, iface)
}
