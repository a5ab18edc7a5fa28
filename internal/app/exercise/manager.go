package exercise

import (
	"sync"

	"github.com/serenitylabs/serenity-agent/internal/domain"
)

// Manager holds one Machine per session. Exercise state lives only in
// memory; losing a step index on restart degrades to re-entering the
// exercise, which is safe.
type Manager struct {
	mu       sync.Mutex
	machines map[domain.SessionID]*Machine
}

func NewManager() *Manager {
	return &Manager{
		machines: make(map[domain.SessionID]*Machine),
	}
}

func (mgr *Manager) machineFor(id domain.SessionID) *Machine {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	m, ok := mgr.machines[id]
	if !ok {
		m = NewMachine()
		mgr.machines[id] = m
	}
	return m
}

func (mgr *Manager) Enter(id domain.SessionID, kind Kind) (Step, error) {
	return mgr.machineFor(id).Enter(kind)
}

func (mgr *Manager) Advance(id domain.SessionID) (Step, error) {
	return mgr.machineFor(id).Advance()
}

func (mgr *Manager) Finish(id domain.SessionID) error {
	return mgr.machineFor(id).Finish()
}

func (mgr *Manager) Current(id domain.SessionID) Snapshot {
	return mgr.machineFor(id).Current()
}

// Active reports whether the session is inside an exercise, in which
// case normal chat handling must not run.
func (mgr *Manager) Active(id domain.SessionID) bool {
	return mgr.machineFor(id).Active()
}
