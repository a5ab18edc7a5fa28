// Package exercise runs the guided calming sequences: a user-paced
// grounding exercise and a time-paced panic breathing exercise. While a
// sequence is active the session's normal chat handling is suspended.
package exercise

import (
	"errors"
	"sync"
	"time"
)

type Kind string

const (
	KindNone      Kind = "none"
	KindGrounding Kind = "grounding"
	KindPanic     Kind = "panic"
)

// Step is one instruction of a sequence. Dwell > 0 means the machine
// advances on its own once the dwell elapses; Dwell == 0 waits for an
// explicit user action.
type Step struct {
	Title       string
	Instruction string
	Dwell       time.Duration
}

// State is the session's exercise position. Invariant: Kind == KindNone
// exactly when StepIndex == 0 and no sequence is active.
type State struct {
	Kind      Kind
	StepIndex int
}

var groundingSteps = []Step{
	{Title: "Welcome", Instruction: "Let's ground ourselves with the 5-4-3-2-1 technique. Find a comfortable position and take a slow breath."},
	{Title: "Sight", Instruction: "Look around and name 5 things you can see."},
	{Title: "Touch", Instruction: "Notice 4 things you can feel: your feet on the floor, the texture of your clothes."},
	{Title: "Hearing", Instruction: "Listen for 3 sounds around you, near or far."},
	{Title: "Smell", Instruction: "Find 2 things you can smell, or 2 smells you like."},
	{Title: "Taste", Instruction: "Notice 1 thing you can taste right now."},
	{Title: "Well done", Instruction: "You've arrived back in the present moment. Whenever you're ready, finish the exercise."},
}

var panicSteps = []Step{
	{Title: "Get ready", Instruction: "We'll breathe together. Sit comfortably and relax your shoulders.", Dwell: 5 * time.Second},
	{Title: "Breathe in", Instruction: "Breathe in slowly through your nose.", Dwell: 4 * time.Second},
	{Title: "Hold", Instruction: "Hold your breath gently.", Dwell: 4 * time.Second},
	{Title: "Breathe out", Instruction: "Exhale slowly through your mouth.", Dwell: 6 * time.Second},
	{Title: "Hold", Instruction: "Rest for a moment before the next breath.", Dwell: 4 * time.Second},
	{Title: "Keep going", Instruction: "Repeat this rhythm a few more times at your own pace.", Dwell: 10 * time.Second},
	{Title: "Well done", Instruction: "Your breathing has a steady rhythm now. Finish whenever you feel ready."},
}

var (
	ErrUnknownKind    = errors.New("unknown exercise kind")
	ErrNotActive      = errors.New("no exercise is active")
	ErrNotAtFinalStep = errors.New("exercise is not at its final step")
)

// Machine is the per-session exercise state machine. All methods are
// safe for concurrent use.
type Machine struct {
	mu        sync.Mutex
	state     State
	sequences map[Kind][]Step
	// gen invalidates pending auto-advance timers after re-entry or exit.
	gen uint64
}

func NewMachine() *Machine {
	return newMachineWithSequences(map[Kind][]Step{
		KindGrounding: groundingSteps,
		KindPanic:     panicSteps,
	})
}

func newMachineWithSequences(sequences map[Kind][]Step) *Machine {
	return &Machine{
		state:     State{Kind: KindNone},
		sequences: sequences,
	}
}

// Enter starts a sequence from its first step. Entering while another
// sequence is active abandons that progress: the last entry wins.
func (m *Machine) Enter(kind Kind) (Step, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	steps, ok := m.sequences[kind]
	if !ok || len(steps) == 0 {
		return Step{}, ErrUnknownKind
	}

	m.gen++
	m.state = State{Kind: kind, StepIndex: 0}
	m.scheduleLocked()

	return steps[0], nil
}

// Advance moves to the next step on explicit user action. At the final
// step it is a no-op and returns the final step again.
func (m *Machine) Advance() (Step, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.advanceLocked()
}

func (m *Machine) advanceLocked() (Step, error) {
	if m.state.Kind == KindNone {
		return Step{}, ErrNotActive
	}

	steps := m.sequences[m.state.Kind]
	if m.state.StepIndex >= len(steps)-1 {
		return steps[len(steps)-1], nil
	}

	m.gen++
	m.state.StepIndex++
	m.scheduleLocked()

	return steps[m.state.StepIndex], nil
}

// Finish exits the sequence. Only valid at the final step; on success
// the machine is back at {none, 0}.
func (m *Machine) Finish() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Kind == KindNone {
		return ErrNotActive
	}

	steps := m.sequences[m.state.Kind]
	if m.state.StepIndex != len(steps)-1 {
		return ErrNotAtFinalStep
	}

	m.gen++
	m.state = State{Kind: KindNone}
	return nil
}

// Snapshot is a point-in-time view of the machine for display.
type Snapshot struct {
	State    State
	Step     Step
	Active   bool
	Terminal bool
}

// Current returns the state and, when active, the step it points at.
func (m *Machine) Current() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Kind == KindNone {
		return Snapshot{State: m.state}
	}

	steps := m.sequences[m.state.Kind]
	return Snapshot{
		State:    m.state,
		Step:     steps[m.state.StepIndex],
		Active:   true,
		Terminal: m.state.StepIndex == len(steps)-1,
	}
}

// Active reports whether a sequence is in progress.
func (m *Machine) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Kind != KindNone
}

// scheduleLocked arms the auto-advance timer when the current step
// carries a dwell. The generation guard makes timers from abandoned
// steps harmless.
func (m *Machine) scheduleLocked() {
	steps := m.sequences[m.state.Kind]
	step := steps[m.state.StepIndex]
	if step.Dwell <= 0 || m.state.StepIndex >= len(steps)-1 {
		return
	}

	gen := m.gen
	time.AfterFunc(step.Dwell, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.gen != gen || m.state.Kind == KindNone {
			return
		}
		_, _ = m.advanceLocked()
	})
}
