package exercise

import (
	"testing"
	"time"
)

func TestGroundingWalkthrough(t *testing.T) {
	m := NewMachine()

	step, err := m.Enter(KindGrounding)
	if err != nil {
		t.Fatalf("Enter failed: %v", err)
	}
	if step.Title != groundingSteps[0].Title {
		t.Fatalf("expected first step, got %q", step.Title)
	}

	snap := m.Current()
	if snap.State.Kind != KindGrounding || snap.State.StepIndex != 0 {
		t.Fatalf("unexpected state after enter: %+v", snap.State)
	}

	// Six explicit advances reach the terminal step.
	for i := 0; i < 6; i++ {
		if _, err := m.Advance(); err != nil {
			t.Fatalf("advance %d failed: %v", i, err)
		}
	}

	snap = m.Current()
	if snap.State.StepIndex != 6 || !snap.Terminal {
		t.Fatalf("expected terminal step 6, got %+v", snap)
	}

	// Advancing at the terminal step is a no-op, never out of range.
	step, err = m.Advance()
	if err != nil {
		t.Fatalf("advance at terminal errored: %v", err)
	}
	if m.Current().State.StepIndex != 6 {
		t.Fatalf("terminal advance moved the index: %+v", m.Current().State)
	}

	if err := m.Finish(); err != nil {
		t.Fatalf("Finish at terminal failed: %v", err)
	}
	snap = m.Current()
	if snap.State.Kind != KindNone || snap.State.StepIndex != 0 || snap.Active {
		t.Fatalf("Finish did not reset: %+v", snap)
	}
}

func TestFinishOnlyAtTerminalStep(t *testing.T) {
	m := NewMachine()

	if err := m.Finish(); err != ErrNotActive {
		t.Fatalf("expected ErrNotActive, got %v", err)
	}

	if _, err := m.Enter(KindGrounding); err != nil {
		t.Fatalf("Enter failed: %v", err)
	}
	if err := m.Finish(); err != ErrNotAtFinalStep {
		t.Fatalf("expected ErrNotAtFinalStep, got %v", err)
	}
}

func TestEnterResetsAndLastEntryWins(t *testing.T) {
	m := NewMachine()

	if _, err := m.Enter(KindGrounding); err != nil {
		t.Fatalf("Enter failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := m.Advance(); err != nil {
			t.Fatalf("advance failed: %v", err)
		}
	}

	// Entering the other exercise abandons grounding progress.
	if _, err := m.Enter(KindPanic); err != nil {
		t.Fatalf("Enter panic failed: %v", err)
	}
	snap := m.Current()
	if snap.State.Kind != KindPanic || snap.State.StepIndex != 0 {
		t.Fatalf("re-entry did not reset: %+v", snap.State)
	}
}

func TestEnterUnknownKind(t *testing.T) {
	m := NewMachine()
	if _, err := m.Enter(Kind("yoga")); err != ErrUnknownKind {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	if _, err := m.Enter(KindNone); err != ErrUnknownKind {
		t.Fatalf("expected ErrUnknownKind for none, got %v", err)
	}
}

func TestPanicAutoAdvances(t *testing.T) {
	m := newMachineWithSequences(map[Kind][]Step{
		KindPanic: {
			{Title: "prepare", Dwell: 5 * time.Millisecond},
			{Title: "in", Dwell: 5 * time.Millisecond},
			{Title: "out", Dwell: 5 * time.Millisecond},
			{Title: "done"},
		},
	})

	if _, err := m.Enter(KindPanic); err != nil {
		t.Fatalf("Enter failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if snap := m.Current(); snap.Terminal {
			break
		}
		time.Sleep(2 * time.Millisecond)
	}

	snap := m.Current()
	if !snap.Terminal || snap.State.StepIndex != 3 {
		t.Fatalf("expected auto-advance to terminal step, got %+v", snap)
	}

	// The terminal step never auto-advances; it waits for Finish.
	time.Sleep(20 * time.Millisecond)
	if snap := m.Current(); snap.State.StepIndex != 3 {
		t.Fatalf("terminal step moved on its own: %+v", snap)
	}
	if err := m.Finish(); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
}

func TestStaleTimerIsHarmlessAfterReentry(t *testing.T) {
	m := newMachineWithSequences(map[Kind][]Step{
		KindPanic: {
			{Title: "prepare", Dwell: 10 * time.Millisecond},
			{Title: "done"},
		},
		KindGrounding: {
			{Title: "look around"},
			{Title: "done"},
		},
	})

	if _, err := m.Enter(KindPanic); err != nil {
		t.Fatalf("Enter failed: %v", err)
	}
	// Re-enter before the panic timer fires; its advance must not land
	// on the grounding sequence.
	if _, err := m.Enter(KindGrounding); err != nil {
		t.Fatalf("Enter grounding failed: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	snap := m.Current()
	if snap.State.Kind != KindGrounding || snap.State.StepIndex != 0 {
		t.Fatalf("stale timer advanced the machine: %+v", snap.State)
	}
}

func TestDefaultSequencesHaveSevenSteps(t *testing.T) {
	if len(groundingSteps) != 7 {
		t.Fatalf("grounding sequence has %d steps", len(groundingSteps))
	}
	if len(panicSteps) != 7 {
		t.Fatalf("panic sequence has %d steps", len(panicSteps))
	}
	for i, s := range panicSteps[:len(panicSteps)-1] {
		if s.Dwell <= 0 {
			t.Fatalf("panic step %d must carry a dwell", i)
		}
	}
	if panicSteps[len(panicSteps)-1].Dwell != 0 {
		t.Fatal("panic terminal step must wait for an explicit finish")
	}
	for i, s := range groundingSteps {
		if s.Dwell != 0 {
			t.Fatalf("grounding step %d must be user-paced", i)
		}
	}
}
