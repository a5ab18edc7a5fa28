package activity

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/serenitylabs/serenity-agent/internal/adapters/storage/memory"
	"github.com/serenitylabs/serenity-agent/internal/domain"
)

func daysActive(t *testing.T, store *memory.ProfileStore, id domain.SessionID) int {
	t.Helper()
	p, err := store.GetOrCreateProfile(context.Background(), id)
	if err != nil {
		t.Fatalf("GetOrCreateProfile failed: %v", err)
	}
	return p.DaysActive
}

func TestRecordActivityOncePerDay(t *testing.T) {
	store := memory.NewProfileStore()
	ledger := NewLedger(store)

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	ledger.now = func() time.Time { return now }

	id := domain.SessionID("streak-1")

	// Repeated turns within one calendar day count once.
	for i := 0; i < 5; i++ {
		updated := ledger.RecordActivity(context.Background(), id)
		if (i == 0) != updated {
			t.Fatalf("call %d: updated=%v", i, updated)
		}
		now = now.Add(30 * time.Minute)
	}

	if got := daysActive(t, store, id); got != 1 {
		t.Fatalf("expected daysActive=1, got %d", got)
	}
}

func TestRecordActivityAcrossDays(t *testing.T) {
	store := memory.NewProfileStore()
	ledger := NewLedger(store)

	now := time.Date(2025, 3, 10, 23, 50, 0, 0, time.UTC)
	ledger.now = func() time.Time { return now }

	id := domain.SessionID("streak-2")

	for day := 0; day < 3; day++ {
		if updated := ledger.RecordActivity(context.Background(), id); !updated {
			t.Fatalf("day %d: expected an update", day)
		}
		now = now.Add(24 * time.Hour)
	}

	if got := daysActive(t, store, id); got != 3 {
		t.Fatalf("expected daysActive=3, got %d", got)
	}
}

func TestRecordActivityMidnightBoundary(t *testing.T) {
	store := memory.NewProfileStore()
	ledger := NewLedger(store)

	now := time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC)
	ledger.now = func() time.Time { return now }

	id := domain.SessionID("streak-3")

	if !ledger.RecordActivity(context.Background(), id) {
		t.Fatal("first call should update")
	}

	// One second later it is a new calendar day.
	now = now.Add(time.Second)
	if !ledger.RecordActivity(context.Background(), id) {
		t.Fatal("new day should update")
	}

	if got := daysActive(t, store, id); got != 2 {
		t.Fatalf("expected daysActive=2, got %d", got)
	}
}

func TestRecordActivityConcurrentSameDay(t *testing.T) {
	store := memory.NewProfileStore()
	ledger := NewLedger(store)

	fixed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	ledger.now = func() time.Time { return fixed }

	id := domain.SessionID("streak-4")

	// Two browser tabs, many turns: the counter must move exactly once.
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ledger.RecordActivity(context.Background(), id)
		}()
	}
	wg.Wait()

	if got := daysActive(t, store, id); got != 1 {
		t.Fatalf("expected daysActive=1 under concurrency, got %d", got)
	}
}
