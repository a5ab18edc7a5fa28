package memory

import (
	"context"
	"testing"
	"time"

	"github.com/serenitylabs/serenity-agent/internal/domain"
)

func TestMoodLogNeutralSuppression(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore()
	id := domain.SessionID("abc")

	before := time.Now()

	if err := store.AppendMoodLog(ctx, id, domain.MoodNeutral); err != nil {
		t.Fatalf("AppendMoodLog(neutral) failed: %v", err)
	}
	if err := store.AppendMoodLog(ctx, id, ""); err != nil {
		t.Fatalf("AppendMoodLog(empty) failed: %v", err)
	}
	if err := store.AppendMoodLog(ctx, id, domain.MoodSad); err != nil {
		t.Fatalf("AppendMoodLog(sad) failed: %v", err)
	}

	logs, err := store.GetRecentMoodLogs(ctx, id, 10)
	if err != nil {
		t.Fatalf("GetRecentMoodLogs failed: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(logs))
	}
	if logs[0].Mood != domain.MoodSad {
		t.Fatalf("expected sad, got %q", logs[0].Mood)
	}
	if logs[0].Timestamp.Before(before) {
		t.Fatalf("timestamp %v predates the call", logs[0].Timestamp)
	}
}

func TestMoodLogsNewestFirstBounded(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore()
	id := domain.SessionID("abc")

	moods := []domain.MoodTag{
		domain.MoodSad, domain.MoodAnxious, domain.MoodHappy,
		domain.MoodSad, domain.MoodAnxious, domain.MoodHappy,
		domain.MoodSad, domain.MoodAnxious, domain.MoodHappy,
		domain.MoodSad, domain.MoodAnxious, domain.MoodSeriousDistress,
	}
	for _, m := range moods {
		if err := store.AppendMoodLog(ctx, id, m); err != nil {
			t.Fatalf("AppendMoodLog failed: %v", err)
		}
	}

	logs, err := store.GetRecentMoodLogs(ctx, id, 10)
	if err != nil {
		t.Fatalf("GetRecentMoodLogs failed: %v", err)
	}
	if len(logs) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(logs))
	}
	if logs[0].Mood != domain.MoodSeriousDistress {
		t.Fatalf("expected newest entry first, got %q", logs[0].Mood)
	}
}

func TestHistoryRoundTripIsIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore()
	id := domain.SessionID("abc")

	history := domain.ConversationHistory{
		{ID: "1", Role: domain.RoleUser, Content: "hello"},
		{ID: "2", Role: domain.RoleAssistant, Content: "hi there"},
	}
	if err := store.SaveHistory(ctx, id, history); err != nil {
		t.Fatalf("SaveHistory failed: %v", err)
	}

	// Mutating the caller's slice must not reach the store.
	history[0].Content = "changed"

	got, err := store.GetHistory(ctx, id)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(got) != 2 || got[0].Content != "hello" {
		t.Fatalf("stored history leaked caller mutation: %+v", got)
	}
}

func TestGetOrCreateProfileDefaults(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore()

	p, err := store.GetOrCreateProfile(ctx, "session-12345678-rest")
	if err != nil {
		t.Fatalf("GetOrCreateProfile failed: %v", err)
	}
	if p.Name != "Serenity User" {
		t.Fatalf("unexpected name %q", p.Name)
	}
	if p.Email != "user_session-@serenity.app" {
		t.Fatalf("unexpected email %q", p.Email)
	}
	if p.DaysActive != 0 || p.LastActive != nil {
		t.Fatalf("fresh profile has activity: %+v", p)
	}
}
