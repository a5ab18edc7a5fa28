package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/serenitylabs/serenity-agent/internal/domain"
)

// ProfileStore is an in-memory implementation of domain.ProfileStore.
// Not persistent; suitable for local mode and tests. A per-profile
// mutex is the transaction primitive.
type ProfileStore struct {
	mu       sync.Mutex
	profiles map[domain.SessionID]*profileRecord
	now      func() time.Time
}

type profileRecord struct {
	mu       sync.Mutex
	profile  domain.UserProfile
	moodLogs []domain.MoodLogEntry
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		profiles: make(map[domain.SessionID]*profileRecord),
		now:      time.Now,
	}
}

func (s *ProfileStore) record(id domain.SessionID) *profileRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.profiles[id]
	if !ok {
		short := string(id)
		if len(short) > 8 {
			short = short[:8]
		}
		rec = &profileRecord{
			profile: domain.UserProfile{
				SessionID: id,
				Name:      "Serenity User",
				Email:     fmt.Sprintf("user_%s@serenity.app", short),
				CreatedAt: s.now(),
			},
		}
		s.profiles[id] = rec
	}
	return rec
}

func (s *ProfileStore) GetOrCreateProfile(ctx context.Context, id domain.SessionID) (*domain.UserProfile, error) {
	rec := s.record(id)
	rec.mu.Lock()
	defer rec.mu.Unlock()

	p := rec.profile
	p.History = append(domain.ConversationHistory(nil), rec.profile.History...)
	return &p, nil
}

func (s *ProfileStore) GetHistory(ctx context.Context, id domain.SessionID) (domain.ConversationHistory, error) {
	rec := s.record(id)
	rec.mu.Lock()
	defer rec.mu.Unlock()

	return append(domain.ConversationHistory(nil), rec.profile.History...), nil
}

func (s *ProfileStore) SaveHistory(ctx context.Context, id domain.SessionID, history domain.ConversationHistory) error {
	rec := s.record(id)
	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.profile.History = append(domain.ConversationHistory(nil), history...)
	return nil
}

func (s *ProfileStore) AppendMoodLog(ctx context.Context, id domain.SessionID, mood domain.MoodTag) error {
	if mood == "" || mood == domain.MoodNeutral {
		return nil
	}

	rec := s.record(id)
	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.moodLogs = append(rec.moodLogs, domain.MoodLogEntry{
		Mood:      mood,
		Timestamp: s.now(),
	})
	return nil
}

func (s *ProfileStore) GetRecentMoodLogs(ctx context.Context, id domain.SessionID, limit int) ([]domain.MoodLogEntry, error) {
	rec := s.record(id)
	rec.mu.Lock()
	defer rec.mu.Unlock()

	if limit <= 0 {
		limit = 10
	}

	// Stored oldest first; returned newest first.
	out := make([]domain.MoodLogEntry, 0, limit)
	for i := len(rec.moodLogs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, rec.moodLogs[i])
	}
	return out, nil
}

func (s *ProfileStore) RunProfileTransaction(ctx context.Context, id domain.SessionID, fn func(domain.ProfileTxn) error) error {
	rec := s.record(id)
	rec.mu.Lock()
	defer rec.mu.Unlock()

	return fn(&memTxn{rec: rec})
}

type memTxn struct {
	rec *profileRecord
}

func (t *memTxn) Profile() (*domain.UserProfile, error) {
	p := t.rec.profile
	return &p, nil
}

func (t *memTxn) Update(u domain.ProfileUpdate) error {
	t.rec.profile.DaysActive += u.IncrementDaysActive
	if u.LastActive != nil {
		la := *u.LastActive
		t.rec.profile.LastActive = &la
	}
	return nil
}

// SetNow overrides the store clock for tests.
func (s *ProfileStore) SetNow(now func() time.Time) {
	s.now = now
}
