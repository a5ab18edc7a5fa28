package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/serenitylabs/serenity-agent/internal/domain"
)

// Store implements domain.ProfileStore on Firestore. Users live in the
// "users" collection keyed by session ID, mood logs in a "mood_logs"
// subcollection.
type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store for the given project.
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) usersCol() *firestore.CollectionRef {
	return s.client.Collection("users")
}

func (s *Store) userDocRef(id domain.SessionID) *firestore.DocumentRef {
	return s.usersCol().Doc(string(id))
}

func (s *Store) moodLogsCol(id domain.SessionID) *firestore.CollectionRef {
	return s.userDocRef(id).Collection("mood_logs")
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type userDoc struct {
	Name              string       `firestore:"name"`
	Email             string       `firestore:"email"`
	CreatedAt         time.Time    `firestore:"created_at"`
	LastActive        *time.Time   `firestore:"last_active"`
	DaysActive        int          `firestore:"days_active"`
	SessionsCompleted int          `firestore:"sessions_completed"`
	ProgressScore     int          `firestore:"progress_score"`
	ChatHistory       []messageDoc `firestore:"chat_history"`
}

type messageDoc struct {
	ID        string    `firestore:"id"`
	Role      string    `firestore:"role"`
	Content   string    `firestore:"content"`
	CreatedAt time.Time `firestore:"created_at"`
}

type moodLogDoc struct {
	Mood      string    `firestore:"mood"`
	Timestamp time.Time `firestore:"timestamp"`
}

func toUserProfile(id domain.SessionID, doc userDoc) *domain.UserProfile {
	return &domain.UserProfile{
		SessionID:         id,
		Name:              doc.Name,
		Email:             doc.Email,
		CreatedAt:         doc.CreatedAt,
		LastActive:        doc.LastActive,
		DaysActive:        doc.DaysActive,
		SessionsCompleted: doc.SessionsCompleted,
		ProgressScore:     doc.ProgressScore,
		History:           toHistory(doc.ChatHistory),
	}
}

func toHistory(docs []messageDoc) domain.ConversationHistory {
	out := make(domain.ConversationHistory, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.Message{
			ID:        domain.MessageID(d.ID),
			Role:      domain.Role(d.Role),
			Content:   d.Content,
			CreatedAt: d.CreatedAt,
		})
	}
	return out
}

func toMessageDocs(history domain.ConversationHistory) []messageDoc {
	out := make([]messageDoc, 0, len(history))
	for _, m := range history {
		out = append(out, messageDoc{
			ID:        string(m.ID),
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return out
}

// ─────────────────────────────────────────
// ProfileStore implementation
// ─────────────────────────────────────────

func (s *Store) GetOrCreateProfile(ctx context.Context, id domain.SessionID) (*domain.UserProfile, error) {
	snap, err := s.userDocRef(id).Get(ctx)
	if err != nil {
		if status.Code(err) != codes.NotFound {
			return nil, fmt.Errorf("firestore GetOrCreateProfile: %w", err)
		}

		short := string(id)
		if len(short) > 8 {
			short = short[:8]
		}
		doc := userDoc{
			Name:      "Serenity User",
			Email:     fmt.Sprintf("user_%s@serenity.app", short),
			CreatedAt: time.Now(),
		}
		if _, err := s.userDocRef(id).Create(ctx, doc); err != nil {
			// A concurrent first contact may have won the create.
			if status.Code(err) != codes.AlreadyExists {
				return nil, fmt.Errorf("firestore create profile: %w", err)
			}
			return s.GetOrCreateProfile(ctx, id)
		}
		return toUserProfile(id, doc), nil
	}

	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetOrCreateProfile decode: %w", err)
	}
	return toUserProfile(id, doc), nil
}

func (s *Store) GetHistory(ctx context.Context, id domain.SessionID) (domain.ConversationHistory, error) {
	profile, err := s.GetOrCreateProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	return profile.History, nil
}

func (s *Store) SaveHistory(ctx context.Context, id domain.SessionID, history domain.ConversationHistory) error {
	_, err := s.userDocRef(id).Update(ctx, []firestore.Update{
		{Path: "chat_history", Value: toMessageDocs(history)},
	})
	if err != nil {
		return fmt.Errorf("firestore SaveHistory: %w", err)
	}
	return nil
}

func (s *Store) AppendMoodLog(ctx context.Context, id domain.SessionID, mood domain.MoodTag) error {
	if mood == "" || mood == domain.MoodNeutral {
		return nil
	}

	doc := moodLogDoc{
		Mood:      string(mood),
		Timestamp: time.Now(),
	}
	if _, err := s.moodLogsCol(id).Doc(uuid.NewString()).Create(ctx, doc); err != nil {
		return fmt.Errorf("firestore AppendMoodLog: %w", err)
	}
	return nil
}

func (s *Store) GetRecentMoodLogs(ctx context.Context, id domain.SessionID, limit int) ([]domain.MoodLogEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	q := s.moodLogsCol(id).OrderBy("timestamp", firestore.Desc).Limit(limit)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []domain.MoodLogEntry
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore GetRecentMoodLogs: %w", err)
		}

		var doc moodLogDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode moodLogDoc: %w", err)
		}

		out = append(out, domain.MoodLogEntry{
			Mood:      domain.MoodTag(doc.Mood),
			Timestamp: doc.Timestamp,
		})
	}
	return out, nil
}

func (s *Store) RunProfileTransaction(ctx context.Context, id domain.SessionID, fn func(domain.ProfileTxn) error) error {
	ref := s.userDocRef(id)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(&fsTxn{tx: tx, ref: ref, id: id})
	})
	if err != nil {
		return fmt.Errorf("firestore RunProfileTransaction: %w", err)
	}
	return nil
}

type fsTxn struct {
	tx  *firestore.Transaction
	ref *firestore.DocumentRef
	id  domain.SessionID
}

func (t *fsTxn) Profile() (*domain.UserProfile, error) {
	snap, err := t.tx.Get(t.ref)
	if err != nil {
		return nil, fmt.Errorf("firestore txn get: %w", err)
	}

	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore txn decode: %w", err)
	}
	return toUserProfile(t.id, doc), nil
}

func (t *fsTxn) Update(u domain.ProfileUpdate) error {
	var updates []firestore.Update
	if u.IncrementDaysActive != 0 {
		updates = append(updates, firestore.Update{
			Path:  "days_active",
			Value: firestore.Increment(u.IncrementDaysActive),
		})
	}
	if u.LastActive != nil {
		updates = append(updates, firestore.Update{
			Path:  "last_active",
			Value: *u.LastActive,
		})
	}
	if len(updates) == 0 {
		return nil
	}
	return t.tx.Update(t.ref, updates)
}
