package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/serenitylabs/serenity-agent/internal/app/activity"
	"github.com/serenitylabs/serenity-agent/internal/app/exercise"
	"github.com/serenitylabs/serenity-agent/internal/domain"
	"github.com/serenitylabs/serenity-agent/internal/observability"
)

// ErrExerciseActive is returned when a turn arrives while the session
// is inside a calming exercise; chat and exercises never interleave.
var ErrExerciseActive = errors.New("an exercise is active for this session")

// emptyInputReply is the fixed prompt for empty or whitespace input.
const emptyInputReply = "I'm here when you're ready to share. Take your time."

// Service orchestrates one conversational turn: classify the mood,
// generate the reply, append both messages and persist.
type Service struct {
	classifier *Classifier
	generator  *Generator
	store      domain.ProfileStore
	ledger     *activity.Ledger
	exercises  *exercise.Manager
	now        func() time.Time
}

func NewService(
	llm domain.InferenceClient,
	store domain.ProfileStore,
	ledger *activity.Ledger,
	exercises *exercise.Manager,
) *Service {
	return &Service{
		classifier: NewClassifier(llm),
		generator:  NewGenerator(llm),
		store:      store,
		ledger:     ledger,
		exercises:  exercises,
		now:        time.Now,
	}
}

// TurnResult is what one turn hands back for the caller to render and,
// if it wishes, derive the crisis affordance from Mood.
type TurnResult struct {
	Mood       domain.MoodTag
	Reply      string
	Suggestion string
	History    domain.ConversationHistory
}

// HandleTurn runs one turn for the session. For well-formed non-empty
// input it has no failure case visible to the caller beyond
// ErrExerciseActive and persistence errors.
func (s *Service) HandleTurn(ctx context.Context, sessionID domain.SessionID, input string) (*TurnResult, error) {
	log := observability.WithSession(ctx, string(sessionID))

	profile, err := s.store.GetOrCreateProfile(ctx, sessionID)
	if err != nil {
		log.Error("failed to load profile", "error", err)
		return nil, err
	}
	history := profile.History

	// Exercises suspend chat entirely, even for empty input.
	if s.exercises.Active(sessionID) {
		return nil, ErrExerciseActive
	}

	if strings.TrimSpace(input) == "" {
		// No inference, no mutation: just prompt for input.
		return &TurnResult{
			Mood:    domain.MoodNeutral,
			Reply:   emptyInputReply,
			History: history,
		}, nil
	}

	s.ledger.RecordActivity(ctx, sessionID)

	// The two inference calls are independent of each other's output,
	// so classification runs alongside generation.
	moodCh := make(chan domain.MoodTag, 1)
	go func() {
		moodCh <- s.classifier.Classify(ctx, input, history)
	}()
	reply := s.generator.Generate(ctx, input, history)
	mood := <-moodCh

	log.Info("turn classified", "mood", mood)

	now := s.now()
	updated := append(history,
		domain.Message{
			ID:        domain.MessageID(uuid.NewString()),
			Role:      domain.RoleUser,
			Content:   input,
			CreatedAt: now,
		},
		domain.Message{
			ID:        domain.MessageID(uuid.NewString()),
			Role:      domain.RoleAssistant,
			Content:   reply,
			CreatedAt: s.now(),
		},
	)

	if err := s.store.SaveHistory(ctx, sessionID, updated); err != nil {
		log.Error("failed to save history", "error", err)
		return nil, err
	}

	if err := s.store.AppendMoodLog(ctx, sessionID, mood); err != nil {
		// The turn already succeeded; a lost mood log is not fatal.
		log.Error("failed to append mood log", "error", err)
	}

	return &TurnResult{
		Mood:       mood,
		Reply:      reply,
		Suggestion: SuggestionFor(mood),
		History:    updated,
	}, nil
}

// History returns the full stored conversation for the session.
func (s *Service) History(ctx context.Context, sessionID domain.SessionID) (domain.ConversationHistory, error) {
	profile, err := s.store.GetOrCreateProfile(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return profile.History, nil
}

// MoodLogs returns the most recent mood entries, newest first.
func (s *Service) MoodLogs(ctx context.Context, sessionID domain.SessionID, limit int) ([]domain.MoodLogEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.store.GetRecentMoodLogs(ctx, sessionID, limit)
}

// Profile returns the user profile for display.
func (s *Service) Profile(ctx context.Context, sessionID domain.SessionID) (*domain.UserProfile, error) {
	return s.store.GetOrCreateProfile(ctx, sessionID)
}
