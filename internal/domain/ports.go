package domain

import "context"

// PromptRole is the role of one prompt message sent to the model.
// Unlike Role it includes the system instruction slot.
type PromptRole string

const (
	PromptSystem    PromptRole = "system"
	PromptUser      PromptRole = "user"
	PromptAssistant PromptRole = "assistant"
)

// PromptMessage is one entry of a structured prompt.
type PromptMessage struct {
	Role    PromptRole
	Content string
}

// SamplingParams bounds one inference call. Temperature 0 requests a
// deterministic completion.
type SamplingParams struct {
	Temperature     float64
	MaxOutputTokens int
}

// InferenceClient defines how the core talks to a text-generation
// capability. Implementations must carry a finite request timeout and
// return an *InferenceError on any failure.
type InferenceClient interface {
	Infer(ctx context.Context, messages []PromptMessage, params SamplingParams) (string, error)
}

// ProfileUpdate carries the fields a transaction may change.
type ProfileUpdate struct {
	IncrementDaysActive int
	LastActive          *Timestamp
}

// ProfileTxn is the view of one profile inside a transaction.
type ProfileTxn interface {
	Profile() (*UserProfile, error)
	Update(ProfileUpdate) error
}

// ProfileStore defines persistence for user profiles, their chat history
// and their mood logs.
type ProfileStore interface {
	GetOrCreateProfile(ctx context.Context, id SessionID) (*UserProfile, error)
	GetHistory(ctx context.Context, id SessionID) (ConversationHistory, error)
	SaveHistory(ctx context.Context, id SessionID, history ConversationHistory) error

	// AppendMoodLog records a non-neutral mood. Neutral is a no-op.
	AppendMoodLog(ctx context.Context, id SessionID, mood MoodTag) error
	// GetRecentMoodLogs returns up to limit entries, newest first.
	GetRecentMoodLogs(ctx context.Context, id SessionID, limit int) ([]MoodLogEntry, error)

	// RunProfileTransaction executes fn as one atomic read-modify-write
	// against the profile document.
	RunProfileTransaction(ctx context.Context, id SessionID, fn func(ProfileTxn) error) error
}
