package domain

import "time"

// UserProfile is the per-session user document. Created on first contact
// from the session identifier supplied by the caller; never deleted.
type UserProfile struct {
	SessionID SessionID
	Name      string
	Email     string

	CreatedAt  time.Time
	LastActive *time.Time

	DaysActive        int
	SessionsCompleted int
	ProgressScore     int

	History ConversationHistory
}

// MoodLogEntry is one append-only mood observation for a profile.
// Neutral turns are never logged.
type MoodLogEntry struct {
	Mood      MoodTag
	Timestamp time.Time
}
