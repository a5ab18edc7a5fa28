package domain

import "time"

type SessionID string
type MessageID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MoodTag is the predominant detected emotional signal for one turn.
// One tag per turn, never compound.
type MoodTag string

const (
	MoodHappy            MoodTag = "happy"
	MoodNeutral          MoodTag = "neutral"
	MoodSad              MoodTag = "sad"
	MoodAnxious          MoodTag = "anxious"
	MoodSeekingCommunity MoodTag = "seeking_community"
	MoodSeriousDistress  MoodTag = "serious_distress"
)

// KnownMoodTags returns the closed classification vocabulary.
func KnownMoodTags() []MoodTag {
	return []MoodTag{
		MoodHappy,
		MoodNeutral,
		MoodSad,
		MoodAnxious,
		MoodSeekingCommunity,
		MoodSeriousDistress,
	}
}

type Timestamp = time.Time
