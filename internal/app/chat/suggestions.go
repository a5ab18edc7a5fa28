package chat

import (
	"math/rand"

	"github.com/serenitylabs/serenity-agent/internal/domain"
)

// copingSuggestions hold short self-regulation ideas surfaced alongside
// the reply for distress-adjacent moods.
var copingSuggestions = map[domain.MoodTag][]string{
	domain.MoodAnxious: {
		"Let's try some deep breathing together. Breathe in slowly for 4 counts, hold for 4, exhale for 6.",
		"Would you like to try a quick mindfulness exercise? Focus on 5 things you can see around you.",
		"Sometimes breaking tasks into smaller steps can help reduce feeling overwhelmed.",
		"Try placing a hand on your chest and taking three slow, deep breaths.",
	},
	domain.MoodSad: {
		"It's okay to feel sad. Would you like to share what's on your mind?",
		"Listening to calming music or a favorite podcast might help lift your spirits.",
		"Remember to be kind to yourself. You're doing the best you can.",
		"Sometimes writing down thoughts in a journal can help process emotions.",
	},
	domain.MoodSeekingCommunity: {
		"Staying connected with supportive people can make a real difference. Is there someone you trust you could reach out to today?",
		"Feeling disconnected is hard. Even a short message to a friend can help.",
	},
	domain.MoodSeriousDistress: {
		"You don't have to go through this alone. Please consider reaching out to local emergency services or a trusted person right now.",
		"A grounding exercise can help in this moment. Would you like to try one together?",
	},
}

// pickSuggestion is swappable in tests, like Generator's fallback pick.
var pickSuggestion = rand.Intn

// SuggestionFor picks a coping suggestion for the mood, or "" when the
// mood carries none.
func SuggestionFor(mood domain.MoodTag) string {
	opts := copingSuggestions[mood]
	if len(opts) == 0 {
		return ""
	}
	return opts[pickSuggestion(len(opts))]
}
