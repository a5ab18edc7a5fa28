package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/serenitylabs/serenity-agent/internal/domain"
)

// MockLLM is a local, fully deterministic inference client for dev mode
// and tests. Temperature-0 calls are treated as classification requests
// and answered with a bracketed tag derived from a keyword lexicon;
// everything else gets an echo-style empathetic line.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

// Keyword lexicon folded onto the canonical tag vocabulary.
var moodLexicon = []struct {
	tag   domain.MoodTag
	words []string
}{
	{domain.MoodSeriousDistress, []string{"hopeless", "suicide", "hurt myself", "self-harm", "end it all"}},
	{domain.MoodSeekingCommunity, []string{"lonely", "alone", "no one to talk", "isolated"}},
	{domain.MoodAnxious, []string{"stress", "stressed", "overwhelmed", "pressure", "anxious", "anxiety", "worried", "nervous", "angry", "furious", "irritated", "frustrated"}},
	{domain.MoodSad, []string{"sad", "depressed", "unhappy", "miserable", "empty", "down"}},
	{domain.MoodHappy, []string{"better", "good", "calm", "peaceful", "relaxed", "happy", "great", "fine"}},
}

func (m *MockLLM) Infer(
	ctx context.Context,
	messages []domain.PromptMessage,
	params domain.SamplingParams,
) (string, error) {
	if err := validatePrompt(messages); err != nil {
		return "", err
	}

	last := messages[len(messages)-1].Content

	if params.Temperature == 0 {
		return fmt.Sprintf("[mood: %s]", lexiconMood(last)), nil
	}

	return fmt.Sprintf("I hear you. You said %q. Tell me a bit more about how that feels for you.", last), nil
}

func lexiconMood(input string) domain.MoodTag {
	lower := strings.ToLower(input)

	best := domain.MoodNeutral
	bestCount := 0
	for _, entry := range moodLexicon {
		count := 0
		for _, w := range entry.words {
			if strings.Contains(lower, w) {
				count++
			}
		}
		if count > bestCount {
			best = entry.tag
			bestCount = count
		}
	}
	return best
}
