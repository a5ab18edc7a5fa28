package chat

import (
	"context"
	"regexp"
	"strings"

	"github.com/serenitylabs/serenity-agent/internal/domain"
	"github.com/serenitylabs/serenity-agent/internal/observability"
)

const classificationPrompt = "You are a classification expert. Analyze the user's message and respond with ONLY ONE of the following tags that best fits the user's current emotion. Do not add any other text. " +
	"The available tags are: [mood: happy], [mood: neutral], [mood: sad], [mood: anxious], [intent: seeking_community], [intent: serious_distress]." +
	"\n\nHere are some examples:\n" +
	"User: I'm so happy today, everything is going great!\nAssistant: [mood: happy]\n" +
	"User: what's up\nAssistant: [mood: neutral]\n" +
	"Your response must strictly contain ONLY the tag, e.g., [mood: happy]."

// classificationWindow is how many trailing history messages give the
// classifier its context.
const classificationWindow = 4

var tagPattern = regexp.MustCompile(`\[(mood|intent):\s*([^\]]+)\]`)

// Classifier infers the predominant mood of one turn.
type Classifier struct {
	llm domain.InferenceClient
}

func NewClassifier(llm domain.InferenceClient) *Classifier {
	return &Classifier{llm: llm}
}

// Classify runs the deterministic classification call. It never fails:
// a gateway error or an unparseable completion resolves to neutral.
func (c *Classifier) Classify(
	ctx context.Context,
	input string,
	history domain.ConversationHistory,
) domain.MoodTag {
	messages := make([]domain.PromptMessage, 0, classificationWindow+2)
	messages = append(messages, domain.PromptMessage{
		Role:    domain.PromptSystem,
		Content: classificationPrompt,
	})
	for _, m := range history.RecentWindow(classificationWindow) {
		messages = append(messages, toPromptMessage(m))
	}
	messages = append(messages, domain.PromptMessage{
		Role:    domain.PromptUser,
		Content: input,
	})

	raw, err := c.llm.Infer(ctx, messages, domain.SamplingParams{
		Temperature:     0,
		MaxOutputTokens: 15,
	})
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("classification call failed, defaulting to neutral", "error", err)
		return domain.MoodNeutral
	}

	return ParseMoodTag(raw)
}

// ParseMoodTag extracts the tag from a raw completion. No match means
// neutral; classification ambiguity is never an error.
func ParseMoodTag(raw string) domain.MoodTag {
	m := tagPattern.FindStringSubmatch(raw)
	if m == nil {
		return domain.MoodNeutral
	}
	return domain.MoodTag(strings.TrimSpace(m[2]))
}

func toPromptMessage(m domain.Message) domain.PromptMessage {
	role := domain.PromptUser
	if m.Role == domain.RoleAssistant {
		role = domain.PromptAssistant
	}
	return domain.PromptMessage{Role: role, Content: m.Content}
}
