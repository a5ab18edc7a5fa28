package chat

import (
	"context"
	"math/rand"
	"strings"

	"github.com/serenitylabs/serenity-agent/internal/domain"
	"github.com/serenitylabs/serenity-agent/internal/observability"
)

const personaPrompt = "You are Serenity, a compassionate and supportive mental health chatbot. " +
	"Never refer to yourself as Aura or any other name. You are NOT a therapist. " +
	"DO NOT provide medical advice. Keep your responses concise, warm, and non-judgemental. " +
	"Use less than 50 words."

// fallbackReplies are pre-authored lines used whenever the upstream
// fails. A person in distress never sees a raw error.
var fallbackReplies = []string{
	"I'm here to listen to you. Could you tell me more about what you're experiencing?",
	"Thank you for sharing that with me. How has that been affecting you?",
	"I understand this might be difficult to talk about. Take your time.",
	"Your feelings are completely valid. Would you like to explore this further?",
	"I'm listening carefully. Please continue when you feel comfortable.",
}

// Generator produces the conversational reply for one turn.
type Generator struct {
	llm  domain.InferenceClient
	pick func(n int) int
}

func NewGenerator(llm domain.InferenceClient) *Generator {
	return &Generator{
		llm:  llm,
		pick: rand.Intn,
	}
}

// Generate runs the exploratory conversational call over the full
// history. It never fails and never returns an empty string.
func (g *Generator) Generate(
	ctx context.Context,
	input string,
	history domain.ConversationHistory,
) string {
	messages := make([]domain.PromptMessage, 0, len(history)+2)
	messages = append(messages, domain.PromptMessage{
		Role:    domain.PromptSystem,
		Content: personaPrompt,
	})
	for _, m := range history {
		messages = append(messages, toPromptMessage(m))
	}
	messages = append(messages, domain.PromptMessage{
		Role:    domain.PromptUser,
		Content: input,
	})

	raw, err := g.llm.Infer(ctx, messages, domain.SamplingParams{
		Temperature:     0.7,
		MaxOutputTokens: 128,
	})
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("generation call failed, using fallback reply", "error", err)
		return g.fallback()
	}

	reply := stripPersonaPrefix(raw)
	if reply == "" {
		return g.fallback()
	}
	return reply
}

func (g *Generator) fallback() string {
	return fallbackReplies[g.pick(len(fallbackReplies))]
}

// stripPersonaPrefix drops a "Serenity:" style self-identification some
// models prepend.
func stripPersonaPrefix(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "Serenity:")
	return strings.TrimSpace(s)
}
