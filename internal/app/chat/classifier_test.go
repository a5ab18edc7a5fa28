package chat_test

import (
	"context"
	"errors"
	"testing"

	"github.com/serenitylabs/serenity-agent/internal/app/chat"
	"github.com/serenitylabs/serenity-agent/internal/domain"
)

// stubLLM returns a fixed completion and records the prompts it saw.
type stubLLM struct {
	reply string
	err   error
	calls [][]domain.PromptMessage
}

func (s *stubLLM) Infer(ctx context.Context, messages []domain.PromptMessage, params domain.SamplingParams) (string, error) {
	s.calls = append(s.calls, messages)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func TestClassifyParsesTagWithTrailingText(t *testing.T) {
	stub := &stubLLM{reply: "[mood: anxious] extra text"}
	c := chat.NewClassifier(stub)

	tag := c.Classify(context.Background(), "I can't stop worrying", nil)
	if tag != domain.MoodAnxious {
		t.Fatalf("expected anxious, got %q", tag)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	stub := &stubLLM{reply: "[intent: seeking_community]"}
	c := chat.NewClassifier(stub)

	history := domain.ConversationHistory{
		{Role: domain.RoleUser, Content: "hi"},
		{Role: domain.RoleAssistant, Content: "hello"},
	}

	first := c.Classify(context.Background(), "nobody talks to me", history)
	second := c.Classify(context.Background(), "nobody talks to me", history)
	if first != second {
		t.Fatalf("classification not deterministic: %q vs %q", first, second)
	}
	if first != domain.MoodSeekingCommunity {
		t.Fatalf("expected seeking_community, got %q", first)
	}
}

func TestClassifyDefaultsToNeutral(t *testing.T) {
	cases := []struct {
		name string
		stub *stubLLM
	}{
		{"gateway failure", &stubLLM{err: domain.NewInferenceError(domain.FailureUnavailable, errors.New("timeout"))}},
		{"no tag in output", &stubLLM{reply: "I think the user sounds fine."}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := chat.NewClassifier(tc.stub)
			tag := c.Classify(context.Background(), "hello", nil)
			if tag != domain.MoodNeutral {
				t.Fatalf("expected neutral, got %q", tag)
			}
		})
	}
}

func TestClassifyUsesRecentWindowOnly(t *testing.T) {
	stub := &stubLLM{reply: "[mood: happy]"}
	c := chat.NewClassifier(stub)

	var history domain.ConversationHistory
	for i := 0; i < 10; i++ {
		history = append(history, domain.Message{Role: domain.RoleUser, Content: "older message"})
	}

	c.Classify(context.Background(), "feeling great", history)

	if len(stub.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(stub.calls))
	}
	// system + 4 history + current input
	if got := len(stub.calls[0]); got != 6 {
		t.Fatalf("expected 6 prompt messages, got %d", got)
	}
	if stub.calls[0][0].Role != domain.PromptSystem {
		t.Fatalf("first prompt message must be the system instruction")
	}
}

func TestParseMoodTag(t *testing.T) {
	cases := []struct {
		raw  string
		want domain.MoodTag
	}{
		{"[mood: happy]", domain.MoodHappy},
		{"[mood: anxious] extra text", domain.MoodAnxious},
		{"[intent: serious_distress]", domain.MoodSeriousDistress},
		{"[mood:  sad ]", domain.MoodSad},
		{"no tag here", domain.MoodNeutral},
		{"", domain.MoodNeutral},
	}

	for _, tc := range cases {
		if got := chat.ParseMoodTag(tc.raw); got != tc.want {
			t.Errorf("ParseMoodTag(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}
