package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/serenitylabs/serenity-agent/internal/domain"
)

// HFClient talks to the Hugging Face router, which speaks the
// OpenAI chat-completion dialect.
type HFClient struct {
	client *openai.Client
	model  string
}

// NewHFClient builds an inference client against the HF router. The
// request timeout is mandatory so a hung upstream never stalls a turn.
func NewHFClient(baseURL, apiKey, model string, timeout time.Duration) (*HFClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("hugging face API key is required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(strings.TrimSuffix(baseURL, "/")),
		option.WithRequestTimeout(timeout),
	)

	return &HFClient{
		client: &client,
		model:  model,
	}, nil
}

// Infer implements domain.InferenceClient.
func (c *HFClient) Infer(
	ctx context.Context,
	messages []domain.PromptMessage,
	params domain.SamplingParams,
) (string, error) {
	if err := validatePrompt(messages); err != nil {
		return "", err
	}

	parts := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case domain.PromptSystem:
			parts = append(parts, openai.SystemMessage(m.Content))
		case domain.PromptAssistant:
			parts = append(parts, openai.AssistantMessage(m.Content))
		default:
			parts = append(parts, openai.UserMessage(m.Content))
		}
	}

	res, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    parts,
		Temperature: openai.Float(params.Temperature),
		MaxTokens:   openai.Int(int64(params.MaxOutputTokens)),
	})
	if err != nil {
		return "", domain.NewInferenceError(classifyAPIError(err), err)
	}

	if len(res.Choices) == 0 {
		return "", domain.NewInferenceError(
			domain.FailureMalformedResponse,
			fmt.Errorf("no choices in completion"),
		)
	}

	text := strings.TrimSpace(res.Choices[0].Message.Content)
	if text == "" {
		return "", domain.NewInferenceError(
			domain.FailureMalformedResponse,
			fmt.Errorf("empty completion content"),
		)
	}

	return text, nil
}

func classifyAPIError(err error) domain.InferenceFailureKind {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return domain.FailureUnauthenticated
		}
	}
	return domain.FailureUnavailable
}

// validatePrompt enforces the gateway contract: at least one system
// entry followed by a non-empty conversation.
func validatePrompt(messages []domain.PromptMessage) error {
	if len(messages) < 2 || messages[0].Role != domain.PromptSystem {
		return fmt.Errorf("invalid prompt: needs a system message and at least one turn")
	}
	return nil
}
