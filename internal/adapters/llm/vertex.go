package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/serenitylabs/serenity-agent/internal/domain"
)

// VertexClient is an inference client backed by Vertex AI (Gemini).
type VertexClient struct {
	client    *genai.Client
	modelName string
	timeout   time.Duration
}

// NewVertexClient creates the Vertex backend for the given project.
func NewVertexClient(ctx context.Context, projectID, location, modelName string, timeout time.Duration) (*VertexClient, error) {
	if projectID == "" || location == "" {
		return nil, fmt.Errorf("project and location are required for the vertex backend")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &VertexClient{
		client:    client,
		modelName: modelName,
		timeout:   timeout,
	}, nil
}

// Infer implements domain.InferenceClient.
func (v *VertexClient) Infer(
	ctx context.Context,
	messages []domain.PromptMessage,
	params domain.SamplingParams,
) (string, error) {
	if err := validatePrompt(messages); err != nil {
		return "", err
	}

	// Gemini takes the system instruction out of band; the rest of the
	// prompt becomes alternating user/model contents.
	var system []string
	var contents []*genai.Content
	for _, m := range messages {
		switch m.Role {
		case domain.PromptSystem:
			system = append(system, m.Content)
		case domain.PromptAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	temp := float32(params.Temperature)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(strings.Join(system, "\n"), genai.RoleUser),
		Temperature:       &temp,
		MaxOutputTokens:   int32(params.MaxOutputTokens),
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	res, err := v.client.Models.GenerateContent(ctx, v.modelName, contents, cfg)
	if err != nil {
		return "", domain.NewInferenceError(domain.FailureUnavailable, err)
	}

	text := strings.TrimSpace(res.Text())
	if text == "" {
		return "", domain.NewInferenceError(
			domain.FailureMalformedResponse,
			fmt.Errorf("vertex returned empty text"),
		)
	}

	return text, nil
}
