package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/PabloGalante/datagent/internal/domain"
	"github.com/PabloGalante/datagent/internal/observability"
)

const DefaultModel = "gemini-2.5-flash"

const (
	BackendGemini = "gemini"
	BackendVertex = "vertex"
)

type GeminiConfig struct {
	APIKey  string
	Model   string
	Backend string // "gemini" (API key) or "vertex" (project + location)

	Project  string
	Location string

	// BaseURL overrides the service endpoint; empty uses the SDK default.
	BaseURL string
}

// GeminiResponder implements domain.Responder with one chat session per
// call. It never returns an error: failures are logged and surfaced as
// ErrorText so the conversation always gets an assistant turn.
type GeminiResponder struct {
	client  *genai.Client
	initErr error
	model   string
}

// NewGeminiResponder builds the genai client. A missing credential does not
// fail construction; every call will then fail at the service boundary.
func NewGeminiResponder(ctx context.Context, cfg GeminiConfig) *GeminiResponder {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Backend == BackendVertex {
		cc = &genai.ClientConfig{
			Project:  cfg.Project,
			Location: cfg.Location,
			Backend:  genai.BackendVertexAI,
		}
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		err = fmt.Errorf("creating genai client: %w", err)
		observability.Logger().Warn("gemini client unavailable", "error", err)
	}

	return &GeminiResponder{
		client:  client,
		initErr: err,
		model:   model,
	}
}

func (g *GeminiResponder) Model() string {
	return g.model
}

// Respond implements domain.Responder.
func (g *GeminiResponder) Respond(
	ctx context.Context,
	message string,
	history []domain.Turn,
) (string, error) {
	log := observability.LoggerFromContext(ctx).With("model", g.model)

	if g.initErr != nil {
		log.Error("gemini API error", "error", g.initErr)
		return ErrorText, nil
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
	}

	chat, err := g.client.Chats.Create(ctx, g.model, cfg, toContents(history))
	if err != nil {
		log.Error("gemini API error", "error", fmt.Errorf("creating chat: %w", err))
		return ErrorText, nil
	}

	res, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		log.Error("gemini API error", "error", fmt.Errorf("sending message: %w", err))
		return ErrorText, nil
	}

	text := res.Text()
	if text == "" {
		return FallbackText, nil
	}
	return text, nil
}
