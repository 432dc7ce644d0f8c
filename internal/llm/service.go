package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"samsara/internal/debug"
	"samsara/internal/observability"
)

type contextKey string

const operationTypeKey contextKey = "operation_type"

type Service struct {
	client *openai.Client
	model  string
	debug  *debug.Logger
	tracer trace.Tracer
}

// NewService builds an OpenAI-backed service. Extra request options (base URL,
// retries) are passed straight to the client.
func NewService(apiKey, model string, debug *debug.Logger, opts ...option.RequestOption) *Service {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := openai.NewClient(opts...)
	return &Service{
		client: &client,
		model:  model,
		debug:  debug,
		tracer: otel.Tracer("llm-service"),
	}
}

type TextCompletionRequest struct {
	SystemPrompt    string
	UserPrompt      string
	MaxTokens       int
	Model           string // optional override
	ReasoningEffort string // optional: minimal, low, medium, high
}

func (s *Service) CompleteText(ctx context.Context, req TextCompletionRequest) (string, error) {
	operationType := "llm.complete_text"
	if opType := getOperationType(ctx); opType != "" {
		operationType = opType
	}

	model := s.model
	if strings.TrimSpace(req.Model) != "" {
		model = req.Model
	}
	ctx, span := s.tracer.Start(ctx, operationType,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			observability.CreateGenAIAttributes("openai", model, 0, 0, -1)...,
		),
	)
	defer span.End()

	span.SetAttributes(attribute.Int("gen_ai.request.max_tokens", req.MaxTokens))
	if sessionID := observability.GetSessionIDFromContext(ctx); sessionID != "" {
		span.SetAttributes(attribute.String("session.id", sessionID))
	}
	span.AddEvent("gen_ai.user.message", trace.WithAttributes(
		attribute.String("gen_ai.system", "openai"),
		attribute.String("content", req.UserPrompt),
	))

	startTime := time.Now()

	openaiReq := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(req.UserPrompt),
		},
		MaxCompletionTokens: openai.Int(int64(req.MaxTokens)),
	}
	if req.ReasoningEffort != "" {
		openaiReq.ReasoningEffort = shared.ReasoningEffort(req.ReasoningEffort)
	}

	s.debug.Printf("LLM Text Completion - model: %s, MaxTokens: %d, SystemPrompt length: %d", model, req.MaxTokens, len(req.SystemPrompt))

	resp, err := s.client.Chat.Completions.New(ctx, openaiReq)
	if err != nil {
		span.SetAttributes(attribute.String("error.type", "llm_completion_error"))
		span.RecordError(err)
		s.debug.Printf("LLM Text Completion error: %v", err)
		return "", fmt.Errorf("text completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no completion choices returned")
		span.RecordError(err)
		return "", err
	}

	content := resp.Choices[0].Message.Content
	duration := time.Since(startTime)

	span.SetAttributes(
		attribute.Int64("gen_ai.usage.input_tokens", resp.Usage.PromptTokens),
		attribute.Int64("gen_ai.usage.output_tokens", resp.Usage.CompletionTokens),
		attribute.Int64("response_time_ms", duration.Milliseconds()),
	)
	span.AddEvent("gen_ai.choice", trace.WithAttributes(
		attribute.String("gen_ai.system", "openai"),
		attribute.String("content", content),
	))

	s.debug.Printf("LLM Text Completion response length: %d, tokens: %d/%d, duration: %v",
		len(content), resp.Usage.PromptTokens, resp.Usage.CompletionTokens, duration)

	return content, nil
}

func WithOperationType(ctx context.Context, opType string) context.Context {
	return context.WithValue(ctx, operationTypeKey, opType)
}

func getOperationType(ctx context.Context) string {
	if opType, ok := ctx.Value(operationTypeKey).(string); ok {
		return opType
	}
	return ""
}
