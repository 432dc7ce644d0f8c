package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"samsara/internal/debug"
	"samsara/internal/game"
	"samsara/internal/game/puzzle"
)

const hintSystemPrompt = `You are the quiet guide of a contemplative puzzle game set in ancient India.

The player is stuck on a puzzle and has read every written hint. Offer one new hint.

Rules:
- One or two sentences, gentle and concrete
- Never state the solution, a target value or the exact answer
- Build on the hints already given instead of repeating them
- No preamble, no quotation marks`

var ErrEmptyHint = errors.New("empty hint")

// Completer is the part of Service the hint oracle needs.
type Completer interface {
	CompleteText(ctx context.Context, req TextCompletionRequest) (string, error)
}

// CompletionLog is one generated hint, kept for later review.
type CompletionLog struct {
	ID           int       `json:"id" db:"id"`
	Timestamp    time.Time `json:"timestamp" db:"timestamp"`
	PuzzleID     string    `json:"puzzle_id" db:"puzzle_id"`
	UserInput    string    `json:"user_input" db:"user_input"`
	SystemPrompt string    `json:"system_prompt" db:"system_prompt"`
	Response     string    `json:"response" db:"response"`
	Metadata     string    `json:"metadata" db:"metadata"`
}

type CompletionMetadata struct {
	MaxTokens      int     `json:"max_tokens"`
	ResponseTimeMs int64   `json:"response_time_ms"`
	Error          *string `json:"error,omitempty"`
}

type CompletionRecorder interface {
	LogCompletion(ctx context.Context, puzzleID, userInput, systemPrompt, response string, metadata CompletionMetadata) error
}

// HintOracle writes fresh hints once a puzzle's authored hints are used up.
type HintOracle struct {
	llm       Completer
	maxTokens int
	recorder  CompletionRecorder
	debug     *debug.Logger
}

func NewHintOracle(llm Completer, maxTokens int) *HintOracle {
	if maxTokens <= 0 {
		maxTokens = 200
	}
	return &HintOracle{llm: llm, maxTokens: maxTokens}
}

// WithRecorder logs every completion, failed ones included, to r.
func (h *HintOracle) WithRecorder(r CompletionRecorder, debugLogger *debug.Logger) *HintOracle {
	h.recorder = r
	h.debug = debugLogger
	return h
}

func (h *HintOracle) Hint(ctx context.Context, def puzzle.Definition, attempts int, shown []string, transcript []string) (string, error) {
	ctx = WithOperationType(ctx, "llm.hint")
	prompt := game.BuildHintContext(def, attempts, shown, transcript) + "\nWrite the next hint."

	startTime := time.Now()
	hint, err := h.llm.CompleteText(ctx, TextCompletionRequest{
		SystemPrompt:    hintSystemPrompt,
		UserPrompt:      prompt,
		MaxTokens:       h.maxTokens,
		ReasoningEffort: "minimal",
	})
	hint = strings.Trim(strings.TrimSpace(hint), `"`)
	if err == nil && hint == "" {
		err = ErrEmptyHint
	}
	h.log(ctx, def.ID, prompt, hint, time.Since(startTime), err)
	if err != nil {
		return "", err
	}
	return hint, nil
}

func (h *HintOracle) log(ctx context.Context, puzzleID, prompt, response string, elapsed time.Duration, err error) {
	if h.recorder == nil {
		return
	}
	metadata := CompletionMetadata{MaxTokens: h.maxTokens, ResponseTimeMs: elapsed.Milliseconds()}
	if err != nil {
		msg := err.Error()
		metadata.Error = &msg
	}
	if logErr := h.recorder.LogCompletion(ctx, puzzleID, prompt, hintSystemPrompt, response, metadata); logErr != nil {
		h.debug.Printf("Failed to log hint completion: %v", logErr)
	}
}
