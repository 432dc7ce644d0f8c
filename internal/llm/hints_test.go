package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go/option"

	"samsara/internal/game/puzzle"
)

type fakeCompleter struct {
	reply string
	err   error
	got   TextCompletionRequest
}

func (f *fakeCompleter) CompleteText(ctx context.Context, req TextCompletionRequest) (string, error) {
	f.got = req
	return f.reply, f.err
}

var riddle = puzzle.Definition{
	ID:          "sphinx_riddle",
	Name:        "Riddle of the Stone Guardian",
	Type:        puzzle.PhilosophicalRiddle,
	MaxAttempts: 3,
	Hints:       []string{"It has no body but consumes everything."},
}

func TestHintOracleBuildsPrompt(t *testing.T) {
	fake := &fakeCompleter{reply: `  "Think of what every candle loses."  `}
	oracle := NewHintOracle(fake, 0)

	hint, err := oracle.Hint(context.Background(), riddle, 2, riddle.Hints, []string{"Player: sphinx_riddle map[answer:fire]"})
	if err != nil {
		t.Fatalf("Hint() error: %v", err)
	}
	if hint != "Think of what every candle loses." {
		t.Errorf("hint = %q", hint)
	}
	if fake.got.MaxTokens != 200 {
		t.Errorf("MaxTokens = %d, want 200", fake.got.MaxTokens)
	}
	for _, want := range []string{"Riddle of the Stone Guardian", "Attempts so far: 2 of 3", "consumes everything", "answer:fire"} {
		if !strings.Contains(fake.got.UserPrompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, fake.got.UserPrompt)
		}
	}
}

func TestHintOracleErrors(t *testing.T) {
	if _, err := NewHintOracle(&fakeCompleter{reply: "   "}, 50).Hint(context.Background(), riddle, 0, nil, nil); !errors.Is(err, ErrEmptyHint) {
		t.Errorf("blank reply: got %v, want ErrEmptyHint", err)
	}
	boom := errors.New("rate limited")
	if _, err := NewHintOracle(&fakeCompleter{err: boom}, 50).Hint(context.Background(), riddle, 0, nil, nil); !errors.Is(err, boom) {
		t.Errorf("got %v, want %v", err, boom)
	}
}

func TestServiceCompleteText(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		gotModel, _ = body["model"].(string)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Listen for what is missing."}}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 6, "total_tokens": 18}
		}`))
	}))
	defer srv.Close()

	svc := NewService("sk-test", "gpt-4o-mini", nil, option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	got, err := svc.CompleteText(context.Background(), TextCompletionRequest{
		SystemPrompt: "guide",
		UserPrompt:   "hint please",
		MaxTokens:    50,
	})
	if err != nil {
		t.Fatalf("CompleteText() error: %v", err)
	}
	if got != "Listen for what is missing." {
		t.Errorf("got %q", got)
	}
	if gotModel != "gpt-4o-mini" {
		t.Errorf("model sent = %q, want gpt-4o-mini", gotModel)
	}
}

type memRecorder struct {
	puzzles   []string
	responses []string
	metadata  []CompletionMetadata
}

func (m *memRecorder) LogCompletion(ctx context.Context, puzzleID, userInput, systemPrompt, response string, metadata CompletionMetadata) error {
	m.puzzles = append(m.puzzles, puzzleID)
	m.responses = append(m.responses, response)
	m.metadata = append(m.metadata, metadata)
	return nil
}

func TestHintOracleRecordsCompletions(t *testing.T) {
	rec := &memRecorder{}
	fake := &fakeCompleter{reply: "Every candle knows."}
	oracle := NewHintOracle(fake, 80).WithRecorder(rec, nil)

	if _, err := oracle.Hint(context.Background(), riddle, 1, nil, nil); err != nil {
		t.Fatalf("Hint() error: %v", err)
	}
	fake.reply, fake.err = "", errors.New("timeout")
	oracle.Hint(context.Background(), riddle, 2, nil, nil)

	if len(rec.puzzles) != 2 || rec.puzzles[0] != "sphinx_riddle" {
		t.Fatalf("recorded puzzles = %v, want two sphinx_riddle entries", rec.puzzles)
	}
	if rec.responses[0] != "Every candle knows." || rec.metadata[0].Error != nil {
		t.Errorf("first record = %q %+v", rec.responses[0], rec.metadata[0])
	}
	if rec.metadata[1].Error == nil || *rec.metadata[1].Error != "timeout" {
		t.Errorf("failed completion not recorded with its error: %+v", rec.metadata[1])
	}
	if rec.metadata[0].MaxTokens != 80 {
		t.Errorf("MaxTokens = %d, want 80", rec.metadata[0].MaxTokens)
	}
}
