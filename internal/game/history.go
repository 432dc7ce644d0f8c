package game

import (
	"fmt"
	"strings"

	"samsara/internal/game/puzzle"
)

// History is a bounded transcript of the interaction loop.
type History struct {
	exchanges []string
	maxSize   int
}

func NewHistory(maxSize int) *History {
	return &History{
		exchanges: make([]string, 0, maxSize),
		maxSize:   maxSize,
	}
}

func (h *History) AddPlayerInput(input string) {
	h.add("Player: " + input)
}

func (h *History) AddOutcome(puzzleID, outcome string) {
	h.add(fmt.Sprintf("%s: %s", puzzleID, outcome))
}

func (h *History) AddHint(hint string) {
	h.add("Hint: " + hint)
}

func (h *History) add(entry string) {
	h.exchanges = append(h.exchanges, entry)

	if len(h.exchanges) > h.maxSize {
		h.exchanges = h.exchanges[len(h.exchanges)-h.maxSize:]
	}
}

func (h *History) GetEntries() []string {
	result := make([]string, len(h.exchanges))
	copy(result, h.exchanges)
	return result
}

// BuildHintContext creates the context an LLM needs to write a fresh hint for
// def without giving the answer away.
func BuildHintContext(def puzzle.Definition, attempts int, shownHints []string, transcript []string) string {
	var context strings.Builder

	context.WriteString("PUZZLE:\n")
	context.WriteString(fmt.Sprintf("Name: %s (%s)\n", def.Name, def.ID))
	context.WriteString(fmt.Sprintf("Mechanics: %s\n", def.Type))
	context.WriteString(fmt.Sprintf("Attempts so far: %d", attempts))
	if def.Bounded() {
		context.WriteString(fmt.Sprintf(" of %d", def.MaxAttempts))
	}
	context.WriteString("\n")

	if len(shownHints) > 0 {
		context.WriteString("HINTS ALREADY GIVEN:\n")
		for _, hint := range shownHints {
			context.WriteString("- " + hint + "\n")
		}
	}

	if len(transcript) > 0 {
		context.WriteString("RECENT ATTEMPTS:\n")
		for _, exchange := range transcript {
			context.WriteString(exchange + "\n")
		}
	}

	return context.String()
}
