package ui

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/leonelquinteros/gotext"

	"samsara/internal/game/player"
	"samsara/internal/game/puzzle"
	"samsara/internal/game/rewards"
	"samsara/internal/game/session"
)

// Notice keys double as the English text when no translation is loaded.
const (
	msgWelcome         = "Welcome, %s. Type /puzzles to see what awaits you, or /help."
	msgUnknownPuzzle   = "No puzzle called %q is known here."
	msgUnknownCommand  = "Unknown command %s. Try /help."
	msgUsage           = "Usage: %s"
	msgNoActivePuzzle  = "No puzzle is open. Use /start <id> first."
	msgNothingToSubmit = "Nothing to submit yet."
	msgNoted           = "Noted."
	msgMalformed       = "That input does not fit this puzzle: %s"
	msgExhausted       = "You have no attempts left for %s."
	msgClosed          = "That puzzle session is already finished."
	msgNoMoreHints     = "No more hints for this puzzle."
	msgHint            = "Hint: %s"
	msgStarted         = "%s (%s)"
	msgResumed         = "Resuming %s at stage %d after %d attempts."
	msgAlreadySolved   = "You have already completed this puzzle. Rewards will not be granted again."
	msgSolved          = "Solved %s!"
	msgNotYet          = "Not yet."
	msgAttemptsLeft    = "%d attempts left."
	msgStage           = "Stage %d of %d."
	msgAbandoned       = "You step away from %s."
	msgReceived        = "Received %s: %s"
	msgAttribute       = "%s +%d"
	msgAccess          = "The way to %s opens."
	msgVerbs           = "Try: %s"
	msgNoRewardsYet    = "You carry nothing yet."
	msgFailed          = "Something went wrong: %v"
)

// mechanicVerbs suggests the verbs that build input for each mechanics type.
var mechanicVerbs = map[puzzle.MechanicsType][]string{
	puzzle.RotationalAlignment:      {"rotate"},
	puzzle.ItemApplication:          {"drop"},
	puzzle.PurityAlignment:          {"drop"},
	puzzle.MultiStageCrafting:       {"advance"},
	puzzle.MusicalSequence:          {"play"},
	puzzle.DiplomaticNavigation:     {"favor", "ally", "submit"},
	puzzle.MysteryInvestigation:     {"clue", "accuse"},
	puzzle.RitualPreparation:        {"gather", "submit"},
	puzzle.SelfReflectiveNavigation: {"walk", "submit"},
	puzzle.ConceptualDragAndDrop:    {"place", "submit"},
	puzzle.VisualUnification:        {"shift", "submit"},
	puzzle.ConceptualSelection:      {"select", "submit"},
	puzzle.PhilosophicalRiddle:      {"answer"},
	puzzle.PhilosophicalInquiry:     {"answer"},
	puzzle.LogicalAnalysis:          {"answer"},
	puzzle.ExperientialParadox:      {"answer"},
	puzzle.UltimateInquiry:          {"answer"},
	puzzle.EnergyBalancing:          {"level", "submit"},
}

func notice(key string, vars ...interface{}) string {
	return "! " + gotext.Get(key, vars...)
}

func text(key string, vars ...interface{}) string {
	return gotext.Get(key, vars...)
}

// errorNotice turns an orchestrator or parser error into a player-facing line.
func errorNotice(err error, puzzleName string) string {
	switch {
	case errors.Is(err, puzzle.ErrUnknownPuzzle):
		return notice(msgUnknownPuzzle, strings.TrimPrefix(err.Error(), puzzle.ErrUnknownPuzzle.Error()+": "))
	case errors.Is(err, session.ErrAttemptsExhausted):
		return notice(msgExhausted, puzzleName)
	case errors.Is(err, session.ErrSessionClosed), errors.Is(err, session.ErrUnknownSession):
		return notice(msgClosed)
	case errors.Is(err, session.ErrNoMoreHints):
		return notice(msgNoMoreHints)
	case errors.Is(err, errUnknownVerb):
		return notice(msgUnknownCommand, strings.TrimSuffix(err.Error(), ": "+errUnknownVerb.Error()))
	case errors.Is(err, errMissingArgs):
		return notice(msgUsage, strings.TrimSuffix(err.Error(), ": "+errMissingArgs.Error()))
	}
	return notice(msgFailed, err)
}

func startedLines(def puzzle.Definition, s *session.Session, completed bool) []string {
	lines := []string{text(msgStarted, def.Name, def.Type)}
	if s.Attempts > 0 || s.CurrentStage > 1 {
		lines = append(lines, text(msgResumed, def.Name, s.CurrentStage, s.Attempts))
	}
	if completed {
		lines = append(lines, notice(msgAlreadySolved))
	}
	if def.Bounded() {
		lines = append(lines, text(msgAttemptsLeft, s.AttemptsLeft(def)))
	}
	if verbs := mechanicVerbs[def.Type]; len(verbs) > 0 {
		usage := make([]string, 0, len(verbs))
		for _, v := range verbs {
			if u, ok := verbUsage[v]; ok {
				usage = append(usage, u)
			} else {
				usage = append(usage, v)
			}
		}
		lines = append(lines, text(msgVerbs, strings.Join(usage, ", ")))
	}
	return lines
}

func outcomeLines(def puzzle.Definition, out session.Outcome) []string {
	var lines []string
	switch {
	case out.Malformed != "":
		lines = append(lines, notice(msgMalformed, out.Malformed))
	case out.Solved:
		lines = append(lines, text(msgSolved, def.Name))
		if out.Grant != nil {
			lines = append(lines, grantLines(*out.Grant)...)
		}
		return lines
	default:
		lines = append(lines, text(msgNotYet))
	}

	if c, ok := def.Criteria.(puzzle.CraftingCriteria); ok && out.Stage <= len(c.Stages) {
		lines = append(lines, text(msgStage, out.Stage, len(c.Stages)))
	}
	if out.Status == session.AttemptsExhausted {
		lines = append(lines, notice(msgExhausted, def.Name))
	} else if out.AttemptsLeft >= 0 {
		lines = append(lines, text(msgAttemptsLeft, out.AttemptsLeft))
	}
	return lines
}

func grantLines(g rewards.Grant) []string {
	var lines []string
	add := func(kind string, names []string) {
		if len(names) > 0 {
			lines = append(lines, "* "+text(msgReceived, kind, strings.Join(names, ", ")))
		}
	}
	add("items", g.Items)
	add("abilities", g.Abilities)
	add("knowledge", g.Knowledge)
	add("insights", g.Insights)
	add("achievements", g.Achievements)
	for _, name := range slices.Sorted(maps.Keys(g.Attributes)) {
		lines = append(lines, "* "+text(msgAttribute, name, g.Attributes[name]))
	}
	for _, flag := range g.Access {
		lines = append(lines, "* "+text(msgAccess, strings.ReplaceAll(flag, "_", " ")))
	}
	return lines
}

func puzzleListLines(defs []puzzle.Definition, state *player.State) []string {
	lines := make([]string, 0, len(defs))
	for _, def := range defs {
		mark := " "
		if state.IsCompleted(def.ID) {
			mark = "✓"
		}
		lines = append(lines, fmt.Sprintf("[%s] %-20s %s", mark, def.ID, def.Name))
	}
	return lines
}

func stateLines(state *player.State) []string {
	var lines []string
	section := func(title string, names []string) {
		if len(names) > 0 {
			lines = append(lines, fmt.Sprintf("%s: %s", title, strings.Join(names, ", ")))
		}
	}
	section("Items", state.Rewards.Items)
	section("Abilities", state.Rewards.Abilities)
	section("Knowledge", state.Rewards.Knowledge)
	section("Insights", state.Rewards.Insights)
	section("Achievements", state.Rewards.Achievements)

	if len(state.Attributes) > 0 {
		attrs := make([]string, 0, len(state.Attributes))
		for _, name := range slices.Sorted(maps.Keys(state.Attributes)) {
			attrs = append(attrs, fmt.Sprintf("%s %d", name, state.Attributes[name]))
		}
		section("Attributes", attrs)
	}
	var access []string
	for _, flag := range slices.Sorted(maps.Keys(state.Access)) {
		if state.Access[flag] {
			access = append(access, flag)
		}
	}
	section("Access", access)

	if len(lines) == 0 {
		lines = append(lines, text(msgNoRewardsYet))
	}
	return lines
}

func helpLines() []string {
	lines := []string{
		"/puzzles            list puzzles",
		"/start <id>         open a puzzle",
		"/hint               reveal the next hint",
		"/abandon            step away from the open puzzle",
		"/state              show rewards and attributes",
		"submit              evaluate what you have gathered so far",
	}
	for _, verb := range verbOrder {
		lines = append(lines, verbUsage[verb])
	}
	return lines
}
