package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"samsara/internal/game/evaluator"
	"samsara/internal/game/puzzle"
)

var (
	errUnknownVerb = errors.New("unknown command")
	errMissingArgs = errors.New("missing arguments")
)

type commandKind int

const (
	cmdNone commandKind = iota
	cmdPuzzles
	cmdStart
	cmdHint
	cmdAbandon
	cmdState
	cmdHelp
	cmdDraft  // updates the draft input, nothing is evaluated yet
	cmdSubmit // sends the draft (plus any fields the verb set) for evaluation
)

type command struct {
	kind commandKind
	arg  string
}

// draft accumulates mechanic input across several verbs until it is submitted.
// Verbs that answer a puzzle in one go (answer, drop, play...) submit at once.
type draft struct {
	fields  evaluator.Input
	started time.Time
}

func newDraft(now time.Time) *draft {
	return &draft{fields: make(evaluator.Input), started: now}
}

func (d *draft) empty() bool {
	return len(d.fields) == 0
}

// take returns the accumulated input and resets the draft. Gathered ritual
// components carry the time spent since the draft began.
func (d *draft) take(now time.Time) evaluator.Input {
	in := d.fields
	if _, ok := in["gathered"]; ok {
		if _, set := in["elapsed"]; !set {
			in["elapsed"] = now.Sub(d.started).Seconds()
		}
	}
	d.fields = make(evaluator.Input)
	d.started = now
	return in
}

// listFields names the list inputs a mechanic expects even when the player
// never added to them.
var listFields = map[puzzle.MechanicsType][]string{
	puzzle.DiplomaticNavigation:     {"favorable", "allies"},
	puzzle.MysteryInvestigation:     {"clues"},
	puzzle.RitualPreparation:        {"gathered"},
	puzzle.SelfReflectiveNavigation: {"choices"},
	puzzle.ConceptualSelection:      {"selected"},
}

func fillLists(t puzzle.MechanicsType, in evaluator.Input) evaluator.Input {
	for _, key := range listFields[t] {
		if _, ok := in[key]; !ok {
			in[key] = []string{}
		}
	}
	return in
}

func (d *draft) appendString(key, value string) {
	list, _ := d.fields[key].([]string)
	d.fields[key] = append(list, value)
}

func (d *draft) putNumber(key, name string, value float64) {
	m, _ := d.fields[key].(map[string]float64)
	if m == nil {
		m = make(map[string]float64)
	}
	m[name] = value
	d.fields[key] = m
}

func (d *draft) putString(key, name, value string) {
	m, _ := d.fields[key].(map[string]string)
	if m == nil {
		m = make(map[string]string)
	}
	m[name] = value
	d.fields[key] = m
}

// parseCommand interprets one line of player input. Slash commands control the
// session; verbs write into d.
func parseCommand(line string, d *draft) (command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return command{}, nil
	}

	verb, rest, _ := strings.Cut(line, " ")
	verb = strings.ToLower(verb)
	rest = strings.TrimSpace(rest)

	switch verb {
	case "/puzzles", "/list":
		return command{kind: cmdPuzzles}, nil
	case "/start":
		if rest == "" {
			return command{}, fmt.Errorf("/start needs a puzzle id: %w", errMissingArgs)
		}
		return command{kind: cmdStart, arg: rest}, nil
	case "/hint":
		return command{kind: cmdHint}, nil
	case "/abandon":
		return command{kind: cmdAbandon}, nil
	case "/state", "/inventory":
		return command{kind: cmdState}, nil
	case "/help":
		return command{kind: cmdHelp}, nil
	case "submit":
		return command{kind: cmdSubmit}, nil
	}

	if rest == "" {
		if verb == "advance" {
			d.fields["advance"] = true
			return command{kind: cmdSubmit}, nil
		}
		if _, known := verbUsage[verb]; known {
			return command{}, fmt.Errorf("%s: %w", verbUsage[verb], errMissingArgs)
		}
		return command{}, fmt.Errorf("%q: %w", verb, errUnknownVerb)
	}

	switch verb {
	case "rotate":
		name, value, err := splitNumber(rest)
		if err != nil {
			return command{}, fmt.Errorf("%s: %w", verbUsage[verb], err)
		}
		d.putNumber("rotations", name, value)
		return command{kind: cmdSubmit}, nil
	case "shift":
		name, value, err := splitNumber(rest)
		if err != nil {
			return command{}, fmt.Errorf("%s: %w", verbUsage[verb], err)
		}
		d.putNumber("offsets", name, value)
		return command{kind: cmdDraft}, nil
	case "level":
		name, value, err := splitNumber(rest)
		if err != nil {
			return command{}, fmt.Errorf("%s: %w", verbUsage[verb], err)
		}
		d.putNumber("levels", name, value)
		return command{kind: cmdDraft}, nil
	case "set":
		key, value, ok := strings.Cut(rest, "=")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			return command{}, fmt.Errorf("%s: %w", verbUsage[verb], errMissingArgs)
		}
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			d.fields[key] = f
		} else {
			d.fields[key] = value
		}
		return command{kind: cmdDraft}, nil
	case "drop":
		d.fields["item"] = rest
		return command{kind: cmdSubmit}, nil
	case "advance":
		d.fields["advance"] = true
		d.fields["item"] = rest
		return command{kind: cmdSubmit}, nil
	case "play":
		d.fields["notes"] = splitList(rest)
		return command{kind: cmdSubmit}, nil
	case "answer":
		d.fields["answer"] = rest
		return command{kind: cmdSubmit}, nil
	case "accuse":
		d.fields["accusation"] = rest
		return command{kind: cmdSubmit}, nil
	case "ally":
		d.appendString("allies", rest)
		return command{kind: cmdDraft}, nil
	case "favor":
		d.appendString("favorable", rest)
		return command{kind: cmdDraft}, nil
	case "clue":
		d.appendString("clues", rest)
		return command{kind: cmdDraft}, nil
	case "gather":
		d.appendString("gathered", rest)
		return command{kind: cmdDraft}, nil
	case "walk":
		d.appendString("choices", rest)
		return command{kind: cmdDraft}, nil
	case "select":
		d.appendString("selected", rest)
		return command{kind: cmdDraft}, nil
	case "place":
		concept, slot, ok := strings.Cut(rest, "=")
		concept, slot = strings.TrimSpace(concept), strings.TrimSpace(slot)
		if !ok || concept == "" || slot == "" {
			return command{}, fmt.Errorf("%s: %w", verbUsage[verb], errMissingArgs)
		}
		d.putString("placements", concept, slot)
		return command{kind: cmdDraft}, nil
	}

	return command{}, fmt.Errorf("%q: %w", verb, errUnknownVerb)
}

// splitNumber splits "<name...> <number>" on the last field.
func splitNumber(s string) (string, float64, error) {
	i := strings.LastIndex(s, " ")
	if i < 0 {
		return "", 0, errMissingArgs
	}
	name := strings.TrimSpace(s[:i])
	value, err := strconv.ParseFloat(strings.TrimSpace(s[i+1:]), 64)
	if err != nil {
		return "", 0, fmt.Errorf("%q is not a number", s[i+1:])
	}
	return name, value, nil
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
}

var verbUsage = map[string]string{
	"rotate":  "rotate <ring> <degrees>",
	"shift":   "shift <fragment> <offset>",
	"level":   "level <channel> <value>",
	"set":     "set <field> = <value>",
	"drop":    "drop <item>",
	"advance": "advance [item]",
	"play":    "play <note> <note>...",
	"answer":  "answer <text>",
	"accuse":  "accuse <suspect>",
	"ally":    "ally <name>",
	"favor":   "favor <name>",
	"clue":    "clue <clue>",
	"gather":  "gather <component>",
	"walk":    "walk <choice>",
	"select":  "select <concept>",
	"place":   "place <concept> = <slot>",
}

var verbOrder = []string{
	"rotate", "drop", "advance", "play", "answer", "favor", "ally", "clue",
	"accuse", "gather", "walk", "place", "shift", "select", "level", "set",
}
