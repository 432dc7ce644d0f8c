package evaluator

import (
	"slices"

	"samsara/internal/game/puzzle"
)

type SequenceMechanic struct{}

func (m *SequenceMechanic) Types() []puzzle.MechanicsType {
	return []puzzle.MechanicsType{puzzle.MusicalSequence}
}

func (m *SequenceMechanic) Validate(in Input) error {
	return requireStrings(in, "notes")
}

// Evaluate requires the played notes to equal the declared sequence exactly.
// Prefixes, extra notes and reorderings all fail.
func (m *SequenceMechanic) Evaluate(criteria puzzle.Criteria, state State, in Input) Result {
	c := criteria.(puzzle.SequenceCriteria)
	notes, _ := in.Strings("notes")
	state.Mechanic["played"] = slices.Clone(notes)
	return solvedIf(len(c.Notes) > 0 && slices.Equal(notes, c.Notes), state)
}
