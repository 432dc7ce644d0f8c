package evaluator

import (
	"slices"

	"samsara/internal/game/puzzle"
)

type ItemMechanic struct{}

func (m *ItemMechanic) Types() []puzzle.MechanicsType {
	return []puzzle.MechanicsType{puzzle.ItemApplication, puzzle.PurityAlignment}
}

func (m *ItemMechanic) Validate(in Input) error {
	return requireString(in, "item")
}

// Evaluate matches the dropped item exactly; no trimming or case folding.
func (m *ItemMechanic) Evaluate(criteria puzzle.Criteria, state State, in Input) Result {
	c := criteria.(puzzle.ItemCriteria)
	item, _ := in.String("item")
	state.Mechanic["last_item"] = item
	return solvedIf(slices.Contains(c.ValidItems, item), state)
}
