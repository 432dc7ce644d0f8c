package evaluator

import (
	"slices"

	"github.com/zyedidia/generic/mapset"

	"samsara/internal/game/puzzle"
)

func setOf(vals []string) mapset.Set[string] {
	s := mapset.New[string]()
	for _, v := range vals {
		s.Put(v)
	}
	return s
}

func containsAll(s mapset.Set[string], vals []string) bool {
	for _, v := range vals {
		if !s.Has(v) {
			return false
		}
	}
	return true
}

func containsAny(s mapset.Set[string], vals []string) bool {
	for _, v := range vals {
		if s.Has(v) {
			return true
		}
	}
	return false
}

func sameSet(a, b mapset.Set[string]) bool {
	if a.Size() != b.Size() {
		return false
	}
	equal := true
	a.Each(func(v string) {
		if !b.Has(v) {
			equal = false
		}
	})
	return equal
}

type DiplomacyMechanic struct{}

func (m *DiplomacyMechanic) Types() []puzzle.MechanicsType {
	return []puzzle.MechanicsType{puzzle.DiplomaticNavigation}
}

func (m *DiplomacyMechanic) Validate(in Input) error {
	if err := requireStrings(in, "favorable"); err != nil {
		return err
	}
	return requireStrings(in, "allies")
}

// Evaluate is a conjunction: enough favorable NPCs, every required ally
// present, no adversary among the allies.
func (m *DiplomacyMechanic) Evaluate(criteria puzzle.Criteria, state State, in Input) Result {
	c := criteria.(puzzle.DiplomacyCriteria)
	favorable, _ := in.Strings("favorable")
	allies, _ := in.Strings("allies")

	won := setOf(favorable)
	allied := setOf(allies)
	state.Mechanic["favorable_count"] = won.Size()

	ok := won.Size() >= c.MinFavorable &&
		containsAll(allied, c.RequiredAllies) &&
		!containsAny(allied, c.AvoidAdversaries)
	return solvedIf(ok, state)
}

type InvestigationMechanic struct{}

func (m *InvestigationMechanic) Types() []puzzle.MechanicsType {
	return []puzzle.MechanicsType{puzzle.MysteryInvestigation}
}

func (m *InvestigationMechanic) Validate(in Input) error {
	if err := requireStrings(in, "clues"); err != nil {
		return err
	}
	return requireString(in, "accusation")
}

func (m *InvestigationMechanic) Evaluate(criteria puzzle.Criteria, state State, in Input) Result {
	c := criteria.(puzzle.InvestigationCriteria)
	clues, _ := in.Strings("clues")
	accusation, _ := in.String("accusation")

	found := setOf(clues)
	state.Mechanic["clues_found"] = found.Size()

	ok := containsAll(found, c.RequiredClues) && c.Culprit != "" && accusation == c.Culprit
	return solvedIf(ok, state)
}

type RitualMechanic struct{}

func (m *RitualMechanic) Types() []puzzle.MechanicsType {
	return []puzzle.MechanicsType{puzzle.RitualPreparation}
}

func (m *RitualMechanic) Validate(in Input) error {
	if err := requireStrings(in, "gathered"); err != nil {
		return err
	}
	if _, present := in["elapsed"]; present {
		if _, ok := in.Float("elapsed"); !ok {
			return malformed("%q must be a number of seconds", "elapsed")
		}
	}
	return nil
}

func (m *RitualMechanic) Evaluate(criteria puzzle.Criteria, state State, in Input) Result {
	c := criteria.(puzzle.RitualCriteria)
	gathered, _ := in.Strings("gathered")

	if c.TimeLimit > 0 {
		elapsed, ok := in.Float("elapsed")
		if !ok || elapsed > c.TimeLimit {
			return solvedIf(false, state)
		}
	}

	var ok bool
	if c.Ordered {
		ok = slices.Equal(gathered, c.Components)
	} else {
		ok = len(gathered) == len(c.Components) && sameSet(setOf(gathered), setOf(c.Components))
	}
	return solvedIf(len(c.Components) > 0 && ok, state)
}
