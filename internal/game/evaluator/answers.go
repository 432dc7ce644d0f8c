package evaluator

import (
	"slices"

	"samsara/internal/game/puzzle"
)

// AnswerMechanic serves every question-and-answer style puzzle.
type AnswerMechanic struct{}

func (m *AnswerMechanic) Types() []puzzle.MechanicsType {
	return []puzzle.MechanicsType{
		puzzle.PhilosophicalRiddle,
		puzzle.PhilosophicalInquiry,
		puzzle.LogicalAnalysis,
		puzzle.ExperientialParadox,
		puzzle.UltimateInquiry,
	}
}

func (m *AnswerMechanic) Validate(in Input) error {
	return requireString(in, "answer")
}

func (m *AnswerMechanic) Evaluate(criteria puzzle.Criteria, state State, in Input) Result {
	c := criteria.(puzzle.AnswerCriteria)
	answer, _ := in.String("answer")
	state.Mechanic["last_answer"] = answer

	if canonical, ok := c.Aliases[answer]; ok {
		answer = canonical
	}
	return solvedIf(slices.Contains(c.Answers, answer), state)
}
