package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"samsara/internal/game/evaluator"
	"samsara/internal/game/events"
	"samsara/internal/game/player"
	"samsara/internal/game/puzzle"
)

type memStore struct {
	mu        sync.Mutex
	saves     int
	snapshots map[string]player.Snapshot
}

func (m *memStore) SavePlayer(ctx context.Context, state *player.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	return nil
}

func (m *memStore) SaveSnapshot(ctx context.Context, playerName, key string, snap player.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snapshots == nil {
		m.snapshots = make(map[string]player.Snapshot)
	}
	m.snapshots[key] = snap
	return nil
}

type memEvents struct {
	mu     sync.Mutex
	events []events.PuzzleEvent
}

func (m *memEvents) RecordEvent(ctx context.Context, ev events.PuzzleEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

func (m *memEvents) count(t events.PuzzleEventType) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, ev := range m.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

type stubOracle struct {
	hint string
	err  error
}

func (s stubOracle) Hint(ctx context.Context, def puzzle.Definition, attempts int, shown []string, transcript []string) (string, error) {
	return s.hint, s.err
}

func newTestOrchestrator(t *testing.T, state *player.State, opts Options) *Orchestrator {
	t.Helper()
	defs, err := puzzle.DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog() error: %v", err)
	}
	reg, err := puzzle.NewRegistry(defs...)
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}
	return NewOrchestrator(reg, state, opts)
}

func start(t *testing.T, o *Orchestrator, id string) *Session {
	t.Helper()
	s, err := o.Start(context.Background(), id)
	if err != nil {
		t.Fatalf("Start(%s) error: %v", id, err)
	}
	return s
}

var winningRaga = evaluator.Input{"notes": []string{"Sa", "Ga", "Pa", "Dha", "Ni"}}

func TestStartUnknownPuzzle(t *testing.T) {
	o := newTestOrchestrator(t, nil, Options{})
	_, err := o.Start(context.Background(), "missing")
	if !errors.Is(err, puzzle.ErrUnknownPuzzle) {
		t.Errorf("got %v, want ErrUnknownPuzzle", err)
	}
}

func TestSubmitUnknownSession(t *testing.T) {
	o := newTestOrchestrator(t, nil, Options{})
	_, err := o.Submit(context.Background(), "nope", winningRaga)
	if !errors.Is(err, ErrUnknownSession) {
		t.Errorf("got %v, want ErrUnknownSession", err)
	}
}

func TestSolveGrantsRewardsOnce(t *testing.T) {
	recorder := &memEvents{}
	o := newTestOrchestrator(t, player.New("seeker"), Options{Events: recorder})
	s := start(t, o, "raga_gate")

	out, err := o.Submit(context.Background(), s.ID, winningRaga)
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if !out.Solved || out.Status != Completed {
		t.Fatalf("got %+v, want a completed outcome", out)
	}
	if out.Grant == nil || len(out.Grant.Abilities) != 1 {
		t.Fatalf("Grant = %+v, want the Resonant Voice ability", out.Grant)
	}

	abilities := len(o.Player().Rewards.Abilities)
	achievements := len(o.Player().Rewards.Achievements)

	if _, err := o.Submit(context.Background(), s.ID, winningRaga); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("resubmit on completed session: got %v, want ErrSessionClosed", err)
	}

	replay := start(t, o, "raga_gate")
	again, err := o.Submit(context.Background(), replay.ID, winningRaga)
	if err != nil {
		t.Fatalf("replay Submit() error: %v", err)
	}
	if !again.Solved {
		t.Error("replay should still solve")
	}
	if again.Grant != nil {
		t.Errorf("replay granted %+v", again.Grant)
	}
	p := o.Player()
	if len(p.Rewards.Abilities) != abilities || len(p.Rewards.Achievements) != achievements {
		t.Errorf("rewards changed on replay: %+v", p.Rewards)
	}
	if p.Attributes["compassion"] != 1 {
		t.Errorf("compassion = %d, want 1", p.Attributes["compassion"])
	}
	if got := recorder.count(events.EventRewarded); got != 1 {
		t.Errorf("rewarded events = %d, want 1", got)
	}
}

func TestItemsUnchangedAfterWinningAgain(t *testing.T) {
	o := newTestOrchestrator(t, player.New("seeker"), Options{})
	s := start(t, o, "purity_altar")

	if _, err := o.Submit(context.Background(), s.ID, evaluator.Input{"item": "Pure Crystal"}); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	items := len(o.Player().Rewards.Items)
	if items != 3 {
		t.Fatalf("items = %v, want the three-item bundle", o.Player().Rewards.Items)
	}

	o.Submit(context.Background(), s.ID, evaluator.Input{"item": "Pure Crystal"})
	s2 := start(t, o, "purity_altar")
	o.Submit(context.Background(), s2.ID, evaluator.Input{"item": "Pure Crystal"})

	if got := len(o.Player().Rewards.Items); got != items {
		t.Errorf("items = %d after winning again, want %d", got, items)
	}
}

func TestAttemptsCeiling(t *testing.T) {
	recorder := &memEvents{}
	o := newTestOrchestrator(t, player.New("seeker"), Options{Events: recorder})
	s := start(t, o, "sphinx_riddle")

	for i := 1; i <= 3; i++ {
		out, err := o.Submit(context.Background(), s.ID, evaluator.Input{"answer": "wind"})
		if err != nil {
			t.Fatalf("attempt %d error: %v", i, err)
		}
		if out.AttemptsLeft != 3-i {
			t.Errorf("attempt %d: AttemptsLeft = %d, want %d", i, out.AttemptsLeft, 3-i)
		}
	}

	out, err := o.Submit(context.Background(), s.ID, evaluator.Input{"answer": "time"})
	if !errors.Is(err, ErrAttemptsExhausted) {
		t.Fatalf("fourth attempt: got %v, want ErrAttemptsExhausted", err)
	}
	if out.Solved || out.Attempts != 3 || out.Status != AttemptsExhausted {
		t.Errorf("got %+v, want an unsolved exhausted outcome with 3 attempts", out)
	}
	if o.Player().IsCompleted("sphinx_riddle") {
		t.Error("exhausted puzzle recorded as completed")
	}
	if got := recorder.count(events.EventExhausted); got != 1 {
		t.Errorf("exhausted events = %d, want 1", got)
	}
}

func TestMalformedInputCountsAsAttempt(t *testing.T) {
	o := newTestOrchestrator(t, nil, Options{})
	s := start(t, o, "sphinx_riddle")

	out, err := o.Submit(context.Background(), s.ID, evaluator.Input{"answer": 42})
	if err != nil {
		t.Fatalf("malformed input returned error %v", err)
	}
	if out.Malformed == "" || out.Solved {
		t.Errorf("got %+v, want an unsolved malformed outcome", out)
	}
	if out.Attempts != 1 || out.Status != InProgress {
		t.Errorf("got %+v, want one attempt and an open session", out)
	}
}

func TestCraftingProgressesThroughStages(t *testing.T) {
	o := newTestOrchestrator(t, nil, Options{})
	s := start(t, o, "mandala_forge")

	var out Outcome
	for i := 0; i < 3; i++ {
		out, _ = o.Submit(context.Background(), s.ID, evaluator.Input{"advance": true})
	}
	if out.Solved || out.Stage != 4 {
		t.Fatalf("after three advances got %+v, want unsolved at stage 4", out)
	}
	out, _ = o.Submit(context.Background(), s.ID, evaluator.Input{"advance": true})
	if !out.Solved {
		t.Errorf("after four advances got %+v, want solved", out)
	}
}

func TestSnapshotResume(t *testing.T) {
	store := &memStore{}
	state := player.New("seeker")
	o := newTestOrchestrator(t, state, Options{Store: store})
	s := start(t, o, "banyan_rings")

	if _, err := o.Submit(context.Background(), s.ID, evaluator.Input{"rotations": map[string]float64{"outer": 0}}); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	snap, ok := store.snapshots["banyan_advanced_progress"]
	if !ok {
		t.Fatalf("no snapshot stored, have %v", store.snapshots)
	}
	if snap.Attempts != 1 || snap.PuzzleID != "banyan_rings" {
		t.Errorf("snapshot = %+v", snap)
	}

	if err := o.Abandon(context.Background(), s.ID); err != nil {
		t.Fatalf("Abandon() error: %v", err)
	}

	resumed := newTestOrchestrator(t, o.Player(), Options{Store: store})
	s2 := start(t, resumed, "banyan_rings")
	if s2.Attempts != 1 {
		t.Errorf("resumed attempts = %d, want 1", s2.Attempts)
	}
	out, err := resumed.Submit(context.Background(), s2.ID, evaluator.Input{"rotations": map[string]float64{"middle": 0, "inner": 0}})
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if !out.Solved {
		t.Errorf("resumed rings should complete with the outer ring already aligned, got %+v", out)
	}
	if !resumed.Player().HasAccess("inner_grove") {
		t.Error("access flag not granted")
	}
}

func TestAbandonDiscardsSession(t *testing.T) {
	recorder := &memEvents{}
	o := newTestOrchestrator(t, nil, Options{Events: recorder})
	s := start(t, o, "raga_gate")

	if err := o.Abandon(context.Background(), s.ID); err != nil {
		t.Fatalf("Abandon() error: %v", err)
	}
	if _, err := o.Session(s.ID); !errors.Is(err, ErrUnknownSession) {
		t.Errorf("Session() after abandon: got %v, want ErrUnknownSession", err)
	}
	if len(o.Active()) != 0 {
		t.Errorf("Active() = %v, want none", o.Active())
	}
	if got := recorder.count(events.EventAbandoned); got != 1 {
		t.Errorf("abandoned events = %d, want 1", got)
	}
}

func TestStartReturnsOpenSession(t *testing.T) {
	o := newTestOrchestrator(t, nil, Options{})
	first := start(t, o, "raga_gate")
	second := start(t, o, "raga_gate")
	if first.ID != second.ID {
		t.Errorf("second Start opened %s, want existing %s", second.ID, first.ID)
	}
}

func TestHintsThenOracle(t *testing.T) {
	o := newTestOrchestrator(t, nil, Options{Oracle: stubOracle{hint: "Listen to the silence between notes."}})
	s := start(t, o, "raga_gate")

	def, _ := o.Registry().Get("raga_gate")
	for i, want := range def.Hints {
		got, err := o.Hint(context.Background(), s.ID)
		if err != nil {
			t.Fatalf("hint %d error: %v", i, err)
		}
		if got != want {
			t.Errorf("hint %d = %q, want %q", i, got, want)
		}
	}

	got, err := o.Hint(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("oracle hint error: %v", err)
	}
	if got != "Listen to the silence between notes." {
		t.Errorf("oracle hint = %q", got)
	}
}

func TestHintsExhaustedWithoutOracle(t *testing.T) {
	o := newTestOrchestrator(t, nil, Options{})
	s := start(t, o, "concept_weave")

	if _, err := o.Hint(context.Background(), s.ID); err != nil {
		t.Fatalf("first hint error: %v", err)
	}
	if _, err := o.Hint(context.Background(), s.ID); !errors.Is(err, ErrNoMoreHints) {
		t.Errorf("got %v, want ErrNoMoreHints", err)
	}

	failing := newTestOrchestrator(t, nil, Options{Oracle: stubOracle{err: errors.New("offline")}})
	s2 := start(t, failing, "concept_weave")
	failing.Hint(context.Background(), s2.ID)
	if _, err := failing.Hint(context.Background(), s2.ID); !errors.Is(err, ErrNoMoreHints) {
		t.Errorf("failing oracle: got %v, want ErrNoMoreHints", err)
	}
}

func TestConcurrentSubmitsAreSerialized(t *testing.T) {
	o := newTestOrchestrator(t, player.New("seeker"), Options{})
	s := start(t, o, "chakra_balance")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.Submit(context.Background(), s.ID, evaluator.Input{"levels": map[string]float64{"root": 10}})
		}()
	}
	wg.Wait()

	if got := o.Player().Progress("chakra_balance").Attempts; got != 20 {
		t.Errorf("attempts = %d, want 20", got)
	}
}
