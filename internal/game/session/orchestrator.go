package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"samsara/internal/debug"
	"samsara/internal/game"
	"samsara/internal/game/evaluator"
	"samsara/internal/game/events"
	"samsara/internal/game/player"
	"samsara/internal/game/puzzle"
	"samsara/internal/game/rewards"
	"samsara/internal/observability"
)

// Store persists player state and progress snapshots.
type Store interface {
	SavePlayer(ctx context.Context, state *player.State) error
	SaveSnapshot(ctx context.Context, playerName, key string, snap player.Snapshot) error
}

type EventRecorder interface {
	RecordEvent(ctx context.Context, ev events.PuzzleEvent) error
}

// HintOracle writes a new hint once the authored ones have all been shown.
type HintOracle interface {
	Hint(ctx context.Context, def puzzle.Definition, attempts int, shown []string, transcript []string) (string, error)
}

type Options struct {
	Store    Store
	Events   EventRecorder
	Oracle   HintOracle
	Unlocker rewards.AbilityUnlocker
	Debug    *debug.Logger
	Tracer   trace.Tracer
}

// Outcome is what a single Submit reports back to the presentation layer.
type Outcome struct {
	SessionID    string         `json:"session_id"`
	PuzzleID     string         `json:"puzzle_id"`
	Solved       bool           `json:"solved"`
	Malformed    string         `json:"malformed,omitempty"`
	Attempts     int            `json:"attempts"`
	AttemptsLeft int            `json:"attempts_left"`
	Stage        int            `json:"stage"`
	Status       Status         `json:"status"`
	Grant        *rewards.Grant `json:"grant,omitempty"`
}

// Orchestrator owns the interaction loop for one player. All access to the
// player's state goes through its mutex.
type Orchestrator struct {
	mu         sync.Mutex
	registry   *puzzle.Registry
	player     *player.State
	granter    *rewards.Granter
	sessions   map[string]*Session
	transcript *game.History

	store  Store
	events EventRecorder
	oracle HintOracle
	debug  *debug.Logger
	tracer trace.Tracer
}

func NewOrchestrator(registry *puzzle.Registry, state *player.State, opts Options) *Orchestrator {
	if state == nil {
		state = player.New("")
	}
	state.Normalize()
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer("puzzle-session")
	}
	return &Orchestrator{
		registry:   registry,
		player:     state,
		granter:    rewards.NewGranter(opts.Unlocker, opts.Debug),
		sessions:   make(map[string]*Session),
		transcript: game.NewHistory(20),
		store:      opts.Store,
		events:     opts.Events,
		oracle:     opts.Oracle,
		debug:      opts.Debug,
		tracer:     tracer,
	}
}

func (o *Orchestrator) Registry() *puzzle.Registry {
	return o.registry
}

// Start opens a session for puzzleID. An in-progress session for the same
// puzzle is returned as is; persisted progress is resumed for puzzles that
// are not yet completed.
func (o *Orchestrator) Start(ctx context.Context, puzzleID string) (*Session, error) {
	def, err := o.registry.Get(puzzleID)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	for _, s := range o.sessions {
		if s.PuzzleID == puzzleID {
			if s.Status == InProgress {
				return s.clone(), nil
			}
			delete(o.sessions, s.ID)
		}
	}

	s := newSession(puzzleID)
	ctx = observability.WithSessionID(ctx, s.ID)
	ctx, span := o.tracer.Start(ctx, "puzzle.start",
		trace.WithAttributes(observability.CreatePuzzleAttributes(def.ID, string(def.Type), s.ID, 0)...))
	defer span.End()

	evType := events.EventStarted
	if def.PersistProgress && !o.player.IsCompleted(def.ID) {
		if snap, ok := o.player.Snapshot(def.SnapshotKey()); ok && snap.PuzzleID == def.ID {
			s.resume(snap)
			evType = events.EventResumed
			span.SetAttributes(attribute.Bool("resumed", true))
		}
	}
	s.Status = InProgress
	if def.Bounded() && s.Attempts >= def.MaxAttempts {
		s.Status = AttemptsExhausted
	}
	o.sessions[s.ID] = s

	o.debug.Printf("Started %s session %s (stage %d, attempts %d)", def.ID, s.ID, s.CurrentStage, s.Attempts)
	o.record(ctx, events.New(evType, o.player.Name, def.ID, s.ID, s.Attempts))
	return s.clone(), nil
}

// Submit evaluates one input against the session's puzzle.
func (o *Orchestrator) Submit(ctx context.Context, sessionID string, in evaluator.Input) (Outcome, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.sessions[sessionID]
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownSession, sessionID)
	}
	def, err := o.registry.Get(s.PuzzleID)
	if err != nil {
		return Outcome{}, err
	}
	if s.Status.Terminal() {
		return o.outcome(def, s), closedError(s)
	}

	ctx = observability.WithSessionID(ctx, s.ID)
	ctx, span := o.tracer.Start(ctx, "puzzle.evaluate",
		trace.WithAttributes(observability.CreatePuzzleAttributes(def.ID, string(def.Type), s.ID, s.Attempts+1)...))
	defer span.End()

	if def.Bounded() && s.Attempts >= def.MaxAttempts {
		s.Status = AttemptsExhausted
		span.SetAttributes(attribute.String("error_type", "attempts_exhausted"))
		return o.outcome(def, s), ErrAttemptsExhausted
	}

	s.Attempts++
	o.transcript.AddPlayerInput(fmt.Sprintf("%s %v", def.ID, in))
	res := evaluator.Evaluate(def, evaluator.State{Stage: s.CurrentStage, Mechanic: s.Mechanic}, in)
	s.CurrentStage = res.Stage
	s.Mechanic = res.Mechanic

	out := Outcome{}
	progress := o.player.Progress(def.ID)
	progress.Attempts++
	progress.CurrentStage = s.CurrentStage

	switch {
	case res.Solved:
		s.Status = Completed
		if !progress.Completed {
			progress.Completed = true
			o.player.SetProgress(def.ID, progress)
			grant := o.grant(ctx, def)
			out.Grant = &grant
		}
		o.transcript.AddOutcome(def.ID, "solved")
		o.record(ctx, events.New(events.EventCompleted, o.player.Name, def.ID, s.ID, s.Attempts))
	case res.Malformed != nil:
		out.Malformed = res.Malformed.Error()
		span.SetAttributes(attribute.String("error_type", "malformed_input"))
		o.transcript.AddOutcome(def.ID, "unreadable input")
		o.record(ctx, events.New(events.EventMalformed, o.player.Name, def.ID, s.ID, s.Attempts).
			WithMeta("error", out.Malformed))
	default:
		o.transcript.AddOutcome(def.ID, "not solved")
		o.record(ctx, events.New(events.EventAttempt, o.player.Name, def.ID, s.ID, s.Attempts))
	}

	if !res.Solved && def.Bounded() && s.Attempts >= def.MaxAttempts {
		s.Status = AttemptsExhausted
		o.record(ctx, events.New(events.EventExhausted, o.player.Name, def.ID, s.ID, s.Attempts))
	}

	o.player.SetProgress(def.ID, progress)
	if def.PersistProgress {
		o.saveSnapshot(ctx, def, s)
	}
	o.savePlayer(ctx)

	span.SetAttributes(
		attribute.Bool("solved", res.Solved),
		attribute.Int("stage", s.CurrentStage),
		attribute.String("status", string(s.Status)),
	)
	o.debug.Printf("Evaluated %s attempt %d: solved=%v status=%s", def.ID, s.Attempts, res.Solved, s.Status)

	result := o.outcome(def, s)
	result.Malformed = out.Malformed
	result.Grant = out.Grant
	return result, nil
}

func (o *Orchestrator) grant(ctx context.Context, def puzzle.Definition) rewards.Grant {
	ctx, span := o.tracer.Start(ctx, "rewards.grant",
		trace.WithAttributes(attribute.String("puzzle.id", def.ID)))
	defer span.End()

	g := o.granter.Grant(ctx, def, o.player)
	span.SetAttributes(
		attribute.StringSlice("items", g.Items),
		attribute.StringSlice("abilities", g.Abilities),
		attribute.StringSlice("access", g.Access),
	)
	if !g.Empty() {
		o.record(ctx, events.New(events.EventRewarded, o.player.Name, def.ID, "", 0).WithMeta("grant", g))
	}
	return g
}

// Hint returns the next authored hint, then falls back to the oracle.
func (o *Orchestrator) Hint(ctx context.Context, sessionID string) (string, error) {
	o.mu.Lock()
	s, ok := o.sessions[sessionID]
	if !ok {
		o.mu.Unlock()
		return "", fmt.Errorf("%w: %s", ErrUnknownSession, sessionID)
	}
	if s.Status.Terminal() {
		o.mu.Unlock()
		return "", closedError(s)
	}
	def, err := o.registry.Get(s.PuzzleID)
	if err != nil {
		o.mu.Unlock()
		return "", err
	}

	ctx = observability.WithSessionID(ctx, s.ID)
	ctx, span := o.tracer.Start(ctx, "puzzle.hint",
		trace.WithAttributes(observability.CreatePuzzleAttributes(def.ID, string(def.Type), s.ID, s.Attempts)...))
	defer span.End()

	if s.HintsShown < len(def.Hints) {
		hint := def.Hints[s.HintsShown]
		s.HintsShown++
		o.transcript.AddHint(hint)
		o.record(ctx, events.New(events.EventHint, o.player.Name, def.ID, s.ID, s.Attempts).WithMeta("index", s.HintsShown))
		o.mu.Unlock()
		span.SetAttributes(attribute.String("source", "authored"))
		return hint, nil
	}

	oracle := o.oracle
	attempts := s.Attempts
	transcript := o.transcript.GetEntries()
	o.mu.Unlock()

	if oracle == nil {
		span.SetAttributes(attribute.String("error_type", "no_more_hints"))
		return "", ErrNoMoreHints
	}

	hint, err := oracle.Hint(ctx, def, attempts, def.Hints, transcript)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.debug.Printf("Hint oracle failed for %s: %v", def.ID, err)
		return "", fmt.Errorf("%w: %v", ErrNoMoreHints, err)
	}
	span.SetAttributes(attribute.String("source", "oracle"))

	o.mu.Lock()
	o.transcript.AddHint(hint)
	o.record(ctx, events.New(events.EventHint, o.player.Name, def.ID, sessionID, attempts).WithMeta("source", "oracle"))
	o.mu.Unlock()
	return hint, nil
}

// Abandon discards the session. Persisted snapshots are left as they were
// after the last evaluation.
func (o *Orchestrator) Abandon(ctx context.Context, sessionID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.sessions[sessionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSession, sessionID)
	}
	delete(o.sessions, sessionID)
	if s.Status == InProgress {
		s.Status = Abandoned
		o.record(ctx, events.New(events.EventAbandoned, o.player.Name, s.PuzzleID, s.ID, s.Attempts))
	}
	o.debug.Printf("Discarded session %s for %s", s.ID, s.PuzzleID)
	return nil
}

func (o *Orchestrator) Session(sessionID string) (*Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, sessionID)
	}
	return s.clone(), nil
}

// Active lists in-progress sessions, oldest first.
func (o *Orchestrator) Active() []*Session {
	o.mu.Lock()
	defer o.mu.Unlock()

	var out []*Session
	for _, s := range o.sessions {
		if s.Status == InProgress {
			out = append(out, s.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}

// Player returns a copy of the player's state.
func (o *Orchestrator) Player() *player.State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.player.Clone()
}

func (o *Orchestrator) outcome(def puzzle.Definition, s *Session) Outcome {
	return Outcome{
		SessionID:    s.ID,
		PuzzleID:     s.PuzzleID,
		Solved:       s.Status == Completed,
		Attempts:     s.Attempts,
		AttemptsLeft: s.AttemptsLeft(def),
		Stage:        s.CurrentStage,
		Status:       s.Status,
	}
}

func (o *Orchestrator) saveSnapshot(ctx context.Context, def puzzle.Definition, s *Session) {
	snap := s.snapshot()
	if s.Status == AttemptsExhausted {
		// the next session gets a fresh allowance but keeps the mechanic state
		snap.Attempts = 0
	}
	key := def.SnapshotKey()
	o.player.PutSnapshot(key, snap)
	if o.store == nil {
		return
	}
	if err := o.store.SaveSnapshot(ctx, o.player.Name, key, snap); err != nil {
		o.debug.Printf("Failed to save snapshot %s: %v", key, err)
	}
}

func (o *Orchestrator) savePlayer(ctx context.Context) {
	if o.store == nil {
		return
	}
	if err := o.store.SavePlayer(ctx, o.player); err != nil {
		o.debug.Printf("Failed to save player %s: %v", o.player.Name, err)
	}
}

func (o *Orchestrator) record(ctx context.Context, ev events.PuzzleEvent) {
	if o.events == nil {
		return
	}
	if err := o.events.RecordEvent(ctx, ev); err != nil && !errors.Is(err, context.Canceled) {
		o.debug.Printf("Failed to record %s event for %s: %v", ev.Type, ev.PuzzleID, err)
	}
}
