package checklist

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Achievement machine states and events.
const (
	StateLocked   = "locked"
	StateUnlocked = "unlocked"

	eventAllComplete = "all_complete"
	eventRegressed   = "regressed"
)

// AchievementState is the persisted achievement. ShownOnce never resets once
// set, so re-completing the checklist does not celebrate again.
type AchievementState struct {
	Unlocked  bool `json:"unlocked" yaml:"unlocked"`
	ShownOnce bool `json:"shownOnce" yaml:"shownOnce"`
}

// CelebrateEvent asks the presentation layer to show the celebration.
const CelebrateEvent = "achievement.celebrate"

// AchievementEvent is emitted by a transition for the presentation layer.
type AchievementEvent struct {
	Type     string `json:"type"`
	Progress Counts `json:"progress"`
}

// Transition is the outcome of one evaluation.
type Transition struct {
	State   AchievementState
	Changed bool
	Events  []AchievementEvent
}

type achievementContext struct {
	Name string
}

// AchievementTracker drives the lock/unlock machine for the all-complete
// achievement. It performs no I/O; callers persist Transition.State.
type AchievementTracker struct {
	interpreter *statekit.Interpreter[achievementContext]
	state       AchievementState
}

// NewAchievementTracker resumes the machine from a persisted state.
func NewAchievementTracker(state AchievementState) (*AchievementTracker, error) {
	initial := StateLocked
	if state.Unlocked {
		initial = StateUnlocked
	}

	builder := statekit.NewMachine[achievementContext]("achievement").
		WithInitial(statekit.StateID(initial)).
		WithContext(achievementContext{Name: "all-complete"})

	builder.State(StateLocked).
		On(eventAllComplete).Target(StateUnlocked).
		Done()

	builder.State(StateUnlocked).
		On(eventRegressed).Target(StateLocked).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build achievement machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &AchievementTracker{interpreter: interpreter, state: state}, nil
}

// Current returns the machine state name.
func (t *AchievementTracker) Current() string {
	return string(t.interpreter.State().Value)
}

// State returns the tracked achievement state.
func (t *AchievementTracker) State() AchievementState {
	return t.state
}

// Evaluate applies the current aggregate completion. Nothing happens until
// every group is loaded. Unlocking emits CelebrateEvent only the first time;
// relocking leaves ShownOnce untouched.
func (t *AchievementTracker) Evaluate(allLoaded, allComplete bool, progress Counts) Transition {
	if !allLoaded {
		return Transition{State: t.state}
	}

	switch {
	case allComplete && !t.state.Unlocked:
		t.send(eventAllComplete)
		t.state.Unlocked = t.Current() == StateUnlocked

		tr := Transition{Changed: true}
		if !t.state.ShownOnce {
			t.state.ShownOnce = true
			tr.Events = []AchievementEvent{{Type: CelebrateEvent, Progress: progress}}
		}
		tr.State = t.state
		return tr

	case !allComplete && t.state.Unlocked:
		t.send(eventRegressed)
		t.state.Unlocked = t.Current() == StateUnlocked
		return Transition{State: t.state, Changed: true}
	}

	return Transition{State: t.state}
}

// EvaluateBoard evaluates the aggregate state of b.
func (t *AchievementTracker) EvaluateBoard(b *Board) Transition {
	return t.Evaluate(b.AllLoaded(), b.AllComplete(), b.Progress())
}

func (t *AchievementTracker) send(event string) {
	t.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
}
