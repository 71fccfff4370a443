package checklist

import (
	"fmt"
	"time"
)

// Counts is a pending/done tally.
type Counts struct {
	Pending int `json:"pending" yaml:"pending"`
	Done    int `json:"done" yaml:"done"`
}

// Total returns Pending+Done.
func (c Counts) Total() int {
	return c.Pending + c.Done
}

// Percent returns the done share in the range 0..100.
func (c Counts) Percent() float64 {
	if c.Total() == 0 {
		return 0
	}
	return float64(c.Done) * 100 / float64(c.Total())
}

// UnknownGroupError is returned when a group key is not configured.
type UnknownGroupError struct {
	Group GroupKey
}

func (e *UnknownGroupError) Error() string {
	return fmt.Sprintf("unknown task group %q", e.Group)
}

// Board is the in-memory checklist: the fetched tasks per group, the grouped
// completion ledger and the current view settings. Every derived view is
// recomputed from that state on read.
type Board struct {
	order          []GroupKey
	tasks          map[GroupKey][]Task
	ledger         GroupedLedger
	active         GroupKey
	platformFilter *Platform
	showCompleted  bool
}

// NewBoard creates a board over the configured groups. The first group is
// active and completed tasks are shown.
func NewBoard(groups []GroupKey, ledger GroupedLedger) *Board {
	if ledger == nil {
		ledger = NewGroupedLedger()
	}
	b := &Board{
		order:         append([]GroupKey(nil), groups...),
		tasks:         make(map[GroupKey][]Task, len(groups)),
		ledger:        ledger.Clone(),
		showCompleted: true,
	}
	if len(groups) > 0 {
		b.active = groups[0]
	}
	return b
}

// Groups returns the configured group keys in order.
func (b *Board) Groups() []GroupKey {
	return append([]GroupKey(nil), b.order...)
}

func (b *Board) hasGroup(group GroupKey) bool {
	for _, g := range b.order {
		if g == group {
			return true
		}
	}
	return false
}

// SetTasks replaces the tasks of group.
func (b *Board) SetTasks(group GroupKey, tasks []Task) error {
	if !b.hasGroup(group) {
		return &UnknownGroupError{Group: group}
	}
	b.tasks[group] = append([]Task(nil), tasks...)
	return nil
}

// Tasks returns the tasks of group in presentation order.
func (b *Board) Tasks(group GroupKey) []Task {
	return append([]Task(nil), b.tasks[group]...)
}

// IsLoaded reports whether group has at least one fetched task.
func (b *Board) IsLoaded(group GroupKey) bool {
	return len(b.tasks[group]) > 0
}

// AllLoaded reports whether every configured group has tasks.
func (b *Board) AllLoaded() bool {
	if len(b.order) == 0 {
		return false
	}
	for _, g := range b.order {
		if !b.IsLoaded(g) {
			return false
		}
	}
	return true
}

// Active returns the active group.
func (b *Board) Active() GroupKey {
	return b.active
}

// SetActive switches the active group.
func (b *Board) SetActive(group GroupKey) error {
	if !b.hasGroup(group) {
		return &UnknownGroupError{Group: group}
	}
	b.active = group
	return nil
}

// PlatformFilter returns the current filter, or nil when unfiltered.
func (b *Board) PlatformFilter() *Platform {
	if b.platformFilter == nil {
		return nil
	}
	p := *b.platformFilter
	return &p
}

// SetPlatformFilter restricts FilteredTasks to one platform. Nil clears it.
func (b *Board) SetPlatformFilter(p *Platform) {
	if p == nil {
		b.platformFilter = nil
		return
	}
	v := *p
	b.platformFilter = &v
}

// ShowCompleted reports whether done tasks are included in FilteredTasks.
func (b *Board) ShowCompleted() bool {
	return b.showCompleted
}

// SetShowCompleted toggles whether done tasks are listed.
func (b *Board) SetShowCompleted(show bool) {
	b.showCompleted = show
}

// FilteredTasks lists the active group's tasks for display: pending tasks
// first, then done tasks when ShowCompleted is set. Within each part focused
// tasks come first and the feed order is otherwise kept.
func (b *Board) FilteredTasks() []Task {
	l := b.ledger[b.active]
	var pending, done []Task
	for _, t := range b.tasks[b.active] {
		if b.platformFilter != nil && t.Platform != *b.platformFilter {
			continue
		}
		if l.Has(t.ID) {
			done = append(done, t)
		} else {
			pending = append(pending, t)
		}
	}

	out := focusFirst(pending)
	if b.showCompleted {
		out = append(out, focusFirst(done)...)
	}
	return out
}

// focusFirst is a stable partition on Task.Focus.
func focusFirst(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Focus {
			out = append(out, t)
		}
	}
	for _, t := range tasks {
		if !t.Focus {
			out = append(out, t)
		}
	}
	return out
}

// Task looks up a task by ID in the active group.
func (b *Board) Task(taskID string) (Task, bool) {
	for _, t := range b.tasks[b.active] {
		if t.ID == taskID {
			return t, true
		}
	}
	return Task{}, false
}

// MarkComplete records taskID as done in the active group. Marking an already
// completed task only refreshes its timestamp.
func (b *Board) MarkComplete(taskID string, at time.Time) {
	b.ledger.Mark(b.active, taskID, at)
}

// Unmark clears taskID in the active group and reports whether it was done.
func (b *Board) Unmark(taskID string) bool {
	return b.ledger.Unmark(b.active, taskID)
}

// IsComplete reports whether taskID is done in the active group.
func (b *Board) IsComplete(taskID string) bool {
	return b.ledger.Has(b.active, taskID)
}

// CompletedAt returns when taskID was marked done in the active group.
func (b *Board) CompletedAt(taskID string) (time.Time, bool) {
	rec, ok := b.ledger[b.active][taskID]
	return rec.CompletedAt, ok
}

// Ledger returns a copy of the grouped ledger for persistence.
func (b *Board) Ledger() GroupedLedger {
	return b.ledger.Clone()
}

// GroupLedger returns a copy of one group's ledger.
func (b *Board) GroupLedger(group GroupKey) CompletionLedger {
	return b.ledger.Group(group)
}

// Counts tallies the tasks of group.
func (b *Board) Counts(group GroupKey) Counts {
	var c Counts
	l := b.ledger[group]
	for _, t := range b.tasks[group] {
		if l.Has(t.ID) {
			c.Done++
		} else {
			c.Pending++
		}
	}
	return c
}

// IsGroupComplete reports whether group has tasks and all of them are done.
func (b *Board) IsGroupComplete(group GroupKey) bool {
	c := b.Counts(group)
	return c.Total() > 0 && c.Pending == 0
}

// AllComplete reports whether every configured group is complete.
func (b *Board) AllComplete() bool {
	if len(b.order) == 0 {
		return false
	}
	for _, g := range b.order {
		if !b.IsGroupComplete(g) {
			return false
		}
	}
	return true
}

// Progress tallies tasks across all groups.
func (b *Board) Progress() Counts {
	var total Counts
	for _, g := range b.order {
		c := b.Counts(g)
		total.Pending += c.Pending
		total.Done += c.Done
	}
	return total
}

// PlatformCounts tallies the active group's tasks per platform. The platform
// filter does not apply.
func (b *Board) PlatformCounts() map[Platform]Counts {
	out := make(map[Platform]Counts)
	l := b.ledger[b.active]
	for _, t := range b.tasks[b.active] {
		c := out[t.Platform]
		if l.Has(t.ID) {
			c.Done++
		} else {
			c.Pending++
		}
		out[t.Platform] = c
	}
	return out
}
