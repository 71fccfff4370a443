package checklist

import "time"

// GroupKey names a task group, usually one sheet tab or posting date.
type GroupKey string

// CompletionRecord marks a task as done.
type CompletionRecord struct {
	CompletedAt time.Time `json:"completedAt"`
}

// CompletionLedger maps task IDs to their completion record.
type CompletionLedger map[string]CompletionRecord

// Has reports whether taskID has been completed.
func (l CompletionLedger) Has(taskID string) bool {
	_, ok := l[taskID]
	return ok
}

// Clone returns an independent copy of l. The copy is never nil.
func (l CompletionLedger) Clone() CompletionLedger {
	out := make(CompletionLedger, len(l))
	for id, rec := range l {
		out[id] = rec
	}
	return out
}

// GroupedLedger holds one CompletionLedger per group.
type GroupedLedger map[GroupKey]CompletionLedger

// NewGroupedLedger returns an empty ledger.
func NewGroupedLedger() GroupedLedger {
	return make(GroupedLedger)
}

// Group returns a copy of the ledger for group.
func (g GroupedLedger) Group(group GroupKey) CompletionLedger {
	return g[group].Clone()
}

// Has reports whether taskID is complete within group.
func (g GroupedLedger) Has(group GroupKey, taskID string) bool {
	return g[group].Has(taskID)
}

// Mark records taskID as completed at the given time, replacing any
// previous record.
func (g GroupedLedger) Mark(group GroupKey, taskID string, at time.Time) {
	l, ok := g[group]
	if !ok {
		l = make(CompletionLedger)
		g[group] = l
	}
	l[taskID] = CompletionRecord{CompletedAt: at}
}

// Unmark removes taskID from group and reports whether it was present.
func (g GroupedLedger) Unmark(group GroupKey, taskID string) bool {
	l, ok := g[group]
	if !ok || !l.Has(taskID) {
		return false
	}
	delete(l, taskID)
	return true
}

// Clone returns a deep copy of g.
func (g GroupedLedger) Clone() GroupedLedger {
	out := make(GroupedLedger, len(g))
	for k, l := range g {
		out[k] = l.Clone()
	}
	return out
}
