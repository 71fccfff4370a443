package checklist

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(tasks []Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func newTestBoard(t *testing.T, tasks ...Task) *Board {
	t.Helper()
	b := NewBoard([]GroupKey{"day1"}, nil)
	require.NoError(t, b.SetTasks("day1", tasks))
	return b
}

func TestFilteredTasks_FocusFirstStable(t *testing.T) {
	b := newTestBoard(t,
		Task{ID: "A"},
		Task{ID: "B", Focus: true},
		Task{ID: "C"},
		Task{ID: "D", Focus: true},
	)

	assert.Equal(t, []string{"B", "D", "A", "C"}, ids(b.FilteredTasks()))
}

func TestFilteredTasks_PendingThenDone(t *testing.T) {
	b := newTestBoard(t,
		Task{ID: "A"},
		Task{ID: "B", Focus: true},
		Task{ID: "C", Focus: true},
		Task{ID: "D"},
	)
	now := time.Now()
	b.MarkComplete("A", now)
	b.MarkComplete("C", now)

	assert.Equal(t, []string{"B", "D", "C", "A"}, ids(b.FilteredTasks()))

	b.SetShowCompleted(false)
	assert.Equal(t, []string{"B", "D"}, ids(b.FilteredTasks()))
}

func TestFilteredTasks_PlatformFilter(t *testing.T) {
	b := newTestBoard(t,
		Task{ID: "1", Platform: PlatformX},
		Task{ID: "2", Platform: PlatformInstagram},
		Task{ID: "3", Platform: PlatformX},
	)
	p := PlatformX
	b.SetPlatformFilter(&p)
	assert.Equal(t, []string{"1", "3"}, ids(b.FilteredTasks()))

	p = PlatformTikTok
	assert.Equal(t, PlatformX, *b.PlatformFilter(), "filter is copied on set")

	b.SetPlatformFilter(nil)
	assert.Len(t, b.FilteredTasks(), 3)
}

func TestMarkComplete_Idempotent(t *testing.T) {
	b := newTestBoard(t, Task{ID: "x"})
	first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	b.MarkComplete("x", first)
	b.MarkComplete("x", second)

	l := b.GroupLedger("day1")
	assert.Len(t, l, 1)
	at, ok := b.CompletedAt("x")
	require.True(t, ok)
	assert.Equal(t, second, at)
}

func TestUnmark_NoOpWhenAbsent(t *testing.T) {
	b := newTestBoard(t, Task{ID: "x"})

	assert.False(t, b.Unmark("x"))
	assert.Empty(t, b.GroupLedger("day1"))

	b.MarkComplete("x", time.Now())
	assert.True(t, b.Unmark("x"))
	assert.False(t, b.IsComplete("x"))
}

func TestCountsAndGroupCompletion(t *testing.T) {
	b := NewBoard([]GroupKey{"g1", "g2"}, nil)
	require.NoError(t, b.SetTasks("g1", []Task{{ID: "a"}, {ID: "b"}}))

	assert.False(t, b.IsGroupComplete("g2"), "empty group is never complete")
	assert.False(t, b.AllLoaded())

	b.MarkComplete("a", time.Now())
	assert.Equal(t, Counts{Pending: 1, Done: 1}, b.Counts("g1"))
	assert.False(t, b.IsGroupComplete("g1"))

	b.MarkComplete("b", time.Now())
	assert.True(t, b.IsGroupComplete("g1"))
	assert.False(t, b.AllComplete())

	require.NoError(t, b.SetActive("g2"))
	require.NoError(t, b.SetTasks("g2", []Task{{ID: "a"}}))
	assert.True(t, b.AllLoaded())
	assert.False(t, b.IsComplete("a"), "ledgers are group scoped")

	b.MarkComplete("a", time.Now())
	assert.True(t, b.AllComplete())
	assert.Equal(t, Counts{Done: 3}, b.Progress())
	assert.InDelta(t, 100.0, b.Progress().Percent(), 0.001)
}

func TestPlatformCounts(t *testing.T) {
	b := newTestBoard(t,
		Task{ID: "1", Platform: PlatformX},
		Task{ID: "2", Platform: PlatformX},
		Task{ID: "3", Platform: PlatformFacebook},
	)
	b.MarkComplete("2", time.Now())
	p := PlatformFacebook
	b.SetPlatformFilter(&p)

	counts := b.PlatformCounts()
	assert.Equal(t, Counts{Pending: 1, Done: 1}, counts[PlatformX])
	assert.Equal(t, Counts{Pending: 1}, counts[PlatformFacebook])
	assert.NotContains(t, counts, PlatformTikTok)
}

func TestUnknownGroup(t *testing.T) {
	b := NewBoard([]GroupKey{"g1"}, nil)

	err := b.SetTasks("nope", nil)
	var groupErr *UnknownGroupError
	require.True(t, errors.As(err, &groupErr))
	assert.Equal(t, GroupKey("nope"), groupErr.Group)

	require.Error(t, b.SetActive("nope"))
	assert.Equal(t, GroupKey("g1"), b.Active())
}

func TestBoard_LedgerIsCopied(t *testing.T) {
	ledger := NewGroupedLedger()
	ledger.Mark("g1", "a", time.Now())
	b := NewBoard([]GroupKey{"g1"}, ledger)

	ledger.Unmark("g1", "a")
	assert.True(t, b.IsComplete("a"))

	out := b.Ledger()
	out.Unmark("g1", "a")
	assert.True(t, b.IsComplete("a"))
}
