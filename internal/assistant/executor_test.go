package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinylittleshell/gdash/internal/dashboard"
	"github.com/atinylittleshell/gdash/internal/notify"
	"github.com/atinylittleshell/gdash/internal/store"
)

func newTestExecutor(t *testing.T) (*Executor, *dashboard.Board, *notify.Recorder) {
	t.Helper()
	rec := &notify.Recorder{}
	board := dashboard.NewBoard(store.NewMemoryStore(), rec, nil)
	return NewExecutor(board, rec, nil), board, rec
}

func directive(fields map[string]any) Directive {
	return Directive{Fields: fields}
}

func seedTasks(t *testing.T, board *dashboard.Board, texts ...string) {
	t.Helper()
	for _, text := range texts {
		_, err := board.AddTask(context.Background(), text)
		require.NoError(t, err)
	}
}

func TestExecutor_AddTask(t *testing.T) {
	e, board, rec := newTestExecutor(t)
	ctx := context.Background()

	outcome, ok := e.Execute(ctx, directive(map[string]any{"action": "add_task", "text": "Buy milk"}))

	assert.True(t, ok)
	assert.Equal(t, `Added task: "Buy milk"`, outcome)
	tasks, err := board.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Text)
	assert.False(t, tasks[0].Done)
	assert.Equal(t, 1, rec.Count(notify.TopicDashboardUpdate))
}

func TestExecutor_AddTaskAlreadyExists(t *testing.T) {
	e, board, rec := newTestExecutor(t)
	ctx := context.Background()
	seedTasks(t, board, "Buy milk")
	rec.Reset()

	outcome, ok := e.Execute(ctx, directive(map[string]any{"action": "add_task", "text": "BUY MILK"}))

	assert.True(t, ok)
	assert.Equal(t, `Task already exists: "BUY MILK"`, outcome)
	tasks, err := board.Tasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Zero(t, rec.Count(notify.TopicDashboardUpdate))
}

func TestExecutor_CompleteTask(t *testing.T) {
	e, board, rec := newTestExecutor(t)
	ctx := context.Background()
	seedTasks(t, board, "Write report", "Review report")
	rec.Reset()

	outcome, ok := e.Execute(ctx, directive(map[string]any{"action": "done_task", "text": "REPORT"}))
	assert.True(t, ok)
	assert.Equal(t, `Completed: "Write report"`, outcome)

	outcome, _ = e.Execute(ctx, directive(map[string]any{"action": "complete_task", "text": "report"}))
	assert.Equal(t, `Completed: "Review report"`, outcome)
	assert.Equal(t, 2, rec.Count(notify.TopicDashboardUpdate))
}

func TestExecutor_CompleteTaskNotFoundLeavesTasksUnchanged(t *testing.T) {
	e, board, rec := newTestExecutor(t)
	ctx := context.Background()
	seedTasks(t, board, "Write report")
	_, err := board.CompleteTask(ctx, "write")
	require.NoError(t, err)
	before, err := board.Tasks(ctx)
	require.NoError(t, err)
	rec.Reset()

	outcome, ok := e.Execute(ctx, directive(map[string]any{"action": "complete_task", "text": "Report"}))

	assert.True(t, ok)
	assert.Equal(t, `Couldn't find pending task "report"`, outcome)
	after, err := board.Tasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Zero(t, rec.Count(notify.TopicDashboardUpdate))
}

func TestExecutor_DeleteTask(t *testing.T) {
	e, board, _ := newTestExecutor(t)
	ctx := context.Background()
	seedTasks(t, board, "Buy milk", "Buy eggs")

	outcome, ok := e.Execute(ctx, directive(map[string]any{"action": "remove_task", "text": "buy"}))
	assert.True(t, ok)
	assert.Equal(t, `Deleted task: "Buy milk"`, outcome)

	outcome, _ = e.Execute(ctx, directive(map[string]any{"action": "delete_task", "text": "Bread"}))
	assert.Equal(t, `Couldn't find task "bread"`, outcome)

	tasks, err := board.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy eggs", tasks[0].Text)
}

func TestExecutor_AddEvent(t *testing.T) {
	e, board, rec := newTestExecutor(t)
	ctx := context.Background()
	add := directive(map[string]any{"action": "add_event", "title": "Dentist", "date": "2026-03-01"})

	outcome, ok := e.Execute(ctx, add)
	assert.True(t, ok)
	assert.Equal(t, `Added event: "Dentist" on 2026-03-01`, outcome)

	outcome, ok = e.Execute(ctx, directive(map[string]any{"action": "add_event", "title": "dentist", "date": "2026-03-01"}))
	assert.True(t, ok)
	assert.Equal(t, `Event already exists: "dentist"`, outcome)

	events, err := board.Events(ctx)
	require.NoError(t, err)
	assert.Len(t, events, len(dashboard.DefaultEvents())+1)
	assert.Equal(t, 1, rec.Count(notify.TopicDashboardUpdate))
}

func TestExecutor_AddEventRequiresTitleAndDate(t *testing.T) {
	e, board, rec := newTestExecutor(t)
	ctx := context.Background()

	for _, fields := range []map[string]any{
		{"action": "add_event", "title": "Dentist"},
		{"action": "add_event", "date": "2026-03-01"},
	} {
		outcome, ok := e.Execute(ctx, directive(fields))
		assert.False(t, ok)
		assert.Empty(t, outcome)
	}

	events, err := board.Events(ctx)
	require.NoError(t, err)
	assert.Equal(t, dashboard.DefaultEvents(), events)
	assert.Zero(t, rec.Count(notify.TopicDashboardUpdate))
}

func TestExecutor_AddEventInvalidDate(t *testing.T) {
	e, _, rec := newTestExecutor(t)

	outcome, ok := e.Execute(context.Background(), directive(map[string]any{"action": "add_event", "title": "Dentist", "date": "next tuesday"}))

	assert.True(t, ok)
	assert.Equal(t, `Invalid date "next tuesday" for event "Dentist".`, outcome)
	assert.Zero(t, rec.Count(notify.TopicDashboardUpdate))
}

func TestExecutor_DeleteEventRemovesFirstMatchOnly(t *testing.T) {
	e, board, _ := newTestExecutor(t)
	ctx := context.Background()

	outcome, ok := e.Execute(ctx, directive(map[string]any{"action": "delete_event", "title": "CELEBRATION"}))

	assert.True(t, ok)
	assert.Equal(t, `Deleted event: "Team celebration"`, outcome)
	events, err := board.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Valentine's Day", events[0].Title)
	assert.Equal(t, "Project review", events[1].Title)

	outcome, _ = e.Execute(ctx, directive(map[string]any{"action": "remove_event", "title": "Gym"}))
	assert.Equal(t, `Couldn't find event "gym"`, outcome)
}

func TestExecutor_SetTimer(t *testing.T) {
	e, _, rec := newTestExecutor(t)

	outcome, ok := e.Execute(context.Background(), directive(map[string]any{"action": "set_timer", "minutes": float64(25)}))

	assert.True(t, ok)
	assert.Equal(t, "Timer set for 25 minutes.", outcome)
	require.Len(t, rec.Events(), 1)
	assert.Equal(t, notify.TopicTimerSet, rec.Events()[0].Topic)
	assert.Equal(t, notify.TimerSet{Minutes: 25}, rec.Events()[0].Payload)
}

func TestExecutor_SetTimerInvalidDuration(t *testing.T) {
	tests := []struct {
		name    string
		minutes any
	}{
		{name: "zero", minutes: float64(0)},
		{name: "negative", minutes: float64(-5)},
		{name: "not numeric", minutes: "soon"},
		{name: "missing", minutes: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, rec := newTestExecutor(t)
			fields := map[string]any{"action": "set_timer"}
			if tt.minutes != nil {
				fields["minutes"] = tt.minutes
			}

			outcome, ok := e.Execute(context.Background(), directive(fields))

			assert.True(t, ok)
			assert.Equal(t, "Invalid duration.", outcome)
			assert.Zero(t, rec.Count(notify.TopicTimerSet))
		})
	}
}

func TestExecutor_InertDirectives(t *testing.T) {
	e, _, rec := newTestExecutor(t)

	for _, fields := range []map[string]any{
		{"action": "launch_rocket"},
		{"text": "no kind"},
		{"action": "add_task", "text": "   "},
	} {
		outcome, ok := e.Execute(context.Background(), directive(fields))
		assert.False(t, ok, "%v", fields)
		assert.Empty(t, outcome)
	}
	assert.Empty(t, rec.Events())
}

func TestExecutor_MissingQueryMatchesFirstItem(t *testing.T) {
	e, board, rec := newTestExecutor(t)
	ctx := context.Background()
	seedTasks(t, board, "Write report", "Call mom")
	rec.Reset()

	outcome, ok := e.Execute(ctx, directive(map[string]any{"action": "complete_task"}))
	assert.True(t, ok)
	assert.Equal(t, `Completed: "Write report"`, outcome)

	outcome, ok = e.Execute(ctx, directive(map[string]any{"action": "complete_task", "text": ""}))
	assert.True(t, ok)
	assert.Equal(t, `Completed: "Call mom"`, outcome)

	outcome, ok = e.Execute(ctx, directive(map[string]any{"action": "complete_task"}))
	assert.True(t, ok)
	assert.Equal(t, `Couldn't find pending task ""`, outcome)

	outcome, ok = e.Execute(ctx, directive(map[string]any{"action": "delete_task"}))
	assert.True(t, ok)
	assert.Equal(t, `Deleted task: "Write report"`, outcome)

	outcome, ok = e.Execute(ctx, directive(map[string]any{"action": "delete_event"}))
	assert.True(t, ok)
	assert.Equal(t, `Deleted event: "Valentine's Day"`, outcome)

	events, err := board.Events(ctx)
	require.NoError(t, err)
	assert.Len(t, events, len(dashboard.DefaultEvents())-1)
	assert.Equal(t, 4, rec.Count(notify.TopicDashboardUpdate))
}

type brokenStore struct{ *store.MemoryStore }

func (brokenStore) Set(context.Context, string, string) error {
	return errors.New("disk full")
}

func TestExecutor_StoreFailureBecomesOutcome(t *testing.T) {
	rec := &notify.Recorder{}
	board := dashboard.NewBoard(brokenStore{store.NewMemoryStore()}, rec, nil)
	e := NewExecutor(board, rec, nil)

	outcome, ok := e.Execute(context.Background(), directive(map[string]any{"action": "add_task", "text": "Buy milk"}))

	assert.True(t, ok)
	assert.Equal(t, "Couldn't update tasks: write tasks: disk full", outcome)
	assert.Zero(t, rec.Count(notify.TopicDashboardUpdate))
}
