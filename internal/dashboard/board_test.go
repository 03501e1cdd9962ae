package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinylittleshell/gdash/internal/notify"
	"github.com/atinylittleshell/gdash/internal/store"
)

var fixedNow = time.Date(2026, time.February, 15, 15, 4, 0, 0, time.Local)

func newTestBoard(t *testing.T) (*Board, *store.MemoryStore, *notify.Recorder) {
	t.Helper()
	original := timeNow
	timeNow = func() time.Time { return fixedNow }
	t.Cleanup(func() { timeNow = original })

	s := store.NewMemoryStore()
	rec := &notify.Recorder{}
	return NewBoard(s, rec, nil), s, rec
}

type failingStore struct{ store.MemoryStore }

func (f *failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("connection refused")
}

func TestBoard_ReadDefaults(t *testing.T) {
	b, _, _ := newTestBoard(t)
	ctx := context.Background()

	tasks, err := b.Tasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.NotNil(t, tasks)

	events, err := b.Events(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultEvents(), events)

	notes, err := b.Notes(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", notes)

	weather, err := b.Weather(ctx)
	require.NoError(t, err)
	assert.Equal(t, UnknownWeather, weather)
}

func TestBoard_CorruptValuesReadAsDefaults(t *testing.T) {
	b, s, _ := newTestBoard(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, store.KeyTasks, "{not json"))
	require.NoError(t, s.Set(ctx, store.KeyEvents, "[1,2"))

	tasks, err := b.Tasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	events, err := b.Events(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultEvents(), events)
}

func TestBoard_EmptiedCalendarStaysEmpty(t *testing.T) {
	b, s, _ := newTestBoard(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, store.KeyEvents, "[]"))

	events, err := b.Events(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestBoard_AddTask(t *testing.T) {
	b, _, rec := newTestBoard(t)
	ctx := context.Background()

	task, err := b.AddTask(ctx, "  Buy milk ")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", task.Text)
	assert.False(t, task.Done)
	assert.Equal(t, fixedNow.UnixMilli(), task.ID)
	assert.Equal(t, 1, rec.Count(notify.TopicDashboardUpdate))

	second, err := b.AddTask(ctx, "Walk dog")
	require.NoError(t, err)
	assert.Greater(t, second.ID, task.ID, "ids stay unique within one millisecond")

	_, err = b.AddTask(ctx, "BUY MILK")
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, 2, rec.Count(notify.TopicDashboardUpdate))

	_, err = b.AddTask(ctx, "   ")
	assert.ErrorIs(t, err, ErrEmptyText)

	tasks, err := b.Tasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestBoard_CompleteTaskSkipsDoneTasks(t *testing.T) {
	b, _, _ := newTestBoard(t)
	ctx := context.Background()
	_, err := b.AddTask(ctx, "Write report draft")
	require.NoError(t, err)
	_, err = b.AddTask(ctx, "Write report final")
	require.NoError(t, err)

	first, err := b.CompleteTask(ctx, "REPORT")
	require.NoError(t, err)
	assert.Equal(t, "Write report draft", first.Text)
	assert.True(t, first.Done)

	second, err := b.CompleteTask(ctx, "report")
	require.NoError(t, err)
	assert.Equal(t, "Write report final", second.Text)

	_, err = b.CompleteTask(ctx, "report")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBoard_ToggleAndRemoveByID(t *testing.T) {
	b, _, rec := newTestBoard(t)
	ctx := context.Background()
	task, err := b.AddTask(ctx, "Stretch")
	require.NoError(t, err)

	toggled, err := b.ToggleTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Done)
	toggled, err = b.ToggleTask(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Done)

	_, err = b.ToggleTask(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	removed, err := b.RemoveTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Stretch", removed.Text)
	assert.Equal(t, 4, rec.Count(notify.TopicDashboardUpdate))
}

func TestBoard_DeleteTaskMatchesDoneTasks(t *testing.T) {
	b, _, _ := newTestBoard(t)
	ctx := context.Background()
	_, err := b.AddTask(ctx, "Call mom")
	require.NoError(t, err)
	_, err = b.CompleteTask(ctx, "mom")
	require.NoError(t, err)

	removed, err := b.DeleteTask(ctx, "MOM")
	require.NoError(t, err)
	assert.Equal(t, "Call mom", removed.Text)

	_, err = b.DeleteTask(ctx, "mom")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBoard_AddEventKeepsSeedEvents(t *testing.T) {
	b, _, _ := newTestBoard(t)
	ctx := context.Background()

	event, err := b.AddEvent(ctx, "Dentist", "2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, "Dentist", event.Title)

	events, err := b.Events(ctx)
	require.NoError(t, err)
	assert.Len(t, events, len(DefaultEvents())+1)

	_, err = b.AddEvent(ctx, "dentist", "2026-03-01")
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = b.AddEvent(ctx, "Dentist", "2026-03-02")
	require.NoError(t, err, "same title on another date is a new event")

	_, err = b.AddEvent(ctx, "Dentist", "next tuesday")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = b.AddEvent(ctx, "", "2026-03-02")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestBoard_DeleteEventRemovesFirstMatchOnly(t *testing.T) {
	b, _, _ := newTestBoard(t)
	ctx := context.Background()

	removed, err := b.DeleteEvent(ctx, "team")
	require.NoError(t, err)
	assert.Equal(t, "Team celebration", removed.Title)

	events, err := b.Events(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Event{
		{ID: 1, Date: "2026-02-14", Title: "Valentine's Day"},
		{ID: 3, Date: "2026-02-20", Title: "Project review"},
	}, events)

	_, err = b.RemoveEvent(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBoard_NotesWeatherLocation(t *testing.T) {
	b, _, rec := newTestBoard(t)
	ctx := context.Background()

	require.NoError(t, b.SetNotes(ctx, "remember the milk"))
	require.NoError(t, b.SetWeather(ctx, "41°F, Fog in London"))
	require.NoError(t, b.SetLocation(ctx, " London "))

	notes, _ := b.Notes(ctx)
	weather, _ := b.Weather(ctx)
	loc, _ := b.Location(ctx)
	assert.Equal(t, "remember the milk", notes)
	assert.Equal(t, "41°F, Fog in London", weather)
	assert.Equal(t, "London", loc)
	assert.Equal(t, 2, rec.Count(notify.TopicDashboardUpdate))

	require.NoError(t, b.SetLocation(ctx, ""))
	loc, _ = b.Location(ctx)
	assert.Equal(t, "", loc)
}

func TestBoard_SnapshotToleratesStoreFailure(t *testing.T) {
	b := NewBoard(&failingStore{}, nil, nil)

	snap := b.Snapshot(context.Background())

	assert.Empty(t, snap.Tasks)
	assert.Empty(t, snap.Events)
	assert.Equal(t, "", snap.Notes)
	assert.Equal(t, UnknownWeather, snap.Weather)

	_, err := b.AddTask(context.Background(), "anything")
	assert.Error(t, err)
}

func TestBoard_SnapshotDoesNotWrite(t *testing.T) {
	b, s, rec := newTestBoard(t)
	ctx := context.Background()

	snap := b.Snapshot(ctx)

	assert.Equal(t, DefaultEvents(), snap.Events)
	_, ok, _ := s.Get(ctx, store.KeyEvents)
	assert.False(t, ok)
	assert.Empty(t, rec.Events())
}
