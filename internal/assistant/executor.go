package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/atinylittleshell/gdash/internal/dashboard"
	"github.com/atinylittleshell/gdash/internal/notify"
)

// Executor applies directives to the dashboard. Board mutations publish
// notify.TopicDashboardUpdate themselves once the write completes.
type Executor struct {
	board    *dashboard.Board
	notifier notify.Notifier
	logger   *zap.Logger
}

func NewExecutor(board *dashboard.Board, notifier notify.Notifier, logger *zap.Logger) *Executor {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{board: board, notifier: notifier, logger: logger}
}

// Execute applies one directive and returns a human-readable outcome. The
// boolean is false when the directive is inert: an unknown kind or a
// missing required field.
func (e *Executor) Execute(ctx context.Context, d Directive) (string, bool) {
	kind := d.Kind()
	outcome, ok := e.execute(ctx, kind, d)
	e.logger.Debug("directive executed",
		zap.String("kind", string(kind)),
		zap.Any("fields", d.Fields),
		zap.String("outcome", outcome),
		zap.Bool("actionable", ok),
	)
	return outcome, ok
}

func (e *Executor) execute(ctx context.Context, kind Kind, d Directive) (string, bool) {
	switch kind {
	case KindAddTask:
		return e.addTask(ctx, d.Text())
	case KindCompleteTask, KindDoneTask:
		return e.completeTask(ctx, d.Text())
	case KindDeleteTask, KindRemoveTask:
		return e.deleteTask(ctx, d.Text())
	case KindAddEvent:
		return e.addEvent(ctx, d.Title(), d.Date())
	case KindDeleteEvent, KindRemoveEvent:
		return e.deleteEvent(ctx, d.Title())
	case KindSetTimer:
		return e.setTimer(d)
	default:
		return "", false
	}
}

func (e *Executor) addTask(ctx context.Context, text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	task, err := e.board.AddTask(ctx, text)
	switch {
	case errors.Is(err, dashboard.ErrDuplicate):
		return fmt.Sprintf(`Task already exists: "%s"`, text), true
	case err != nil:
		return e.storeFailure("task", err), true
	}
	return fmt.Sprintf(`Added task: "%s"`, task.Text), true
}

func (e *Executor) completeTask(ctx context.Context, query string) (string, bool) {
	q := strings.ToLower(query)
	task, err := e.board.CompleteTask(ctx, q)
	switch {
	case errors.Is(err, dashboard.ErrNotFound):
		return fmt.Sprintf(`Couldn't find pending task "%s"`, q), true
	case err != nil:
		return e.storeFailure("task", err), true
	}
	return fmt.Sprintf(`Completed: "%s"`, task.Text), true
}

func (e *Executor) deleteTask(ctx context.Context, query string) (string, bool) {
	q := strings.ToLower(query)
	task, err := e.board.DeleteTask(ctx, q)
	switch {
	case errors.Is(err, dashboard.ErrNotFound):
		return fmt.Sprintf(`Couldn't find task "%s"`, q), true
	case err != nil:
		return e.storeFailure("task", err), true
	}
	return fmt.Sprintf(`Deleted task: "%s"`, task.Text), true
}

func (e *Executor) addEvent(ctx context.Context, title, date string) (string, bool) {
	title = strings.TrimSpace(title)
	date = strings.TrimSpace(date)
	if title == "" || date == "" {
		return "", false
	}
	event, err := e.board.AddEvent(ctx, title, date)
	switch {
	case errors.Is(err, dashboard.ErrDuplicate):
		return fmt.Sprintf(`Event already exists: "%s"`, title), true
	case errors.Is(err, dashboard.ErrInvalidDate):
		return fmt.Sprintf(`Invalid date "%s" for event "%s".`, date, title), true
	case err != nil:
		return e.storeFailure("event", err), true
	}
	return fmt.Sprintf(`Added event: "%s" on %s`, event.Title, event.Date), true
}

func (e *Executor) deleteEvent(ctx context.Context, query string) (string, bool) {
	q := strings.ToLower(query)
	event, err := e.board.DeleteEvent(ctx, q)
	switch {
	case errors.Is(err, dashboard.ErrNotFound):
		return fmt.Sprintf(`Couldn't find event "%s"`, q), true
	case err != nil:
		return e.storeFailure("event", err), true
	}
	return fmt.Sprintf(`Deleted event: "%s"`, event.Title), true
}

func (e *Executor) setTimer(d Directive) (string, bool) {
	minutes, ok := d.Minutes()
	if !ok || minutes < 1 {
		return "Invalid duration.", true
	}
	e.notifier.Publish(notify.TopicTimerSet, notify.TimerSet{Minutes: minutes})
	return fmt.Sprintf("Timer set for %d minutes.", minutes), true
}

func (e *Executor) storeFailure(what string, err error) string {
	e.logger.Warn("directive failed to update the dashboard", zap.String("target", what), zap.Error(err))
	return fmt.Sprintf("Couldn't update %ss: %v", what, err)
}
