package dashboard

import (
	"context"
	"strings"
)

func containsFold(s, query string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(query))
}

// AddTask appends a pending task. Text is unique case-insensitively.
func (b *Board) AddTask(ctx context.Context, text string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, ErrEmptyText
	}

	b.mu.Lock()
	tasks, err := b.Tasks(ctx)
	if err != nil {
		b.mu.Unlock()
		return Task{}, err
	}
	var maxID int64
	for _, t := range tasks {
		if strings.EqualFold(t.Text, text) {
			b.mu.Unlock()
			return t, ErrDuplicate
		}
		maxID = max(maxID, t.ID)
	}
	task := Task{ID: b.newID(maxID), Text: text}
	err = b.saveTasks(ctx, append(tasks, task))
	b.mu.Unlock()
	if err != nil {
		return Task{}, err
	}

	b.changed()
	return task, nil
}

// CompleteTask marks done the first pending task whose text contains query,
// ignoring case.
func (b *Board) CompleteTask(ctx context.Context, query string) (Task, error) {
	return b.updateTask(ctx, func(t Task) bool {
		return !t.Done && containsFold(t.Text, query)
	}, func(t *Task) { t.Done = true })
}

// ToggleTask flips the done flag of the task with the given id.
func (b *Board) ToggleTask(ctx context.Context, id int64) (Task, error) {
	return b.updateTask(ctx, func(t Task) bool {
		return t.ID == id
	}, func(t *Task) { t.Done = !t.Done })
}

// DeleteTask removes the first task, done or not, whose text contains query,
// ignoring case.
func (b *Board) DeleteTask(ctx context.Context, query string) (Task, error) {
	return b.removeTask(ctx, func(t Task) bool { return containsFold(t.Text, query) })
}

// RemoveTask removes the task with the given id.
func (b *Board) RemoveTask(ctx context.Context, id int64) (Task, error) {
	return b.removeTask(ctx, func(t Task) bool { return t.ID == id })
}

func (b *Board) updateTask(ctx context.Context, match func(Task) bool, apply func(*Task)) (Task, error) {
	b.mu.Lock()
	tasks, err := b.Tasks(ctx)
	if err != nil {
		b.mu.Unlock()
		return Task{}, err
	}
	idx := indexOf(tasks, match)
	if idx == -1 {
		b.mu.Unlock()
		return Task{}, ErrNotFound
	}
	apply(&tasks[idx])
	updated := tasks[idx]
	err = b.saveTasks(ctx, tasks)
	b.mu.Unlock()
	if err != nil {
		return Task{}, err
	}

	b.changed()
	return updated, nil
}

func (b *Board) removeTask(ctx context.Context, match func(Task) bool) (Task, error) {
	b.mu.Lock()
	tasks, err := b.Tasks(ctx)
	if err != nil {
		b.mu.Unlock()
		return Task{}, err
	}
	idx := indexOf(tasks, match)
	if idx == -1 {
		b.mu.Unlock()
		return Task{}, ErrNotFound
	}
	removed := tasks[idx]
	err = b.saveTasks(ctx, append(tasks[:idx], tasks[idx+1:]...))
	b.mu.Unlock()
	if err != nil {
		return Task{}, err
	}

	b.changed()
	return removed, nil
}

func indexOf[T any](items []T, match func(T) bool) int {
	for i, item := range items {
		if match(item) {
			return i
		}
	}
	return -1
}
