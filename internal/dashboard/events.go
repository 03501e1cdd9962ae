package dashboard

import (
	"context"
	"strings"
)

// AddEvent appends a calendar event. The (title, date) pair is unique with
// the title compared case-insensitively.
func (b *Board) AddEvent(ctx context.Context, title, date string) (Event, error) {
	title = strings.TrimSpace(title)
	date = strings.TrimSpace(date)
	if title == "" {
		return Event{}, ErrEmptyText
	}
	if !ValidDate(date) {
		return Event{}, ErrInvalidDate
	}

	b.mu.Lock()
	events, err := b.Events(ctx)
	if err != nil {
		b.mu.Unlock()
		return Event{}, err
	}
	var maxID int64
	for _, e := range events {
		if strings.EqualFold(e.Title, title) && e.Date == date {
			b.mu.Unlock()
			return e, ErrDuplicate
		}
		maxID = max(maxID, e.ID)
	}
	event := Event{ID: b.newID(maxID), Date: date, Title: title}
	err = b.saveEvents(ctx, append(events, event))
	b.mu.Unlock()
	if err != nil {
		return Event{}, err
	}

	b.changed()
	return event, nil
}

// DeleteEvent removes the first event whose title contains query, ignoring case.
func (b *Board) DeleteEvent(ctx context.Context, query string) (Event, error) {
	return b.removeEvent(ctx, func(e Event) bool { return containsFold(e.Title, query) })
}

// RemoveEvent removes the event with the given id.
func (b *Board) RemoveEvent(ctx context.Context, id int64) (Event, error) {
	return b.removeEvent(ctx, func(e Event) bool { return e.ID == id })
}

func (b *Board) removeEvent(ctx context.Context, match func(Event) bool) (Event, error) {
	b.mu.Lock()
	events, err := b.Events(ctx)
	if err != nil {
		b.mu.Unlock()
		return Event{}, err
	}
	idx := indexOf(events, match)
	if idx == -1 {
		b.mu.Unlock()
		return Event{}, ErrNotFound
	}
	removed := events[idx]
	err = b.saveEvents(ctx, append(events[:idx], events[idx+1:]...))
	b.mu.Unlock()
	if err != nil {
		return Event{}, err
	}

	b.changed()
	return removed, nil
}
