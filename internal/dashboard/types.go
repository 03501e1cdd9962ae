// Package dashboard reads and writes the shared widget state (tasks, calendar
// events, notes and the weather summary) on top of a key-value store.
package dashboard

import (
	"errors"
	"time"
)

// DateLayout is the calendar date format used by events.
const DateLayout = "2006-01-02"

// UnknownWeather is reported until the weather widget has stored a summary.
const UnknownWeather = "Unknown"

var (
	ErrNotFound    = errors.New("not found")
	ErrDuplicate   = errors.New("already exists")
	ErrEmptyText   = errors.New("text must not be empty")
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")
)

type Task struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

type Event struct {
	ID    int64  `json:"id"`
	Date  string `json:"date"`
	Title string `json:"title"`
}

// DefaultEvents seed the calendar the first time it is used.
func DefaultEvents() []Event {
	return []Event{
		{ID: 1, Date: "2026-02-14", Title: "Valentine's Day"},
		{ID: 2, Date: "2026-02-17", Title: "Team celebration"},
		{ID: 3, Date: "2026-02-20", Title: "Project review"},
	}
}

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
