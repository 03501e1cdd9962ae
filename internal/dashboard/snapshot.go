package dashboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
)

const notesContextLimit = 200

// Snapshot is a read-only view of every widget store at one instant.
type Snapshot struct {
	Tasks   []Task    `json:"tasks"`
	Events  []Event   `json:"events"`
	Notes   string    `json:"notes"`
	Weather string    `json:"weather"`
	Now     time.Time `json:"now"`
}

// Today returns the snapshot date as YYYY-MM-DD.
func (s Snapshot) Today() string {
	return s.Now.Format(DateLayout)
}

func (s Snapshot) Pending() []Task {
	return lo.Filter(s.Tasks, func(t Task, _ int) bool { return !t.Done })
}

func (s Snapshot) Done() []Task {
	return lo.Filter(s.Tasks, func(t Task, _ int) bool { return t.Done })
}

// Upcoming returns events dated today or later, earliest first.
func (s Snapshot) Upcoming() []Event {
	today := s.Today()
	upcoming := lo.Filter(s.Events, func(e Event, _ int) bool { return e.Date >= today })
	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].Date < upcoming[j].Date })
	return upcoming
}

// Context renders the snapshot as the plain-text block sent to the model.
func (s Snapshot) Context() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Time: %s\n", s.Now.Format("3:04 PM"))
	fmt.Fprintf(&sb, "Today: %s (%s)\n", s.Now.Format("Monday, January 2, 2006"), s.Today())
	fmt.Fprintf(&sb, "Tomorrow: %s\n", s.Now.AddDate(0, 0, 1).Format(DateLayout))
	fmt.Fprintf(&sb, "Weather: %s\n", s.Weather)

	tasks := "none"
	if len(s.Tasks) > 0 {
		tasks = strings.Join(lo.Map(s.Tasks, func(t Task, _ int) string {
			if t.Done {
				return "✓ " + t.Text
			}
			return "○ " + t.Text
		}), ", ")
	}
	fmt.Fprintf(&sb, "Tasks: %s\n", tasks)

	events := "none"
	if len(s.Events) > 0 {
		events = strings.Join(lo.Map(s.Events, func(e Event, _ int) string {
			return fmt.Sprintf("%s (%s)", e.Title, e.Date)
		}), ", ")
	}
	fmt.Fprintf(&sb, "Events: %s\n", events)

	notes := "empty"
	if s.Notes != "" {
		notes = truncateRunes(s.Notes, notesContextLimit)
	}
	fmt.Fprintf(&sb, "Notes: %s", notes)

	return sb.String()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
