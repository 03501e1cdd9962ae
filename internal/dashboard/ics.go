package dashboard

import (
	"fmt"
	"strings"
	"time"
)

const icsDateLayout = "20060102"

// EventsICS renders events as an iCalendar document with one all-day VEVENT
// per event. Events whose date does not parse are skipped.
func EventsICS(events []Event, now time.Time) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//gdash//Dashboard Calendar//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}
	stamp := now.UTC().Format("20060102T150405Z")

	for _, e := range events {
		day, err := time.ParseInLocation(DateLayout, e.Date, time.Local)
		if err != nil {
			continue
		}
		title := strings.TrimSpace(e.Title)
		if title == "" {
			title = "Dashboard Event"
		}
		lines = append(lines,
			"BEGIN:VEVENT",
			fmt.Sprintf("UID:event-%d@gdash", e.ID),
			"DTSTAMP:"+stamp,
			"SUMMARY:"+escapeICSText(title),
			"DTSTART;VALUE=DATE:"+day.Format(icsDateLayout),
			"DTEND;VALUE=DATE:"+day.AddDate(0, 0, 1).Format(icsDateLayout),
			"END:VEVENT",
		)
	}

	lines = append(lines, "END:VCALENDAR", "")
	return strings.Join(lines, "\r\n")
}

func escapeICSText(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\r\n", `\n`,
		"\n", `\n`,
	)
	return r.Replace(s)
}
