package assistant

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind names a directive the assistant can execute.
type Kind string

const (
	KindAddTask      Kind = "add_task"
	KindCompleteTask Kind = "complete_task"
	KindDoneTask     Kind = "done_task"
	KindDeleteTask   Kind = "delete_task"
	KindRemoveTask   Kind = "remove_task"
	KindAddEvent     Kind = "add_event"
	KindDeleteEvent  Kind = "delete_event"
	KindRemoveEvent  Kind = "remove_event"
	KindSetTimer     Kind = "set_timer"
)

// Directive is a structured command embedded in assistant text. Fields holds
// the decoded JSON object as-is; the accessors apply the field fallbacks the
// model is allowed to use.
type Directive struct {
	Fields map[string]any
}

func (d Directive) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Fields)
}

// Kind reads the "action" field, falling back to "type".
func (d Directive) Kind() Kind {
	return Kind(d.firstString("action", "type"))
}

// Text is the task text or query: text, then title, then name.
func (d Directive) Text() string {
	return d.firstString("text", "title", "name")
}

// Title is the event title or query: title, then text, then name.
func (d Directive) Title() string {
	return d.firstString("title", "text", "name")
}

func (d Directive) Date() string {
	return d.firstString("date")
}

// Minutes reads "minutes", falling back to "duration". Strings contribute
// their leading integer ("25 min" is 25) and numbers are truncated.
func (d Directive) Minutes() (int, bool) {
	for _, key := range []string{"minutes", "duration"} {
		switch v := d.Fields[key].(type) {
		case float64:
			if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			return int(math.Trunc(v)), true
		case string:
			if v == "" {
				continue
			}
			return leadingInt(v)
		}
	}
	return 0, false
}

func (d Directive) firstString(keys ...string) string {
	for _, key := range keys {
		switch v := d.Fields[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			if v != 0 {
				return strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
	}
	return ""
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

var (
	// fencedDirective matches a fenced block holding a single JSON object.
	fencedDirective = regexp.MustCompile("```(?:json)?\\s*(\\{[\\s\\S]*?\\})\\s*```")

	// inlineDirective matches a flat JSON object with an "action" string field.
	inlineDirective = regexp.MustCompile(`\{[^{}]*"action"\s*:\s*"[^"]+?"[^{}]*\}`)
)

// Extract pulls directives out of assistant text. Fenced blocks are scanned
// first, then the remaining text is scanned for inline objects. Every
// fragment that parses is removed from the returned display text; fragments
// that do not parse stay in place. Structurally equal directives are kept
// once, in discovery order.
func Extract(text string) ([]Directive, string) {
	var directives []Directive
	seen := map[string]struct{}{}

	accept := func(fragment string) bool {
		var fields map[string]any
		if err := json.Unmarshal([]byte(fragment), &fields); err != nil || fields == nil {
			return false
		}
		// encoding/json sorts map keys, so equal objects encode identically.
		key, err := json.Marshal(fields)
		if err != nil {
			return false
		}
		if _, dup := seen[string(key)]; !dup {
			seen[string(key)] = struct{}{}
			directives = append(directives, Directive{Fields: fields})
		}
		return true
	}

	display := removeAccepted(text, fencedDirective, 1, accept)
	display = removeAccepted(display, inlineDirective, 0, accept)
	return directives, strings.TrimSpace(display)
}

// removeAccepted drops every match of re whose capture group is accepted.
func removeAccepted(text string, re *regexp.Regexp, group int, accept func(string) bool) string {
	var sb strings.Builder
	last := 0
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		if !accept(text[m[2*group]:m[2*group+1]]) {
			continue
		}
		sb.WriteString(text[last:m[0]])
		last = m[1]
	}
	sb.WriteString(text[last:])
	return sb.String()
}
