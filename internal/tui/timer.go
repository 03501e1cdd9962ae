package tui

import (
	"fmt"
	"time"
)

// pomodoro is the countdown started by timer-set broadcasts.
type pomodoro struct {
	total     time.Duration
	remaining time.Duration
	running   bool
}

func (p *pomodoro) start(minutes int) {
	p.total = time.Duration(minutes) * time.Minute
	p.remaining = p.total
	p.running = minutes > 0
}

// tick advances the countdown and reports whether it just finished.
func (p *pomodoro) tick(elapsed time.Duration) bool {
	if !p.running {
		return false
	}
	p.remaining -= elapsed
	if p.remaining <= 0 {
		p.remaining = 0
		p.running = false
		return true
	}
	return false
}

func (p pomodoro) view() string {
	if p.total == 0 {
		return dimStyle.Render("no timer")
	}
	secs := int(p.remaining.Round(time.Second).Seconds())
	clock := fmt.Sprintf("%02d:%02d", secs/60, secs%60)
	if !p.running {
		return dimStyle.Render(clock + " done")
	}
	return timerStyle.Render(clock)
}
