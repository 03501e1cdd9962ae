// Package tui is the terminal dashboard: task, event, weather and timer
// panels next to a chat with the assistant.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/atinylittleshell/gdash/internal/assistant"
	"github.com/atinylittleshell/gdash/internal/dashboard"
	"github.com/atinylittleshell/gdash/internal/notify"
	"github.com/atinylittleshell/gdash/internal/weather"
)

const clockInterval = time.Second

// timeNow is a variable that can be overridden for testing.
var timeNow = time.Now

type (
	boardMsg   struct{ snap dashboard.Snapshot }
	historyMsg struct {
		msgs []assistant.Message
		err  error
	}
	replyMsg struct {
		reply *assistant.Reply
		err   error
	}
	busMsg struct {
		topic   string
		payload any
	}
	weatherMsg struct{ err error }
	clockMsg   time.Time
)

// Options wires the dashboard model.
type Options struct {
	Board     *dashboard.Board
	Assistant *assistant.Assistant
	Bus       *notify.Bus

	// Weather is optional; without it /weather is unavailable.
	Weather *weather.Refresher

	Logger *zap.Logger
}

// Model is the bubbletea model of the dashboard.
type Model struct {
	ctx       context.Context
	board     *dashboard.Board
	assistant *assistant.Assistant
	weather   *weather.Refresher
	logger    *zap.Logger

	busEvents   chan busMsg
	unsubscribe func()

	input     textinput.Model
	indicator statusIndicator
	timer     pomodoro

	snapshot dashboard.Snapshot
	messages []assistant.Message
	notice   string
	pending  bool
	lastTick time.Time

	width  int
	height int
}

func New(ctx context.Context, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ti := textinput.New()
	ti.Placeholder = "Ask anything, or /status /tasks /events /plan /clear /quit"
	ti.Prompt = "> "
	ti.CharLimit = 500
	ti.Width = 60
	ti.Focus()

	m := &Model{
		ctx:       ctx,
		board:     opts.Board,
		assistant: opts.Assistant,
		weather:   opts.Weather,
		logger:    logger,
		busEvents: make(chan busMsg, 64),
		input:     ti,
		indicator: newStatusIndicator("assistant"),
		lastTick:  timeNow(),
		width:     100,
		height:    30,
	}
	if opts.Bus != nil {
		m.unsubscribe = opts.Bus.Subscribe("", m.forward)
	}
	return m
}

// forward runs inside Publish, so it must never block.
func (m *Model) forward(topic string, payload any) {
	select {
	case m.busEvents <- busMsg{topic: topic, payload: payload}:
	default:
		m.logger.Debug("dropping broadcast, dashboard is behind", zap.String("topic", topic))
	}
}

// Close detaches the model from the bus.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.loadBoard,
		m.loadHistory,
		m.waitForBus,
		clockTick(),
		m.indicator.spinner.Tick,
	)
}

func (m *Model) loadBoard() tea.Msg {
	return boardMsg{snap: m.board.Snapshot(m.ctx)}
}

func (m *Model) loadHistory() tea.Msg {
	msgs, err := m.assistant.History(m.ctx)
	return historyMsg{msgs: msgs, err: err}
}

func (m *Model) waitForBus() tea.Msg {
	select {
	case msg := <-m.busEvents:
		return msg
	case <-m.ctx.Done():
		return nil
	}
}

func (m *Model) refreshWeather(location string) tea.Cmd {
	return func() tea.Msg {
		var err error
		if location != "" {
			_, err = m.weather.SetLocation(m.ctx, location)
		} else {
			_, err = m.weather.Refresh(m.ctx)
		}
		return weatherMsg{err: err}
	}
}

func clockTick() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg { return clockMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.Close()
			return m, tea.Quit
		case tea.KeyEnter:
			value := m.input.Value()
			m.input.Reset()
			return m, m.submit(value)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, m.chatWidth()-4)
		return m, nil

	case boardMsg:
		m.snapshot = msg.snap
		return m, nil

	case historyMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
			return m, nil
		}
		m.messages = msg.msgs
		return m, nil

	case replyMsg:
		return m, m.handleReply(msg)

	case busMsg:
		return m, tea.Batch(m.handleBroadcast(msg), m.waitForBus)

	case weatherMsg:
		if msg.err != nil {
			m.notice = "Weather unavailable: " + msg.err.Error()
		}
		return m, nil

	case clockMsg:
		now := time.Time(msg)
		if m.timer.tick(now.Sub(m.lastTick)) {
			m.notice = "Time's up!"
		}
		m.lastTick = now
		return m, clockTick()

	case spinner.TickMsg:
		return m, m.indicator.update(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleBroadcast(msg busMsg) tea.Cmd {
	switch msg.topic {
	case notify.TopicDashboardUpdate:
		return m.loadBoard
	case notify.TopicTimerSet:
		if ts, ok := msg.payload.(notify.TimerSet); ok {
			m.timer.start(ts.Minutes)
			m.lastTick = timeNow()
		}
	}
	return nil
}

// submit handles one line from the input.
func (m *Model) submit(value string) tea.Cmd {
	text := strings.TrimSpace(value)
	if text == "" {
		return nil
	}
	m.notice = ""

	if !strings.HasPrefix(text, "/") {
		return m.ask(text)
	}

	name, arg, _ := strings.Cut(strings.TrimPrefix(text, "/"), " ")
	name = strings.ToLower(name)
	for _, qp := range assistant.QuickPrompts() {
		if strings.ToLower(qp.Label) == name {
			return m.ask(qp.Query)
		}
	}

	switch name {
	case "clear":
		if m.pending {
			m.notice = "Still waiting for the last reply."
			return nil
		}
		return func() tea.Msg {
			msgs, err := m.assistant.Clear(m.ctx)
			return historyMsg{msgs: msgs, err: err}
		}
	case "weather":
		if m.weather == nil {
			m.notice = "Weather is not configured."
			return nil
		}
		return m.refreshWeather(strings.TrimSpace(arg))
	case "quit", "exit":
		m.Close()
		return tea.Quit
	default:
		m.notice = "Unknown command /" + name
		return nil
	}
}

func (m *Model) ask(text string) tea.Cmd {
	if m.pending {
		m.notice = "Still waiting for the last reply."
		return nil
	}
	m.pending = true
	m.indicator.status = replyInFlight
	m.messages = append(m.messages, assistant.Message{
		ID:     timeNow().UnixMilli(),
		Text:   text,
		Sender: assistant.SenderUser,
	})

	return tea.Batch(m.indicator.spinner.Tick, func() tea.Msg {
		reply, err := m.assistant.Ask(m.ctx, text)
		return replyMsg{reply: reply, err: err}
	})
}

func (m *Model) handleReply(msg replyMsg) tea.Cmd {
	m.pending = false
	switch {
	case errors.Is(msg.err, assistant.ErrBusy):
		m.indicator.status = replyIdle
		m.notice = "Still waiting for the last reply."
		return nil
	case msg.err != nil:
		m.indicator.status = replyError
		m.notice = msg.err.Error()
		return m.loadHistory
	case msg.reply.Err != nil:
		m.indicator.status = replyError
	default:
		m.indicator.status = replySuccess
	}
	return m.loadHistory
}
