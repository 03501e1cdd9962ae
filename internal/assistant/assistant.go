// Package assistant turns chat with a language model into dashboard changes.
// Replies are scanned for embedded JSON directives, which are deduplicated
// and applied to the dashboard store in order.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/atinylittleshell/gdash/internal/dashboard"
	"github.com/atinylittleshell/gdash/internal/store"
)

const (
	// MaxStoredMessages caps the persisted conversation.
	MaxStoredMessages = 50

	// MaxContextMessages is how much of the conversation is sent upstream.
	MaxContextMessages = 14
)

const (
	welcomeText = `Hey! I'm your AI assistant. I can manage your tasks and events or just chat. Try "add a task".`
	clearedText = "Chat cleared. How can I help?"
)

var (
	ErrBusy         = errors.New("assistant is waiting for a reply")
	ErrEmptyMessage = errors.New("message is empty")
)

// timeNow is a variable that can be overridden for testing.
var timeNow = time.Now

// Senders of conversation messages.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Message is one persisted chat bubble.
type Message struct {
	ID     int64  `json:"id"`
	Text   string `json:"text"`
	Sender string `json:"sender"`
}

// State is the assistant's request state.
type State int

const (
	StateIdle State = iota
	StateAwaitingReply
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingReply:
		return "awaiting-reply"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Reply is the result of one exchange.
type Reply struct {
	// Text is what the user sees.
	Text string

	Directives []Directive

	// Outcomes holds one entry per actionable directive, in execution order.
	Outcomes []string

	// Err is the transport failure, if any. Text then carries the visible
	// error message and no directive was executed.
	Err error
}

// Assistant orchestrates one conversation. At most one request is in flight;
// submissions made while awaiting a reply are rejected with ErrBusy.
type Assistant struct {
	board    *dashboard.Board
	provider ChatProvider
	executor *Executor
	logger   *zap.Logger

	mu     sync.Mutex
	state  State
	lastID int64
}

func New(board *dashboard.Board, provider ChatProvider, executor *Executor, logger *zap.Logger) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assistant{
		board:    board,
		provider: provider,
		executor: executor,
		logger:   logger,
	}
}

// State reports whether a request is in flight.
func (a *Assistant) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Assistant) begin() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == StateAwaitingReply {
		return ErrBusy
	}
	a.state = StateAwaitingReply
	return nil
}

func (a *Assistant) end() {
	a.mu.Lock()
	a.state = StateIdle
	a.mu.Unlock()
}

func (a *Assistant) nextID() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := timeNow().UnixMilli()
	if id <= a.lastID {
		id = a.lastID + 1
	}
	a.lastID = id
	return id
}

// History returns the persisted conversation. A missing, empty or corrupt
// history reads as the welcome message.
func (a *Assistant) History(ctx context.Context) ([]Message, error) {
	raw, ok, err := a.board.Store().Get(ctx, store.KeyChatHistory)
	if err != nil {
		return nil, fmt.Errorf("read chat history: %w", err)
	}
	var msgs []Message
	if ok {
		if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
			a.logger.Warn("ignoring unparsable chat history", zap.Error(err))
			msgs = nil
		}
	}
	if len(msgs) == 0 {
		msgs = []Message{{ID: 1, Text: welcomeText, Sender: SenderBot}}
	}
	return msgs, nil
}

func (a *Assistant) saveHistory(ctx context.Context, msgs []Message) error {
	if len(msgs) > MaxStoredMessages {
		msgs = msgs[len(msgs)-MaxStoredMessages:]
	}
	data, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("encode chat history: %w", err)
	}
	if err := a.board.Store().Set(ctx, store.KeyChatHistory, string(data)); err != nil {
		return fmt.Errorf("write chat history: %w", err)
	}
	return nil
}

// Clear resets the conversation to a single bot message.
func (a *Assistant) Clear(ctx context.Context) ([]Message, error) {
	msgs := []Message{{ID: a.nextID(), Text: clearedText, Sender: SenderBot}}
	if err := a.saveHistory(ctx, msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Ask sends one user message and applies any directives in the reply.
func (a *Assistant) Ask(ctx context.Context, text string) (*Reply, error) {
	query := strings.TrimSpace(text)
	if query == "" {
		return nil, ErrEmptyMessage
	}
	if err := a.begin(); err != nil {
		return nil, err
	}
	defer a.end()

	history, err := a.History(ctx)
	if err != nil {
		return nil, err
	}
	history = append(history, Message{ID: a.nextID(), Text: query, Sender: SenderUser})
	if err := a.saveHistory(ctx, history); err != nil {
		return nil, err
	}

	startTime := timeNow()
	reply := a.exchange(ctx, history)

	history = append(history, Message{ID: a.nextID(), Text: reply.Text, Sender: SenderBot})
	if err := a.saveHistory(ctx, history); err != nil {
		return nil, err
	}

	a.logger.Debug("assistant interaction",
		zap.String("provider", a.provider.Name()),
		zap.String("message", query),
		zap.String("reply", reply.Text),
		zap.Int("directives", len(reply.Directives)),
		zap.Strings("outcomes", reply.Outcomes),
		zap.Duration("duration", timeNow().Sub(startTime)),
		zap.Error(reply.Err),
	)
	return reply, nil
}

func (a *Assistant) exchange(ctx context.Context, history []Message) *Reply {
	messages := a.buildMessages(a.board.Snapshot(ctx), history)

	raw, err := a.provider.ChatCompletion(ctx, messages)
	if err != nil {
		return &Reply{
			Text: "Sorry, I had trouble connecting to the chat. " + err.Error(),
			Err:  err,
		}
	}

	directives, display := Extract(raw)
	reply := &Reply{Directives: directives}
	for _, d := range directives {
		if outcome, ok := a.executor.Execute(ctx, d); ok && outcome != "" {
			reply.Outcomes = append(reply.Outcomes, outcome)
		}
	}

	switch {
	case display != "":
		reply.Text = display
	case len(reply.Outcomes) > 0:
		reply.Text = strings.Join(reply.Outcomes, "\n")
	default:
		reply.Text = raw
	}
	return reply
}

// buildMessages constructs the message array for the provider: the system
// preamble with the dashboard context, then the most recent conversation.
func (a *Assistant) buildMessages(snap dashboard.Snapshot, history []Message) []ChatMessage {
	if len(history) > MaxContextMessages {
		history = history[len(history)-MaxContextMessages:]
	}
	messages := make([]ChatMessage, 0, len(history)+1)
	messages = append(messages, systemMessage(snap))
	for _, m := range history {
		role := RoleAssistant
		if m.Sender == SenderUser {
			role = RoleUser
		}
		messages = append(messages, ChatMessage{Role: role, Content: m.Text})
	}
	return messages
}
