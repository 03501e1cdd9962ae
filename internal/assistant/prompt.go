package assistant

import "github.com/atinylittleshell/gdash/internal/dashboard"

// SystemPrompt enumerates the directive shapes the model may emit.
const SystemPrompt = `You are a concise, helpful productivity assistant embedded in a dashboard. You have access to real-time tasks, events, notes, weather, and timer controls.

IMPORTANT RULES:
1. Keep replies brief (1-3 sentences).
2. To perform actions, include a JSON block:
` + "```json" + `
{"action": "add_task", "text": "..."}
` + "```" + `

Available actions:
- {"action": "add_task", "text": "..."}
- {"action": "complete_task", "text": "partial match"}
- {"action": "delete_task", "text": "partial match"}
- {"action": "add_event", "title": "...", "date": "YYYY-MM-DD"}
- {"action": "delete_event", "title": "partial match"}
- {"action": "set_timer", "minutes": 25}

3. Context: Today is provided. Use it for relative dates.
4. Weather: Use provided weather info if asked.
5. NO DUPLICATES: Do not output the same action twice.`

// systemMessage combines the preamble with the current dashboard context.
func systemMessage(snap dashboard.Snapshot) ChatMessage {
	return ChatMessage{
		Role:    RoleSystem,
		Content: SystemPrompt + "\n\n---\nDashboard Context:\n" + snap.Context() + "\n---",
	}
}

// QuickPrompt is a canned question offered next to the chat input.
type QuickPrompt struct {
	Label string `json:"label"`
	Query string `json:"query"`
}

// QuickPrompts returns the canned questions in display order.
func QuickPrompts() []QuickPrompt {
	return []QuickPrompt{
		{Label: "Status", Query: "Give me a quick dashboard overview"},
		{Label: "Tasks", Query: "What tasks do I have?"},
		{Label: "Events", Query: "What events are coming up?"},
		{Label: "Plan", Query: "Help me plan my day"},
	}
}
