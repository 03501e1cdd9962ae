package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Send one message to the assistant and apply any actions in its reply",
	Long: `Sends a single message to the assistant with the current dashboard as
context. Actions in the reply (adding tasks, events, timers...) are applied
before the reply is printed.

Example:
  gdash ask "add a task to call the dentist"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	asst, err := a.newAssistant()
	if err != nil {
		return err
	}

	reply, err := asst.Ask(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, reply.Text)
	// outcomes are already the reply when the model wrote no prose
	if reply.Text != strings.Join(reply.Outcomes, "\n") {
		for _, outcome := range reply.Outcomes {
			fmt.Fprintln(out, "→ "+outcome)
		}
	}
	if reply.Err != nil {
		return reply.Err
	}
	return nil
}
