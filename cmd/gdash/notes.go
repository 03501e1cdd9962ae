package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var notesCmd = &cobra.Command{
	Use:   "notes [text]",
	Short: "Show the notes, or replace them with text",
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		if len(args) > 0 {
			return a.board.SetNotes(cmd.Context(), strings.Join(args, " "))
		}
		notes, err := a.board.Notes(cmd.Context())
		if err != nil {
			return err
		}
		if notes == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "No notes.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), notes)
		return nil
	}),
}
