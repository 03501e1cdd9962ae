package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/atinylittleshell/gdash/internal/dashboard"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Manage calendar events",
}

var eventAddCmd = &cobra.Command{
	Use:   "add [YYYY-MM-DD] [title]",
	Short: "Add an event",
	Args:  cobra.MinimumNArgs(2),
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		date, title := args[0], strings.Join(args[1:], " ")
		event, err := a.board.AddEvent(cmd.Context(), title, date)
		switch {
		case errors.Is(err, dashboard.ErrDuplicate):
			return fmt.Errorf("event already exists: %q on %s", title, date)
		case errors.Is(err, dashboard.ErrInvalidDate):
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
		case err != nil:
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added event: %q on %s\n", event.Title, event.Date)
		return nil
	}),
}

var eventRmID int64

var eventRmCmd = &cobra.Command{
	Use:   "rm [query]",
	Short: "Delete the first event whose title contains query, or the event with --id",
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		if err := requireQueryOrID(args, eventRmID); err != nil {
			return err
		}
		var (
			event dashboard.Event
			err   error
		)
		what := fmt.Sprintf("%q", strings.Join(args, " "))
		if eventRmID != 0 {
			what = fmt.Sprintf("id %d", eventRmID)
			event, err = a.board.RemoveEvent(cmd.Context(), eventRmID)
		} else {
			event, err = a.board.DeleteEvent(cmd.Context(), strings.Join(args, " "))
		}
		if errors.Is(err, dashboard.ErrNotFound) {
			return fmt.Errorf("no event matches %s", what)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted event: %q\n", event.Title)
		return nil
	}),
}

var (
	eventLsAll bool
	eventLsIDs bool
)

var eventLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List upcoming events",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		snap := a.board.Snapshot(cmd.Context())
		events := snap.Upcoming()
		if eventLsAll {
			events = snap.Events
		}
		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No events.")
			return nil
		}
		for _, e := range events {
			if eventLsIDs {
				fmt.Fprintf(out, "%d  ", e.ID)
			}
			fmt.Fprintf(out, "%s  %s\n", e.Date, e.Title)
		}
		return nil
	}),
}

var eventExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export events as iCalendar (stdout when no file is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		events, err := a.board.Events(cmd.Context())
		if err != nil {
			return err
		}
		ics := dashboard.EventsICS(events, time.Now())
		if len(args) == 0 {
			_, err := fmt.Fprint(cmd.OutOrStdout(), ics)
			return err
		}
		if err := os.WriteFile(args[0], []byte(ics), 0644); err != nil {
			return fmt.Errorf("write %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d events to %s\n", len(events), args[0])
		return nil
	}),
}

func init() {
	eventLsCmd.Flags().BoolVarP(&eventLsAll, "all", "a", false, "Include past events")
	eventLsCmd.Flags().BoolVar(&eventLsIDs, "ids", false, "Show event ids")
	eventRmCmd.Flags().Int64Var(&eventRmID, "id", 0, "Delete the event with this id instead of matching text")

	eventCmd.AddCommand(eventAddCmd)
	eventCmd.AddCommand(eventRmCmd)
	eventCmd.AddCommand(eventLsCmd)
	eventCmd.AddCommand(eventExportCmd)
}
