package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atinylittleshell/gdash/internal/weather"
)

var weatherCmd = &cobra.Command{
	Use:   "weather [location]",
	Short: "Refresh the weather, optionally saving a new location",
	Long: `Fetches current conditions from Open-Meteo and stores the summary the
assistant sees. Passing a location saves it for later refreshes; pass "" to go
back to the default location.`,
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		var (
			conditions weather.Conditions
			err        error
		)
		if len(args) > 0 {
			conditions, err = a.weather.SetLocation(cmd.Context(), strings.Join(args, " "))
		} else {
			conditions, err = a.weather.Refresh(cmd.Context())
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, conditions.Summary())
		fmt.Fprintf(out, "Feels like %d°F · Humidity %d%% · Wind %d mph · UV %d\n",
			conditions.FeelsF, conditions.Humidity, conditions.WindMph, conditions.UV)
		return nil
	}),
}
