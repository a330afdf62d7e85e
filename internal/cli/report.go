package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"stockwatch/pkg/utils"
)

// addReportCommands adds reporting commands.
func addReportCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newReportCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))
}

func newReportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show a watchlist summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store not available")
			}

			summary, err := app.Store.Summary(cmd.Context())
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(summary)
			}

			output.Bold("Watchlist Summary")
			output.Printf("  Stocks:          %d (%d active)\n", summary.TotalStocks, summary.ActiveStocks)
			output.Printf("  Alerts (24h):    %d\n", summary.AlertsLast24h)
			if summary.LastPriceUpdate != nil {
				output.Printf("  Last update:     %s\n", summary.LastPriceUpdate.Local().Format("2006-01-02 15:04"))
			} else {
				output.Printf("  Last update:     %s\n", output.DimText("never"))
			}
			return nil
		},
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "history SYMBOL",
		Short: "Show the recorded price series for a stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store not available")
			}

			if days <= 0 {
				days = app.Config.Monitor.HistoryDays
			}

			history, err := app.Store.GetPriceHistory(cmd.Context(), args[0], days)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(history)
			}

			if len(history) == 0 {
				output.Info("No price history for %s yet. Run 'stockwatch update %s'.", args[0], args[0])
				return nil
			}

			table := NewTable(output, "DATE", "CLOSE", "PREV CLOSE", "CHANGE")
			for i := range history {
				obs := &history[i]

				prev := "-"
				if obs.PreviousClose != nil {
					prev = utils.FormatPrice(*obs.PreviousClose)
				}
				change := output.DimText("n/a")
				if obs.PercentChange != nil {
					change = output.FormatChange(*obs.PercentChange)
				}

				table.AddRow(
					obs.Date.Format("2006-01-02"),
					utils.FormatPrice(obs.ClosePrice),
					prev,
					change,
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 0, "look-back window in days (default from config)")
	return cmd
}
