package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"stockwatch/internal/monitor"
	"stockwatch/internal/scheduler"
)

// addUpdateCommands adds the price update and background watch commands.
func addUpdateCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newUpdateCmd(app))
	rootCmd.AddCommand(newWatchCmd(app))
}

func newUpdateCmd(app *App) *cobra.Command {
	var send bool

	cmd := &cobra.Command{
		Use:   "update [SYMBOL]",
		Short: "Fetch the latest close and evaluate thresholds",
		Long: `Fetch the latest daily closing price, append it to the price series and
record an alert if the move exceeds the stock's threshold. Without a symbol,
all active stocks are updated.

Alerts are recorded regardless of delivery; pass --send to dispatch pending
notifications afterwards.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Updater == nil {
				return fmt.Errorf("store not available")
			}
			ctx := cmd.Context()

			if len(args) == 1 {
				stock, err := app.Store.GetStock(ctx, args[0])
				if err != nil {
					return err
				}
				result, err := app.Updater.UpdateOne(ctx, stock)
				if err != nil {
					output.Error("Update failed for %s: %v", stock.Symbol, err)
					return err
				}
				printUpdateResult(output, result)
			} else {
				summary, err := app.Updater.UpdateAll(ctx)
				if err != nil {
					return err
				}
				if output.IsJSON() {
					if err := output.JSON(summary); err != nil {
						return err
					}
				} else {
					for _, outcome := range summary.Outcomes {
						if outcome.Err != nil {
							output.Error("  %s: %v", outcome.Symbol, outcome.Err)
							continue
						}
						printUpdateResult(output, outcome.Result)
					}
					output.Println()
					output.Info("%d updated, %d failed, %d alerts", summary.Updated, summary.Failed, summary.AlertsCreated)
				}
			}

			if send && app.Dispatcher != nil && app.Config.Notifications.Enabled {
				report, err := app.Dispatcher.SendPending(ctx)
				if err != nil {
					return err
				}
				if !output.IsJSON() {
					output.Info("Notifications: %d sent, %d failed", report.Sent, report.Failed)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&send, "send", false, "dispatch pending alert notifications after updating")
	return cmd
}

func printUpdateResult(output *Output, result *monitor.UpdateResult) {
	if result == nil || result.Observation == nil {
		return
	}
	obs := result.Observation

	change := output.DimText("n/a")
	if obs.PercentChange != nil {
		change = output.FormatChange(*obs.PercentChange)
	}
	line := fmt.Sprintf("  %-8s $%.2f  %s", result.Symbol, obs.ClosePrice, change)

	switch {
	case result.Alert != nil:
		output.Printf("%s  %s\n", line, output.Yellow("ALERT"))
	case result.Skipped:
		output.Printf("%s  %s\n", line, output.DimText("alert already recorded today"))
	default:
		output.Println(line)
	}
}

func newWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the background monitor",
		Long: `Run the periodic price and news jobs in the foreground until interrupted.

Prices are updated on the configured price_interval and news on news_interval;
each job also runs once at startup.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Updater == nil {
				return fmt.Errorf("store not available")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			priceWorker := scheduler.NewPriceWorker(app.Updater, app.Dispatcher, app.Config.Monitor.PriceInterval, app.Config.Notifications.Enabled)
			newsWorker := scheduler.NewNewsWorker(app.Updater, app.Config.Monitor.NewsInterval, app.Config.Monitor.NewsLimit)

			sched := scheduler.NewScheduler(app.Logger, priceWorker, newsWorker)
			sched.Start(ctx)

			output.Info("Monitoring started. Press Ctrl+C to stop.")
			<-ctx.Done()
			sched.Stop()
			output.Println("Stopped.")
			return nil
		},
	}
}
