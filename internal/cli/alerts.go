package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"stockwatch/internal/store"
	"stockwatch/pkg/utils"
)

// addAlertCommands adds alert ledger commands.
func addAlertCommands(rootCmd *cobra.Command, app *App) {
	alertsCmd := &cobra.Command{
		Use:   "alerts",
		Short: "Inspect and deliver recorded alerts",
	}

	alertsCmd.AddCommand(newAlertListCmd(app))
	alertsCmd.AddCommand(newAlertSendCmd(app))

	rootCmd.AddCommand(alertsCmd)
}

func newAlertListCmd(app *App) *cobra.Command {
	var symbol string
	var days int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store not available")
			}

			alerts, err := app.Store.GetAlerts(cmd.Context(), store.AlertFilter{Symbol: symbol, Days: days})
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(alerts)
			}

			if len(alerts) == 0 {
				output.Info("No alerts in the last %d days.", days)
				return nil
			}

			table := NewTable(output, "TIME", "SYMBOL", "CHANGE", "THRESHOLD", "CLOSE", "DELIVERY")
			for i := range alerts {
				a := &alerts[i]

				closePrice := "-"
				if a.PriceAfter != nil {
					closePrice = utils.FormatPrice(*a.PriceAfter)
				}

				delivery := output.DimText("pending")
				if a.Delivery.Delivered {
					delivery = output.Green(fmt.Sprintf("sent (%s)", a.Delivery.Channel))
				} else if a.Delivery.Error != "" {
					delivery = output.Red("failed")
				}

				table.AddRow(
					a.TriggeredAt.Local().Format("2006-01-02 15:04"),
					a.Symbol,
					output.FormatChange(a.PercentChange),
					fmt.Sprintf("%.2f%%", a.ThresholdAtTime),
					closePrice,
					delivery,
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "filter by stock symbol")
	cmd.Flags().IntVarP(&days, "days", "d", 7, "look-back window in days")
	return cmd
}

func newAlertSendCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "send-pending",
		Short: "Deliver alerts not yet notified",
		Long: `Send a notification for every alert still pending delivery, oldest first.

A delivery failure is recorded on the alert and does not stop the remaining
alerts from being attempted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Dispatcher == nil {
				return fmt.Errorf("store not available")
			}
			if !app.Config.Notifications.Enabled {
				output.Warning("Notifications are disabled in the configuration.")
				return nil
			}

			report, err := app.Dispatcher.SendPending(cmd.Context())
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(report)
			}
			if report.Attempted == 0 {
				output.Info("No pending alerts.")
				return nil
			}
			output.Success("✓ %d of %d notifications sent (%d failed)", report.Sent, report.Attempted, report.Failed)
			return nil
		},
	}
}
