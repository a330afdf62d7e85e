package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	apperrors "stockwatch/internal/errors"
	"stockwatch/internal/models"
)

// addStockCommands adds watchlist management commands.
func addStockCommands(rootCmd *cobra.Command, app *App) {
	stocksCmd := &cobra.Command{
		Use:   "stocks",
		Short: "Manage the stock watchlist",
		Long:  "Add, list, update and remove monitored stocks.",
	}

	stocksCmd.AddCommand(newStockAddCmd(app))
	stocksCmd.AddCommand(newStockListCmd(app))
	stocksCmd.AddCommand(newStockUpdateCmd(app))
	stocksCmd.AddCommand(newStockRemoveCmd(app))
	stocksCmd.AddCommand(newStockImportCmd(app))

	rootCmd.AddCommand(stocksCmd)
}

func newStockAddCmd(app *App) *cobra.Command {
	var name string
	var threshold float64

	cmd := &cobra.Command{
		Use:   "add SYMBOL",
		Short: "Add a stock to the watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store not available")
			}
			if name == "" {
				name = args[0]
			}

			stock, err := app.Store.CreateStock(cmd.Context(), args[0], name, threshold)
			if err != nil {
				output.Error("Failed to add stock: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(stock)
			}
			output.Success("✓ Added %s (%s) with threshold %.2f%%", stock.Symbol, stock.Name, stock.Threshold)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "company name")
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 5.0, "alert threshold in percent")
	return cmd
}

func newStockListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List monitored stocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store not available")
			}

			stocks, err := app.Store.ListStocks(cmd.Context(), !all)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(stocks)
			}

			if len(stocks) == 0 {
				output.Info("No stocks in the watchlist. Add one with 'stockwatch stocks add'.")
				return nil
			}

			table := NewTable(output, "SYMBOL", "NAME", "THRESHOLD", "STATUS", "LAST CLOSE", "CHANGE")
			for i := range stocks {
				s := &stocks[i]
				status := output.Green("active")
				if !s.Active {
					status = output.DimText("inactive")
				}

				lastClose := "-"
				change := "-"
				if latest, err := app.Store.LatestPrice(cmd.Context(), s.Symbol); err == nil {
					lastClose = fmt.Sprintf("$%.2f", latest.ClosePrice)
					if latest.PercentChange != nil {
						change = output.FormatChange(*latest.PercentChange)
					}
				}

				table.AddRow(s.Symbol, s.Name, fmt.Sprintf("%.2f%%", s.Threshold), status, lastClose, change)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include inactive stocks")
	return cmd
}

func newStockUpdateCmd(app *App) *cobra.Command {
	var name string
	var threshold string
	var activate, deactivate bool

	cmd := &cobra.Command{
		Use:   "update SYMBOL",
		Short: "Update a stock's name, threshold or active state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store not available")
			}
			if activate && deactivate {
				return fmt.Errorf("--activate and --deactivate are mutually exclusive")
			}

			var upd models.StockUpdate
			if cmd.Flags().Changed("name") {
				upd.Name = &name
			}
			if cmd.Flags().Changed("threshold") {
				value, err := strconv.ParseFloat(threshold, 64)
				if err != nil {
					return fmt.Errorf("invalid threshold %q: %w", threshold, err)
				}
				upd.Threshold = &value
			}
			if activate {
				active := true
				upd.Active = &active
			}
			if deactivate {
				active := false
				upd.Active = &active
			}

			stock, err := app.Store.UpdateStock(cmd.Context(), args[0], upd)
			if err != nil {
				if apperrors.Is(err, apperrors.ErrStockNotFound) {
					output.Error("Stock %s is not in the watchlist", args[0])
				}
				return err
			}

			if output.IsJSON() {
				return output.JSON(stock)
			}
			output.Success("✓ Updated %s: threshold %.2f%%, active=%v", stock.Symbol, stock.Threshold, stock.Active)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "company name")
	cmd.Flags().StringVarP(&threshold, "threshold", "t", "", "alert threshold in percent")
	cmd.Flags().BoolVar(&activate, "activate", false, "resume monitoring")
	cmd.Flags().BoolVar(&deactivate, "deactivate", false, "pause monitoring, keeping history")
	return cmd
}

func newStockRemoveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove SYMBOL",
		Short: "Remove a stock and all of its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store not available")
			}
			if !force {
				output.Warning("This removes %s with its prices, alerts and news. Re-run with --force to confirm.", args[0])
				return nil
			}

			if err := app.Store.DeleteStock(cmd.Context(), args[0]); err != nil {
				if apperrors.Is(err, apperrors.ErrStockNotFound) {
					output.Error("Stock %s is not in the watchlist", args[0])
				}
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"removed": args[0]})
			}
			output.Success("✓ Removed %s", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")
	return cmd
}

// stockCSVRow is one row of a watchlist CSV file.
type stockCSVRow struct {
	Symbol    string  `csv:"symbol"`
	Name      string  `csv:"company_name"`
	Threshold float64 `csv:"threshold"`
}

func newStockImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [FILE]",
		Short: "Import stocks from a CSV file",
		Long: `Import stocks from a CSV file with columns: symbol, company_name, threshold.

Symbols already in the watchlist have their name and threshold updated. The
file defaults to the stocks_csv path from the configuration.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store not available")
			}

			path := app.Config.Monitor.StocksCSV
			if len(args) > 0 {
				path = args[0]
			}

			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening %s: %w", path, err)
			}
			defer file.Close()

			var rows []stockCSVRow
			if err := gocsv.UnmarshalFile(file, &rows); err != nil {
				return fmt.Errorf("parsing %s: %w", path, err)
			}

			added, updated, skipped := 0, 0, 0
			for _, row := range rows {
				if row.Symbol == "" {
					skipped++
					continue
				}
				if row.Name == "" {
					row.Name = row.Symbol
				}
				if row.Threshold <= 0 {
					row.Threshold = 5.0
				}

				if _, err := app.Store.GetStock(cmd.Context(), row.Symbol); err == nil {
					_, err := app.Store.UpdateStock(cmd.Context(), row.Symbol, models.StockUpdate{
						Name:      &row.Name,
						Threshold: &row.Threshold,
					})
					if err != nil {
						skipped++
						app.Logger.Debug().Err(err).Str("symbol", row.Symbol).Msg("Skipped CSV row")
						continue
					}
					updated++
					continue
				}

				if _, err := app.Store.CreateStock(cmd.Context(), row.Symbol, row.Name, row.Threshold); err != nil {
					skipped++
					app.Logger.Debug().Err(err).Str("symbol", row.Symbol).Msg("Skipped CSV row")
					continue
				}
				added++
			}

			if output.IsJSON() {
				return output.JSON(map[string]int{"added": added, "updated": updated, "skipped": skipped})
			}
			output.Success("✓ Imported %d stocks, updated %d (%d skipped)", added, updated, skipped)
			return nil
		},
	}

	return cmd
}
