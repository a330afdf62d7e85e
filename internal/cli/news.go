package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"stockwatch/pkg/utils"
)

// addNewsCommands adds news archive commands.
func addNewsCommands(rootCmd *cobra.Command, app *App) {
	newsCmd := &cobra.Command{
		Use:   "news",
		Short: "Fetch and browse archived news",
	}

	newsCmd.AddCommand(newNewsFetchCmd(app))
	newsCmd.AddCommand(newNewsListCmd(app))

	rootCmd.AddCommand(newsCmd)
}

func newNewsFetchCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "fetch [SYMBOL]",
		Short: "Fetch recent news articles",
		Long: `Fetch recent news for a stock and archive new articles. Articles whose URL
is already archived are skipped. Without a symbol, news is fetched for all
active stocks.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Updater == nil {
				return fmt.Errorf("store not available")
			}
			ctx := cmd.Context()

			if limit <= 0 {
				limit = app.Config.Monitor.NewsLimit
			}

			if len(args) == 1 {
				stock, err := app.Store.GetStock(ctx, args[0])
				if err != nil {
					return err
				}
				report, err := app.Updater.FetchNews(ctx, stock, limit)
				if err != nil {
					return err
				}
				if output.IsJSON() {
					return output.JSON(report)
				}
				output.Success("✓ %s: %d fetched, %d new", report.Symbol, report.Fetched, report.Saved)
				return nil
			}

			reports, err := app.Updater.FetchAllNews(ctx, limit)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(reports)
			}
			for _, report := range reports {
				output.Printf("  %-8s %d fetched, %d new\n", report.Symbol, report.Fetched, report.Saved)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "max articles per stock (default from config)")
	return cmd
}

func newNewsListCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list SYMBOL",
		Short: "Show archived news for a stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store not available")
			}

			articles, err := app.Store.GetNews(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(articles)
			}

			if len(articles) == 0 {
				output.Info("No archived news for %s.", args[0])
				return nil
			}

			for i := range articles {
				a := &articles[i]
				output.Bold(utils.Truncate(a.Title, 100))
				if a.Source != "" {
					when := ""
					if a.PublishedAt != nil {
						when = a.PublishedAt.Local().Format("2006-01-02")
					}
					output.Dim("  %s  %s", a.Source, when)
				}
				if a.Description != "" {
					output.Printf("  %s\n", utils.Truncate(a.Description, 160))
				}
				if a.URL != "" {
					output.Printf("  %s\n", output.DimText(a.URL))
				}
				if a.HasAttribution() {
					output.Dim("  Photo by %s on Unsplash", a.PhotographerName)
				}
				output.Println()
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "max articles to show")
	return cmd
}
