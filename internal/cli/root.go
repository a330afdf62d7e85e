// Package cli provides the command-line interface for the stock monitor.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"stockwatch/internal/config"
	"stockwatch/internal/logging"
	"stockwatch/internal/models"
	"stockwatch/internal/monitor"
	"stockwatch/internal/notify"
	"stockwatch/internal/providers"
	"stockwatch/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-08-01"
)

// App holds the application dependencies.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Store      store.DataStore
	Updater    *monitor.Updater
	Dispatcher *notify.Dispatcher
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	dataStore, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, some commands may be unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", cfg.Database.Path).Msg("SQLite store initialized")
	}

	prices := providers.NewAlphaVantageClient(cfg.Credentials.AlphaVantage.APIKey, cfg.Monitor.Timeout)
	news := providers.NewNewsAPIClient(cfg.Credentials.NewsAPI.APIKey, cfg.Monitor.Timeout)
	images := providers.NewUnsplashClient(cfg.Credentials.Unsplash.AccessKey, cfg.Monitor.Timeout)

	if app.Store != nil {
		app.Updater = monitor.NewUpdater(app.Store, prices, news, images, monitor.Options{
			RequestsPerMinute: cfg.Monitor.RequestsPerMinute,
			Timeout:           cfg.Monitor.Timeout,
		}, logger)

		messenger := notify.NewTwilioMessenger(notify.TwilioConfig{
			AccountSID: cfg.Credentials.Twilio.AccountSID,
			AuthToken:  cfg.Credentials.Twilio.AuthToken,
			FromNumber: cfg.Credentials.Twilio.FromNumber,
			ToNumber:   cfg.Credentials.Twilio.ToNumber,
			Timeout:    cfg.Monitor.Timeout,
		})
		app.Dispatcher = notify.NewDispatcher(app.Store, messenger, models.Channel(cfg.Channel()), cfg.Monitor.RequestsPerMinute, logger)
	}

	rootCmd := &cobra.Command{
		Use:   "stockwatch",
		Short: "Stockwatch - daily stock price alerts and news archiving",
		Long: `Stockwatch monitors a watchlist of stocks for daily price swings.

It records daily closing prices, raises an alert when a stock moves past its
percentage threshold (at most once per stock per day), delivers alerts over
WhatsApp or SMS, and archives recent news articles per stock.

Use 'stockwatch help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/stockwatch)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addStockCommands(rootCmd, app)
	addUpdateCommands(rootCmd, app)
	addAlertCommands(rootCmd, app)
	addNewsCommands(rootCmd, app)
	addReportCommands(rootCmd, app)

	return rootCmd
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Stockwatch v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Monitor Configuration")
	output.Printf("  Requests/min:    %d\n", cfg.Monitor.RequestsPerMinute)
	output.Printf("  Timeout:         %s\n", cfg.Monitor.Timeout)
	output.Printf("  History Days:    %d\n", cfg.Monitor.HistoryDays)
	output.Printf("  News Limit:      %d\n", cfg.Monitor.NewsLimit)
	output.Printf("  Price Interval:  %s\n", cfg.Monitor.PriceInterval)
	output.Printf("  News Interval:   %s\n", cfg.Monitor.NewsInterval)
	output.Println()

	output.Bold("Notifications")
	output.Printf("  Enabled:         %v\n", cfg.Notifications.Enabled)
	output.Printf("  Channel:         %s\n", cfg.Channel())
	output.Println()

	output.Bold("Database")
	output.Printf("  Path:            %s\n", cfg.Database.Path)
	output.Println()

	output.Bold("Credentials")
	output.Printf("  Alpha Vantage:   %s\n", maskStatus(cfg.Credentials.AlphaVantage.APIKey))
	output.Printf("  NewsAPI:         %s\n", maskStatus(cfg.Credentials.NewsAPI.APIKey))
	output.Printf("  Unsplash:        %s\n", maskStatus(cfg.Credentials.Unsplash.AccessKey))
	output.Printf("  Twilio:          %s\n", maskStatus(cfg.Credentials.Twilio.AccountSID))

	return nil
}

func maskStatus(value string) string {
	if value == "" {
		return "not set"
	}
	return "configured"
}
