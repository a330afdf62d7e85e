package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Stockwatch Configuration

[monitor]
# Pacing budget for external provider calls
requests_per_minute = 30
# Timeout per provider call (e.g. "10s")
timeout = "10s"
# Default look-back window for price history queries (1-365)
history_days = 30
# Articles fetched per stock on a news refresh
news_limit = 5
# How often the scheduler refreshes prices / news
price_interval = "24h"
news_interval = "24h"
# CSV file used by 'stockwatch stocks import'
stocks_csv = "stocks.csv"

[notifications]
# Enable alert notifications
enabled = true
# Send via WhatsApp (false sends plain SMS)
use_whatsapp = true

[database]
# SQLite database path; empty uses the default under the config directory
path = ""
`

const credentialsTemplate = `# Stockwatch API Credentials
# Environment variables override these values:
#   ALPHA_VANTAGE_API_KEY, NEWS_API_KEY, UNSPLASH_ACCESS_KEY,
#   TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, TWILIO_PHONE_NUMBER,
#   ALERT_PHONE_NUMBER

[alphavantage]
api_key = ""

[newsapi]
api_key = ""

[unsplash]
access_key = ""

[twilio]
account_sid = ""
auth_token = ""
from_number = ""
to_number = ""
`

func createTemplateConfig(configDir string) error {
	return writeTemplate(configDir, "config.toml", configTemplate)
}

func createTemplateCredentials(configDir string) error {
	return writeTemplate(configDir, "credentials.toml", credentialsTemplate)
}

func writeTemplate(configDir, name, content string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	// Credentials stay user-readable only
	mode := os.FileMode(0644)
	if name == "credentials.toml" {
		mode = 0600
	}
	return os.WriteFile(path, []byte(content), mode)
}
