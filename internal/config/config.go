package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"

	configPathEnv      = "MEDIA_MONITOR_CONFIG"
	spreadsheetIDEnv   = "SHEETS_SPREADSHEET_ID"
	credentialsFileEnv = "SHEETS_CREDENTIALS_FILE"
	sqlitePathEnv      = "SQLITE_PATH"
	telegramTokenEnv   = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv  = "TELEGRAM_CHAT_ID"
	sentimentAPIKeyEnv = "SENTIMENT_API_KEY"
	sentimentURLEnv    = "SENTIMENT_INFERENCE_URL"
	searchQueryEnv     = "SEARCH_QUERY"
	dashboardAddrEnv   = "DASHBOARD_ADDR"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Search        SearchConfig       `yaml:"search"`
	Pipeline      PipelineConfig     `yaml:"pipeline"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Storage       StorageConfig      `yaml:"storage"`
	Sentiment     SentimentConfig    `yaml:"sentiment"`
	Dashboard     DashboardConfig    `yaml:"dashboard"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SearchConfig describes what to ask the news source for.
type SearchConfig struct {
	Query    string `yaml:"query"`
	Country  string `yaml:"country"`
	Language string `yaml:"language"`
}

// PipelineConfig carries ingestion policy knobs.
type PipelineConfig struct {
	// StartDate is the lower cutoff (YYYY-MM-DD) for ingested mentions.
	// Empty means Jan 1 of the current year.
	StartDate string `yaml:"startDate"`
	// CleanDates enables the maintenance pass that re-normalizes all
	// stored published dates before ingesting.
	CleanDates bool `yaml:"cleanDates"`
}

// SchedulerConfig defines when the scraper should run.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// StorageConfig selects and configures the mention store.
type StorageConfig struct {
	// Driver is "sheets" or "sqlite".
	Driver string       `yaml:"driver"`
	Sheets SheetsConfig `yaml:"sheets"`
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// SheetsConfig addresses a single worksheet in a Google spreadsheet.
type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheetId"`
	Worksheet       string `yaml:"worksheet"`
	CredentialsFile string `yaml:"credentialsFile"`
}

// SQLiteConfig locates the local database file.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// SentimentConfig selects local or remote scoring. An empty InferenceURL
// means the built-in lexicon scorer.
type SentimentConfig struct {
	InferenceURL string `yaml:"inferenceUrl"`
	APIKey       string `yaml:"apiKey"`
}

// DashboardConfig configures the read API.
type DashboardConfig struct {
	Addr           string `yaml:"addr"`
	CacheTTL       string `yaml:"cacheTTL"`
	RetentionYears int    `yaml:"retentionYears"`
}

// TTL parses the cache duration string, defaulting to one hour.
func (d DashboardConfig) TTL() time.Duration {
	if d.CacheTTL == "" {
		return time.Hour
	}
	ttl, err := time.ParseDuration(d.CacheTTL)
	if err != nil {
		log.Printf("config: invalid cacheTTL %q, using 1h", d.CacheTTL)
		return time.Hour
	}
	return ttl
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

// StartDate resolves the ingestion cutoff in the scheduler's timezone.
func (c Config) StartDate() time.Time {
	loc := c.Scheduler.Location()
	if c.Pipeline.StartDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", c.Pipeline.StartDate, loc); err == nil {
			return t
		}
		log.Printf("config: invalid startDate %q, using Jan 1", c.Pipeline.StartDate)
	}
	now := time.Now().In(loc)
	return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(searchQueryEnv); v != "" {
		c.Search.Query = v
	}

	if v := os.Getenv(spreadsheetIDEnv); v != "" {
		c.Storage.Sheets.SpreadsheetID = v
	}

	if v := os.Getenv(credentialsFileEnv); v != "" {
		c.Storage.Sheets.CredentialsFile = v
	}

	if v := os.Getenv(sqlitePathEnv); v != "" {
		c.Storage.SQLite.Path = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(sentimentURLEnv); v != "" {
		c.Sentiment.InferenceURL = v
	}

	if v := os.Getenv(sentimentAPIKeyEnv); v != "" {
		c.Sentiment.APIKey = v
	}

	if v := os.Getenv(dashboardAddrEnv); v != "" {
		c.Dashboard.Addr = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Search.Query != "" {
		base.Search.Query = override.Search.Query
	}
	if override.Search.Country != "" {
		base.Search.Country = override.Search.Country
	}
	if override.Search.Language != "" {
		base.Search.Language = override.Search.Language
	}

	if override.Pipeline.StartDate != "" {
		base.Pipeline.StartDate = override.Pipeline.StartDate
	}
	if override.Pipeline.CleanDates {
		base.Pipeline.CleanDates = true
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Storage.Driver != "" {
		base.Storage.Driver = override.Storage.Driver
	}
	if override.Storage.Sheets.SpreadsheetID != "" {
		base.Storage.Sheets.SpreadsheetID = override.Storage.Sheets.SpreadsheetID
	}
	if override.Storage.Sheets.Worksheet != "" {
		base.Storage.Sheets.Worksheet = override.Storage.Sheets.Worksheet
	}
	if override.Storage.Sheets.CredentialsFile != "" {
		base.Storage.Sheets.CredentialsFile = override.Storage.Sheets.CredentialsFile
	}
	if override.Storage.SQLite.Path != "" {
		base.Storage.SQLite.Path = override.Storage.SQLite.Path
	}

	if override.Sentiment.InferenceURL != "" {
		base.Sentiment.InferenceURL = override.Sentiment.InferenceURL
	}
	if override.Sentiment.APIKey != "" {
		base.Sentiment.APIKey = override.Sentiment.APIKey
	}

	if override.Dashboard.Addr != "" {
		base.Dashboard.Addr = override.Dashboard.Addr
	}
	if override.Dashboard.CacheTTL != "" {
		base.Dashboard.CacheTTL = override.Dashboard.CacheTTL
	}
	if override.Dashboard.RetentionYears != 0 {
		base.Dashboard.RetentionYears = override.Dashboard.RetentionYears
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Search: SearchConfig{
			Query:    "HELB Kenya",
			Country:  "KE",
			Language: "en",
		},
		Pipeline:  PipelineConfig{},
		Scheduler: SchedulerConfig{CronExpression: "0 6 * * *", Timezone: defaultTimezone, location: tz},
		Storage: StorageConfig{
			Driver: "sheets",
			Sheets: SheetsConfig{
				Worksheet:       "Sheet1",
				CredentialsFile: "service_account.json",
			},
			SQLite: SQLiteConfig{Path: "mentions.db"},
		},
		Dashboard: DashboardConfig{
			Addr:           ":8080",
			CacheTTL:       "1h",
			RetentionYears: 5,
		},
	}
}
