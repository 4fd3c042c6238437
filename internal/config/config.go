package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone  = "Europe/Moscow"
	configPathEnv    = "ARTICLE_PUBLISHER_CONFIG"
	providerKeyEnv   = "XAI_API_KEY"
	providerModelEnv = "XAI_MODEL"
	siteURLEnv       = "SITE_URL"
	logLevelEnv      = "LOG_LEVEL"
	telegramTokenEnv = "TELEGRAM_BOT_TOKEN"
	telegramChatEnv  = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Site          SiteConfig         `yaml:"site"`
	Paths         PathsConfig        `yaml:"paths"`
	Provider      ProviderConfig     `yaml:"provider"`
	Feed          FeedConfig         `yaml:"feed"`
	Journal       JournalConfig      `yaml:"journal"`
	Notifications NotificationConfig `yaml:"notifications"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Logging       LoggingConfig      `yaml:"logging"`
}

// SiteConfig describes the public blog.
type SiteConfig struct {
	URL         string `yaml:"url"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Language    string `yaml:"language"`
	Image       string `yaml:"image"`
	Brand       string `yaml:"brand"`
}

// PathsConfig locates the ledger and every derived artifact.
type PathsConfig struct {
	ArticlesDir string `yaml:"articlesDir"`
	LedgerFile  string `yaml:"ledgerFile"`
	RSSFile     string `yaml:"rssFile"`
	SitemapFile string `yaml:"sitemapFile"`
}

// ProviderConfig defines how to contact the OpenAI-compatible text API.
type ProviderConfig struct {
	Endpoint    string        `yaml:"endpoint"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"apiKey"`
	Timeout     time.Duration `yaml:"timeout"`
	Temperature float32       `yaml:"temperature"`
	MaxTokens   int           `yaml:"maxTokens"`
}

// FeedConfig tunes the RSS rendering.
type FeedConfig struct {
	MaxItems       int `yaml:"maxItems"`
	UTCOffsetHours int `yaml:"utcOffsetHours"`
	PublishHour    int `yaml:"publishHour"`
}

// Zone returns the fixed publish zone.
func (f FeedConfig) Zone() *time.Location {
	return time.FixedZone("", f.UTCOffsetHours*60*60)
}

// JournalConfig points at the SQLite publication journal; empty path disables it.
type JournalConfig struct {
	Path string `yaml:"path"`
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

// SchedulerConfig defines when recurring runs fire and which clock they use.
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
	if loc, err := time.LoadLocation(s.Timezone); err == nil && s.Timezone != "" {
		return loc
	}
	return time.UTC
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads .env files, the YAML configuration (if present) and applies
// environment overrides. path wins over ARTICLE_PUBLISHER_CONFIG.
func Load(path string) Config {
	loadEnvFiles()

	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
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

func loadEnvFiles() {
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !os.IsNotExist(err) {
			log.Printf("config: cannot load %s: %v", name, err)
		}
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(providerKeyEnv); v != "" {
		c.Provider.APIKey = v
	}

	if v := os.Getenv(providerModelEnv); v != "" {
		c.Provider.Model = v
	}

	if v := os.Getenv(siteURLEnv); v != "" {
		c.Site.URL = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to UTC", tz)
		loc = time.UTC
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Site.URL != "" {
		base.Site.URL = override.Site.URL
	}
	if override.Site.Title != "" {
		base.Site.Title = override.Site.Title
	}
	if override.Site.Description != "" {
		base.Site.Description = override.Site.Description
	}
	if override.Site.Language != "" {
		base.Site.Language = override.Site.Language
	}
	if override.Site.Image != "" {
		base.Site.Image = override.Site.Image
	}
	if override.Site.Brand != "" {
		base.Site.Brand = override.Site.Brand
	}

	if override.Paths.ArticlesDir != "" {
		base.Paths.ArticlesDir = override.Paths.ArticlesDir
	}
	if override.Paths.LedgerFile != "" {
		base.Paths.LedgerFile = override.Paths.LedgerFile
	}
	if override.Paths.RSSFile != "" {
		base.Paths.RSSFile = override.Paths.RSSFile
	}
	if override.Paths.SitemapFile != "" {
		base.Paths.SitemapFile = override.Paths.SitemapFile
	}

	if override.Provider.Endpoint != "" {
		base.Provider.Endpoint = override.Provider.Endpoint
	}
	if override.Provider.Model != "" {
		base.Provider.Model = override.Provider.Model
	}
	if override.Provider.APIKey != "" {
		base.Provider.APIKey = override.Provider.APIKey
	}
	if override.Provider.Timeout > 0 {
		base.Provider.Timeout = override.Provider.Timeout
	}
	if override.Provider.Temperature > 0 {
		base.Provider.Temperature = override.Provider.Temperature
	}
	if override.Provider.MaxTokens > 0 {
		base.Provider.MaxTokens = override.Provider.MaxTokens
	}

	if override.Feed.MaxItems > 0 {
		base.Feed.MaxItems = override.Feed.MaxItems
	}
	if override.Feed.UTCOffsetHours != 0 {
		base.Feed.UTCOffsetHours = override.Feed.UTCOffsetHours
	}
	if override.Feed.PublishHour > 0 {
		base.Feed.PublishHour = override.Feed.PublishHour
	}

	if override.Journal.Path != "" {
		base.Journal.Path = override.Journal.Path
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Site: SiteConfig{
			URL:         "https://traffy-robot.ru",
			Title:       "TRAFFY Blog — Реклама в Telegram",
			Description: "Статьи о рекламе в Telegram, Mini Apps, Telegram Ads и маркетинге",
			Language:    "ru",
			Image:       "photo_2025-12-11%2014.39.43.jpeg",
			Brand:       "TRAFFY",
		},
		Paths: PathsConfig{
			ArticlesDir: "articles",
			LedgerFile:  "articles/articles.json",
			RSSFile:     "rss.xml",
			SitemapFile: "sitemap.xml",
		},
		Provider: ProviderConfig{
			Endpoint:    "https://api.x.ai/v1",
			Model:       "grok-beta",
			Timeout:     120 * time.Second,
			Temperature: 0.7,
			MaxTokens:   4000,
		},
		Feed: FeedConfig{
			MaxItems:       20,
			UTCOffsetHours: 3,
			PublishHour:    12,
		},
		Scheduler: SchedulerConfig{CronExpression: "0 9 * * *", Timezone: defaultTimezone},
		Logging:   LoggingConfig{Level: "info"},
	}
}
