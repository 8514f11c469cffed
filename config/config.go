package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type RedditConfig struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	UserAgent    string
}

// IsConfigured returns true if all required Reddit credentials are present
func (c RedditConfig) IsConfigured() bool {
	return c.ClientID != "" &&
		c.ClientSecret != "" &&
		c.Username != "" &&
		c.Password != ""
	// Note: UserAgent always has a default
}

type BotConfig struct {
	ChainLength         int
	ChainPolicy         string // "exact" or "at_least"
	ScoreFloor          int
	RecencyLimit        int
	MentionPollInterval time.Duration
	SweepInterval       time.Duration
	DiscoveryInterval   time.Duration
	DefaultTargets      []string
	SpoilerSubreddits   []string
	ReplyMessage        string
	ReplyMessageSpoiler string
	PrimaryLink         string
	AltLink             string
	AltLinkChance       float64
}

type AppConfig struct {
	// Core configuration (always required)
	DatabaseURL    string
	DatabaseSchema string
	Port           string // Optional with default "8080"
	Environment    string

	// Alert webhook for background-loop failures (optional)
	AlertWebhookURL string

	// Shared client-side rate limit for all Reddit API calls
	APIRequestsPerSecond float64

	RedditConfig RedditConfig
	BotConfig    BotConfig
}

const (
	defaultReplyMessage        = "Sorry, somebody had to break this chain. [Here's why.](%s)"
	defaultReplyMessageSpoiler = "Sorry, somebody had to break this chain. >!([Here's why.](%s))!<"
	defaultPrimaryLink         = "https://en.wikipedia.org/wiki/Chain_letter"
	defaultAltLink             = "https://en.wikipedia.org/wiki/Spam_(food)"
	defaultTargetSubreddits    = "AskReddit,memes,funny"
)

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	// Core required configuration
	databaseURL, err := getEnvRequired("DB_URL")
	if err != nil {
		return nil, err
	}

	databaseSchema, err := getEnvRequired("DB_SCHEMA")
	if err != nil {
		return nil, err
	}

	config := &AppConfig{
		DatabaseURL:     databaseURL,
		DatabaseSchema:  databaseSchema,
		Port:            getEnvWithDefault("PORT", "8080"),
		Environment:     getEnvWithDefault("ENVIRONMENT", "dev"),
		AlertWebhookURL: getEnvWithDefault("ALERT_WEBHOOK_URL", ""),

		RedditConfig: RedditConfig{
			ClientID:     os.Getenv("REDDIT_CLIENT_ID"),
			ClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
			Username:     os.Getenv("REDDIT_USERNAME"),
			Password:     os.Getenv("REDDIT_PASSWORD"),
			UserAgent:    getEnvWithDefault("REDDIT_USER_AGENT", "chainbreak/0.1"),
		},
	}

	if config.APIRequestsPerSecond, err = getEnvFloat("API_RPS", 0.8); err != nil {
		return nil, err
	}

	bot := &config.BotConfig
	if bot.ChainLength, err = getEnvInt("CHAIN_LENGTH", 3); err != nil {
		return nil, err
	}
	bot.ChainPolicy = getEnvWithDefault("CHAIN_POLICY", "exact")
	if bot.ScoreFloor, err = getEnvInt("SCORE_FLOOR", 0); err != nil {
		return nil, err
	}
	if bot.RecencyLimit, err = getEnvInt("RECENCY_LIMIT", 100); err != nil {
		return nil, err
	}
	if bot.MentionPollInterval, err = getEnvDuration("MENTION_POLL_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}
	if bot.SweepInterval, err = getEnvDuration("SWEEP_INTERVAL", time.Hour); err != nil {
		return nil, err
	}
	if bot.DiscoveryInterval, err = getEnvDuration("DISCOVERY_INTERVAL", 24*time.Hour); err != nil {
		return nil, err
	}
	bot.DefaultTargets = getEnvList("TARGET_SUBREDDITS", defaultTargetSubreddits)
	bot.SpoilerSubreddits = getEnvList("SPOILER_SUBREDDITS", "")
	bot.ReplyMessage = getEnvWithDefault("REPLY_MESSAGE", defaultReplyMessage)
	bot.ReplyMessageSpoiler = getEnvWithDefault("REPLY_MESSAGE_SPOILER", defaultReplyMessageSpoiler)
	bot.PrimaryLink = getEnvWithDefault("PRIMARY_LINK", defaultPrimaryLink)
	bot.AltLink = getEnvWithDefault("ALT_LINK", defaultAltLink)
	if bot.AltLinkChance, err = getEnvFloat("ALT_LINK_CHANCE", 0.05); err != nil {
		return nil, err
	}

	if err := validate(config); err != nil {
		return nil, err
	}

	if config.AlertWebhookURL == "" {
		log.Printf("⚠️ ALERT_WEBHOOK_URL not set - background failures will only be logged")
	}

	return config, nil
}

func validate(config *AppConfig) error {
	if !config.RedditConfig.IsConfigured() {
		return fmt.Errorf(
			"reddit credentials are not fully configured " +
				"(REDDIT_CLIENT_ID, REDDIT_CLIENT_SECRET, REDDIT_USERNAME, REDDIT_PASSWORD)")
	}

	bot := config.BotConfig
	if bot.ChainLength < 2 {
		return fmt.Errorf("CHAIN_LENGTH must be at least 2, got %d", bot.ChainLength)
	}
	if bot.ChainPolicy != "exact" && bot.ChainPolicy != "at_least" {
		return fmt.Errorf("CHAIN_POLICY must be %q or %q, got %q", "exact", "at_least", bot.ChainPolicy)
	}
	if bot.AltLinkChance < 0 || bot.AltLinkChance > 1 {
		return fmt.Errorf("ALT_LINK_CHANCE must be between 0 and 1, got %g", bot.AltLinkChance)
	}
	if len(bot.DefaultTargets) == 0 {
		return fmt.Errorf("TARGET_SUBREDDITS must name at least one subreddit")
	}
	if config.APIRequestsPerSecond <= 0 {
		return fmt.Errorf("API_RPS must be positive, got %g", config.APIRequestsPerSecond)
	}

	return nil
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("required environment variable %s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("environment variable %s must be an integer: %w", key, err)
	}
	return value, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("environment variable %s must be a number: %w", key, err)
	}
	return value, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("environment variable %s must be a duration like 30s or 1h: %w", key, err)
	}
	return value, nil
}

func getEnvList(key, defaultValue string) []string {
	raw := getEnvWithDefault(key, defaultValue)
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}
