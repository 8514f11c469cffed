package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_URL", "postgres://localhost/chainbreak")
	t.Setenv("DB_SCHEMA", "chainbreak")
	t.Setenv("REDDIT_CLIENT_ID", "id")
	t.Setenv("REDDIT_CLIENT_SECRET", "secret")
	t.Setenv("REDDIT_USERNAME", "chainbreakbot")
	t.Setenv("REDDIT_PASSWORD", "hunter2")
}

func TestLoadConfig(t *testing.T) {
	t.Run("applies defaults when only required vars are set", func(t *testing.T) {
		setRequiredEnv(t)

		config, err := LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, "8080", config.Port)
		assert.Equal(t, "dev", config.Environment)
		assert.Equal(t, 0.8, config.APIRequestsPerSecond)
		assert.Equal(t, 3, config.BotConfig.ChainLength)
		assert.Equal(t, "exact", config.BotConfig.ChainPolicy)
		assert.Equal(t, 0, config.BotConfig.ScoreFloor)
		assert.Equal(t, 100, config.BotConfig.RecencyLimit)
		assert.Equal(t, 30*time.Second, config.BotConfig.MentionPollInterval)
		assert.Equal(t, time.Hour, config.BotConfig.SweepInterval)
		assert.Equal(t, 24*time.Hour, config.BotConfig.DiscoveryInterval)
		assert.Equal(t, []string{"AskReddit", "memes", "funny"}, config.BotConfig.DefaultTargets)
		assert.Empty(t, config.BotConfig.SpoilerSubreddits)
		assert.Equal(t, 0.05, config.BotConfig.AltLinkChance)
	})

	t.Run("reads overrides from the environment", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("CHAIN_LENGTH", "5")
		t.Setenv("CHAIN_POLICY", "at_least")
		t.Setenv("SCORE_FLOOR", "-3")
		t.Setenv("MENTION_POLL_INTERVAL", "2m")
		t.Setenv("TARGET_SUBREDDITS", "pics, aww ,mildlyinteresting")
		t.Setenv("SPOILER_SUBREDDITS", "MovieDetails")

		config, err := LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, 5, config.BotConfig.ChainLength)
		assert.Equal(t, "at_least", config.BotConfig.ChainPolicy)
		assert.Equal(t, -3, config.BotConfig.ScoreFloor)
		assert.Equal(t, 2*time.Minute, config.BotConfig.MentionPollInterval)
		assert.Equal(t, []string{"pics", "aww", "mildlyinteresting"}, config.BotConfig.DefaultTargets)
		assert.Equal(t, []string{"MovieDetails"}, config.BotConfig.SpoilerSubreddits)
	})

	t.Run("fails without a database URL", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("DB_URL", "")

		_, err := LoadConfig()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_URL")
	})

	t.Run("fails without complete reddit credentials", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("REDDIT_PASSWORD", "")

		_, err := LoadConfig()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not fully configured")
	})

	t.Run("rejects a chain length below two", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("CHAIN_LENGTH", "1")

		_, err := LoadConfig()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "CHAIN_LENGTH")
	})

	t.Run("rejects an unknown chain policy", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("CHAIN_POLICY", "fuzzy")

		_, err := LoadConfig()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "CHAIN_POLICY")
	})

	t.Run("rejects an out-of-range alternate link chance", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("ALT_LINK_CHANCE", "1.5")

		_, err := LoadConfig()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "ALT_LINK_CHANCE")
	})

	t.Run("rejects a non-numeric integer value", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("RECENCY_LIMIT", "lots")

		_, err := LoadConfig()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "RECENCY_LIMIT")
	})

	t.Run("rejects a malformed interval", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("SWEEP_INTERVAL", "soon")

		_, err := LoadConfig()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "SWEEP_INTERVAL")
	})

	t.Run("rejects a non-positive rate limit", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("API_RPS", "0")

		_, err := LoadConfig()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "API_RPS")
	})
}
