package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv 清空所有绑定的环境变量，避免宿主环境干扰
func clearEnv(t *testing.T) {
	t.Helper()
	for _, envs := range envBindings {
		for _, name := range envs {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
	for _, envs := range providerKeyEnvs {
		for _, name := range envs {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultProvider, cfg.LLM.Provider)
	assert.Equal(t, DefaultGeminiBaseURL, cfg.LLM.BaseURL)
	assert.Equal(t, DefaultGeminiModel, cfg.LLM.Model)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout)
	assert.Empty(t, cfg.LLM.APIKey)
	assert.Empty(t, cfg.Slack.WebhookURL)
}

func TestLoadConfig_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.test/T/B/X")
	t.Setenv("TAVILY_API_KEY", "tvly-key")
	t.Setenv("ISSUE_TITLE", "Crash on startup")
	t.Setenv("ISSUE_BODY", "stack trace here")
	t.Setenv("ISSUE_NUMBER", "42")
	t.Setenv("ISSUE_URL", "https://github.com/acme/app/issues/42")
	t.Setenv("ISSUE_AUTHOR", "carol")
	t.Setenv("ASSIGNEE", "alice")
	t.Setenv("REPO_NAME", "acme/app")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "g-key", cfg.LLM.APIKey)
	assert.Equal(t, "https://hooks.slack.test/T/B/X", cfg.Slack.WebhookURL)
	assert.Equal(t, "tvly-key", cfg.Search.Tavily.APIKey)
	assert.Equal(t, "Crash on startup", cfg.Issue.Title)
	assert.Equal(t, "stack trace here", cfg.Issue.Body)
	assert.Equal(t, "42", cfg.Issue.Number)
	assert.Equal(t, "https://github.com/acme/app/issues/42", cfg.Issue.URL)
	assert.Equal(t, "carol", cfg.Issue.Author)
	assert.Equal(t, "alice", cfg.Issue.Assignee)
	assert.Equal(t, "acme/app", cfg.Issue.Repository)
}

func TestLoadConfig_FileAndEnvOverride(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", `
llm:
  provider: anthropic
  api_key: file-key
  rpm: 30
search:
  provider: searxng
  searxng:
    base_url: http://searx.local
http_timeout: 5s
mentions:
  alice: U123
log:
  level: debug
`)
	t.Setenv("LLM_API_KEY", "env-key")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, DefaultClaudeModel, cfg.LLM.Model)
	assert.Equal(t, "env-key", cfg.LLM.APIKey)
	assert.Equal(t, 30, cfg.LLM.RPM)
	assert.Equal(t, "searxng", cfg.Search.Provider)
	assert.Equal(t, "http://searx.local", cfg.Search.SearXNG.BaseURL)
	assert.Equal(t, 30, cfg.Search.SearXNG.Timeout)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, map[string]string{"alice": "U123"}, cfg.Mentions)
}

func TestLoadConfig_MentionsFile(t *testing.T) {
	clearEnv(t)
	mentions := writeFile(t, "mentions.yaml", "bob: U456\ncarol: U789\n")
	path := writeFile(t, "config.yaml", "mentions:\n  alice: U123\n")
	t.Setenv("SLACK_MENTIONS_FILE", mentions)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"alice": "U123",
		"bob":   "U456",
		"carol": "U789",
	}, cfg.Mentions)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", "llm: [unclosed")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadMentions_Missing(t *testing.T) {
	_, err := LoadMentions(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_EnvPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_API_KEY", "generic-key")
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("ISSUE_ASSIGNEE", "bob")
	t.Setenv("ASSIGNEE_USERNAME", "alice")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "generic-key", cfg.LLM.APIKey)
	assert.Equal(t, "alice", cfg.Issue.Assignee)
}

func TestLoadConfig_ProviderKeyEnv(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{provider: "", want: "google-key"},
		{provider: "gemini", want: "google-key"},
		{provider: "openai", want: "openai-key"},
		{provider: "anthropic", want: "anthropic-key"},
		{provider: "claude", want: "anthropic-key"},
	}

	for _, tt := range tests {
		t.Run("provider="+tt.provider, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("GOOGLE_API_KEY", "google-key")
			t.Setenv("OPENAI_API_KEY", "openai-key")
			t.Setenv("ANTHROPIC_API_KEY", "anthropic-key")
			if tt.provider != "" {
				t.Setenv("LLM_PROVIDER", tt.provider)
			}

			cfg, err := LoadConfig("")
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.LLM.APIKey)
		})
	}
}

func TestLoadConfig_ProviderKeyNotCrossed(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("GOOGLE_API_KEY", "google-key")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Empty(t, cfg.LLM.APIKey)
}
