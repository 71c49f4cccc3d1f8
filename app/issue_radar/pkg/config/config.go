package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/model"
)

// Config 项目配置结构体
type Config struct {
	LLM          LLMConfig         `mapstructure:"llm"`
	Search       SearchConfig      `mapstructure:"search"`
	Slack        SlackConfig       `mapstructure:"slack"`
	Issue        model.Issue       `mapstructure:"issue"`
	Log          LogConfig         `mapstructure:"log"`
	HTTPTimeout  time.Duration     `mapstructure:"http_timeout"`
	Mentions     map[string]string `mapstructure:"mentions"`
	MentionsFile string            `mapstructure:"mentions_file"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	Provider string `mapstructure:"provider"` // gemini, openai or anthropic
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	RPM      int    `mapstructure:"rpm"`
	Burst    int    `mapstructure:"burst"`
}

// SearchConfig 搜索相关配置
type SearchConfig struct {
	Provider   string        `mapstructure:"provider"`
	FetchPages bool          `mapstructure:"fetch_pages"`
	Tavily     TavilyConfig  `mapstructure:"tavily"`
	SearXNG    SearXNGConfig `mapstructure:"searxng"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"`
}

// SlackConfig Slack Webhook 配置
type SlackConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// 默认 LLM 走 Gemini 的 OpenAI 兼容接口
const (
	DefaultProvider      = "gemini"
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultGeminiModel   = "gemini-2.0-flash"
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultClaudeModel   = "claude-3-5-haiku-latest"
	DefaultHTTPTimeout   = 60 * time.Second
)

// envBindings 配置键与环境变量的对应关系，靠前的变量名优先
var envBindings = map[string][]string{
	"llm.provider":            {"LLM_PROVIDER"},
	"llm.base_url":            {"LLM_BASE_URL"},
	"llm.api_key":             {"LLM_API_KEY"},
	"llm.model":               {"LLM_MODEL"},
	"search.provider":         {"SEARCH_PROVIDER"},
	"search.tavily.api_key":   {"TAVILY_API_KEY"},
	"search.searxng.base_url": {"SEARXNG_BASE_URL"},
	"slack.webhook_url":       {"SLACK_WEBHOOK_URL"},
	"issue.title":             {"ISSUE_TITLE"},
	"issue.body":              {"ISSUE_BODY"},
	"issue.number":            {"ISSUE_NUMBER"},
	"issue.url":               {"ISSUE_URL"},
	"issue.author":            {"ISSUE_AUTHOR"},
	"issue.assignee":          {"ASSIGNEE_USERNAME", "ISSUE_ASSIGNEE", "ASSIGNEE"},
	"issue.repository":        {"REPO_NAME", "GITHUB_REPOSITORY"},
	"mentions_file":           {"SLACK_MENTIONS_FILE"},
	"log.level":               {"LOG_LEVEL"},
	"log.file":                {"LOG_FILE"},
}

// providerKeyEnvs llm.api_key 未配置时按 provider 读取的环境变量
var providerKeyEnvs = map[string][]string{
	DefaultProvider: {"GOOGLE_API_KEY", "GEMINI_API_KEY"},
	"openai":        {"OPENAI_API_KEY"},
	"anthropic":     {"ANTHROPIC_API_KEY"},
}

// LoadConfig 加载配置：默认值 < 配置文件 < 环境变量
// path 为空或文件不存在时只使用默认值和环境变量
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	applyProviderDefaults(&cfg)

	if cfg.MentionsFile != "" {
		extra, err := LoadMentions(cfg.MentionsFile)
		if err != nil {
			return nil, err
		}
		if cfg.Mentions == nil {
			cfg.Mentions = make(map[string]string, len(extra))
		}
		for user, id := range extra {
			cfg.Mentions[user] = id
		}
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", DefaultProvider)
	v.SetDefault("search.searxng.timeout", 30)
	v.SetDefault("log.level", "info")
	v.SetDefault("http_timeout", DefaultHTTPTimeout)
}

// applyProviderDefaults 按 provider 补全 base_url、model 和 api_key
func applyProviderDefaults(cfg *Config) {
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	switch cfg.LLM.Provider {
	case "", DefaultProvider:
		cfg.LLM.Provider = DefaultProvider
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = DefaultGeminiBaseURL
		}
		if cfg.LLM.Model == "" {
			cfg.LLM.Model = DefaultGeminiModel
		}
	case "openai":
		if cfg.LLM.Model == "" {
			cfg.LLM.Model = DefaultOpenAIModel
		}
	case "anthropic", "claude":
		cfg.LLM.Provider = "anthropic"
		if cfg.LLM.Model == "" {
			cfg.LLM.Model = DefaultClaudeModel
		}
	}

	if cfg.LLM.APIKey == "" {
		for _, name := range providerKeyEnvs[cfg.LLM.Provider] {
			if key := os.Getenv(name); key != "" {
				cfg.LLM.APIKey = key
				break
			}
		}
	}
}

// LoadMentions 从 YAML 文件加载 GitHub 用户名到 Slack 成员 ID 的映射
//
//	alice: U123
//	bob: U456
func LoadMentions(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mentions file: %w", err)
	}

	mentions := make(map[string]string)
	if err := yaml.Unmarshal(data, &mentions); err != nil {
		return nil, fmt.Errorf("parse mentions file %s: %w", path, err)
	}
	return mentions, nil
}
