package factory

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/config"
	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/llm"
	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/llm/claude"
	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/llm/openai"
)

// NewGenerator 根据配置创建 LLM 客户端
func NewGenerator(ctx context.Context, cfg config.LLMConfig) (llm.Generator, error) {
	switch cfg.Provider {
	case "", "gemini", "openai":
		c, err := openai.NewClient(ctx, cfg.BaseURL, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return c, nil

	case "anthropic", "claude":
		var opts []option.RequestOption
		if cfg.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.BaseURL))
		}
		c, err := claude.NewClient(cfg.APIKey, cfg.Model, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil

	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
