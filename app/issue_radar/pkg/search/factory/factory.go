package factory

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/config"
	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/search"
	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/search/searxng"
	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/search/tavily"
)

// ErrNotConfigured 未配置任何搜索凭据
var ErrNotConfigured = errors.New("search provider not configured")

// NewSearcher 根据配置创建搜索实例
func NewSearcher(cfg *config.Config) (search.Searcher, error) {
	provider := cfg.Search.Provider
	if provider == "" {
		// 默认回退逻辑：有 tavily key 用 tavily，其次 searxng
		switch {
		case cfg.Search.Tavily.APIKey != "":
			provider = "tavily"
		case cfg.Search.SearXNG.BaseURL != "":
			provider = "searxng"
		default:
			return nil, ErrNotConfigured
		}
	}

	switch provider {
	case "tavily":
		if cfg.Search.Tavily.APIKey == "" {
			return nil, fmt.Errorf("%w: tavily api key is missing", ErrNotConfigured)
		}
		return tavily.NewClient(cfg.Search.Tavily.APIKey,
			tavily.WithBaseURL(cfg.Search.Tavily.BaseURL),
			tavily.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		), nil

	case "searxng":
		if cfg.Search.SearXNG.BaseURL == "" {
			return nil, fmt.Errorf("%w: searxng base url is missing", ErrNotConfigured)
		}
		return searxng.NewClient(cfg.Search.SearXNG.BaseURL, cfg.Search.SearXNG.Timeout), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", provider)
	}
}
