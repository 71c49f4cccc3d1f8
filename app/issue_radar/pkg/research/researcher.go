// Package research 为 Issue 分析提供联网搜索补充资料。
// Researcher 永远返回一段可直接拼进 prompt 的文本，不向上抛错。
package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/logger"
	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/search"
)

const (
	// UnavailableMessage 未配置搜索凭据时的固定返回
	UnavailableMessage = "Web search unavailable: no search API key configured."
	// NoResultsMessage 搜索结果为空时的固定返回
	NoResultsMessage = "No relevant search results found."

	// MaxResults 单次搜索的结果上限
	MaxResults = 3
	snippetLen = 200
)

// Researcher 联网搜索
type Researcher struct {
	searcher    search.Searcher
	fetchPages  bool
	pageTimeout time.Duration
	fetch       func(url string, timeout time.Duration) (string, error)
}

// Option Researcher 可选项
type Option func(*Researcher)

// WithPageFetch 摘要过短时抓取原文正文
func WithPageFetch(timeout time.Duration) Option {
	return func(r *Researcher) {
		r.fetchPages = true
		if timeout > 0 {
			r.pageTimeout = timeout
		}
	}
}

// New 创建 Researcher，searcher 为 nil 表示未配置搜索
func New(searcher search.Searcher, opts ...Option) *Researcher {
	r := &Researcher{
		searcher:    searcher,
		pageTimeout: 30 * time.Second,
		fetch:       fetchAndCleanContent,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Research 执行一次搜索并格式化为 "- 标题: 前 200 字..." 列表
func (r *Researcher) Research(ctx context.Context, query string) (out string) {
	if r == nil || r.searcher == nil {
		return UnavailableMessage
	}

	defer func() {
		if p := recover(); p != nil {
			logger.Log.Errorf("搜索过程发生异常 [%s]: %v", query, p)
			out = fmt.Sprintf("Web search failed: %v", p)
		}
	}()

	resp, err := r.searcher.Search(ctx, &search.Request{
		Query:      query,
		Topic:      "general",
		MaxResults: MaxResults,
	})
	if err != nil {
		logger.Log.Errorf("搜索失败 [%s]: %v", query, err)
		return fmt.Sprintf("Web search failed: %v", err)
	}
	if resp == nil || len(resp.Results) == 0 {
		return NoResultsMessage
	}

	results := resp.Results
	if len(results) > MaxResults {
		results = results[:MaxResults]
	}

	lines := make([]string, 0, len(results))
	for _, item := range results {
		content := item.Content
		if r.fetchPages && len([]rune(content)) < snippetLen && item.URL != "" {
			fetched, err := r.fetch(item.URL, r.pageTimeout)
			if err != nil {
				logger.Log.Warnf("原文抓取失败，使用搜索摘要 [%s]: %v", item.Title, err)
			} else if len(fetched) > len(content) {
				content = fetched
			}
		}
		lines = append(lines, fmt.Sprintf("- %s: %s...", item.Title, truncate(collapseSpace(content), snippetLen)))
	}

	return strings.Join(lines, "\n")
}

// fetchAndCleanContent 抓取 URL 并提取核心文本
func fetchAndCleanContent(url string, timeout time.Duration) (string, error) {
	article, err := readability.FromURL(url, timeout)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
