// Package engine 串联一次 Issue 通知流程：分析、可选联网搜索、发送 Slack 通知。
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/analyzer"
	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/config"
	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/llm"
	llmfactory "github.com/iWorld-y/issue_radar/app/issue_radar/pkg/llm/factory"
	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/logger"
	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/model"
	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/notifier"
	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/research"
	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/search"
	searchfactory "github.com/iWorld-y/issue_radar/app/issue_radar/pkg/search/factory"
)

// ErrMissingAPIKey 未配置 LLM API Key
var ErrMissingAPIKey = errors.New("llm api key is not configured")

// Engine 核心处理引擎
type Engine struct {
	gen      llm.Generator
	analyzer *analyzer.Analyzer
	notifier *notifier.Notifier
}

// Report 一次运行的结果
type Report struct {
	RunID     string
	Result    *model.AnalysisResult
	Delivered bool
}

type options struct {
	gen         llm.Generator
	searcher    search.Searcher
	searcherSet bool
	dryRun      io.Writer
}

// Option Engine 可选项
type Option func(*options)

// WithGenerator 使用指定的 LLM 客户端，不再按配置创建
func WithGenerator(g llm.Generator) Option {
	return func(o *options) {
		o.gen = g
	}
}

// WithSearcher 使用指定的搜索实现，传 nil 表示关闭联网搜索
func WithSearcher(s search.Searcher) Option {
	return func(o *options) {
		o.searcher = s
		o.searcherSet = true
	}
}

// WithDryRun 只输出 Slack 消息，不发送
func WithDryRun(w io.Writer) Option {
	return func(o *options) {
		o.dryRun = w
	}
}

// New 创建引擎实例；未配置 LLM API Key 时返回 ErrMissingAPIKey
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil || cfg.LLM.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// 初始化 LLM
	gen := o.gen
	if gen == nil {
		g, err := llmfactory.NewGenerator(ctx, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("LLM 初始化失败: %w", err)
		}
		gen = g
	}

	// 初始化搜索客户端，未配置时降级为不可用提示
	searcher := o.searcher
	if !o.searcherSet {
		s, err := searchfactory.NewSearcher(cfg)
		switch {
		case errors.Is(err, searchfactory.ErrNotConfigured):
			logger.Log.Infof("联网搜索未启用: %v", err)
		case err != nil:
			return nil, fmt.Errorf("搜索客户端初始化失败: %w", err)
		default:
			searcher = s
		}
	}

	var researchOpts []research.Option
	if cfg.Search.FetchPages {
		researchOpts = append(researchOpts, research.WithPageFetch(cfg.HTTPTimeout))
	}

	limiter := analyzer.NewLimiter(cfg.LLM.RPM, cfg.LLM.Burst)
	logger.Log.Debugf("限流器已配置: Limit=%.2f req/s, Burst=%d", float64(limiter.Limit()), limiter.Burst())

	notifyOpts := []notifier.Option{notifier.WithTimeout(cfg.HTTPTimeout)}
	if o.dryRun != nil {
		notifyOpts = append(notifyOpts, notifier.WithDryRun(o.dryRun))
	}

	return &Engine{
		gen: gen,
		analyzer: analyzer.New(gen, research.New(searcher, researchOpts...),
			analyzer.WithLimiter(limiter)),
		notifier: notifier.New(cfg.Slack.WebhookURL, notifier.NewMentionTable(cfg.Mentions), notifyOpts...),
	}, nil
}

// Run 处理一个 Issue，依次分析和通知；任何外部调用失败都不会中断流程
func (e *Engine) Run(ctx context.Context, issue model.Issue) *Report {
	runID := uuid.NewString()
	log := logger.Log.WithFields(logrus.Fields{
		"run_id": runID,
		"issue":  issue.Number,
	})

	log.Infof("开始分析 Issue: %s", issue.Title)
	result := e.analyzer.Analyze(ctx, issue)

	log.Infof("分类: %s", result.Classification)
	log.Infof("优先级: %s", result.Priority)
	log.Infof("摘要: %s", result.Summary)
	log.Infof("联网搜索: %t", result.Researched())
	if result.Degraded {
		log.Warn("分析结果为降级结果")
	}

	delivered := e.notifier.Notify(ctx, issue, result, e.gen.Model())
	log.WithField("delivered", delivered).Info("处理完成")

	return &Report{
		RunID:     runID,
		Result:    result,
		Delivered: delivered,
	}
}
