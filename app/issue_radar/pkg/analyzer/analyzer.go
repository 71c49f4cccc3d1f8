// Package analyzer 调用 LLM 对 Issue 做分类、摘要和建议，必要时联网补充资料。
//
// Analyze 对任意模型输出都返回字段齐全的结果：解析失败或调用失败时
// 退化为 Fallback 结果，优化轮失败时保留首轮建议。
package analyzer

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/llm"
	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/logger"
	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/model"
)

// Researcher 联网搜索，返回可直接放进 prompt 的文本
type Researcher interface {
	Research(ctx context.Context, query string) string
}

// Analyzer Issue 分析器
type Analyzer struct {
	gen        llm.Generator
	researcher Researcher
	limiter    *rate.Limiter
}

// Option Analyzer 可选项
type Option func(*Analyzer)

// WithLimiter 为每次模型调用加限流
func WithLimiter(l *rate.Limiter) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.limiter = l
		}
	}
}

// NewLimiter 按 RPM 构造限流器，rpm <= 0 表示不限流
func NewLimiter(rpm, burst int) *rate.Limiter {
	if rpm <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst)
}

// New 创建 Analyzer；researcher 可以为 nil，此时跳过联网搜索
func New(gen llm.Generator, researcher Researcher, opts ...Option) *Analyzer {
	a := &Analyzer{
		gen:        gen,
		researcher: researcher,
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze 分析 Issue，永不返回 nil
func (a *Analyzer) Analyze(ctx context.Context, issue model.Issue) *model.AnalysisResult {
	raw, err := a.generate(ctx, buildAnalysisPrompt(issue))
	if err != nil {
		logger.Log.Errorf("LLM 分析失败: %v", err)
		return Fallback(fmt.Sprintf("AI analysis failed: %v", err))
	}

	result, ok := ParseAnalysis(raw)
	if !ok {
		logger.Log.Warnf("LLM 返回内容不是合法 JSON，使用降级结果: %s", truncateRunes(raw, 200))
		return Fallback(raw)
	}

	switch {
	case result.NeedsResearch && result.ResearchQuery != "":
		a.research(ctx, issue, result)
	case result.NeedsResearch:
		logger.Log.Info("模型要求联网搜索但未给出 research_query，跳过")
	}
	return result
}

// research 联网搜索并用搜索结果优化建议，任何失败都保留原建议
func (a *Analyzer) research(ctx context.Context, issue model.Issue, result *model.AnalysisResult) {
	query := result.ResearchQuery
	if a.researcher == nil {
		logger.Log.Warn("需要联网搜索但未配置 Researcher，跳过")
		return
	}

	logger.Log.Infof("正在联网搜索: %s", query)
	result.ResearchResults = a.researcher.Research(ctx, query)

	raw, err := a.generate(ctx, buildEnrichPrompt(issue, query, result.Suggestions, result.ResearchResults))
	if err != nil {
		logger.Log.Warnf("建议优化失败，保留原建议: %v", err)
		return
	}
	suggestions, ok := parseSuggestions(raw)
	if !ok {
		logger.Log.Warn("建议优化结果无法解析，保留原建议")
		return
	}
	result.Suggestions = suggestions
}

func (a *Analyzer) generate(ctx context.Context, prompt string) (raw string, err error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("limiter wait error: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("llm panic: %v", p)
		}
	}()
	return a.gen.Generate(ctx, systemPrompt, prompt)
}
