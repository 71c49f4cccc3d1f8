package analyzer

import (
	"encoding/json"
	"strings"

	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/model"
)

const (
	maxFallbackSummary = 500
	// FallbackSuggestion 模型输出不可用时的通用建议
	FallbackSuggestion = "Review the issue manually; automated analysis was unavailable."
	emptySummary       = "Automated analysis returned no content."
)

// stripCodeFence 清理可能的 markdown 标记，只保留第一对 ``` 之间的内容
func stripCodeFence(raw string) string {
	clean := strings.TrimSpace(raw)
	if !strings.HasPrefix(clean, "```") {
		return clean
	}
	clean = strings.SplitN(clean, "```", 3)[1]
	clean = strings.TrimPrefix(clean, "json")
	clean = strings.TrimPrefix(clean, "JSON")
	return strings.TrimSpace(clean)
}

// ParseAnalysis 解析模型返回的分析 JSON，ok 为 false 时 result 为 nil
func ParseAnalysis(raw string) (result *model.AnalysisResult, ok bool) {
	defer func() {
		if recover() != nil {
			result, ok = nil, false
		}
	}()

	var parsed model.AnalysisResult
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &parsed); err != nil {
		return nil, false
	}
	normalize(&parsed)
	return &parsed, true
}

// Fallback 用去掉 markdown 标记后的模型原文构造降级结果
func Fallback(raw string) *model.AnalysisResult {
	summary := stripCodeFence(raw)
	if summary == "" {
		summary = emptySummary
	}
	return &model.AnalysisResult{
		Summary:        truncateRunes(summary, maxFallbackSummary),
		Classification: model.ClassificationOther,
		Priority:       model.PriorityMedium,
		Suggestions:    []string{FallbackSuggestion},
		NeedsResearch:  false,
		Degraded:       true,
	}
}

// parseSuggestions 解析优化轮返回的 {"suggestions": [...]}
func parseSuggestions(raw string) ([]string, bool) {
	var parsed struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &parsed); err != nil {
		return nil, false
	}
	suggestions := cleanSuggestions(parsed.Suggestions)
	if len(suggestions) == 0 {
		return nil, false
	}
	return suggestions, true
}

// normalize 补齐缺失字段并统一取值
func normalize(r *model.AnalysisResult) {
	r.Summary = strings.TrimSpace(r.Summary)
	if r.Summary == "" {
		r.Summary = emptySummary
	}
	r.Classification = strings.ToLower(strings.TrimSpace(r.Classification))
	if r.Classification == "" {
		r.Classification = model.ClassificationOther
	}
	r.Priority = strings.ToLower(strings.TrimSpace(r.Priority))
	if r.Priority == "" {
		r.Priority = model.PriorityMedium
	}
	r.Suggestions = cleanSuggestions(r.Suggestions)
	if len(r.Suggestions) == 0 {
		r.Suggestions = []string{FallbackSuggestion}
	}
	r.ResearchQuery = strings.TrimSpace(r.ResearchQuery)
	if !r.NeedsResearch {
		r.ResearchQuery = ""
	}
}

func cleanSuggestions(in []string) []string {
	out := make([]string, 0, model.MaxSuggestions)
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == model.MaxSuggestions {
			break
		}
	}
	return out
}
