package analyzer

import (
	"fmt"
	"strings"

	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/model"
)

const maxBodyRunes = 4000

const systemPrompt = "You are a JSON generator. Output only a single JSON object and nothing else."

const analysisPromptTpl = `You are an experienced open-source maintainer triaging a newly opened GitHub issue.
Read the issue and reply strictly in the following JSON format, without markdown code fences:
{
	"summary": "2-3 sentence summary of the problem or request",
	"classification": "one of: bug, feature, enhancement, question, documentation, other",
	"priority": "one of: critical, high, medium, low",
	"suggestions": ["next step 1", "next step 2", "next step 3"],
	"needs_research": false,
	"research_query": "short web search query, only when needs_research is true"
}
Give at most 3 suggestions. Set needs_research to true only when up-to-date external
information (library versions, known upstream bugs, error messages) would clearly improve the suggestions.

Issue title:
%s

Issue body:
%s`

const enrichPromptTpl = `You previously suggested these next steps for a GitHub issue.

Issue title: %s
Search query: %s

Original suggestions:
%s

Web search results:
%s

Using the search results, refine the next steps. Reply strictly in the following JSON format,
without markdown code fences, with at most 3 entries:
{"suggestions": ["refined step 1", "refined step 2", "refined step 3"]}`

// buildAnalysisPrompt 构造首轮分析 prompt
func buildAnalysisPrompt(issue model.Issue) string {
	body := strings.TrimSpace(issue.Body)
	if body == "" {
		body = "(no description)"
	}
	return fmt.Sprintf(analysisPromptTpl, issue.Title, truncateRunes(body, maxBodyRunes))
}

// buildEnrichPrompt 构造基于搜索结果的建议优化 prompt
func buildEnrichPrompt(issue model.Issue, query string, suggestions []string, results string) string {
	var sb strings.Builder
	for _, s := range suggestions {
		fmt.Fprintf(&sb, "- %s\n", s)
	}
	return fmt.Sprintf(enrichPromptTpl, issue.Title, query, strings.TrimRight(sb.String(), "\n"), results)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
