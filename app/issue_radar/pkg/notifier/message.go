package notifier

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/model"
)

var classificationEmoji = map[string]string{
	model.ClassificationBug:           ":bug:",
	model.ClassificationFeature:       ":sparkles:",
	model.ClassificationEnhancement:   ":zap:",
	model.ClassificationQuestion:      ":question:",
	model.ClassificationDocumentation: ":books:",
	model.ClassificationOther:         ":memo:",
}

var priorityEmoji = map[string]string{
	model.PriorityCritical: ":red_circle:",
	model.PriorityHigh:     ":large_orange_circle:",
	model.PriorityMedium:   ":large_yellow_circle:",
	model.PriorityLow:      ":white_circle:",
}

const (
	defaultClassificationEmoji = ":memo:"
	defaultPriorityEmoji       = ":white_circle:"

	researchNote = "🔍 _Web research was used to complement the analysis_"
)

var mrkdwnEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func emojiFor(table map[string]string, key, fallback string) string {
	if e, ok := table[strings.ToLower(key)]; ok {
		return e
	}
	return fallback
}

func mrkdwn(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, text, false, false)
}

// titleLine Issue 标题，有 URL 时渲染为链接
func titleLine(issue model.Issue) string {
	title := mrkdwnEscaper.Replace(strings.TrimSpace(issue.Title))
	if issue.URL == "" {
		return "*Title:*\n" + title
	}
	return fmt.Sprintf("*Title:*\n<%s|%s>", issue.URL, strings.ReplaceAll(title, "|", "¦"))
}

func bulletList(items []string) string {
	lines := make([]string, 0, len(items))
	for _, s := range items {
		lines = append(lines, "• "+mrkdwnEscaper.Replace(s))
	}
	return strings.Join(lines, "\n")
}

// BuildMessage 根据 Issue 和分析结果构造固定结构的 Block Kit 消息
func (n *Notifier) BuildMessage(issue model.Issue, result *model.AnalysisResult, modelName string) *slack.WebhookMessage {
	header := fmt.Sprintf("📋 New Issue #%s", issue.Number)

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, header, true, false)),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			mrkdwn("*Repository:*\n" + issue.Repository),
			mrkdwn("*Assigned to:*\n" + n.mentions.Resolve(issue.Assignee)),
		}, nil),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			mrkdwn(fmt.Sprintf("*Type:*\n%s %s",
				emojiFor(classificationEmoji, result.Classification, defaultClassificationEmoji), result.Classification)),
			mrkdwn(fmt.Sprintf("*Priority:*\n%s %s",
				emojiFor(priorityEmoji, result.Priority, defaultPriorityEmoji), result.Priority)),
		}, nil),
		slack.NewSectionBlock(mrkdwn(titleLine(issue)), nil, nil),
		slack.NewSectionBlock(mrkdwn("*📝 AI Summary:*\n"+mrkdwnEscaper.Replace(result.Summary)), nil, nil),
		slack.NewSectionBlock(mrkdwn("*💡 Suggestions:*\n"+bulletList(result.Suggestions)), nil, nil),
		slack.NewDividerBlock(),
	}

	if result.Researched() {
		blocks = append(blocks, slack.NewContextBlock("", mrkdwn(researchNote)))
	}
	blocks = append(blocks, slack.NewContextBlock("",
		mrkdwn(fmt.Sprintf("Opened by: %s | Analyzed by: %s", issue.Author, modelName))))

	return &slack.WebhookMessage{
		Text:   fmt.Sprintf("New issue #%s: %s", issue.Number, issue.Title),
		Blocks: &slack.Blocks{BlockSet: blocks},
	}
}
