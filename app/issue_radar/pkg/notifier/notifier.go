// Package notifier 把分析结果格式化为 Slack Block Kit 消息并通过 Incoming Webhook 发送。
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"

	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/logger"
	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/model"
)

// Notifier Slack 通知发送器
type Notifier struct {
	webhookURL string
	mentions   MentionTable
	httpClient *http.Client
	dryRun     io.Writer
}

// Option Notifier 可选项
type Option func(*Notifier)

// WithHTTPClient 自定义 HTTP 客户端
func WithHTTPClient(c *http.Client) Option {
	return func(n *Notifier) {
		if c != nil {
			n.httpClient = c
		}
	}
}

// WithTimeout 设置发送超时
func WithTimeout(d time.Duration) Option {
	return func(n *Notifier) {
		if d > 0 {
			n.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithDryRun 只把消息 JSON 写到 w，不发送
func WithDryRun(w io.Writer) Option {
	return func(n *Notifier) {
		n.dryRun = w
	}
}

// New 创建 Notifier；webhookURL 为空时 Notify 只记录日志并返回 false
func New(webhookURL string, mentions MentionTable, opts ...Option) *Notifier {
	if mentions == nil {
		mentions = MentionTable{}
	}
	n := &Notifier{
		webhookURL: webhookURL,
		mentions:   mentions,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify 发送通知，返回是否送达；任何失败都只记录日志
func (n *Notifier) Notify(ctx context.Context, issue model.Issue, result *model.AnalysisResult, modelName string) bool {
	log := logger.Log.WithFields(logrus.Fields{"issue": issue.Number})
	if result == nil {
		log.Error("分析结果为空，跳过通知")
		return false
	}

	msg := n.BuildMessage(issue, result, modelName)

	if n.dryRun != nil {
		if err := writePayload(n.dryRun, msg); err != nil {
			log.Errorf("输出消息失败: %v", err)
		}
		log.Info("dry-run 模式，未发送 Slack 消息")
		return false
	}

	if n.webhookURL == "" {
		log.Warn("未配置 SLACK_WEBHOOK_URL，跳过通知")
		return false
	}

	if err := slack.PostWebhookCustomHTTPContext(ctx, n.webhookURL, n.httpClient, msg); err != nil {
		log.Errorf("Slack 通知发送失败: %v", err)
		return false
	}
	log.Info("Slack 通知已发送")
	return true
}

func writePayload(w io.Writer, msg *slack.WebhookMessage) error {
	data, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal webhook message: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
