package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/config"
	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/engine"
	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/logger"
)

var (
	cfgFile string
	dryRun  bool
)

var rootCmd = &cobra.Command{
	Use:   "issue_radar",
	Short: "Analyze a newly opened GitHub issue with an LLM and post a summary to Slack",
	Long: `issue_radar reads the issue from ISSUE_* environment variables (or the config file),
asks the language model for a classification, priority, summary and next steps,
optionally refines them with a web search, and posts the result to a Slack webhook.

Example:
  GOOGLE_API_KEY=... SLACK_WEBHOOK_URL=... ISSUE_TITLE="Crash on startup" issue_radar`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "configs/config.yaml", "config file (optional)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the Slack payload instead of sending it")
}

func run(cmd *cobra.Command, _ []string) error {
	// 1. 加载配置
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("无法加载配置文件: %w", err)
	}

	// 2. 初始化日志
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		return fmt.Errorf("无法初始化日志: %w", err)
	}

	issue := cfg.Issue
	logger.Log.Infof("🔍 正在分析 Issue #%s: %s", issue.Number, issue.Title)
	logger.Log.Infof("👤 指派给: %s", issue.Assignee)

	// 3. 初始化引擎
	var opts []engine.Option
	if dryRun {
		opts = append(opts, engine.WithDryRun(cmd.OutOrStdout()))
	}
	e, err := engine.New(cmd.Context(), cfg, opts...)
	if err != nil {
		return err
	}

	// 4. 分析并通知，送达与否都视为正常结束
	e.Run(cmd.Context(), issue)
	logger.Log.Info("✅ 分析完成")
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if errors.Is(err, engine.ErrMissingAPIKey) {
			logger.Log.Error("❌ 未配置 LLM API Key (LLM_API_KEY，或按 provider 设置 GOOGLE_API_KEY / OPENAI_API_KEY / ANTHROPIC_API_KEY)")
		} else {
			logger.Log.Errorf("运行失败: %v", err)
		}
		os.Exit(1)
	}
}
