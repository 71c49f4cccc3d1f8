// Package llm 抽象生成式语言模型调用，具体实现见 openai、claude 子包。
package llm

import "context"

// Generator 一次性文本生成：system 指令 + 用户 prompt，返回模型原始文本
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
	// Model 返回模型名称，用于通知落款
	Model() string
}
