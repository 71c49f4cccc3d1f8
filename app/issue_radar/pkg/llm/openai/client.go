package openai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/llm"
)

// Client 基于 eino ChatModel 的 OpenAI 兼容客户端（OpenAI、Gemini 等）
type Client struct {
	chatModel model.ChatModel
	model     string
}

var _ llm.Generator = (*Client)(nil)

// NewClient 创建客户端
func NewClient(ctx context.Context, baseURL, apiKey, modelName string) (*Client, error) {
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   modelName,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return &Client{chatModel: chatModel, model: modelName}, nil
}

// Generate implements llm.Generator
func (c *Client) Generate(ctx context.Context, system, prompt string) (string, error) {
	var messages []*schema.Message
	if system != "" {
		messages = append(messages, &schema.Message{Role: schema.System, Content: system})
	}
	messages = append(messages, &schema.Message{Role: schema.User, Content: prompt})

	resp, err := c.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", fmt.Errorf("empty response from %s", c.model)
	}
	return resp.Content, nil
}

// Model implements llm.Generator
func (c *Client) Model() string {
	return c.model
}
