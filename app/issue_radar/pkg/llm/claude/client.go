package claude

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/llm"
)

const maxTokens = 1024

var errAPIKeyRequired = errors.New("anthropic api key required")

// Client Anthropic Messages API 客户端
type Client struct {
	client anthropic.Client
	model  string
}

var _ llm.Generator = (*Client)(nil)

// NewClient 创建客户端；SDK 自带重试被关闭，每次调用只请求一次
func NewClient(apiKey, modelName string, opts ...option.RequestOption) (*Client, error) {
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	reqOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)

	return &Client{
		client: anthropic.NewClient(reqOpts...),
		model:  modelName,
	}, nil
}

// Generate implements llm.Generator
func (c *Client) Generate(ctx context.Context, system, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("unexpected response format: no text block")
}

// Model implements llm.Generator
func (c *Client) Model() string {
	return c.model
}
