package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChatModel 记录收到的消息并返回固定回复
type fakeChatModel struct {
	got  []*schema.Message
	resp *schema.Message
	err  error
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.got = input
	return f.resp, f.err
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func (f *fakeChatModel) BindTools(tools []*schema.ToolInfo) error {
	return nil
}

func TestClient_Generate(t *testing.T) {
	fake := &fakeChatModel{resp: &schema.Message{Role: schema.Assistant, Content: `{"summary":"ok"}`}}
	c := &Client{chatModel: fake, model: "gemini-2.0-flash"}

	out, err := c.Generate(context.Background(), "only json", "classify this")
	require.NoError(t, err)
	assert.Equal(t, `{"summary":"ok"}`, out)
	assert.Equal(t, "gemini-2.0-flash", c.Model())

	require.Len(t, fake.got, 2)
	assert.Equal(t, schema.System, fake.got[0].Role)
	assert.Equal(t, "only json", fake.got[0].Content)
	assert.Equal(t, schema.User, fake.got[1].Role)
	assert.Equal(t, "classify this", fake.got[1].Content)
}

func TestClient_GenerateWithoutSystem(t *testing.T) {
	fake := &fakeChatModel{resp: &schema.Message{Content: "hi"}}
	c := &Client{chatModel: fake, model: "m"}

	_, err := c.Generate(context.Background(), "", "hello")
	require.NoError(t, err)
	require.Len(t, fake.got, 1)
	assert.Equal(t, schema.User, fake.got[0].Role)
}

func TestClient_GenerateError(t *testing.T) {
	c := &Client{chatModel: &fakeChatModel{err: errors.New("429 too many requests")}, model: "m"}
	_, err := c.Generate(context.Background(), "", "hello")
	assert.EqualError(t, err, "429 too many requests")

	c = &Client{chatModel: &fakeChatModel{}, model: "m"}
	_, err = c.Generate(context.Background(), "", "hello")
	assert.Error(t, err)
}
