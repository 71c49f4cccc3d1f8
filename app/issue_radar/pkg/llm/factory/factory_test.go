package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/config"
	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/llm/claude"
)

func TestNewGenerator_Anthropic(t *testing.T) {
	gen, err := NewGenerator(context.Background(), config.LLMConfig{
		Provider: "anthropic",
		APIKey:   "k",
		Model:    "claude-3-5-haiku-latest",
	})
	require.NoError(t, err)
	assert.IsType(t, &claude.Client{}, gen)
	assert.Equal(t, "claude-3-5-haiku-latest", gen.Model())
}

func TestNewGenerator_Unknown(t *testing.T) {
	gen, err := NewGenerator(context.Background(), config.LLMConfig{Provider: "palm"})
	assert.Error(t, err)
	assert.Nil(t, gen)
}
