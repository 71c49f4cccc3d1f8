package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/config"
	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/search/searxng"
	"github.com/iWorld-y/issue_radar/app/issue_radar/pkg/search/tavily"
)

func TestNewSearcher(t *testing.T) {
	tests := []struct {
		name    string
		search  config.SearchConfig
		want    any
		wantErr error
	}{
		{
			name:    "nothing configured",
			wantErr: ErrNotConfigured,
		},
		{
			name:   "tavily inferred from key",
			search: config.SearchConfig{Tavily: config.TavilyConfig{APIKey: "k"}},
			want:   &tavily.Client{},
		},
		{
			name:   "searxng inferred from base url",
			search: config.SearchConfig{SearXNG: config.SearXNGConfig{BaseURL: "http://searx"}},
			want:   &searxng.Client{},
		},
		{
			name:    "tavily selected without key",
			search:  config.SearchConfig{Provider: "tavily"},
			wantErr: ErrNotConfigured,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSearcher(&config.Config{Search: tt.search})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, s)
		})
	}
}

func TestNewSearcher_UnknownProvider(t *testing.T) {
	_, err := NewSearcher(&config.Config{Search: config.SearchConfig{Provider: "bing"}})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotConfigured)
}
