package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validProjects = `
users:
  - login: jdoe
    displayName: John Doe
    platformId: U123
projects:
  website:
    channels: ["#bugs"]
    webhookUrl: https://hooks.example.com/T000/B000
    postUpdates: true
    newIncludeDescription: true
  internal-tools:
    channels: []
`

func TestParseProjects(t *testing.T) {
	p, err := ParseProjects([]byte(validProjects))
	require.NoError(t, err)

	cfg, ok := p.Get("website")
	require.True(t, ok)
	assert.Equal(t, []string{"#bugs"}, cfg.Channels)
	assert.True(t, cfg.PostUpdates)
	assert.False(t, cfg.PostPrivateIssues)

	// No webhook configured is valid: those projects are suppressed.
	cfg, ok = p.Get("internal-tools")
	require.True(t, ok)
	assert.Empty(t, cfg.WebhookURL)

	_, ok = p.Get("unknown")
	assert.False(t, ok)

	require.Len(t, p.Users, 1)
	assert.Equal(t, "U123", p.Users[0].PlatformID)
}

func TestParseProjectsErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name: "bad webhook scheme",
			content: `
projects:
  website:
    webhookUrl: ftp://hooks.example.com/x
`,
			errMsg: "must use http or https",
		},
		{
			name: "webhook without host",
			content: `
projects:
  website:
    webhookUrl: "http://"
`,
			errMsg: "must include a host",
		},
		{
			name: "directory user without login",
			content: `
users:
  - displayName: Ghost
projects: {}
`,
			errMsg: "has no login",
		},
		{
			name: "unknown field rejected",
			content: `
projects:
  website:
    chanels: ["#typo"]
`,
			errMsg: "parse projects file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProjects([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("MESSENGER_LISTEN_ADDR", ":9999")
	t.Setenv("MESSENGER_DEFAULT_LANGUAGE", "de")
	t.Setenv("MESSENGER_RATE_LIMIT_PER_MINUTE", "5")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, "de", cfg.DefaultLanguage)
	assert.Equal(t, 5, cfg.RateLimitPerMinute)
	// Defaults still apply for unset keys.
	assert.Equal(t, 10, cfg.WebhookTimeoutSeconds)
}
