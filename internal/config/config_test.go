package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSince(t *testing.T) {
	tests := []struct {
		window  string
		want    time.Duration
		wantErr bool
	}{
		{"", 24 * time.Hour, false},
		{"24h", 24 * time.Hour, false},
		{"90m", 90 * time.Minute, false},
		{"7d", 7 * 24 * time.Hour, false},
		{"1d", 24 * time.Hour, false},
		{"yesterday", 0, true},
		{"xd", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.window, func(t *testing.T) {
			c := &Config{SinceWindow: tt.window}
			got, err := c.Since()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSignalUnmarshalYAML(t *testing.T) {
	var signals VisaSignals
	doc := `
negative:
  - "citizens only"
  - phrase: baseline clearance
    label: Baseline clearance required
positive:
  - phrase: sponsorship available
`
	require.NoError(t, yaml.Unmarshal([]byte(doc), &signals))

	require.Len(t, signals.Negative, 2)
	assert.Equal(t, Signal{Phrase: "citizens only", Label: "citizens only"}, signals.Negative[0])
	assert.Equal(t, Signal{Phrase: "baseline clearance", Label: "Baseline clearance required"}, signals.Negative[1])

	require.Len(t, signals.Positive, 1)
	assert.Equal(t, "sponsorship available", signals.Positive[0].Label, "label defaults to phrase")
}

func TestSourceDefaults(t *testing.T) {
	c := Defaults()

	sc := c.Source("gradconnection")
	assert.True(t, sc.Enabled)
	assert.Equal(t, 2.0, sc.RateLimitSeconds)

	unknown := c.Source("nonexistent")
	assert.False(t, unknown.Enabled)
	assert.Equal(t, 2.0, unknown.RateLimitSeconds)
}

func TestValidateStateBackend(t *testing.T) {
	c := Defaults()
	c.StateBackend = "postgres"
	assert.Error(t, c.validate(), "postgres backend needs DATABASE_URL")

	c.DatabaseURL = "postgres://localhost/jobs"
	assert.NoError(t, c.validate())

	c.StateBackend = "cassandra"
	assert.Error(t, c.validate())
}

func TestDefaultsAreValid(t *testing.T) {
	c := Defaults()
	assert.NoError(t, c.validate())
	assert.NotEmpty(t, c.Locations)
	assert.NotEmpty(t, c.LocationRules)
	assert.NotEmpty(t, c.Visa.Negative)
	assert.NotEmpty(t, c.ExcludeTitlePhrases)
	assert.NotEmpty(t, c.SourcePriority)
}
