package email

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobradar/internal/config"
	"go-jobradar/internal/models"
)

func TestConfigured(t *testing.T) {
	s := NewSender(&config.Config{})
	assert.False(t, s.Configured())

	s = NewSender(&config.Config{EmailAddress: "me@example.com", EmailPassword: "app-pass"})
	assert.True(t, s.Configured())
}

func TestBuildHTMLBody(t *testing.T) {
	runDate := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	jobs := []models.Job{
		{
			Source:     "GradConnection",
			Title:      "Graduate Software Engineer <Platform>",
			Company:    "Acme Pty Ltd",
			Location:   "Adelaide",
			URL:        "https://example.com/jobs/1",
			DateFound:  runDate,
			Tags:       []string{"Graduate", "SWE"},
			VisaScore:  5,
			VisaReason: "[+] Visa sponsorship available",
		},
		{
			Source:    "Adzuna",
			Title:     "Junior Developer",
			Location:  "Melbourne",
			URL:       "https://example.com/jobs/2",
			DateFound: runDate,
			VisaScore: models.VisaScoreUnset,
		},
	}

	body, err := buildHTMLBody(jobs, runDate)
	require.NoError(t, err)

	assert.Contains(t, body, "2 new listings")
	assert.Contains(t, body, "Graduate Software Engineer &lt;Platform&gt;", "titles are escaped")
	assert.Contains(t, body, `href="https://example.com/jobs/1"`)
	assert.Contains(t, body, "color:green")
	assert.Contains(t, body, "Graduate, SWE")
	assert.Contains(t, body, "–", "unscored jobs show a dash")
}

func TestScoreColor(t *testing.T) {
	assert.Equal(t, "green", scoreColor(5))
	assert.Equal(t, "green", scoreColor(4))
	assert.Equal(t, "gray", scoreColor(3))
	assert.Equal(t, "gray", scoreColor(2))
	assert.Equal(t, "red", scoreColor(1))
	assert.Equal(t, "red", scoreColor(0))
	assert.Equal(t, "gray", scoreColor(models.VisaScoreUnset))
}
