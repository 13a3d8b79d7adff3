package connector

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// integration test: drives a real browser against the live site.
// Needs `playwright install chromium` and the network.
func TestSeekFetchReal(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	s := NewSeek(0)
	records, err := s.Fetch(context.Background(), FetchOptions{
		Locations: []string{"Adelaide"},
		Since:     24 * time.Hour,
	})
	if err != nil {
		t.Skipf("browser unavailable: %v", err)
	}

	for _, rec := range records {
		assert.NotEmpty(t, rec["title"])
		assert.Contains(t, rec["url"], "seek.com.au")
	}
}
