package connector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adzunaFixture = `{
  "results": [
    {
      "title": "Graduate Software Engineer",
      "description": "Join our graduate program. Visa sponsorship available.",
      "company": {"display_name": "Acme Pty Ltd"},
      "location": {"display_name": "Adelaide, SA"},
      "redirect_url": "https://www.adzuna.com.au/land/ad/123",
      "created": "2026-08-25T10:00:00Z"
    },
    {
      "title": "Junior Developer",
      "description": "Entry level role.",
      "company": {"display_name": "Beta"},
      "location": {"display_name": "Melbourne, VIC"},
      "redirect_url": "https://www.adzuna.com.au/land/ad/456",
      "created": "2026-08-25T11:00:00Z"
    }
  ]
}`

func TestAdzunaFetch(t *testing.T) {
	var gotParams []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotParams = append(gotParams, r.URL.RawQuery)
		fmt.Fprint(w, adzunaFixture)
	}))
	defer srv.Close()

	a := NewAdzuna("test-id", "test-key", 0)
	a.BaseURL = srv.URL

	records, err := a.Fetch(context.Background(), FetchOptions{
		Locations: []string{"Adelaide"},
		Since:     24 * time.Hour,
	})
	require.NoError(t, err)
	// fixture returns 2 results (< page size) per term, so one page per term
	assert.Equal(t, len(adzunaSearchTerms)*2, len(records))

	first := records[0]
	assert.Equal(t, "Graduate Software Engineer", first["title"])
	assert.Equal(t, "Acme Pty Ltd", first["company"])
	assert.Equal(t, "Adelaide, SA", first["location"])
	assert.Equal(t, "https://www.adzuna.com.au/land/ad/123", first["url"])

	require.NotEmpty(t, gotParams)
	assert.Contains(t, gotParams[0], "app_id=test-id")
	assert.Contains(t, gotParams[0], "max_days_old=1")
	assert.Contains(t, gotParams[0], "where=Adelaide")
}

func TestAdzunaFetchWithoutCredentials(t *testing.T) {
	a := NewAdzuna("", "", 0)
	records, err := a.Fetch(context.Background(), FetchOptions{Locations: []string{"Adelaide"}})
	assert.NoError(t, err)
	assert.Nil(t, records, "missing creds skips the source, not the run")
}

func TestAdzunaFetchAllQueriesFailing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	a := NewAdzuna("test-id", "test-key", 0)
	a.BaseURL = srv.URL

	_, err := a.Fetch(context.Background(), FetchOptions{
		Locations: []string{"Adelaide"},
		Since:     24 * time.Hour,
	})
	require.Error(t, err)
	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "Adzuna", ferr.Source)
}

func TestAdzunaSinceMapsToMaxDaysOld(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("max_days_old")
		fmt.Fprint(w, `{"results": []}`)
	}))
	defer srv.Close()

	a := NewAdzuna("id", "key", 0)
	a.BaseURL = srv.URL

	_, err := a.Fetch(context.Background(), FetchOptions{
		Locations: []string{"Adelaide"},
		Since:     7 * 24 * time.Hour,
	})
	require.NoError(t, err)
	assert.Equal(t, "7", got)
}
