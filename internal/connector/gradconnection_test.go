package connector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gradConnectionFixture = `<html><body>
<div class="campaign-box">
  <a class="box-header-title" href="/employers/acme/jobs/graduate-software-engineer-1234/">
    <h3>Graduate Software Engineer</h3>
  </a>
  <div class="box-employer-name"><p class="box-header-para">Acme Pty Ltd</p></div>
  <div class="box-description"><p>Kick-start your engineering career with us.</p></div>
</div>
<div class="campaign-box">
  <a class="box-header-title" href="https://au.gradconnection.com/employers/beta/jobs/junior-developer-5678/">
    <h3>Junior Developer</h3>
  </a>
  <div class="box-employer-name"><p class="box-header-para">Beta</p></div>
  <div class="box-description"><p>Entry level backend role.</p></div>
</div>
<div class="campaign-box">
  <a class="box-header-title" href="/employers/no-title/jobs/x/"><h3></h3></a>
</div>
</body></html>`

func TestGradConnectionParse(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(gradConnectionFixture))
	require.NoError(t, err)

	g := NewGradConnection(0)
	records := g.parse(doc)
	require.Len(t, records, 2, "card without a title is dropped")

	first := records[0]
	assert.Equal(t, "Graduate Software Engineer", first["title"])
	assert.Equal(t, "Acme Pty Ltd", first["company"])
	assert.Equal(t, "Australia", first["location"])
	assert.Equal(t, "https://au.gradconnection.com/employers/acme/jobs/graduate-software-engineer-1234/", first["url"])
	assert.Equal(t, "Kick-start your engineering career with us.", first["summary"])

	// absolute hrefs pass through untouched
	assert.Equal(t, "https://au.gradconnection.com/employers/beta/jobs/junior-developer-5678/", records[1]["url"])
}

func TestGradConnectionFetchDeduplicatesAcrossTerms(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// every search term returns the same cards
		fmt.Fprint(w, gradConnectionFixture)
	}))
	defer srv.Close()

	g := NewGradConnection(0)
	g.BaseURL = srv.URL + "/"

	records, err := g.Fetch(context.Background(), FetchOptions{})
	require.NoError(t, err)
	assert.Len(t, records, 2, "same URL from multiple terms appears once")
}

func TestGradConnectionFetchAllTermsFailing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()

	g := NewGradConnection(0)
	g.BaseURL = srv.URL + "/"

	_, err := g.Fetch(context.Background(), FetchOptions{})
	require.Error(t, err)
	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "GradConnection", ferr.Source)
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		base string
		href string
		want string
	}{
		{"https://au.gradconnection.com/jobs/", "/employers/x/", "https://au.gradconnection.com/employers/x/"},
		{"https://au.gradconnection.com/jobs/", "https://other.com/a", "https://other.com/a"},
		{"https://au.jora.com/jobs", "/job/123?sp=serp", "https://au.jora.com/job/123?sp=serp"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, absoluteURL(tt.base, tt.href))
	}
}
