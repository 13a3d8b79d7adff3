package connector

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const joraFixture = `<html><body>
<div class="job-card">
  <h2 class="job-title"><a class="job-link" href="/job/graduate-engineer-abc123?sp=serp&sponsored=true">Graduate Engineer</a></h2>
  <span class="company">Acme Pty Ltd</span>
  <span class="location">Adelaide SA</span>
  <div class="abstract">Work on real systems from day one.</div>
</div>
<div class="job-card">
  <h2 class="job-title"><a class="job-link" href="/job/junior-dev-def456">Junior Developer</a></h2>
  <span class="result-company">Beta</span>
  <span class="job-location">Melbourne VIC</span>
  <div class="job-abstract">Entry level position.</div>
</div>
</body></html>`

func TestJoraParse(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(joraFixture))
	require.NoError(t, err)

	j := NewJora(0)
	records := j.parse(doc)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "Graduate Engineer", first["title"])
	assert.Equal(t, "Acme Pty Ltd", first["company"])
	assert.Equal(t, "Adelaide SA", first["location"])
	assert.Equal(t, "https://au.jora.com/job/graduate-engineer-abc123", first["url"], "search tracking query is dropped")
	assert.Equal(t, "Work on real systems from day one.", first["summary"])

	// fallback selectors cover renamed classes
	second := records[1]
	assert.Equal(t, "Beta", second["company"])
	assert.Equal(t, "Melbourne VIC", second["location"])
	assert.Equal(t, "Entry level position.", second["summary"])
}

func TestStripQuery(t *testing.T) {
	assert.Equal(t, "https://au.jora.com/job/1", stripQuery("https://au.jora.com/job/1?sp=serp"))
	assert.Equal(t, "https://au.jora.com/job/1", stripQuery("https://au.jora.com/job/1"))
	assert.Equal(t, "", stripQuery("?only=query"))
}
