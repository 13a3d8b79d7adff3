package connector

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const joraBaseURL = "https://au.jora.com/jobs"

// joraLocationQueries maps canonical locations to Jora search strings.
var joraLocationQueries = map[string]string{
	"Adelaide":  "Adelaide, SA",
	"Melbourne": "Melbourne, VIC",
	"Remote-AU": "Remote",
}

var joraSearchTerms = []string{
	"junior software engineer",
	"graduate developer",
	"entry level software",
	"associate software engineer",
	"graduate software program",
}

// Jora scrapes the aggregator's clean HTML listings.
//
// Verified page structure:
//
//	cards    div.job-card
//	title    h2.job-title > a.job-link (first/desktop link)
//	company  span.company
//	location span.location
//	summary  div.abstract
type Jora struct {
	RateLimit float64
	BaseURL   string
	client    *http.Client
}

func NewJora(rateLimit float64) *Jora {
	return &Jora{
		RateLimit: rateLimit,
		BaseURL:   joraBaseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (j *Jora) Name() string { return "Jora" }

func (j *Jora) Fetch(ctx context.Context, opts FetchOptions) ([]RawRecord, error) {
	var records []RawRecord
	var lastErr error

	for _, location := range opts.Locations {
		locQuery, ok := joraLocationQueries[location]
		if !ok {
			locQuery = location
		}
		for _, term := range joraSearchTerms {
			batch, err := j.fetchPage(ctx, term, locQuery)
			if err != nil {
				log.Printf("⚠️ [Jora] Error %s/%q: %v", location, term, err)
				lastErr = err
				continue
			}
			log.Printf("  🔍 [Jora] %s / %q → %d jobs", location, term, len(batch))
			records = append(records, batch...)
			sleep(ctx, j.RateLimit)
		}
	}

	if records == nil && lastErr != nil {
		return nil, &FetchError{Source: j.Name(), Err: lastErr}
	}
	return records, nil
}

func (j *Jora) fetchPage(ctx context.Context, term, locQuery string) ([]RawRecord, error) {
	reqURL := j.BaseURL + "?" + url.Values{"q": {term}, "l": {locQuery}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept-Language", "en-AU,en;q=0.9")

	resp, err := j.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return j.parse(doc), nil
}

func (j *Jora) parse(doc *goquery.Document) []RawRecord {
	var records []RawRecord
	doc.Find("div.job-card").Each(func(_ int, card *goquery.Selection) {
		link := card.Find("h2.job-title a.job-link").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		title := strings.TrimSpace(link.Text())
		if title == "" {
			return
		}

		company := strings.TrimSpace(card.Find("span.company").First().Text())
		if company == "" {
			company = strings.TrimSpace(card.Find(`[class*="company"]`).First().Text())
		}
		location := strings.TrimSpace(card.Find("span.location").First().Text())
		if location == "" {
			location = strings.TrimSpace(card.Find(`[class*="location"]`).First().Text())
		}
		summary := strings.TrimSpace(card.Find("div.abstract").First().Text())
		if summary == "" {
			summary = strings.TrimSpace(card.Find(`[class*="abstract"]`).First().Text())
		}

		records = append(records, RawRecord{
			"title":    title,
			"company":  company,
			"location": location,
			"url":      stripQuery(absoluteURL(j.BaseURL, href)),
			"summary":  summary,
		})
	})
	return records
}

// stripQuery drops Jora's per-search tracking query entirely; the path
// alone identifies the posting.
func stripQuery(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i]
	}
	return raw
}
