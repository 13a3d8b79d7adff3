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

const gradConnectionBaseURL = "https://au.gradconnection.com/jobs/"

// Verified card structure:
//
//	container  div.campaign-box
//	title/url  a.box-header-title (href + h3 text)
//	company    div.box-employer-name p.box-header-para
//	summary    div.box-description p
//
// Cards carry no location data (the box-demographics div is empty), so
// listings are marked "Australia" and rely on downstream filtering.
var gradConnectionSearchTerms = []string{
	"software",
	"technology graduate",
	"junior developer",
}

// GradConnection scrapes the server-rendered listing cards. The site's
// location/discipline URL params are JavaScript-driven and ignored by the
// server, so we take what is visible per search term.
type GradConnection struct {
	RateLimit float64
	BaseURL   string
	client    *http.Client
}

func NewGradConnection(rateLimit float64) *GradConnection {
	return &GradConnection{
		RateLimit: rateLimit,
		BaseURL:   gradConnectionBaseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *GradConnection) Name() string { return "GradConnection" }

func (g *GradConnection) Fetch(ctx context.Context, opts FetchOptions) ([]RawRecord, error) {
	var records []RawRecord
	seen := make(map[string]bool)
	var lastErr error

	for _, term := range gradConnectionSearchTerms {
		batch, err := g.fetchTerm(ctx, term)
		if err != nil {
			log.Printf("⚠️ [GradConnection] Error fetching %q: %v", term, err)
			lastErr = err
			continue
		}
		for _, rec := range batch {
			if seen[rec["url"]] {
				continue
			}
			seen[rec["url"]] = true
			records = append(records, rec)
		}
		log.Printf("  🔍 [GradConnection] %q → %d parsed, %d unique so far", term, len(batch), len(records))
		sleep(ctx, g.RateLimit)
	}

	if records == nil && lastErr != nil {
		return nil, &FetchError{Source: g.Name(), Err: lastErr}
	}
	return records, nil
}

func (g *GradConnection) fetchTerm(ctx context.Context, term string) ([]RawRecord, error) {
	reqURL := g.BaseURL + "?" + url.Values{"keyword": {term}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept-Language", "en-AU,en;q=0.9")

	resp, err := g.client.Do(req)
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
	return g.parse(doc), nil
}

func (g *GradConnection) parse(doc *goquery.Document) []RawRecord {
	var records []RawRecord
	doc.Find("div.campaign-box").Each(func(_ int, card *goquery.Selection) {
		link := card.Find("a.box-header-title").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		title := strings.TrimSpace(link.Find("h3").Text())
		if title == "" {
			title = strings.TrimSpace(link.Text())
		}
		if title == "" {
			return
		}

		records = append(records, RawRecord{
			"title":    title,
			"company":  strings.TrimSpace(card.Find("div.box-employer-name p.box-header-para").First().Text()),
			"location": "Australia", // not exposed at card level
			"url":      absoluteURL(g.BaseURL, href),
			"summary":  strings.TrimSpace(card.Find("div.box-description p").First().Text()),
		})
	})
	return records
}

// absoluteURL resolves a possibly relative href against the listing page.
func absoluteURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}

const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
