package connector

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/playwright-community/playwright-go"
)

const seekBaseURL = "https://www.seek.com.au"

var seekLocationQueries = map[string]string{
	"Adelaide":  "All Adelaide SA",
	"Melbourne": "All Melbourne VIC",
	"Remote-AU": "Work from home",
}

var seekSearchTerms = []string{
	"junior software engineer",
	"graduate developer",
	"entry level software developer",
	"associate software engineer",
	"graduate software program",
}

// Seek drives a headless browser against the Seek search pages, which are
// rendered client-side and sit behind bot protection that plain HTTP
// fetches trip over. Requires `playwright install chromium` once.
type Seek struct {
	RateLimit float64
}

func NewSeek(rateLimit float64) *Seek {
	return &Seek{RateLimit: rateLimit}
}

func (s *Seek) Name() string { return "Seek" }

func (s *Seek) Fetch(ctx context.Context, opts FetchOptions) ([]RawRecord, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, &FetchError{Source: s.Name(), Err: fmt.Errorf("launch playwright: %w", err)}
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		return nil, &FetchError{Source: s.Name(), Err: fmt.Errorf("launch browser: %w", err)}
	}
	defer browser.Close()

	page, err := browser.NewPage(playwright.BrowserNewPageOptions{
		UserAgent: playwright.String(browserUserAgent),
	})
	if err != nil {
		return nil, &FetchError{Source: s.Name(), Err: fmt.Errorf("new page: %w", err)}
	}

	var records []RawRecord
	for _, location := range opts.Locations {
		where, ok := seekLocationQueries[location]
		if !ok {
			where = location
		}
		for _, term := range seekSearchTerms {
			if ctx.Err() != nil {
				return records, nil
			}
			batch := s.scrapeSearch(page, term, where)
			log.Printf("  🔍 [Seek] %s / %q → %d jobs", location, term, len(batch))
			records = append(records, batch...)
			sleep(ctx, s.RateLimit)
		}
	}
	return records, nil
}

func (s *Seek) scrapeSearch(page playwright.Page, term, where string) []RawRecord {
	reqURL := seekBaseURL + "/jobs?" + url.Values{
		"keywords": {term},
		"where":    {where},
		"sortmode": {"ListedDate"},
	}.Encode()

	if _, err := page.Goto(reqURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		log.Printf("⚠️ [Seek] Error navigating to %s: %v", reqURL, err)
		return nil
	}

	// bot-protection check
	if title, _ := page.Title(); strings.Contains(title, "Just a moment") ||
		strings.Contains(title, "Attention Required") ||
		strings.Contains(title, "Access Denied") {
		log.Println("🛡️ [Seek] Bot challenge detected. Skipping this search...")
		return nil
	}

	cards, err := page.Locator(`article[data-card-type="JobCard"]`).All()
	if err != nil || len(cards) == 0 {
		return nil
	}

	var records []RawRecord
	for i, card := range cards {
		// first page of results is plenty for a daily run
		if i >= 25 {
			break
		}
		titleEl := card.Locator(`a[data-automation="jobTitle"]`).First()
		title, _ := titleEl.TextContent()
		href, _ := titleEl.GetAttribute("href")
		title = strings.TrimSpace(title)
		if title == "" || href == "" {
			continue
		}

		company, _ := card.Locator(`a[data-automation="jobCompany"]`).First().TextContent()
		location, _ := card.Locator(`a[data-automation="jobLocation"]`).First().TextContent()
		summary, _ := card.Locator(`span[data-automation="jobShortDescription"]`).First().TextContent()

		records = append(records, RawRecord{
			"title":    title,
			"company":  strings.TrimSpace(company),
			"location": strings.TrimSpace(location),
			"url":      stripQuery(absoluteURL(seekBaseURL+"/", href)),
			"summary":  strings.TrimSpace(summary),
		})
	}
	return records
}
