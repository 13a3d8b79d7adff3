package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	adzunaBaseURL  = "https://api.adzuna.com/v1/api/jobs/au/search"
	adzunaPageSize = 20
	adzunaMaxPages = 2
)

// adzunaSearchTerms are the queries run per target location. Adzuna
// aggregates Indeed, Jora and ~50 other boards via its free API, which
// sidesteps the scraping blocks on those sites.
var adzunaSearchTerms = []string{
	"junior software engineer",
	"graduate developer",
	"associate software engineer",
	"entry level software developer",
	"graduate technology program",
	"junior developer",
}

// Adzuna fetches listings from the Adzuna public API. With missing
// credentials Fetch returns (nil, nil) and the pipeline simply gets
// nothing from this source.
type Adzuna struct {
	AppID     string
	AppKey    string
	RateLimit float64 // seconds between requests
	BaseURL   string  // overridden in tests
	client    *http.Client
}

func NewAdzuna(appID, appKey string, rateLimit float64) *Adzuna {
	return &Adzuna{
		AppID:     appID,
		AppKey:    appKey,
		RateLimit: rateLimit,
		BaseURL:   adzunaBaseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (a *Adzuna) Name() string { return "Adzuna" }

type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
}

type adzunaResult struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Company     adzunaCompany  `json:"company"`
	Location    adzunaLocation `json:"location"`
	RedirectURL string         `json:"redirect_url"`
	Created     string         `json:"created"`
}

type adzunaCompany struct {
	DisplayName string `json:"display_name"`
}

type adzunaLocation struct {
	DisplayName string `json:"display_name"`
}

func (a *Adzuna) Fetch(ctx context.Context, opts FetchOptions) ([]RawRecord, error) {
	if a.AppID == "" || a.AppKey == "" {
		log.Println("⚠️ [Adzuna] ADZUNA_APP_ID / ADZUNA_APP_KEY not set, skipping")
		return nil, nil
	}

	maxDaysOld := int(math.Ceil(opts.Since.Hours() / 24))
	if maxDaysOld < 1 {
		maxDaysOld = 1
	}

	var records []RawRecord
	var lastErr error
	for _, location := range opts.Locations {
		for _, term := range adzunaSearchTerms {
			batch, err := a.search(ctx, term, location, maxDaysOld)
			if err != nil {
				log.Printf("⚠️ [Adzuna] Error %s/%q: %v", location, term, err)
				lastErr = err
				continue
			}
			log.Printf("  🔍 [Adzuna] %s / %q → %d jobs", location, term, len(batch))
			records = append(records, batch...)
			sleep(ctx, a.RateLimit)
		}
	}

	// every single query failed: treat as a source-level fetch error
	if records == nil && lastErr != nil {
		return nil, &FetchError{Source: a.Name(), Err: lastErr}
	}
	return records, nil
}

func (a *Adzuna) search(ctx context.Context, term, location string, maxDaysOld int) ([]RawRecord, error) {
	var records []RawRecord
	for page := 1; page <= adzunaMaxPages; page++ {
		batch, err := a.searchPage(ctx, term, location, maxDaysOld, page)
		if err != nil {
			return records, fmt.Errorf("page %d: %w", page, err)
		}
		records = append(records, batch...)
		if len(batch) < adzunaPageSize {
			break // no more results
		}
	}
	return records, nil
}

func (a *Adzuna) searchPage(ctx context.Context, term, location string, maxDaysOld, page int) ([]RawRecord, error) {
	params := url.Values{
		"app_id":           {a.AppID},
		"app_key":          {a.AppKey},
		"what":             {term},
		"where":            {location},
		"results_per_page": {strconv.Itoa(adzunaPageSize)},
		"sort_by":          {"date"},
		"max_days_old":     {strconv.Itoa(maxDaysOld)},
		"content-type":     {"application/json"},
	}
	reqURL := fmt.Sprintf("%s/%d?%s", a.BaseURL, page, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}

	var parsed adzunaResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	records := make([]RawRecord, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		records = append(records, RawRecord{
			"title":    r.Title,
			"company":  r.Company.DisplayName,
			"location": r.Location.DisplayName,
			"url":      r.RedirectURL,
			"summary":  r.Description,
			"created":  r.Created,
		})
	}
	return records, nil
}
