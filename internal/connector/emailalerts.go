package connector

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var (
	linkedinJobURLRe = regexp.MustCompile(`^https?://www\.linkedin\.com/(comm/)?jobs/view/`)
	seekJobURLRe     = regexp.MustCompile(`^https?://www\.seek\.com\.au/job/`)
)

// EmailAlerts parses saved job-alert emails (.eml) dropped into a
// directory: LinkedIn and Seek digests from user-configured alerts, no
// site login or scraping involved. Files older than the since window are
// skipped; processed files stay in place (the dedupe engine handles
// re-reads).
type EmailAlerts struct {
	Dir string
}

func NewEmailAlerts(dir string) *EmailAlerts {
	return &EmailAlerts{Dir: dir}
}

func (e *EmailAlerts) Name() string { return "EmailAlerts" }

func (e *EmailAlerts) Fetch(ctx context.Context, opts FetchOptions) ([]RawRecord, error) {
	entries, err := os.ReadDir(e.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("⚠️ [EmailAlerts] Alerts dir %s does not exist, skipping", e.Dir)
			return nil, nil
		}
		return nil, &FetchError{Source: e.Name(), Err: err}
	}

	cutoff := time.Now().Add(-opts.Since)
	var records []RawRecord
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".eml") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		if ctx.Err() != nil {
			break
		}
		path := filepath.Join(e.Dir, name)
		info, err := os.Stat(path)
		if err == nil && opts.Since > 0 && info.ModTime().Before(cutoff) {
			continue
		}
		batch, err := e.parseFile(path)
		if err != nil {
			log.Printf("⚠️ [EmailAlerts] Error parsing %s: %v", name, err)
			continue
		}
		log.Printf("  📧 [EmailAlerts] %s → %d jobs", name, len(batch))
		records = append(records, batch...)
	}
	return records, nil
}

func (e *EmailAlerts) parseFile(path string) ([]RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	msg, err := mail.ReadMessage(f)
	if err != nil {
		return nil, fmt.Errorf("read message: %w", err)
	}

	body, err := htmlBody(msg)
	if err != nil {
		return nil, err
	}
	if body == "" {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html body: %w", err)
	}

	// sender decides which link shape we look for
	from := strings.ToLower(msg.Header.Get("From"))
	matcher := seekJobURLRe
	if strings.Contains(from, "linkedin") {
		matcher = linkedinJobURLRe
	}
	return extractJobLinks(doc, matcher), nil
}

// extractJobLinks pulls every anchor pointing at a job page. Alert digests
// carry little structure beyond the link text, so company and location are
// left for the normalizer to reject or the fallback fingerprint to handle.
func extractJobLinks(doc *goquery.Document, matcher *regexp.Regexp) []RawRecord {
	var records []RawRecord
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !matcher.MatchString(href) {
			return
		}
		href = stripQuery(href)
		title := strings.TrimSpace(a.Text())
		if title == "" || seen[href] {
			return
		}
		seen[href] = true

		// digest rows usually put company · location in the enclosing cell
		cellText := strings.TrimSpace(a.Closest("td").Text())
		company, location := splitAlertMeta(cellText, title)

		records = append(records, RawRecord{
			"title":    title,
			"company":  company,
			"location": location,
			"url":      href,
			"summary":  "",
		})
	})
	return records
}

// splitAlertMeta guesses "Company · Location" out of the digest cell text
// surrounding the job link.
func splitAlertMeta(cellText, title string) (company, location string) {
	rest := strings.TrimSpace(strings.TrimPrefix(cellText, title))
	parts := strings.Split(rest, "·")
	if len(parts) >= 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return "", strings.TrimSpace(rest)
}

// htmlBody walks the MIME structure and returns the text/html part,
// decoding quoted-printable transfer encoding.
func htmlBody(msg *mail.Message) (string, error) {
	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	if err != nil {
		mediaType = "text/plain"
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		mr := multipart.NewReader(msg.Body, params["boundary"])
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				return "", nil
			}
			if err != nil {
				return "", err
			}
			partType, _, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
			if partType == "text/html" {
				return decodePart(part, part.Header.Get("Content-Transfer-Encoding"))
			}
		}
	}

	if mediaType == "text/html" {
		return decodePart(msg.Body, msg.Header.Get("Content-Transfer-Encoding"))
	}
	return "", nil
}

func decodePart(r io.Reader, encoding string) (string, error) {
	if strings.EqualFold(encoding, "quoted-printable") {
		r = quotedprintable.NewReader(r)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
