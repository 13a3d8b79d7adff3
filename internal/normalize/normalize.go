// Package normalize converts raw connector records into canonical Jobs:
// location standardization, role/level tagging, and the relevance filter
// that decides whether a record enters the pipeline at all.
package normalize

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"go-jobradar/internal/config"
	"go-jobradar/internal/connector"
	"go-jobradar/internal/models"
)

// LocationUnknown is assigned when no location rule matches.
const LocationUnknown = "Unknown"

// LocationCountry marks listings whose source exposes no finer location
// than the country (GradConnection cards carry none). These pass the
// location filter and rely on the level/role checks instead.
const LocationCountry = "Australia"

const summaryMaxRunes = 500

var whitespaceRe = regexp.MustCompile(`\s+`)

// MalformedRecordError marks a raw record that cannot become a Job.
// Always recovered on the spot: the record is dropped and counted.
type MalformedRecordError struct {
	Source string
	Field  string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record from %s: missing %s", e.Source, e.Field)
}

type tagPattern struct {
	tag string
	re  *regexp.Regexp
}

// Normalizer holds the heuristic tables for one run.
type Normalizer struct {
	cfg       *config.Config
	targets   map[string]bool // canonical locations we keep
	levelTags map[string]bool
	roleTags  map[string]bool
	levelPats []tagPattern
	rolePats  []tagPattern
	exclude   *regexp.Regexp // title words that always reject
}

func New(cfg *config.Config) *Normalizer {
	n := &Normalizer{
		cfg:       cfg,
		targets:   make(map[string]bool, len(cfg.Locations)),
		levelTags: make(map[string]bool, len(cfg.LevelRules)),
		roleTags:  make(map[string]bool, len(cfg.RoleRules)),
		levelPats: compileRules(cfg.LevelRules),
		rolePats:  compileRules(cfg.RoleRules),
		exclude:   compilePhrases(cfg.ExcludeTitlePhrases),
	}
	for _, loc := range cfg.Locations {
		n.targets[loc] = true
	}
	for _, r := range cfg.LevelRules {
		n.levelTags[r.Tag] = true
	}
	for _, r := range cfg.RoleRules {
		n.roleTags[r.Tag] = true
	}
	return n
}

// compileRules turns each keyword table into one word-boundary regex, so
// "undergraduate" never matches "graduate".
func compileRules(rules []config.TagRule) []tagPattern {
	out := make([]tagPattern, 0, len(rules))
	for _, r := range rules {
		re := compilePhrases(r.Phrases)
		if re == nil {
			continue
		}
		out = append(out, tagPattern{tag: r.Tag, re: re})
	}
	return out
}

func compilePhrases(phrases []string) *regexp.Regexp {
	parts := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		parts = append(parts, regexp.QuoteMeta(p))
	}
	if len(parts) == 0 {
		return nil
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(parts, "|") + `)\b`)
}

// Normalize converts one raw record into a Job. ok=false means the record
// was rejected by the filtering policy (senior title, off-target location,
// or no level/role keyword matched) or was malformed.
func (n *Normalizer) Normalize(raw connector.RawRecord, source string) (models.Job, bool) {
	title := CleanText(raw["title"])
	if title == "" {
		log.Printf("⚠️ [normalize] %v, skipping", &MalformedRecordError{Source: source, Field: "title"})
		return models.Job{}, false
	}
	if n.exclude != nil && n.exclude.MatchString(Fold(title)) {
		return models.Job{}, false
	}

	summary := capRunes(CleanText(raw["summary"]), summaryMaxRunes)
	location := n.Location(raw["location"])
	tags := n.Tags(title, summary)

	if !n.accept(location, tags) {
		return models.Job{}, false
	}

	return models.Job{
		Source:    source,
		Title:     title,
		Company:   CleanText(raw["company"]),
		Location:  location,
		URL:       strings.TrimSpace(raw["url"]),
		DateFound: time.Now(),
		Summary:   summary,
		Tags:      tags,
		VisaScore: models.VisaScoreUnset,
	}, true
}

// NormalizeAll converts a batch from one source, returning the accepted
// jobs and the rejected count. len(raws) == len(jobs) + rejected always.
func (n *Normalizer) NormalizeAll(raws []connector.RawRecord, source string) ([]models.Job, int) {
	jobs := make([]models.Job, 0, len(raws))
	rejected := 0
	for _, raw := range raws {
		job, ok := n.Normalize(raw, source)
		if !ok {
			rejected++
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, rejected
}

// Location standardizes a free-text location against the ordered rule
// table. First match wins. A bare country name means the source had no
// finer data; anything else unmatched is Unknown.
func (n *Normalizer) Location(raw string) string {
	key := Fold(raw)
	if key == "" {
		return LocationUnknown
	}
	for _, rule := range n.cfg.LocationRules {
		if strings.Contains(key, rule.Match) {
			return rule.Canonical
		}
	}
	if key == "australia" {
		return LocationCountry
	}
	return LocationUnknown
}

// Tags scans title+summary against the level and role keyword tables.
// A job may carry multiple tags.
func (n *Normalizer) Tags(title, summary string) []string {
	combined := Fold(title + " " + summary)
	var tags []string
	for _, p := range n.levelPats {
		if p.re.MatchString(combined) {
			tags = append(tags, p.tag)
		}
	}
	for _, p := range n.rolePats {
		if p.re.MatchString(combined) {
			tags = append(tags, p.tag)
		}
	}
	return tags
}

// accept applies the filtering policy: target location (or country-level
// pass-through) AND at least one level tag AND at least one role tag.
func (n *Normalizer) accept(location string, tags []string) bool {
	if !n.targets[location] && location != LocationCountry {
		return false
	}
	hasLevel, hasRole := false, false
	for _, t := range tags {
		if n.levelTags[t] {
			hasLevel = true
		}
		if n.roleTags[t] {
			hasRole = true
		}
	}
	return hasLevel && hasRole
}

// CleanText collapses whitespace and trims.
func CleanText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// Fold lowercases and strips diacritics so "Melbourne VIC" and source
// strings with decorated characters compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

func capRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
