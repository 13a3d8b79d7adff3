// Package dedup computes stable identities for job listings and filters
// duplicates within a run and across runs against a persistent store.
package dedup

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"
)

// tracking-only query params, stripped before hashing
var trackingParams = map[string]bool{
	"gclid":  true,
	"fbclid": true,
	"msclkid": true,
	"ref":    true,
	"source": true,
	"trk":    true,
	"cid":    true,
	"mc_cid": true,
	"mc_eid": true,
}

// CanonicalURL normalizes a listing URL: lowercase scheme/host, tracking
// params stripped, fragment dropped, trailing slash trimmed. Returns ""
// for anything unparseable.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for key := range q {
		if trackingParams[key] || strings.HasPrefix(key, "utm_") {
			q.Del(key)
		}
	}
	u.RawQuery = q.Encode()
	u.Path = strings.TrimSuffix(u.Path, "/")

	return u.String()
}

// Fingerprint computes the job's hash_id from the canonical URL, falling
// back to normalized title|company|location when the URL is unusable.
func Fingerprint(title, company, location, rawURL string) string {
	if cu := CanonicalURL(rawURL); cu != "" {
		return hashKey(cu)
	}
	return hashKey(normKey(title) + "|" + normKey(company) + "|" + normKey(location))
}

func hashKey(key string) string {
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

// normKey lowercases, strips punctuation, and collapses whitespace.
func normKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prevSpace := true
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			prevSpace = false
		} else if !prevSpace {
			b.WriteByte(' ')
			prevSpace = true
		}
	}
	return strings.TrimRight(b.String(), " ")
}
