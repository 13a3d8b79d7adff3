package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "lowercases scheme and host",
			raw:  "HTTPS://Example.COM/jobs/123",
			want: "https://example.com/jobs/123",
		},
		{
			name: "strips utm and tracking params",
			raw:  "https://example.com/jobs/123?utm_source=newsletter&utm_medium=email&ref=homepage",
			want: "https://example.com/jobs/123",
		},
		{
			name: "keeps meaningful params",
			raw:  "https://example.com/jobs?id=123&utm_campaign=x",
			want: "https://example.com/jobs?id=123",
		},
		{
			name: "drops fragment and trailing slash",
			raw:  "https://example.com/jobs/123/#apply",
			want: "https://example.com/jobs/123",
		},
		{
			name: "empty input",
			raw:  "",
			want: "",
		},
		{
			name: "relative url is unusable",
			raw:  "/jobs/123",
			want: "",
		},
		{
			name: "garbage is unusable",
			raw:  "://not a url",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalURL(tt.raw))
		})
	}
}

func TestCanonicalURLStableAcrossTrackingVariants(t *testing.T) {
	a := CanonicalURL("https://Example.com/jobs/99?utm_source=a&fbclid=xyz")
	b := CanonicalURL("https://example.com/jobs/99/")
	assert.Equal(t, a, b, "tracking noise must not change identity")
}

func TestFingerprintPrefersURL(t *testing.T) {
	withURL := Fingerprint("Graduate Engineer", "Acme", "Adelaide", "https://example.com/jobs/1")
	sameURLOtherFields := Fingerprint("Totally Different", "Other Co", "Melbourne", "https://example.com/jobs/1?utm_source=x")
	assert.Equal(t, withURL, sameURLOtherFields)
}

func TestFingerprintFallback(t *testing.T) {
	a := Fingerprint("Junior Engineer — Backend", "Acme Pty. Ltd.", "Adelaide", "")
	b := Fingerprint("junior engineer backend", "acme pty ltd", "ADELAIDE", "not-a-url")
	assert.Equal(t, a, b, "fallback key normalizes punctuation and case")

	c := Fingerprint("Junior Engineer — Backend", "Different Co", "Adelaide", "")
	assert.NotEqual(t, a, c)
}

func TestFingerprintIdempotent(t *testing.T) {
	first := Fingerprint("Graduate Developer", "Acme", "Melbourne", "https://example.com/j/5")
	second := Fingerprint("Graduate Developer", "Acme", "Melbourne", "https://example.com/j/5")
	assert.Equal(t, first, second)
	assert.Len(t, first, 32) // md5 hex
}

func TestNormKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Junior Engineer — Acme Pty Ltd.", "junior engineer acme pty ltd"},
		{"  spaced   out  ", "spaced out"},
		{"C++ Developer", "c developer"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normKey(tt.in))
	}
}
