package model

import (
	"net/http"
	"testing"
	"time"
)

func TestFingerprint_Deterministic(t *testing.T) {
	content := "Remote backend engineer, EU ok"
	first := Fingerprint(content)
	for i := 0; i < 5; i++ {
		if got := Fingerprint(content); got != first {
			t.Fatalf("Fingerprint call %d = %q, want %q", i, got, first)
		}
	}
	if len(first) != 32 {
		t.Errorf("len(Fingerprint) = %d, want 32 hex chars", len(first))
	}
}

func TestFingerprint_KnownDigest(t *testing.T) {
	// md5("hello")
	if got := Fingerprint("hello"); got != "5d41402abc4b2a76b9719d911017c592" {
		t.Errorf("Fingerprint(hello) = %q", got)
	}
}

func TestFingerprint_EmptyContent(t *testing.T) {
	if got := Fingerprint(""); got != "" {
		t.Errorf("Fingerprint(\"\") = %q, want empty", got)
	}
	l := NewListing("test", "https://example.com/1", "", time.Time{})
	if got := l.Fingerprint(); got != "" {
		t.Errorf("Listing.Fingerprint() = %q, want empty", got)
	}
}

func TestListing_FingerprintDependsOnlyOnContent(t *testing.T) {
	a := NewListing("remoteok", "https://example.com/a", "same body", time.Now())
	b := NewListing("lever", "https://example.com/b", "same body", time.Now().Add(-time.Hour))
	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("fingerprints differ for identical content: %q vs %q", a.Fingerprint(), b.Fingerprint())
	}
}

func TestListing_StoredFingerprintWins(t *testing.T) {
	l := NewListing("test", "https://example.com/1", "body", time.Now()).WithStoredFingerprint("abc")
	if got := l.Fingerprint(); got != "abc" {
		t.Errorf("Fingerprint() = %q, want stored value abc", got)
	}
}

func TestNewListing_ZeroPublishedFallsBackToNow(t *testing.T) {
	before := time.Now().Add(-time.Second)
	l := NewListing("test", "https://example.com/1", "body", time.Time{})
	if l.PublishedAt.Before(before) {
		t.Errorf("PublishedAt = %v, want ~now", l.PublishedAt)
	}
	if l.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestFormatSalaryRange(t *testing.T) {
	tests := []struct {
		name     string
		min, max *float64
		want     string
	}{
		{"missing", nil, nil, "Not specified"},
		{"half missing", Float64Ptr(1000), nil, "Not specified"},
		{"range", Float64Ptr(50000), Float64Ptr(80000), "$50,000-$80,000"},
		{"single value", Float64Ptr(120000), Float64Ptr(120000), "$120,000"},
		{"small", Float64Ptr(900), Float64Ptr(950), "$900-$950"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatSalaryRange(tc.min, tc.max); got != tc.want {
				t.Errorf("FormatSalaryRange = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNewAnalysis_SalaryPrecedence(t *testing.T) {
	l := Listing{ID: 7, URL: "https://example.com/7", SalaryMin: Float64Ptr(1), SalaryMax: Float64Ptr(2)}

	echoed := NewAnalysis(l, Scores{Remote: 0.5}, time.Now())
	if echoed.ListingID != 7 || *echoed.SalaryMin != 1 || *echoed.SalaryMax != 2 {
		t.Errorf("expected listing salary echoed, got %+v", echoed)
	}

	canonical := NewAnalysis(l, Scores{SalaryMin: Float64Ptr(10), SalaryMax: Float64Ptr(20)}, time.Now())
	if *canonical.SalaryMin != 10 || *canonical.SalaryMax != 20 {
		t.Errorf("expected scorer salary, got %v-%v", *canonical.SalaryMin, *canonical.SalaryMax)
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"empty", "", 0},
		{"seconds", "120", 2 * time.Minute},
		{"zero seconds", "0", 0},
		{"http date", now.Add(30 * time.Second).Format(http.TimeFormat), 30 * time.Second},
		{"past date", now.Add(-time.Minute).Format(http.TimeFormat), 0},
		{"garbage", "soon", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseRetryAfter(tc.value, now); got != tc.want {
				t.Errorf("ParseRetryAfter(%q) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}

func TestHTTPError_Transient(t *testing.T) {
	for code, want := range map[int]bool{429: true, 500: true, 503: true, 400: false, 404: false} {
		e := &HTTPError{StatusCode: code}
		if got := e.Transient(); got != want {
			t.Errorf("Transient() for %d = %v, want %v", code, got, want)
		}
	}
}
