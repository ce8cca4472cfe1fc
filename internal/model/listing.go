package model

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"
)

// Listing is one scraped job posting from any provider.
type Listing struct {
	ID          int64     // assigned by the store on insert, zero before
	Source      string    // provider name
	URL         string    // unique per listing
	Content     string    // plain-text posting body
	Title       string    // optional
	Location    string    // optional
	SalaryMin   *float64  // nullable
	SalaryMax   *float64  // nullable
	PublishedAt time.Time // provider's publish time, falls back to fetch time
	CreatedAt   time.Time // our clock (set when the listing was built)

	fingerprint string // set when loaded from the store
}

// NewListing builds a listing stamped with the current time. The fingerprint
// is derived from content on demand.
func NewListing(source, url, content string, publishedAt time.Time) Listing {
	now := time.Now().UTC()
	if publishedAt.IsZero() {
		publishedAt = now
	}
	return Listing{
		Source:      source,
		URL:         url,
		Content:     content,
		PublishedAt: publishedAt.UTC(),
		CreatedAt:   now,
	}
}

// Fingerprint returns the lowercase hex MD5 of content, or "" for empty content.
func Fingerprint(content string) string {
	if content == "" {
		return ""
	}
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Fingerprint returns the listing's content fingerprint. Rows loaded from the
// store report the persisted value.
func (l Listing) Fingerprint() string {
	if l.fingerprint != "" {
		return l.fingerprint
	}
	return Fingerprint(l.Content)
}

// WithStoredFingerprint returns a copy of l carrying a fingerprint read back
// from storage.
func (l Listing) WithStoredFingerprint(fp string) Listing {
	l.fingerprint = fp
	return l
}

// HasSalary reports whether both ends of the salary range are known.
func (l Listing) HasSalary() bool {
	return l.SalaryMin != nil && l.SalaryMax != nil
}

// FormatSalary renders the salary range as "$50,000-$80,000", or
// "Not specified" when either end is missing.
func (l Listing) FormatSalary() string {
	return FormatSalaryRange(l.SalaryMin, l.SalaryMax)
}

// FormatSalaryRange renders a nullable salary range.
func FormatSalaryRange(min, max *float64) string {
	if min == nil || max == nil {
		return "Not specified"
	}
	if *min == *max {
		return "$" + formatThousands(*min)
	}
	return fmt.Sprintf("$%s-$%s", formatThousands(*min), formatThousands(*max))
}

func formatThousands(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var out []byte
	for i := 0; i < len(s); i++ {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// Provider fetches listings from one external job board.
type Provider interface {
	Name() string
	FetchListings(ctx context.Context) ([]Listing, error)
}

// Notifier sends notifications for newly stored listings.
type Notifier interface {
	Notify(listings []Listing) error
}

// ListingFilter decides whether a listing matches the user's criteria.
type ListingFilter interface {
	Match(listing Listing) bool
}

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 { return &v }
