package filter

import (
	"strings"

	"github.com/amishk599/jobhunter/internal/model"
)

// Options configures a KeywordFilter. All matching is case-insensitive
// substring matching. Empty include lists match everything.
type Options struct {
	TitleKeywords        []string
	TitleExcludeKeywords []string
	Locations            []string
	ExcludeLocations     []string
}

// IsZero reports whether no keyword was configured at all.
func (o Options) IsZero() bool {
	return len(o.TitleKeywords) == 0 && len(o.TitleExcludeKeywords) == 0 &&
		len(o.Locations) == 0 && len(o.ExcludeLocations) == 0
}

// KeywordFilter matches listings whose title contains any include keyword and
// none of the exclude keywords, and whose location passes the same test
// against the location lists.
type KeywordFilter struct {
	titleInclude    []string
	titleExclude    []string
	locationInclude []string
	locationExclude []string
}

// New returns a KeywordFilter built from opts.
func New(opts Options) *KeywordFilter {
	return &KeywordFilter{
		titleInclude:    lowerAll(opts.TitleKeywords),
		titleExclude:    lowerAll(opts.TitleExcludeKeywords),
		locationInclude: lowerAll(opts.Locations),
		locationExclude: lowerAll(opts.ExcludeLocations),
	}
}

// Match returns true if the listing passes both the title and location rules.
func (f *KeywordFilter) Match(l model.Listing) bool {
	return passes(strings.ToLower(l.Title), f.titleInclude, f.titleExclude) &&
		passes(strings.ToLower(l.Location), f.locationInclude, f.locationExclude)
}

func passes(s string, include, exclude []string) bool {
	if containsAny(s, exclude) {
		return false
	}
	return len(include) == 0 || containsAny(s, include)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
