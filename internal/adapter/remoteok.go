package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/amishk599/jobhunter/internal/model"
)

const remoteOKBaseURL = "https://remoteok.com/api"

// remoteOKJob is one element of the RemoteOK JSON array. The first element is
// a legal notice that carries no position. The feed is loosely typed, so every
// field is kept raw and read leniently; one odd record never fails the batch.
type remoteOKJob struct {
	ID          json.RawMessage `json:"id"`
	Epoch       json.RawMessage `json:"epoch"`
	Date        json.RawMessage `json:"date"`
	Position    json.RawMessage `json:"position"`
	Company     json.RawMessage `json:"company"`
	Description json.RawMessage `json:"description"`
	Location    json.RawMessage `json:"location"`
	Salary      json.RawMessage `json:"salary"`
	SalaryMin   json.RawMessage `json:"salary_min"`
	SalaryMax   json.RawMessage `json:"salary_max"`
	URL         json.RawMessage `json:"url"`
	ApplyURL    json.RawMessage `json:"apply_url"`
}

// RemoteOKAdapter fetches listings from the public RemoteOK API.
type RemoteOKAdapter struct {
	name    string
	baseURL string
	client  *http.Client
	now     func() time.Time
}

// NewRemoteOKAdapter creates an adapter for the RemoteOK feed.
func NewRemoteOKAdapter(name string, client *http.Client) *RemoteOKAdapter {
	return &RemoteOKAdapter{
		name:    name,
		baseURL: remoteOKBaseURL,
		client:  client,
		now:     time.Now,
	}
}

// Name returns the configured provider name.
func (a *RemoteOKAdapter) Name() string { return a.name }

// FetchListings retrieves the RemoteOK feed and maps it into listings.
// Records without a position are skipped.
func (a *RemoteOKAdapter) FetchListings(ctx context.Context) ([]model.Listing, error) {
	var raw []json.RawMessage
	if err := getJSON(ctx, a.client, a.baseURL, "remoteok fetch", &raw); err != nil {
		return nil, err
	}

	listings := make([]model.Listing, 0, len(raw))
	for _, elem := range raw {
		var rj remoteOKJob
		if err := json.Unmarshal(elem, &rj); err != nil {
			continue
		}
		title := rawText(rj.Position)
		if title == "" {
			continue
		}
		url := firstNonEmpty(rawText(rj.URL), rawText(rj.ApplyURL))
		if url == "" {
			continue
		}

		l := model.NewListing(a.name, url, extractText(rawText(rj.Description)), a.publishedAt(rj))
		l.Title = title
		l.Location = rawText(rj.Location)

		minVal, _ := rawNumber(rj.SalaryMin)
		maxVal, _ := rawNumber(rj.SalaryMax)
		l.SalaryMin, l.SalaryMax = salaryFromNumbers(minVal, maxVal)
		if l.SalaryMin == nil {
			l.SalaryMin, l.SalaryMax = parseSalaryRange(rawText(rj.Salary))
		}

		listings = append(listings, l)
	}

	return listings, nil
}

// publishedAt prefers the numeric epoch, then the date (RFC3339, or unix
// seconds as a number or string), and falls back to the current time.
func (a *RemoteOKAdapter) publishedAt(rj remoteOKJob) time.Time {
	for _, raw := range []json.RawMessage{rj.Epoch, rj.Date} {
		if secs, ok := rawNumber(raw); ok && secs > 0 {
			return time.Unix(int64(secs), 0).UTC()
		}
	}
	return parseTimestamp(a.now(), rawText(rj.Date))
}

// rawNumber reads a JSON value that may be a number or a numeric string.
// Anything else reports false so one odd record never fails the batch.
func rawNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// rawText reads a JSON string or number as trimmed text. Null, objects and
// arrays read as empty.
func rawText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}
