package adapter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/amishk599/jobhunter/internal/model"
)

const leverBaseURL = "https://api.lever.co/v0/postings"

// leverCategories represents the categories object in a Lever job.
type leverCategories struct {
	Team         string   `json:"team"`
	Location     string   `json:"location"`
	Commitment   string   `json:"commitment"`
	AllLocations []string `json:"allLocations"`
}

// leverSalaryRange is present only when the company publishes pay.
type leverSalaryRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
	Interval string  `json:"interval"`
}

// leverJob represents a single job in the Lever API response.
type leverJob struct {
	ID               string            `json:"id"`
	Text             string            `json:"text"`
	DescriptionPlain string            `json:"descriptionPlain"`
	AdditionalPlain  string            `json:"additionalPlain"`
	Categories       leverCategories   `json:"categories"`
	CreatedAt        int64             `json:"createdAt"`
	HostedURL        string            `json:"hostedUrl"`
	SalaryRange      *leverSalaryRange `json:"salaryRange"`
}

// LeverAdapter fetches listings from the Lever public postings API.
type LeverAdapter struct {
	name        string
	companySlug string
	baseURL     string
	client      *http.Client
	now         func() time.Time
}

// NewLeverAdapter creates a new adapter for a Lever board.
func NewLeverAdapter(name, companySlug string, client *http.Client) *LeverAdapter {
	return &LeverAdapter{
		name:        name,
		companySlug: companySlug,
		baseURL:     leverBaseURL,
		client:      client,
		now:         time.Now,
	}
}

// Name returns the configured provider name.
func (a *LeverAdapter) Name() string { return a.name }

// FetchListings retrieves all postings from the Lever board.
func (a *LeverAdapter) FetchListings(ctx context.Context) ([]model.Listing, error) {
	url := fmt.Sprintf("%s/%s?mode=json", a.baseURL, a.companySlug)

	var leverJobs []leverJob
	if err := getJSON(ctx, a.client, url, "lever fetch for "+a.companySlug, &leverJobs); err != nil {
		return nil, err
	}

	listings := make([]model.Listing, 0, len(leverJobs))
	for _, lj := range leverJobs {
		title := strings.TrimSpace(lj.Text)
		if title == "" || lj.HostedURL == "" {
			continue
		}

		// Prefer allLocations if available, fall back to location.
		location := lj.Categories.Location
		if len(lj.Categories.AllLocations) > 0 {
			location = strings.Join(lj.Categories.AllLocations, ", ")
		}

		published := a.now()
		if lj.CreatedAt > 0 {
			published = time.UnixMilli(lj.CreatedAt)
		}

		content := strings.TrimSpace(lj.DescriptionPlain)
		if extra := strings.TrimSpace(lj.AdditionalPlain); extra != "" {
			content += "\n\n" + extra
		}

		l := model.NewListing(a.name, lj.HostedURL, content, published)
		l.Title = title
		l.Location = location
		if lj.SalaryRange != nil {
			l.SalaryMin, l.SalaryMax = salaryFromNumbers(lj.SalaryRange.Min, lj.SalaryRange.Max)
		}
		listings = append(listings, l)
	}

	return listings, nil
}
