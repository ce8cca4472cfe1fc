package adapter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/amishk599/jobhunter/internal/model"
)

const ashbyBaseURL = "https://api.ashbyhq.com/posting-api/job-board"

// ashbyJob represents a single job in the Ashby API response.
type ashbyJob struct {
	Title            string `json:"title"`
	Location         string `json:"location"`
	JobURL           string `json:"jobUrl"`
	PublishedAt      string `json:"publishedAt"`
	IsListed         bool   `json:"isListed"`
	IsRemote         bool   `json:"isRemote"`
	DescriptionPlain string `json:"descriptionPlain"`
	DescriptionHTML  string `json:"descriptionHtml"`
}

// ashbyResponse is the top-level Ashby job board API response.
type ashbyResponse struct {
	Jobs []ashbyJob `json:"jobs"`
}

// AshbyAdapter fetches listings from the Ashby public job board API.
type AshbyAdapter struct {
	name       string
	boardToken string
	baseURL    string
	client     *http.Client
	now        func() time.Time
}

// NewAshbyAdapter creates a new adapter for an Ashby job board.
func NewAshbyAdapter(name, boardToken string, client *http.Client) *AshbyAdapter {
	return &AshbyAdapter{
		name:       name,
		boardToken: boardToken,
		baseURL:    ashbyBaseURL,
		client:     client,
		now:        time.Now,
	}
}

// Name returns the configured provider name.
func (a *AshbyAdapter) Name() string { return a.name }

// FetchListings retrieves listed jobs from the Ashby job board.
func (a *AshbyAdapter) FetchListings(ctx context.Context) ([]model.Listing, error) {
	url := fmt.Sprintf("%s/%s", a.baseURL, a.boardToken)

	var ashbyResp ashbyResponse
	if err := getJSON(ctx, a.client, url, "ashby fetch for "+a.boardToken, &ashbyResp); err != nil {
		return nil, err
	}

	listings := make([]model.Listing, 0, len(ashbyResp.Jobs))
	for _, aj := range ashbyResp.Jobs {
		if !aj.IsListed {
			continue
		}
		title := strings.TrimSpace(aj.Title)
		if title == "" || aj.JobURL == "" {
			continue
		}

		published := parseTimestamp(a.now(), aj.PublishedAt)

		location := aj.Location
		if aj.IsRemote && !strings.Contains(strings.ToLower(location), "remote") {
			location = strings.TrimSpace(location + " (Remote)")
		}

		content := firstNonEmpty(aj.DescriptionPlain, extractText(aj.DescriptionHTML))

		l := model.NewListing(a.name, aj.JobURL, content, published)
		l.Title = title
		l.Location = location
		listings = append(listings, l)
	}

	return listings, nil
}
