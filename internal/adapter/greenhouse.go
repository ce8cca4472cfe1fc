package adapter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/amishk599/jobhunter/internal/model"
)

const greenhouseBaseURL = "https://boards-api.greenhouse.io/v1/boards"

// greenhouseJob represents a single job in the Greenhouse API response.
// Content is only present when the list is requested with content=true.
type greenhouseJob struct {
	ID             int64              `json:"id"`
	Title          string             `json:"title"`
	Location       greenhouseLocation `json:"location"`
	AbsoluteURL    string             `json:"absolute_url"`
	FirstPublished string             `json:"first_published"`
	UpdatedAt      string             `json:"updated_at"`
	Content        string             `json:"content"`
}

type greenhouseLocation struct {
	Name string `json:"name"`
}

// greenhouseResponse is the top-level Greenhouse jobs API response.
type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

// GreenhouseAdapter fetches listings from the Greenhouse public boards API.
type GreenhouseAdapter struct {
	name       string
	boardToken string
	baseURL    string
	client     *http.Client
	now        func() time.Time
}

// NewGreenhouseAdapter creates a new adapter for a Greenhouse board.
func NewGreenhouseAdapter(name, boardToken string, client *http.Client) *GreenhouseAdapter {
	return &GreenhouseAdapter{
		name:       name,
		boardToken: boardToken,
		baseURL:    greenhouseBaseURL,
		client:     client,
		now:        time.Now,
	}
}

// Name returns the configured provider name.
func (a *GreenhouseAdapter) Name() string { return a.name }

// FetchListings retrieves all jobs (with content) from the Greenhouse board.
func (a *GreenhouseAdapter) FetchListings(ctx context.Context) ([]model.Listing, error) {
	url := fmt.Sprintf("%s/%s/jobs?content=true", a.baseURL, a.boardToken)

	var ghResp greenhouseResponse
	if err := getJSON(ctx, a.client, url, "greenhouse fetch for "+a.boardToken, &ghResp); err != nil {
		return nil, err
	}

	listings := make([]model.Listing, 0, len(ghResp.Jobs))
	for _, gj := range ghResp.Jobs {
		title := strings.TrimSpace(gj.Title)
		if title == "" || gj.AbsoluteURL == "" {
			continue
		}

		published := parseTimestamp(a.now(), gj.FirstPublished, gj.UpdatedAt)

		l := model.NewListing(a.name, gj.AbsoluteURL, extractText(gj.Content), published)
		l.Title = title
		l.Location = gj.Location.Name
		listings = append(listings, l)
	}

	return listings, nil
}
