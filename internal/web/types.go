package web

import (
	"time"

	"github.com/amishk599/jobhunter/internal/model"
)

// ListingView is the JSON and template representation of a scored listing.
type ListingView struct {
	ID         int64     `json:"id"`
	Source     string    `json:"source"`
	Title      string    `json:"title"`
	Location   string    `json:"location"`
	URL        string    `json:"url"`
	SalaryMin  *float64  `json:"salary_min"`
	SalaryMax  *float64  `json:"salary_max"`
	Salary     string    `json:"salary"`
	Remote     float64   `json:"remote_score"`
	Relevance  float64   `json:"relevance_score"`
	EUEligible float64   `json:"eu_score"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}

func newListingView(sl model.ScoredListing) ListingView {
	a := sl.Analysis
	return ListingView{
		ID:         sl.Listing.ID,
		Source:     sl.Listing.Source,
		Title:      sl.Listing.Title,
		Location:   sl.Listing.Location,
		URL:        sl.Listing.URL,
		SalaryMin:  a.SalaryMin,
		SalaryMax:  a.SalaryMax,
		Salary:     model.FormatSalaryRange(a.SalaryMin, a.SalaryMax),
		Remote:     a.Remote,
		Relevance:  a.Relevance,
		EUEligible: a.EUEligible,
		AnalyzedAt: a.AnalyzedAt,
	}
}

// ListingsResponse is the body of GET /api/listings.
type ListingsResponse struct {
	Count    int           `json:"count"`
	Listings []ListingView `json:"listings"`
}
