package model

import (
	"context"
	"time"
)

// Scores is the decision returned by the scoring collaborator. Each score is a
// confidence in [0,1]. SalaryMin/SalaryMax carry the canonical range when the
// scorer produced one.
type Scores struct {
	SalaryMin  *float64
	SalaryMax  *float64
	Remote     float64 // how likely the position is remote
	Relevance  float64 // how likely it is a backend engineering role
	EUEligible float64 // how likely the employee can be based in the EU
}

// Analysis is the persisted scoring result, one per listing.
type Analysis struct {
	ID         int64
	ListingID  int64
	URL        string
	SalaryMin  *float64
	SalaryMax  *float64
	Remote     float64
	Relevance  float64
	EUEligible float64
	AnalyzedAt time.Time
}

// NewAnalysis combines a listing with its scores. The scorer's salary range
// wins when present; otherwise the listing's own range is echoed.
func NewAnalysis(l Listing, s Scores, at time.Time) Analysis {
	min, max := l.SalaryMin, l.SalaryMax
	if s.SalaryMin != nil && s.SalaryMax != nil {
		min, max = s.SalaryMin, s.SalaryMax
	}
	return Analysis{
		ListingID:  l.ID,
		URL:        l.URL,
		SalaryMin:  min,
		SalaryMax:  max,
		Remote:     s.Remote,
		Relevance:  s.Relevance,
		EUEligible: s.EUEligible,
		AnalyzedAt: at.UTC(),
	}
}

// ScoredListing joins a listing with its analysis for read-only views.
type ScoredListing struct {
	Listing  Listing
	Analysis Analysis
}

// Scorer classifies a listing through an external model.
type Scorer interface {
	Score(ctx context.Context, listing Listing) (Scores, error)
}
