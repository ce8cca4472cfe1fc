package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/amishk599/jobhunter/internal/model"
	"github.com/amishk599/jobhunter/internal/retry"
)

// LLMProvider answers a rendered scoring prompt with the raw JSON text the
// model produced.
type LLMProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// LLMScorer implements model.Scorer using an LLM.
type LLMScorer struct {
	provider LLMProvider
	tmpl     *template.Template
	policy   retry.Policy
	logger   *slog.Logger
}

// NewLLMScorer creates a scorer that renders tmpl for each listing and sends
// it to provider. Transient provider failures are retried per policy.
func NewLLMScorer(provider LLMProvider, tmpl *template.Template, policy retry.Policy, logger *slog.Logger) *LLMScorer {
	return &LLMScorer{
		provider: provider,
		tmpl:     tmpl,
		policy:   policy,
		logger:   logger,
	}
}

// promptData is the view of a listing exposed to the prompt template.
type promptData struct {
	Title       string
	Location    string
	Salary      string
	Description string
}

// Score classifies a listing. Any render, provider or parse failure is
// returned to the caller.
func (s *LLMScorer) Score(ctx context.Context, l model.Listing) (model.Scores, error) {
	var promptBuf bytes.Buffer
	if err := s.tmpl.Execute(&promptBuf, promptData{
		Title:       l.Title,
		Location:    l.Location,
		Salary:      l.FormatSalary(),
		Description: l.Content,
	}); err != nil {
		return model.Scores{}, fmt.Errorf("render prompt: %w", err)
	}
	prompt := promptBuf.String()

	raw, err := retry.Do(ctx, s.policy, s.logger.With("listing_id", l.ID), "score",
		func(ctx context.Context) (string, error) {
			return s.provider.Complete(ctx, prompt)
		})
	if err != nil {
		return model.Scores{}, fmt.Errorf("llm complete: %w", err)
	}

	scores, err := parseScores(raw)
	if err != nil {
		return model.Scores{}, fmt.Errorf("parse scores: %w", err)
	}
	return scores, nil
}

// rawScores is the JSON shape returned by the LLM (matches jobPositionScoreSchema).
type rawScores struct {
	SalaryFrom        *float64 `json:"salary_from"`
	SalaryTo          *float64 `json:"salary_to"`
	IsRemoteScore     float64  `json:"is_remote_score"`
	IsApplicableScore float64  `json:"is_applicable_score"`
	IsEuropeanScore   float64  `json:"is_european_score"`
}

// parseScores deserializes the LLM response. Scores are clamped to [0,1] and
// a salary range is kept only when both ends are positive.
func parseScores(raw string) (model.Scores, error) {
	var rs rawScores
	if err := json.Unmarshal([]byte(raw), &rs); err != nil {
		return model.Scores{}, fmt.Errorf("%w: %v", model.ErrMalformedScores, err)
	}

	scores := model.Scores{
		Remote:     clamp01(rs.IsRemoteScore),
		Relevance:  clamp01(rs.IsApplicableScore),
		EUEligible: clamp01(rs.IsEuropeanScore),
	}

	// models answer 0 for "no salary" as often as null
	if rs.SalaryFrom != nil && rs.SalaryTo != nil && *rs.SalaryFrom > 0 && *rs.SalaryTo > 0 {
		lo, hi := *rs.SalaryFrom, *rs.SalaryTo
		if hi < lo {
			lo, hi = hi, lo
		}
		scores.SalaryMin, scores.SalaryMax = &lo, &hi
	}

	return scores, nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
