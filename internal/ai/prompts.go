package ai

import (
	_ "embed"
	"text/template"
)

//go:embed prompts/score_listing.md
var scoreListingPromptRaw string

// ScoreListingTemplate is the parsed prompt template for listing scoring.
// Parsed once at package init; reused on every Score call.
var ScoreListingTemplate = template.Must(template.New("score_listing").Parse(scoreListingPromptRaw))
