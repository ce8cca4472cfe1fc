package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/amishk599/jobhunter/internal/model"
)

const scoreSchemaName = "job_position_score"

// jobPositionScoreSchema is the JSON Schema enforced server-side via OpenAI
// structured outputs. It matches rawScores exactly.
var jobPositionScoreSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"salary_from": map[string]any{
			"type":        []string{"number", "null"},
			"description": "Minimum salary for the position, can be null.",
		},
		"salary_to": map[string]any{
			"type":        []string{"number", "null"},
			"description": "Maximum salary for the position, can be null.",
		},
		"is_remote_score": map[string]any{
			"type":        "number",
			"description": "Score indicating how likely that the position is remote, on a scale of 0 to 1.",
		},
		"is_applicable_score": map[string]any{
			"type":        "number",
			"description": "Score indicating how likely that the job is for a backend engineering role, on a scale of 0 to 1.",
		},
		"is_european_score": map[string]any{
			"type":        "number",
			"description": "Score indicating how likely that the employee can be located in the EU, on a scale of 0 to 1.",
		},
	},
	"required": []string{
		"salary_from", "salary_to",
		"is_remote_score", "is_applicable_score", "is_european_score",
	},
}

// OpenAIProvider calls an OpenAI-compatible /chat/completions endpoint with
// structured outputs.
type OpenAIProvider struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenAIProvider creates a provider targeting the OpenAI API.
func NewOpenAIProvider(baseURL, apiKey, model string, httpClient *http.Client) *OpenAIProvider {
	return &OpenAIProvider{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
	}
}

// chatRequest mirrors the OpenAI /v1/chat/completions request body.
type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    int            `json:"temperature"`
	MaxTokens      int            `json:"max_tokens"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type       string         `json:"type"`
	JSONSchema jsonSchemaSpec `json:"json_schema"`
}

type jsonSchemaSpec struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

type chatChoice struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

// chatResponse mirrors the relevant fields of the OpenAI response.
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends prompt and returns the JSON string produced under
// jobPositionScoreSchema. Non-200 responses come back as *model.HTTPError so
// callers can classify them for retry.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are an AI assistant that classifies job listings."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0,
		MaxTokens:   512,
		ResponseFormat: responseFormat{
			Type: "json_schema",
			JSONSchema: jsonSchemaSpec{
				Name:   scoreSchemaName,
				Strict: true,
				Schema: jobPositionScoreSchema,
			},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal llm request: %w", err)
	}

	url := p.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create llm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read llm response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", model.NewHTTPError(resp, fmt.Errorf("llm returned HTTP %d: %s", resp.StatusCode, string(respBytes)))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBytes, &chatResp); err != nil {
		return "", fmt.Errorf("parse llm response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("llm error (%s): %s", chatResp.Error.Type, chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("llm returned no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}
