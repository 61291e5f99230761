// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"

	"github.com/pdiddy/skillgap/internal/httputil"
)

// extractionPromptTmpl is the prompt sent to the Claude API for one
// resume. It asks for canonical-style skill names with proficiency and
// confidence estimates.
var extractionPromptTmpl = template.Must(template.New("extraction").Parse(`You are an expert resume analyzer. Analyze the following resume and extract the technical and professional skills it shows, with a proficiency estimate for each.

Rules:
1. Extract only skills mentioned or clearly implied in the resume. Do not invent skills.
2. Include programming languages, frameworks and libraries, tools and platforms, and technical concepts.
3. Include soft skills only when the resume states them explicitly.
4. Write each skill in lowercase with hyphens between words (e.g. "machine-learning", "data-analysis").
5. Limit the answer to the 15-25 most prominent skills.

For each skill estimate:
- proficiency: 0.0 to 1.0
  - 0.3-0.5: mentioned with little evidence of use
  - 0.5-0.7: clear evidence of practical use
  - 0.7-0.85: significant experience
  - 0.85-0.95: expert level with projects or achievements
- confidence: 0.5 to 0.9, how certain you are of the estimate

Respond with a JSON object containing a "skills" array. Do not include any text outside the JSON object.

Example response:
{"skills": [{"skill": "python", "proficiency": 0.8, "confidence": 0.85}, {"skill": "machine-learning", "proficiency": 0.7, "confidence": 0.75}]}

Resume:
---
{{.Resume}}
---
`))

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// DefaultModel is the Claude model used when none is configured.
const DefaultModel = "claude-sonnet-4-5-20250929"

// ClaudeBackend calls the Claude API to extract skills from resume text.
type ClaudeBackend struct {
	APIKey string
	Model  string
	Client *http.Client

	// MaxRateLimitRetries bounds retries on rate-limit responses (default 5).
	MaxRateLimitRetries int
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Extract calls the Claude API with the extraction prompt for one resume.
func (c *ClaudeBackend) Extract(ctx context.Context, text string) (AIResponse, error) {
	prompt, err := renderPrompt(text)
	if err != nil {
		return AIResponse{}, fmt.Errorf("rendering prompt: %w", err)
	}

	model := c.Model
	if model == "" {
		model = DefaultModel
	}

	reqBody := claudeRequest{
		Model:     model,
		MaxTokens: 2048,
		Messages: []claudeMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return AIResponse{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return AIResponse{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRateLimitRetries)
	if err != nil {
		return AIResponse{}, fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return AIResponse{}, fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return AIResponse{}, fmt.Errorf("decoding Claude response: %w", err)
	}

	if len(cResp.Content) == 0 {
		return AIResponse{}, fmt.Errorf("Claude API returned empty content")
	}

	for _, block := range cResp.Content {
		if block.Type != "text" {
			continue
		}
		var aiResp AIResponse
		if err := json.Unmarshal([]byte(jsonObject(block.Text)), &aiResp); err != nil {
			return AIResponse{}, fmt.Errorf("parsing AI response JSON: %w", err)
		}
		return aiResp, nil
	}

	return AIResponse{}, fmt.Errorf("no text content in Claude API response")
}

// jsonObject trims prose or code fences around the outermost JSON object.
func jsonObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}

// renderPrompt executes the extraction prompt template with the given resume.
func renderPrompt(text string) (string, error) {
	var buf bytes.Buffer
	if err := extractionPromptTmpl.Execute(&buf, struct{ Resume string }{Resume: text}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
