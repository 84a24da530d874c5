package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// Client produces structured career-analysis fragments through the
// Gemini API. Every call requests application/json with a typed
// response schema, so responses should decode directly; fence stripping
// and brace extraction remain as fallbacks for models that wrap output
// anyway.
type Client struct {
	genai   *genai.Client
	model   string
	limiter *rate.Limiter
}

// NewClient builds a Gemini-backed client. requestsPerMinute paces all
// generation calls made through this client, across stages.
func NewClient(ctx context.Context, apiKey, model string, requestsPerMinute int) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("ai: GEMINI_API_KEY is not set")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("ai: create client: %w", err)
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = 12
	}
	lim := rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 2)
	return &Client{genai: gc, model: model, limiter: lim}, nil
}

// SkillProfile maps the submitted profile onto a competency framework.
// Returns a fragment with keys executive_summary and skill_mapping.
func (c *Client) SkillProfile(ctx context.Context, payload map[string]interface{}) (map[string]interface{}, error) {
	return c.generate(ctx, skillProfilePrompt(payload), skillProfileInstruction, skillProfileSchema)
}

// GapAnalysis compares mapped skills against the target role. Returns a
// fragment with key skill_gap_analysis.
func (c *Client) GapAnalysis(ctx context.Context, payload map[string]interface{}) (map[string]interface{}, error) {
	return c.generate(ctx, gapAnalysisPrompt(payload), gapAnalysisInstruction, gapAnalysisSchema)
}

// CareerPathways proposes alternative routes toward the target role.
// Returns a fragment with key career_pathways.
func (c *Client) CareerPathways(ctx context.Context, payload map[string]interface{}) (map[string]interface{}, error) {
	return c.generate(ctx, pathwaysPrompt(payload), pathwaysInstruction, pathwaysSchema)
}

// DevelopmentPlan turns the gap analysis into a phased plan with
// learning resources. Returns a fragment with keys development_plan and
// learning_resources.
func (c *Client) DevelopmentPlan(ctx context.Context, payload map[string]interface{}) (map[string]interface{}, error) {
	return c.generate(ctx, developmentPlanPrompt(payload), developmentPlanInstruction, developmentPlanSchema)
}

func (c *Client) generate(ctx context.Context, prompt, instruction string, schema *genai.Schema) (map[string]interface{}, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	attempts := 3
	var resp *genai.GenerateContentResponse
	var lastErr error
	for i := 0; i < attempts; i++ {
		resp, lastErr = c.genai.Models.GenerateContent(ctx,
			c.model,
			genai.Text(prompt),
			&genai.GenerateContentConfig{
				ResponseMIMEType:  "application/json",
				ResponseSchema:    schema,
				SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: instruction}}},
			},
		)
		if lastErr == nil {
			break
		}
		if i < attempts-1 {
			backoff := time.Duration(1<<i) * time.Second
			slog.Warn("ai: generation attempt failed, retrying", "attempt", i+1, "backoff", backoff, "error", lastErr)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("ai: generation failed after %d attempts: %w", attempts, lastErr)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("ai: empty response from model")
	}

	out := stripFences(resp.Text())
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		if sub, ok := extractJSONObject(out); ok {
			if err2 := json.Unmarshal([]byte(sub), &m); err2 == nil {
				return m, nil
			}
		}
		return nil, fmt.Errorf("ai: model returned non-json content: %w", err)
	}
	return m, nil
}

// stripFences removes a leading/trailing markdown code fence if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

// extractJSONObject returns the substring between the first '{' and
// last '}' when both exist.
func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		return s[start : end+1], true
	}
	return "", false
}

// mustJSON renders v for inclusion in prompts.
func mustJSON(v interface{}) string {
	b, _ := json.Marshal(v)
	return string(b)
}
