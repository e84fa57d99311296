package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured
const DefaultModel = "gemini-3-flash-preview"

// GeminiClient asks a Gemini model for advice using a JSON response schema
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a client for the Gemini API
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

// Advise sends the table list to the model and decodes its JSON answer
func (c *GeminiClient) Advise(ctx context.Context, tableNames []string) (Advice, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(BuildPrompt(tableNames)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
	})
	if err != nil {
		return Advice{}, fmt.Errorf("failed to generate content: %w", err)
	}

	return DecodeAdvice(resp.Text())
}

// BuildPrompt renders the request sent to the model
func BuildPrompt(tableNames []string) string {
	var b strings.Builder
	b.WriteString("Analyze this list of database tables and provide professional DBA maintenance advice.\n")
	fmt.Fprintf(&b, "Tables: %s\n\n", strings.Join(tableNames, ", "))
	b.WriteString("Please provide:\n")
	b.WriteString("1. A summary of what these tables likely represent (e.g., application configuration, workflow engine, reporting).\n")
	b.WriteString("2. Specific recommendations for maintenance frequency.\n")
	b.WriteString("3. A risk assessment for running VACUUM FULL on these tables (considering potential locking issues).")
	return b.String()
}

// DecodeAdvice parses and validates a JSON advice payload
func DecodeAdvice(payload string) (Advice, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return Advice{}, fmt.Errorf("%w: empty response", ErrInvalidAdvice)
	}

	var advice Advice
	if err := json.Unmarshal([]byte(payload), &advice); err != nil {
		return Advice{}, fmt.Errorf("%w: %v", ErrInvalidAdvice, err)
	}
	if err := advice.Validate(); err != nil {
		return Advice{}, err
	}
	return advice, nil
}

func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary": {Type: genai.TypeString},
			"recommendations": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"riskAssessment": {Type: genai.TypeString},
		},
		Required: []string{"summary", "recommendations", "riskAssessment"},
	}
}
