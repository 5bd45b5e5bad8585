package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"google.golang.org/genai"
)

// Gemini is a Model backed by the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini model. An empty key fails with ErrMissingAPIKey.
func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if modelName == "" {
		modelName = "gemini-3-flash-preview"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Gemini{client: client, model: modelName}, nil
}

// Name returns the model name.
func (g *Gemini) Name() string { return g.model }

func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	var cfg *genai.GenerateContentConfig
	if req.JSON || req.Schema != nil {
		cfg = &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   req.Schema,
		}
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

var statusInText = regexp.MustCompile(
	`(?i)(?:\b(?:error|status|code|http)[ :=]*(\d{3})\b|\b(\d{3}) (?:too many requests|bad request|unauthorized|not found|service unavailable)\b)`)

// StatusCode extracts the upstream HTTP status from err, or 0.
func StatusCode(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code
	}
	// Transport errors sometimes only carry the code in their text.
	if err != nil {
		if m := statusInText.FindStringSubmatch(err.Error()); m != nil {
			code, _ := strconv.Atoi(m[1] + m[2])
			return code
		}
	}
	return 0
}

// FriendlyError maps err to a message fit for display.
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrMissingAPIKey) {
		return "API Key is missing. Please configure it in your settings."
	}
	switch StatusCode(err) {
	case http.StatusTooManyRequests:
		return "API rate limit exceeded. Please try again later."
	case http.StatusBadRequest:
		return "Content generation failed due to invalid parameters."
	case http.StatusUnauthorized:
		return "Invalid API Key. Please check your settings."
	case http.StatusNotFound:
		return "The selected model is currently unavailable or invalid."
	case http.StatusServiceUnavailable:
		return "The service is temporarily overloaded. Please try again in a moment."
	}
	return "An unexpected error occurred. Please check the logs for details."
}
