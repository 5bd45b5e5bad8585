// Package ai generates creator content through a large language model.
//
// Every operation builds a prompt, asks the Model for text (JSON for the
// structured ones) and decodes it. Upstream failures are returned wrapped;
// FriendlyError turns them into something a user can read.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	appLog "creatorflow/internal/log"
	"creatorflow/internal/model"
)

// ErrMissingAPIKey is returned before any request when no key is configured.
var ErrMissingAPIKey = errors.New("API Key is missing")

// maxSourceChars caps pasted source text sent upstream.
const maxSourceChars = 3000

// Model produces text for a prompt.
type Model interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Request is a single generation call. JSON asks for a JSON response; a
// non-nil Schema additionally constrains its shape.
type Request struct {
	Prompt string
	JSON   bool
	Schema *genai.Schema
}

type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

type ContentIdea struct {
	Title       string     `json:"title"`
	Hook        string     `json:"hook"`
	Format      string     `json:"format"`
	Difficulty  Difficulty `json:"difficulty"`
	Description string     `json:"description"`
}

type HashtagGroup struct {
	Name        string   `json:"name"`
	Tags        []string `json:"tags"`
	Relevance   float64  `json:"relevance"`
	Competition string   `json:"competition"`
}

type BrandVoiceAnalysis struct {
	Descriptors []string `json:"descriptors"`
	StyleGuide  string   `json:"styleGuide"`
	Dos         []string `json:"dos"`
	Donts       []string `json:"donts"`
}

type InsightType string

const (
	Growth     InsightType = "Growth"
	Engagement InsightType = "Engagement"
	Trend      InsightType = "Trend"
)

type AnalyticsInsight struct {
	Type          InsightType `json:"type"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	ActionableTip string      `json:"actionableTip"`
}

// Service runs the content generators against a Model.
type Service struct {
	model   Model
	timeout time.Duration
}

// NewService wraps m. A zero timeout leaves request deadlines to the caller.
// A nil model makes every operation fail with ErrMissingAPIKey.
func NewService(m Model, timeout time.Duration) *Service {
	return &Service{model: m, timeout: timeout}
}

// Available reports whether a model is configured.
func (s *Service) Available() bool { return s != nil && s.model != nil }

func (s *Service) generate(ctx context.Context, op string, req Request) (string, error) {
	if !s.Available() {
		return "", ErrMissingAPIKey
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	start := time.Now()
	text, err := s.model.Generate(ctx, req)
	if err != nil {
		appLog.Error("ai generate failed", err, "op", op)
		return "", fmt.Errorf("%s: %w", op, err)
	}
	appLog.Debug("ai generate", "op", op, "chars", len(text), "took", time.Since(start))
	return text, nil
}

// decode parses JSON text into out. Empty text leaves out untouched.
func decode(op, text string, out any) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// GenerateIdeas returns five content ideas for a niche on a platform.
func (s *Service) GenerateIdeas(ctx context.Context, niche, platform, goal, tone string) ([]ContentIdea, error) {
	text, err := s.generate(ctx, "ideas", Request{
		Prompt: ideasPrompt(niche, platform, goal, tone),
		JSON:   true,
		Schema: ideasSchema,
	})
	if err != nil {
		return nil, err
	}
	ideas := []ContentIdea{}
	if err := decode("ideas", text, &ideas); err != nil {
		return nil, err
	}
	return ideas, nil
}

// GenerateCaption returns a markdown caption.
func (s *Service) GenerateCaption(ctx context.Context, topic, platform, tone, extra string) (string, error) {
	text, err := s.generate(ctx, "caption", Request{Prompt: captionPrompt(topic, platform, tone, extra)})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.New("caption: empty response")
	}
	return text, nil
}

// GenerateHashtags returns niche, viral and mixed hashtag groups.
func (s *Service) GenerateHashtags(ctx context.Context, topic string) ([]HashtagGroup, error) {
	text, err := s.generate(ctx, "hashtags", Request{
		Prompt: hashtagsPrompt(topic),
		JSON:   true,
		Schema: hashtagsSchema,
	})
	if err != nil {
		return nil, err
	}
	groups := []HashtagGroup{}
	if err := decode("hashtags", text, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// Repurpose rewrites content for each target platform. The result is keyed
// by platform name as returned by the model.
func (s *Service) Repurpose(ctx context.Context, content, sourceType string, targets []model.Platform) (map[string]string, error) {
	if len(targets) == 0 {
		return nil, errors.New("repurpose: no target platforms")
	}
	names := make([]string, len(targets))
	for i, p := range targets {
		names[i] = string(p)
	}
	text, err := s.generate(ctx, "repurpose", Request{
		Prompt: repurposePrompt(content, sourceType, names),
		JSON:   true,
	})
	if err != nil {
		return nil, err
	}
	out := map[string]string{}
	if err := decode("repurpose", text, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AnalyzeBrandVoice describes the voice of the given writing samples. It
// returns nil without error when the model answers with nothing.
func (s *Service) AnalyzeBrandVoice(ctx context.Context, samples string) (*BrandVoiceAnalysis, error) {
	text, err := s.generate(ctx, "brand voice", Request{
		Prompt: brandVoicePrompt(samples),
		JSON:   true,
		Schema: brandVoiceSchema,
	})
	if err != nil {
		return nil, err
	}
	var out *BrandVoiceAnalysis
	if err := decode("brand voice", text, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AnalyticsInsights returns tips for the given metrics, which are sent as JSON.
func (s *Service) AnalyticsInsights(ctx context.Context, metrics any) ([]AnalyticsInsight, error) {
	raw, err := json.Marshal(metrics)
	if err != nil {
		return nil, fmt.Errorf("insights: encode metrics: %w", err)
	}
	text, err := s.generate(ctx, "insights", Request{
		Prompt: insightsPrompt(string(raw)),
		JSON:   true,
		Schema: insightsSchema,
	})
	if err != nil {
		return nil, err
	}
	insights := []AnalyticsInsight{}
	if err := decode("insights", text, &insights); err != nil {
		return nil, err
	}
	return insights, nil
}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
