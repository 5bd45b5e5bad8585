package ai

import (
	"fmt"
	"strings"

	"google.golang.org/genai"
)

func ideasPrompt(niche, platform, goal, tone string) string {
	return fmt.Sprintf(`Generate 5 high-quality, viral-worthy content ideas for a %s creator on %s.
Goal: %s.
Tone: %s.
Return the response in JSON format.`, niche, platform, goal, tone)
}

func captionPrompt(topic, platform, tone, extra string) string {
	return fmt.Sprintf(`Write a high-engagement caption/post for %s about "%s".
Tone: %s.
Additional Context: %s.

Include:
1. A strong hook.
2. Value-packed body.
3. A clear Call to Action (CTA).
4. Relevant emojis.

Format the output clearly with Markdown.`, platform, topic, tone, extra)
}

func hashtagsPrompt(topic string) string {
	return fmt.Sprintf(`Generate 3 distinct groups of hashtags for the topic: "%s".
Group 1: Niche specific (Low competition).
Group 2: Viral/Trending (High competition).
Group 3: Mixed (Balanced).

Return JSON.`, topic)
}

func repurposePrompt(content, sourceType string, targets []string) string {
	return fmt.Sprintf(`Repurpose the following %s content into optimized posts for: %s.

Original Content:
"%s..."

Return a JSON object where keys are the platform names and values are the generated content strings.
Ensure formatting is appropriate for each platform (e.g., threads for Twitter, professional for LinkedIn, short & punchy for TikTok captions).`,
		sourceType, strings.Join(targets, ", "), truncate(content, maxSourceChars))
}

func brandVoicePrompt(samples string) string {
	return fmt.Sprintf(`Analyze the following text samples to determine the brand's unique voice and tone.

Samples:
"%s..."

Return a JSON object with:
- descriptors: Array of 3-5 adjectives describing the tone (e.g., 'Witty', 'Professional').
- styleGuide: A short paragraph summarizing the writing style.
- dos: Array of 3 things to DO to sound like this brand.
- donts: Array of 3 things NOT to do.
`, truncate(samples, maxSourceChars))
}

func insightsPrompt(metricsJSON string) string {
	return fmt.Sprintf(`Analyze the following social media metrics and provide 3 actionable insights/tips to improve performance.

Metrics:
%s

Return a JSON array of objects with: 'type' (Growth, Engagement, or Trend), 'title', 'description', and 'actionableTip'.
`, metricsJSON)
}

func str() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }

func strEnum(values ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Enum: values}
}

func strList() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: str()}
}

func arrayOf(props map[string]*genai.Schema, required ...string) *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type:       genai.TypeObject,
			Properties: props,
			Required:   required,
		},
	}
}

var ideasSchema = arrayOf(map[string]*genai.Schema{
	"title":       str(),
	"hook":        str(),
	"format":      str(),
	"difficulty":  strEnum(string(Easy), string(Medium), string(Hard)),
	"description": str(),
}, "title", "hook", "format", "difficulty", "description")

var hashtagsSchema = arrayOf(map[string]*genai.Schema{
	"name":        str(),
	"tags":        strList(),
	"relevance":   {Type: genai.TypeNumber},
	"competition": strEnum("Low", "Medium", "High"),
}, "name", "tags", "relevance", "competition")

var brandVoiceSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"descriptors": strList(),
		"styleGuide":  str(),
		"dos":         strList(),
		"donts":       strList(),
	},
	Required: []string{"descriptors", "styleGuide", "dos", "donts"},
}

var insightsSchema = arrayOf(map[string]*genai.Schema{
	"type":          strEnum(string(Growth), string(Engagement), string(Trend)),
	"title":         str(),
	"description":   str(),
	"actionableTip": str(),
}, "type", "title", "description", "actionableTip")
