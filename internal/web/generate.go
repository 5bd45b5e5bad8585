package web

import (
	"errors"
	"net/http"
	"strings"

	"creatorflow/internal/ai"
	"creatorflow/internal/analytics"
	"creatorflow/internal/model"
)

// writeAIError reports a generator failure. A missing key is 503, any
// upstream failure 502, both with a displayable message.
func writeAIError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, ai.ErrMissingAPIKey) {
		status = http.StatusServiceUnavailable
	}
	writeError(w, status, ai.FriendlyError(err))
}

func (s *Server) handleIdeas(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Niche    string `json:"niche"`
		Platform string `json:"platform"`
		Goal     string `json:"goal"`
		Tone     string `json:"tone"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Niche == "" {
		writeError(w, http.StatusBadRequest, "niche is required")
		return
	}
	ideas, err := s.ai.GenerateIdeas(r.Context(), req.Niche, req.Platform, req.Goal, req.Tone)
	if err != nil {
		writeAIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ideas)
}

func (s *Server) handleCaption(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic    string `json:"topic"`
		Platform string `json:"platform"`
		Tone     string `json:"tone"`
		Context  string `json:"context"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}
	caption, err := s.ai.GenerateCaption(r.Context(), req.Topic, req.Platform, req.Tone, req.Context)
	if err != nil {
		writeAIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"caption": caption})
}

func (s *Server) handleHashtags(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic string `json:"topic"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}
	groups, err := s.ai.GenerateHashtags(r.Context(), req.Topic)
	if err != nil {
		writeAIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) handleRepurpose(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content    string   `json:"content"`
		SourceType string   `json:"sourceType"`
		Targets    []string `json:"targets"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	if len(req.Targets) == 0 {
		writeError(w, http.StatusBadRequest, "at least one target platform is required")
		return
	}
	targets := make([]model.Platform, 0, len(req.Targets))
	for _, t := range req.Targets {
		p, err := model.ParsePlatform(t)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		targets = append(targets, p)
	}
	if req.SourceType == "" {
		req.SourceType = "blog post"
	}
	out, err := s.ai.Repurpose(r.Context(), req.Content, req.SourceType, targets)
	if err != nil {
		writeAIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleBrandVoice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Samples string `json:"samples"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Samples) == "" {
		writeError(w, http.StatusBadRequest, "samples are required")
		return
	}
	voice, err := s.ai.AnalyzeBrandVoice(r.Context(), req.Samples)
	if err != nil {
		writeAIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, voice)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, analytics.Build())
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := s.ai.AnalyticsInsights(r.Context(), analytics.DefaultSummary())
	if err != nil {
		writeAIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, insights)
}
