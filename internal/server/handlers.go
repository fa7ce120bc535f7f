package server

import (
	"encoding/json"
	"net/http"
	"time"

	"insightly/internal/core"
	"insightly/internal/insights"
)

// HealthResponse is returned by /health
type HealthResponse struct {
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	Sessions int    `json:"sessions"`
}

// TopicsResponse lists the topic enumerations and their defaults
type TopicsResponse struct {
	AI       TopicSet `json:"ai"`
	PM       TopicSet `json:"pm"`
	MinCount int      `json:"min_count"`
	MaxCount int      `json:"max_count"`
}

// TopicSet is one category's enumeration
type TopicSet struct {
	Label    string   `json:"label"`
	Topics   []string `json:"topics"`
	Defaults []string `json:"defaults"`
}

var serverStartTime = time.Now()

// handleHealth handles the /health endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Uptime:   time.Since(serverStartTime).Round(time.Second).String(),
		Sessions: s.sessions.Len(),
	})
}

// handleTopics handles GET /api/topics
func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, TopicsResponse{
		AI:       topicSet(core.CategoryAI),
		PM:       topicSet(core.CategoryPM),
		MinCount: insights.MinCount,
		MaxCount: insights.MaxCount,
	})
}

func topicSet(c core.Category) TopicSet {
	return TopicSet{
		Label:    c.Label(),
		Topics:   core.TopicsFor(c),
		Defaults: core.DefaultTopics(c),
	}
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("Failed to encode JSON response", "error", err)
	}
}

// respondError writes the standard error envelope
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"status":  status,
			"message": message,
		},
	})
}
