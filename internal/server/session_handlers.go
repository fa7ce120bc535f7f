package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"insightly/internal/archive"
	"insightly/internal/core"
	"insightly/internal/export"
	"insightly/internal/insights"
	"insightly/internal/session"
)

// SessionResponse describes a session
type SessionResponse struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Batches      int       `json:"batches"`
	CurrentIndex int       `json:"current_index"`
}

// BatchListResponse lists a session's archive, newest first
type BatchListResponse struct {
	Batches      []core.InsightBatch `json:"batches"`
	Count        int                 `json:"count"`
	CurrentIndex int                 `json:"current_index"`
}

// GenerateRequest is the body of POST /api/sessions/{sid}/batches
type GenerateRequest struct {
	IssueDate   string   `json:"issue_date"` // YYYY-MM-DD, defaults to today (UTC)
	AITopics    []string `json:"ai_topics"`
	PMTopics    []string `json:"pm_topics"`
	AICount     int      `json:"ai_count"`
	PMCount     int      `json:"pm_count"`
	TeamContext string   `json:"team_context"`
}

func (g GenerateRequest) toRequest() (insights.Request, error) {
	date := time.Now().UTC()
	if g.IssueDate != "" {
		parsed, err := time.Parse("2006-01-02", g.IssueDate)
		if err != nil {
			return insights.Request{}, &insights.ValidationError{Field: "issue_date", Message: "expected YYYY-MM-DD"}
		}
		date = parsed
	}
	return insights.Request{
		IssueDate:   date,
		AITopics:    g.AITopics,
		PMTopics:    g.PMTopics,
		AICount:     g.AICount,
		PMCount:     g.PMCount,
		TeamContext: g.TeamContext,
	}, nil
}

// handleCreateSession handles POST /api/sessions
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	st := s.sessions.Create()
	s.log.Info("Session created", "session_id", st.ID)
	s.respondJSON(w, http.StatusCreated, sessionResponse(st))
}

// handleGetSession handles GET /api/sessions/{sid}
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	st, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, sessionResponse(st))
}

// handleDeleteSession handles DELETE /api/sessions/{sid}
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	if err := s.sessions.Delete(sid); err != nil {
		s.respondError(w, http.StatusNotFound, "Session not found")
		return
	}
	s.log.Info("Session ended", "session_id", sid)
	w.WriteHeader(http.StatusNoContent)
}

// handleListBatches handles GET /api/sessions/{sid}/batches
func (s *Server) handleListBatches(w http.ResponseWriter, r *http.Request) {
	st, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	batches := st.Archive().List()
	s.respondJSON(w, http.StatusOK, BatchListResponse{
		Batches:      batches,
		Count:        len(batches),
		CurrentIndex: st.CurrentIndex(),
	})
}

// handleGenerateBatch handles POST /api/sessions/{sid}/batches
func (s *Server) handleGenerateBatch(w http.ResponseWriter, r *http.Request) {
	st, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var body GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req, err := body.toRequest()
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	batch, err := st.Generate(r.Context(), s.generator, req)
	if err != nil {
		switch {
		case errors.Is(err, insights.ErrValidation):
			s.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, insights.ErrGeneration):
			s.log.Error("Batch generation failed", "session_id", st.ID, "error", err)
			s.respondError(w, http.StatusBadGateway, err.Error())
		default:
			s.log.Error("Batch generation failed", "session_id", st.ID, "error", err)
			s.respondError(w, http.StatusInternalServerError, "Failed to generate batch")
		}
		return
	}

	s.respondJSON(w, http.StatusCreated, batch)
}

// handleGetBatch handles GET /api/sessions/{sid}/batches/{index}
func (s *Server) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	st, index, ok := s.batchFromRequest(w, r)
	if !ok {
		return
	}
	batch, err := st.Archive().Get(index)
	if err != nil {
		s.respondIndexError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, batch)
}

// handleDeleteBatch handles DELETE /api/sessions/{sid}/batches/{index}
func (s *Server) handleDeleteBatch(w http.ResponseWriter, r *http.Request) {
	st, index, ok := s.batchFromRequest(w, r)
	if !ok {
		return
	}
	removed, err := st.Delete(index)
	if err != nil {
		s.respondIndexError(w, err)
		return
	}
	s.log.Info("Batch deleted", "session_id", st.ID, "batch_id", removed.ID)
	w.WriteHeader(http.StatusNoContent)
}

// handleSelectBatch handles POST /api/sessions/{sid}/batches/{index}/select
func (s *Server) handleSelectBatch(w http.ResponseWriter, r *http.Request) {
	st, index, ok := s.batchFromRequest(w, r)
	if !ok {
		return
	}
	batch, err := st.Select(index)
	if err != nil {
		s.respondIndexError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, batch)
}

// handleCurrentBatch handles GET /api/sessions/{sid}/current
func (s *Server) handleCurrentBatch(w http.ResponseWriter, r *http.Request) {
	st, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	batch, ok := st.Current()
	if !ok {
		s.respondError(w, http.StatusNotFound, "No batch selected")
		return
	}
	s.respondJSON(w, http.StatusOK, batch)
}

// handleExportBatch handles GET /api/sessions/{sid}/batches/{index}/{format}
func (s *Server) handleExportBatch(w http.ResponseWriter, r *http.Request) {
	st, index, ok := s.batchFromRequest(w, r)
	if !ok {
		return
	}

	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	batch, err := st.Archive().Get(index)
	if err != nil {
		s.respondIndexError(w, err)
		return
	}

	content, err := export.Render(batch, format, s.email)
	if err != nil {
		s.log.Error("Export failed", "batch_id", batch.ID, "format", format, "error", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to export batch")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	if r.URL.Query().Get("download") != "" {
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", export.FilenameFor(batch, format)))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(content); err != nil {
		s.log.Error("Failed to write export response", "error", err)
	}
}

func (s *Server) sessionFromRequest(w http.ResponseWriter, r *http.Request) (*session.State, bool) {
	st, err := s.sessions.Get(chi.URLParam(r, "sid"))
	if err != nil {
		s.respondError(w, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return st, true
}

func (s *Server) batchFromRequest(w http.ResponseWriter, r *http.Request) (*session.State, int, bool) {
	st, ok := s.sessionFromRequest(w, r)
	if !ok {
		return nil, 0, false
	}
	index, err := strconv.Atoi(strings.TrimSpace(chi.URLParam(r, "index")))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "Batch index must be an integer")
		return nil, 0, false
	}
	return st, index, true
}

func (s *Server) respondIndexError(w http.ResponseWriter, err error) {
	if errors.Is(err, archive.ErrIndexOutOfRange) {
		s.respondError(w, http.StatusNotFound, "Batch not found")
		return
	}
	s.respondError(w, http.StatusInternalServerError, err.Error())
}

func sessionResponse(st *session.State) SessionResponse {
	return SessionResponse{
		ID:           st.ID,
		CreatedAt:    st.CreatedAt,
		Batches:      st.Archive().Len(),
		CurrentIndex: st.CurrentIndex(),
	}
}
