// Package session owns the per-session application state: the batch archive and
// the currently selected batch. A State is created when a session starts and is
// passed explicitly to every operation.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"insightly/internal/archive"
	"insightly/internal/core"
	"insightly/internal/insights"
)

// ErrNoSession is returned when a session id is not registered.
var ErrNoSession = errors.New("session not found")

// BatchGenerator produces a batch for a request.
type BatchGenerator interface {
	Generate(ctx context.Context, req insights.Request) (core.InsightBatch, error)
}

// State is one session's archive plus its current selection.
type State struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	archive   *archive.Archive
	currentID string
}

// NewState creates an empty session state.
func NewState() *State {
	return &State{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		archive:   archive.New(),
	}
}

// Archive returns the session's archive.
func (s *State) Archive() *archive.Archive {
	return s.archive
}

// Generate runs gen and, on success, prepends the batch and makes it current.
// On failure the state is left untouched.
func (s *State) Generate(ctx context.Context, gen BatchGenerator, req insights.Request) (core.InsightBatch, error) {
	batch, err := gen.Generate(ctx, req)
	if err != nil {
		return core.InsightBatch{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.archive.Prepend(batch)
	s.currentID = batch.ID
	return batch, nil
}

// Delete removes the batch at index. If it was current, the newest remaining batch
// becomes current; an emptied archive clears the selection.
func (s *State) Delete(index int) (core.InsightBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.archive.RemoveAt(index)
	if err != nil {
		return core.InsightBatch{}, err
	}

	if s.archive.Len() == 0 {
		s.currentID = ""
	} else if removed.ID == s.currentID {
		newest, _ := s.archive.Get(0)
		s.currentID = newest.ID
	}
	return removed, nil
}

// Select makes the batch at index current.
func (s *State) Select(index int) (core.InsightBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch, err := s.archive.Get(index)
	if err != nil {
		return core.InsightBatch{}, err
	}
	s.currentID = batch.ID
	return batch, nil
}

// Current returns the selected batch, if any.
func (s *State) Current() (core.InsightBatch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentID == "" {
		return core.InsightBatch{}, false
	}
	i := s.archive.IndexOf(s.currentID)
	if i < 0 {
		return core.InsightBatch{}, false
	}
	batch, err := s.archive.Get(i)
	if err != nil {
		return core.InsightBatch{}, false
	}
	return batch, true
}

// CurrentIndex returns the archive position of the selected batch, or -1.
func (s *State) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentID == "" {
		return -1
	}
	return s.archive.IndexOf(s.currentID)
}
