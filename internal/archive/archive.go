// Package archive keeps the in-memory history of generated batches, newest first.
package archive

import (
	"errors"
	"fmt"
	"sync"

	"insightly/internal/core"
)

// ErrIndexOutOfRange is returned when an index does not address an archived batch.
var ErrIndexOutOfRange = errors.New("archive index out of range")

// Archive is an ordered, unbounded batch history. It is safe for concurrent use.
type Archive struct {
	mu      sync.RWMutex
	batches []core.InsightBatch
}

// New creates an empty archive.
func New() *Archive {
	return &Archive{}
}

// Prepend inserts batch at position 0.
func (a *Archive) Prepend(batch core.InsightBatch) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.batches = append(a.batches, core.InsightBatch{})
	copy(a.batches[1:], a.batches)
	a.batches[0] = batch.Clone()
}

// RemoveAt removes and returns the batch at index. The archive is unchanged on error.
func (a *Archive) RemoveAt(index int) (core.InsightBatch, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if index < 0 || index >= len(a.batches) {
		return core.InsightBatch{}, fmt.Errorf("%w: %d (size %d)", ErrIndexOutOfRange, index, len(a.batches))
	}

	removed := a.batches[index]
	a.batches = append(a.batches[:index], a.batches[index+1:]...)
	return removed, nil
}

// Get returns a copy of the batch at index.
func (a *Archive) Get(index int) (core.InsightBatch, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if index < 0 || index >= len(a.batches) {
		return core.InsightBatch{}, fmt.Errorf("%w: %d (size %d)", ErrIndexOutOfRange, index, len(a.batches))
	}
	return a.batches[index].Clone(), nil
}

// IndexOf returns the position of the batch with the given id, or -1.
func (a *Archive) IndexOf(id string) int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for i, b := range a.batches {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// List returns a copy of the archive, newest first.
func (a *Archive) List() []core.InsightBatch {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]core.InsightBatch, len(a.batches))
	for i, b := range a.batches {
		out[i] = b.Clone()
	}
	return out
}

// Len returns the number of archived batches.
func (a *Archive) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.batches)
}
