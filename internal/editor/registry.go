package editor

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Registry holds the open editors, one per clip. HTTP handlers share
// it; each editor serializes its own mutations.
type Registry struct {
	mu      sync.Mutex
	editors map[uuid.UUID]*Editor
	log     *logrus.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log *logrus.Logger) *Registry {
	return &Registry{editors: make(map[uuid.UUID]*Editor), log: log}
}

// Get returns the open editor for a clip, if any.
func (r *Registry) Get(clipID uuid.UUID) (*Editor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.editors[clipID]
	return e, ok
}

// GetOrOpen returns the open editor for a clip, loading the document
// through the collaborator and opening one if needed.
func (r *Registry) GetOrOpen(ctx context.Context, clipID uuid.UUID, loader Loader) (*Editor, error) {
	r.mu.Lock()
	if e, ok := r.editors[clipID]; ok {
		r.mu.Unlock()
		return e, nil
	}
	r.mu.Unlock()

	// Load outside the registry lock; collaborator calls can be slow.
	doc, err := loader.LoadDocument(ctx, clipID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.editors[clipID]; ok {
		return e, nil
	}
	e := New(clipID, doc, r.log)
	r.editors[clipID] = e
	return e, nil
}

// Close discards the open editor for a clip. Unsaved state is dropped;
// callers decide whether to save first.
func (r *Registry) Close(clipID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.editors, clipID)
}
