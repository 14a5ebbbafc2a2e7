package services

import (
	"context"
	"sync"

	"github.com/noisevisionproductions/Vitema-sub001/internal/logger"
	"github.com/noisevisionproductions/Vitema-sub001/internal/upload"
)

// SessionRegistry keeps one upload coordinator per administrator, so each
// admin has a single upload in flight and can reconnect to it.
type SessionRegistry struct {
	ctx  context.Context
	deps upload.Deps

	mu       sync.Mutex
	sessions map[string]*upload.Coordinator
	closed   bool
}

// NewSessionRegistry creates coordinators scoped to ctx.
func NewSessionRegistry(ctx context.Context, deps upload.Deps) *SessionRegistry {
	return &SessionRegistry{
		ctx:      ctx,
		deps:     deps,
		sessions: make(map[string]*upload.Coordinator),
	}
}

// ForAdmin returns the admin's coordinator, creating it on first use.
func (r *SessionRegistry) ForAdmin(adminID string) (*upload.Coordinator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, upload.ErrClosed
	}

	if c, ok := r.sessions[adminID]; ok {
		return c, nil
	}
	c := upload.NewCoordinator(r.ctx, r.deps)
	r.sessions[adminID] = c
	logger.Debug("upload session created", "admin", adminID)
	return c, nil
}

// Lookup returns the admin's coordinator without creating one.
func (r *SessionRegistry) Lookup(adminID string) (*upload.Coordinator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.sessions[adminID]
	return c, ok
}

// Close stops every coordinator. Committed writes are kept.
func (r *SessionRegistry) Close() {
	r.mu.Lock()
	r.closed = true
	sessions := r.sessions
	r.sessions = make(map[string]*upload.Coordinator)
	r.mu.Unlock()

	for adminID, c := range sessions {
		c.Close()
		logger.Debug("upload session closed", "admin", adminID)
	}
}
