package conversation_test

import (
	"context"
	"errors"
	"sync"

	"github.com/PabloGalante/datagent/internal/domain"
)

// scriptedResponder returns a fixed reply (or error) and records what it
// was called with.
type scriptedResponder struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	message string
	history []domain.Turn
}

func (r *scriptedResponder) Respond(_ context.Context, message string, history []domain.Turn) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.message = message
	r.history = append([]domain.Turn(nil), history...)
	return r.reply, r.err
}

func (r *scriptedResponder) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

var errNetwork = errors.New("dial tcp: connection refused")

// gatedResponder blocks until release is closed.
type gatedResponder struct {
	started chan struct{}
	release chan struct{}
	reply   string
}

func newGatedResponder(reply string) *gatedResponder {
	return &gatedResponder{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
		reply:   reply,
	}
}

func (r *gatedResponder) Respond(ctx context.Context, _ string, _ []domain.Turn) (string, error) {
	r.started <- struct{}{}
	select {
	case <-r.release:
		return r.reply, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
