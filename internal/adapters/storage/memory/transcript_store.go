package memory

import (
	"context"
	"sync"

	"github.com/PabloGalante/datagent/internal/domain"
)

// TranscriptStore is an in-memory domain.TranscriptStore.
// It is NOT persistent and is only suitable for development / local mode.
type TranscriptStore struct {
	mu          sync.RWMutex
	transcripts map[domain.SessionID]*domain.Transcript
}

func NewTranscriptStore() *TranscriptStore {
	return &TranscriptStore{
		transcripts: make(map[domain.SessionID]*domain.Transcript),
	}
}

func (s *TranscriptStore) SaveTranscript(_ context.Context, t *domain.Transcript) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transcripts[t.Session.ID] = cloneTranscript(t)
	return nil
}

func (s *TranscriptStore) LoadTranscript(_ context.Context, id domain.SessionID) (*domain.Transcript, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.transcripts[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return cloneTranscript(t), nil
}

func (s *TranscriptStore) DeleteTranscript(_ context.Context, id domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transcripts[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.transcripts, id)
	return nil
}

// Entries are immutable, so a shallow copy of the slice is enough.
func cloneTranscript(t *domain.Transcript) *domain.Transcript {
	return &domain.Transcript{
		Session: t.Session,
		Entries: append([]domain.Entry(nil), t.Entries...),
	}
}
