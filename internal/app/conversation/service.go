package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/PabloGalante/datagent/internal/domain"
	"github.com/PabloGalante/datagent/internal/observability"
)

const DefaultCacheSize = 256

// Service hosts many chat widgets at once, one Holder per session. Live
// holders are kept in an LRU cache and rehydrated from the store on a miss.
// Sessions waiting on a reply are also tracked outside the cache so an
// eviction never splits one conversation across two holders.
type Service struct {
	responder domain.Responder
	store     domain.TranscriptStore
	now       func() time.Time

	mu      sync.Mutex
	live    *lru.Cache[domain.SessionID, *liveSession]
	pending map[domain.SessionID]*liveSession
}

type liveSession struct {
	holder *Holder

	// sends is guarded by Service.mu.
	sends int

	ended atomic.Bool

	// mu guards session and is held across store writes.
	mu      sync.Mutex
	session domain.Session
}

func NewService(
	responder domain.Responder,
	store domain.TranscriptStore,
	cacheSize int,
) (*Service, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[domain.SessionID, *liveSession](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating session cache: %w", err)
	}

	return &Service{
		responder: responder,
		store:     store,
		now:       time.Now,
		live:      cache,
		pending:   make(map[domain.SessionID]*liveSession),
	}, nil
}

type StartSessionInput struct {
	Mode  domain.Mode
	Title string
}

type StartSessionOutput struct {
	Session  domain.Session
	Greeting domain.Entry
}

func (s *Service) StartSession(ctx context.Context, in StartSessionInput) (*StartSessionOutput, error) {
	now := s.now()

	log := observability.LoggerFromContext(ctx).With("mode", in.Mode)
	log.Info("starting new session")

	ls := &liveSession{
		session: domain.Session{
			ID:        domain.SessionID(uuid.NewString()),
			Title:     in.Title,
			Mode:      in.Mode,
			CreatedAt: now,
			UpdatedAt: now,
		},
		holder: NewHolder(s.responder, in.Mode),
	}

	if err := s.save(ctx, ls); err != nil {
		log.Error("failed to save session", "error", err)
		return nil, err
	}

	s.mu.Lock()
	s.live.Add(ls.session.ID, ls)
	s.mu.Unlock()

	log.Info("session started", "session_id", ls.session.ID)

	return &StartSessionOutput{
		Session:  ls.session,
		Greeting: ls.holder.Entries()[0],
	}, nil
}

// SwitchMode resets the session's conversation for mode.
func (s *Service) SwitchMode(ctx context.Context, id domain.SessionID, mode domain.Mode) (*StartSessionOutput, error) {
	ls, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With("session_id", id, "mode", mode)

	ls.holder.ResetForMode(mode)

	ls.mu.Lock()
	ls.session.Mode = mode
	ls.session.UpdatedAt = s.now()
	session := ls.session
	ls.mu.Unlock()

	if err := s.save(ctx, ls); err != nil {
		log.Error("failed to save session", "error", err)
		return nil, err
	}

	log.Info("mode switched")

	return &StartSessionOutput{
		Session:  session,
		Greeting: ls.holder.Entries()[0],
	}, nil
}

type SendMessageInput struct {
	SessionID domain.SessionID
	Text      string
}

type SendMessageOutput struct {
	UserEntry domain.Entry
	Reply     domain.Entry
}

func (s *Service) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	ls, err := s.get(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With(
		"session_id", in.SessionID,
		"mode", ls.holder.Mode(),
	)
	log.Info("sending message", "text", in.Text)

	s.beginSend(in.SessionID, ls)
	defer s.endSend(in.SessionID, ls)

	reply, err := ls.holder.Submit(ctx, in.Text)
	if err != nil {
		if errors.Is(err, domain.ErrConversationReset) {
			log.Warn("reply discarded after mode switch")
		}
		return nil, err
	}

	ls.mu.Lock()
	ls.session.UpdatedAt = s.now()
	ls.mu.Unlock()

	if err := s.save(ctx, ls); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			log.Warn("reply discarded after session end")
			return nil, err
		}
		log.Error("failed to save session", "error", err)
		return nil, err
	}

	entries := ls.holder.Entries()
	out := &SendMessageOutput{Reply: reply}
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Role == domain.RoleUser {
			out.UserEntry = entries[i]
			break
		}
	}

	log.Info("send message completed", "kind", reply.Kind)
	return out, nil
}

type Timeline struct {
	Session     domain.Session
	Entries     []domain.Entry
	Loading     bool
	Placeholder string
	Suggestions []Suggestion
}

func (s *Service) GetSessionTimeline(ctx context.Context, id domain.SessionID) (*Timeline, error) {
	ls, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	session := ls.session
	ls.mu.Unlock()

	return &Timeline{
		Session:     session,
		Entries:     ls.holder.Entries(),
		Loading:     ls.holder.Loading(),
		Placeholder: ls.holder.Placeholder(),
		Suggestions: ls.holder.Suggestions(),
	}, nil
}

// EndSession forgets the session both in memory and in the store. A reply
// still pending for it is discarded.
func (s *Service) EndSession(ctx context.Context, id domain.SessionID) error {
	ls, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.ended.Swap(true) {
		return domain.ErrSessionNotFound
	}

	s.mu.Lock()
	s.live.Remove(id)
	delete(s.pending, id)
	s.mu.Unlock()

	if err := s.store.DeleteTranscript(ctx, id); err != nil {
		return fmt.Errorf("deleting transcript: %w", err)
	}

	observability.LoggerFromContext(ctx).Info("session ended", "session_id", id)
	return nil
}

// beginSend pins ls so eviction cannot hand a second holder to get.
func (s *Service) beginSend(id domain.SessionID, ls *liveSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ls.sends++
	if !ls.ended.Load() {
		s.pending[id] = ls
	}
}

func (s *Service) endSend(id domain.SessionID, ls *liveSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ls.sends--
	if ls.sends == 0 && s.pending[id] == ls {
		delete(s.pending, id)
	}
}

// cached returns the holder for id if it is live or pinned by a send.
// Callers hold s.mu.
func (s *Service) cached(id domain.SessionID) (*liveSession, bool) {
	if ls, ok := s.live.Get(id); ok && !ls.ended.Load() {
		return ls, true
	}
	if ls, ok := s.pending[id]; ok && !ls.ended.Load() {
		s.live.Add(id, ls)
		return ls, true
	}
	return nil, false
}

func (s *Service) get(ctx context.Context, id domain.SessionID) (*liveSession, error) {
	s.mu.Lock()
	ls, ok := s.cached(id)
	s.mu.Unlock()
	if ok {
		return ls, nil
	}

	t, err := s.store.LoadTranscript(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have loaded it meanwhile.
	if ls, ok := s.cached(id); ok {
		return ls, nil
	}

	holder := NewHolder(s.responder, t.Session.Mode)
	holder.Restore(t)
	ls = &liveSession{session: t.Session, holder: holder}
	s.live.Add(id, ls)

	observability.LoggerFromContext(ctx).Info("session rehydrated",
		"session_id", id,
		"entries", len(t.Entries),
	)
	return ls, nil
}

// save writes the holder's state unless the session has ended.
func (s *Service) save(ctx context.Context, ls *liveSession) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.ended.Load() {
		return domain.ErrSessionNotFound
	}
	mode, entries := ls.holder.Snapshot()
	session := ls.session
	session.Mode = mode

	if err := s.store.SaveTranscript(ctx, &domain.Transcript{Session: session, Entries: entries}); err != nil {
		return fmt.Errorf("saving transcript: %w", err)
	}
	return nil
}
