package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/datagent/internal/domain"
)

type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store.
// Uses the project passed (DATAGENT_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) sessionsCol() *firestore.CollectionRef {
	return s.client.Collection("sessions")
}

func (s *Store) sessionDoc(id domain.SessionID) *firestore.DocumentRef {
	return s.sessionsCol().Doc(string(id))
}

func (s *Store) entriesCol(id domain.SessionID) *firestore.CollectionRef {
	return s.sessionDoc(id).Collection("entries")
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type sessionDoc struct {
	Title      string    `firestore:"title"`
	Mode       string    `firestore:"mode"`
	EntryCount int       `firestore:"entry_count"`
	CreatedAt  time.Time `firestore:"created_at"`
	UpdatedAt  time.Time `firestore:"updated_at"`
}

type entryDoc struct {
	Seq       int             `firestore:"seq"`
	Role      string          `firestore:"role"`
	Content   string          `firestore:"content"`
	Kind      string          `firestore:"kind"`
	Timestamp time.Time       `firestore:"timestamp"`
	Chart     []chartPointDoc `firestore:"chart,omitempty"`
}

type chartPointDoc struct {
	Label     string   `firestore:"label"`
	Value     float64  `firestore:"value"`
	Secondary *float64 `firestore:"secondary"`
}

func toEntryDoc(seq int, e domain.Entry) entryDoc {
	doc := entryDoc{
		Seq:       seq,
		Role:      string(e.Role),
		Content:   e.Content,
		Kind:      string(e.Kind),
		Timestamp: e.Timestamp,
	}
	for _, p := range e.Chart {
		doc.Chart = append(doc.Chart, chartPointDoc(p))
	}
	return doc
}

func (d entryDoc) toEntry() domain.Entry {
	e := domain.Entry{
		Role:      domain.Role(d.Role),
		Content:   d.Content,
		Kind:      domain.EntryKind(d.Kind),
		Timestamp: d.Timestamp,
	}
	for _, p := range d.Chart {
		e.Chart = append(e.Chart, domain.ChartPoint(p))
	}
	return e
}

// ─────────────────────────────────────────
// TranscriptStore implementation
// ─────────────────────────────────────────

// SaveTranscript writes the session document and its entries in one batch.
// Entries beyond the new length (left over from a mode reset) are removed.
func (s *Store) SaveTranscript(ctx context.Context, t *domain.Transcript) error {
	id := t.Session.ID

	prevCount := 0
	snap, err := s.sessionDoc(id).Get(ctx)
	switch {
	case err == nil:
		var prev sessionDoc
		if err := snap.DataTo(&prev); err != nil {
			return fmt.Errorf("firestore SaveTranscript decode: %w", err)
		}
		prevCount = prev.EntryCount
	case status.Code(err) == codes.NotFound:
	default:
		return fmt.Errorf("firestore SaveTranscript: %w", err)
	}

	w := newBatch(s.client.BulkWriter(ctx))

	doc := sessionDoc{
		Title:      t.Session.Title,
		Mode:       string(t.Session.Mode),
		EntryCount: len(t.Entries),
		CreatedAt:  t.Session.CreatedAt,
		UpdatedAt:  t.Session.UpdatedAt,
	}
	w.set(s.sessionDoc(id), doc)
	for i, e := range t.Entries {
		w.set(s.entriesCol(id).Doc(entryKey(i)), toEntryDoc(i, e))
	}
	for i := len(t.Entries); i < prevCount; i++ {
		w.delete(s.entriesCol(id).Doc(entryKey(i)))
	}

	if err := w.end(); err != nil {
		return fmt.Errorf("firestore SaveTranscript: %w", err)
	}
	return nil
}

func (s *Store) LoadTranscript(ctx context.Context, id domain.SessionID) (*domain.Transcript, error) {
	snap, err := s.sessionDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("firestore LoadTranscript: %w", err)
	}

	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore LoadTranscript decode: %w", err)
	}

	t := &domain.Transcript{
		Session: domain.Session{
			ID:        id,
			Title:     doc.Title,
			Mode:      domain.Mode(doc.Mode),
			CreatedAt: doc.CreatedAt,
			UpdatedAt: doc.UpdatedAt,
		},
	}

	q := s.entriesCol(id).OrderBy("seq", firestore.Asc).Limit(doc.EntryCount)
	iter := q.Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore LoadTranscript entries: %w", err)
		}

		var e entryDoc
		if err := snap.DataTo(&e); err != nil {
			return nil, fmt.Errorf("decode entryDoc: %w", err)
		}
		t.Entries = append(t.Entries, e.toEntry())
	}
	return t, nil
}

func (s *Store) DeleteTranscript(ctx context.Context, id domain.SessionID) error {
	if _, err := s.sessionDoc(id).Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.ErrSessionNotFound
		}
		return fmt.Errorf("firestore DeleteTranscript: %w", err)
	}

	iter := s.entriesCol(id).Documents(ctx)
	defer iter.Stop()

	w := newBatch(s.client.BulkWriter(ctx))
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			w.end()
			return fmt.Errorf("firestore DeleteTranscript entries: %w", err)
		}
		w.delete(snap.Ref)
	}
	w.delete(s.sessionDoc(id))

	if err := w.end(); err != nil {
		return fmt.Errorf("firestore DeleteTranscript: %w", err)
	}
	return nil
}

// entryKey zero-pads so document IDs sort in sequence order.
func entryKey(i int) string {
	return fmt.Sprintf("%06d", i)
}

// batch collects BulkWriter jobs and reports the first failure once the
// writer has been drained.
type batch struct {
	bw   *firestore.BulkWriter
	jobs []*firestore.BulkWriterJob
	err  error
}

func newBatch(bw *firestore.BulkWriter) *batch {
	return &batch{bw: bw}
}

func (b *batch) set(doc *firestore.DocumentRef, data any) {
	if b.err != nil {
		return
	}
	job, err := b.bw.Set(doc, data)
	b.track(job, err)
}

func (b *batch) delete(doc *firestore.DocumentRef) {
	if b.err != nil {
		return
	}
	job, err := b.bw.Delete(doc)
	b.track(job, err)
}

func (b *batch) track(job *firestore.BulkWriterJob, err error) {
	if err != nil {
		b.err = err
		return
	}
	b.jobs = append(b.jobs, job)
}

func (b *batch) end() error {
	b.bw.End()
	if b.err != nil {
		return b.err
	}
	for _, job := range b.jobs {
		if _, err := job.Results(); err != nil {
			return err
		}
	}
	return nil
}
