package conversation

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/PabloGalante/datagent/internal/domain"
	"github.com/PabloGalante/datagent/internal/observability"
)

// ApologyText is appended when the responder fails outright.
const ApologyText = "系统繁忙，请稍后再试。"

// Holder owns the entry sequence, draft buffer and loading flag of one chat
// widget. It is safe for concurrent use; at most one responder call is in
// flight at a time.
type Holder struct {
	responder domain.Responder
	now       func() time.Time

	mu         sync.Mutex
	mode       domain.Mode
	entries    []domain.Entry
	draft      string
	loading    bool
	generation uint64
}

// NewHolder returns a holder already reset for mode.
func NewHolder(responder domain.Responder, mode domain.Mode) *Holder {
	h := &Holder{
		responder: responder,
		now:       time.Now,
	}
	h.ResetForMode(mode)
	return h
}

// ResetForMode discards the current conversation and starts a new one with
// the greeting for mode.
func (h *Holder) ResetForMode(mode domain.Mode) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.mode = mode
	h.generation++
	h.entries = []domain.Entry{{
		Role:      domain.RoleAssistant,
		Content:   Greeting(mode),
		Timestamp: h.now(),
		Kind:      domain.KindPlain,
	}}
}

func (h *Holder) Mode() domain.Mode {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mode
}

// Entries returns a copy of the current entry sequence.
func (h *Holder) Entries() []domain.Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.Entry(nil), h.entries...)
}

func (h *Holder) Loading() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loading
}

func (h *Holder) Draft() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.draft
}

func (h *Holder) SetDraft(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.draft = text
}

// Placeholder is the input hint for the active mode.
func (h *Holder) Placeholder() string {
	return profileFor(h.Mode()).placeholder
}

// Suggestions returns the chips offered for the active mode.
func (h *Holder) Suggestions() []Suggestion {
	return append([]Suggestion(nil), profileFor(h.Mode()).suggestions...)
}

// UseSuggestion copies the text of chip i into the draft buffer.
func (h *Holder) UseSuggestion(i int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	chips := profileFor(h.mode).suggestions
	if i < 0 || i >= len(chips) {
		return false
	}
	h.draft = chips[i].Text
	return true
}

// SubmitDraft submits whatever is in the draft buffer.
func (h *Holder) SubmitDraft(ctx context.Context) (domain.Entry, error) {
	return h.Submit(ctx, h.Draft())
}

// Submit appends text as a user entry, asks the responder for a reply and
// appends it. It blocks until the responder returns. Blank text and
// submissions while a reply is pending are rejected without touching state.
func (h *Holder) Submit(ctx context.Context, text string) (domain.Entry, error) {
	h.mu.Lock()
	if strings.TrimSpace(text) == "" {
		h.mu.Unlock()
		return domain.Entry{}, domain.ErrEmptyMessage
	}
	if h.loading {
		h.mu.Unlock()
		return domain.Entry{}, domain.ErrRequestInFlight
	}

	history := toTurns(h.entries)
	h.entries = append(h.entries, domain.Entry{
		Role:      domain.RoleUser,
		Content:   text,
		Timestamp: h.now(),
		Kind:      domain.KindPlain,
	})
	h.draft = ""
	h.loading = true
	gen := h.generation
	mode := h.mode
	h.mu.Unlock()

	log := observability.LoggerFromContext(ctx).With("mode", mode)

	reply, err := h.responder.Respond(ctx, text, history)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.loading = false

	entry := domain.Entry{
		Role:      domain.RoleAssistant,
		Timestamp: h.now(),
		Kind:      domain.KindPlain,
	}
	if err != nil {
		log.Error("responder failed", "error", err)
		entry.Content = ApologyText
	} else {
		entry.Content = reply
		if WantsChart(text, mode) {
			entry.Kind = domain.KindChart
			entry.Chart = mockChart()
		}
	}

	if gen != h.generation {
		log.Warn("dropping reply for a reset conversation")
		return entry, domain.ErrConversationReset
	}

	h.entries = append(h.entries, entry)
	return entry, nil
}

// Snapshot exports the mode and entries for persistence.
func (h *Holder) Snapshot() (domain.Mode, []domain.Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mode, append([]domain.Entry(nil), h.entries...)
}

// Restore replaces the holder's state with a persisted transcript. An
// empty transcript falls back to a fresh greeting.
func (h *Holder) Restore(t *domain.Transcript) {
	if len(t.Entries) == 0 {
		h.ResetForMode(t.Session.Mode)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.mode = t.Session.Mode
	h.generation++
	h.entries = append([]domain.Entry(nil), t.Entries...)
	h.draft = ""
}

// toTurns keeps every entry, in order.
func toTurns(entries []domain.Entry) []domain.Turn {
	turns := make([]domain.Turn, 0, len(entries))
	for _, e := range entries {
		turns = append(turns, domain.Turn{Role: e.Role, Text: e.Content})
	}
	return turns
}
