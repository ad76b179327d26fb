package domain

import "context"

// Responder produces the assistant's reply for a user message given the
// prior conversation.
type Responder interface {
	Respond(ctx context.Context, message string, history []Turn) (string, error)
}

// TranscriptStore persists session transcripts.
type TranscriptStore interface {
	SaveTranscript(ctx context.Context, t *Transcript) error
	LoadTranscript(ctx context.Context, id SessionID) (*Transcript, error)
	DeleteTranscript(ctx context.Context, id SessionID) error
}
