package llm

import (
	"context"
	"time"

	"github.com/PabloGalante/datagent/internal/domain"
	"github.com/PabloGalante/datagent/internal/observability"
)

type loggingResponder struct {
	name string
	next domain.Responder
}

// WithLogging wraps next so every call is logged with its duration.
func WithLogging(name string, next domain.Responder) domain.Responder {
	return &loggingResponder{name: name, next: next}
}

func (l *loggingResponder) Respond(ctx context.Context, message string, history []domain.Turn) (string, error) {
	log := observability.LoggerFromContext(ctx).With(
		"responder", l.name,
		"history_len", len(history),
	)
	log.Info("responder call start")

	start := time.Now()
	reply, err := l.next.Respond(ctx, message, history)
	elapsed := time.Since(start)

	if err != nil {
		log.Error("responder call failed", "error", err, "elapsed_ms", elapsed.Milliseconds())
		return "", err
	}

	log.Info("responder call end", "elapsed_ms", elapsed.Milliseconds(), "reply_len", len(reply))
	return reply, nil
}
