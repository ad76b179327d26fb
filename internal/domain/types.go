package domain

import (
	"strings"
	"time"
)

type SessionID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Mode selects the greeting, placeholder and suggestion set of a conversation.
type Mode string

const (
	ModeQuery    Mode = "query"    // Smart query: direct data questions
	ModeReport   Mode = "report"   // Smart reports: generated visual summaries
	ModeAnalysis Mode = "analysis" // Smart analysis: trends and recommendations
	ModeUnknown  Mode = "unknown"
)

// Modes lists the selectable modes in display order.
var Modes = []Mode{ModeQuery, ModeReport, ModeAnalysis}

// ParseMode maps host-supplied text onto a Mode. Anything outside the
// closed set becomes ModeUnknown.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeQuery:
		return ModeQuery
	case ModeReport:
		return ModeReport
	case ModeAnalysis:
		return ModeAnalysis
	default:
		return ModeUnknown
	}
}

type EntryKind string

const (
	KindPlain EntryKind = "plain"
	KindChart EntryKind = "chart"
)

type Timestamp = time.Time
