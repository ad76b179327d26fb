package domain

// ChartPoint is one sample of a chart payload attached to an assistant entry.
type ChartPoint struct {
	Label     string   `json:"label"`
	Value     float64  `json:"value"`
	Secondary *float64 `json:"secondary,omitempty"`
}

// Entry is one turn of a conversation. Entries are never mutated after
// they are appended.
type Entry struct {
	Role      Role         `json:"role"`
	Content   string       `json:"content"`
	Timestamp Timestamp    `json:"timestamp"`
	Kind      EntryKind    `json:"kind,omitempty"`
	Chart     []ChartPoint `json:"chart,omitempty"`
}

// Turn is the role/text view of an entry handed to a Responder as history.
type Turn struct {
	Role Role
	Text string
}

// Session represents one hosted chat widget (mode + title props).
type Session struct {
	ID        SessionID
	Title     string
	Mode      Mode
	CreatedAt Timestamp
	UpdatedAt Timestamp
}

// Transcript is the persisted form of a session: its metadata and the
// entry sequence of the active mode.
type Transcript struct {
	Session Session
	Entries []Entry
}
