package domain

import "time"

// Subscription is an account-like grouping of documents at a backend.
// It is a snapshot owned by the backend; the engine only reads it.
type Subscription struct {
	ID         string
	Label      string
	Subscriber string
	URL        string
	Validity   *time.Time
	RenewDate  *time.Time

	// Extra carries backend-specific attributes. A key present with an
	// empty value means the backend knows the attribute but did not load it.
	Extra map[string]string
}

func (s Subscription) Field(name string) (Value, bool) {
	switch name {
	case "id":
		return Text(s.ID), true
	case "label":
		return textOrMissing(s.Label), true
	case "subscriber":
		return textOrMissing(s.Subscriber), true
	case "url":
		return textOrMissing(s.URL), true
	case "validity":
		return dateOrMissing(s.Validity), true
	case "renewdate":
		return dateOrMissing(s.RenewDate), true
	}
	return extraField(s.Extra, name)
}

// Snapshot flattens s into a plain mapping suitable for the metadata
// store. Empty attributes are left out.
func (s Subscription) Snapshot() map[string]any {
	m := map[string]any{"id": s.ID}
	putText(m, "label", s.Label)
	putText(m, "subscriber", s.Subscriber)
	putText(m, "url", s.URL)
	putDate(m, "validity", s.Validity)
	putDate(m, "renewdate", s.RenewDate)
	putExtra(m, s.Extra)
	return m
}

func (s Subscription) String() string {
	if s.Label != "" {
		return s.ID + " (" + s.Label + ")"
	}
	return s.ID
}
