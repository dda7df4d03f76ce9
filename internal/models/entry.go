package models

import "time"

// BikeSnapshot is a denormalized copy of a bike's descriptive fields,
// captured when an entry is created (or when the entry is reassigned to a
// different bike) so historical rows survive later edits or deletion of the
// bike master record.
type BikeSnapshot struct {
	Model string `json:"model"`
	Brand string `json:"brand"`
	Color string `json:"color"`
}

// Entry is one access-registration record: a bike checked into the lot and
// possibly checked out again. A nil ExitTimestamp means the bike is
// currently parked (the entry is "open").
//
// Overnight stays are modeled as a linked pair: the original entry on day N
// points to an auto-created continuation on day N+1 via OvernightEntryID,
// and the continuation points back via OriginalEntryID. Exactly one of the
// two references is set per side.
type Entry struct {
	ID           string       `json:"id"`
	ClientID     string       `json:"clientId"`
	BikeID       string       `json:"bikeId"`
	BikeSnapshot BikeSnapshot `json:"bikeSnapshot"`

	// Category is a free-text label; when empty at creation it defaults to
	// the client's own category.
	Category string `json:"category,omitempty"`

	EntryTimestamp time.Time  `json:"entryTimestamp"`
	ExitTimestamp  *time.Time `json:"exitTimestamp"`

	// AccessRemoved is true only when the exit was forced via the
	// "remove access" operation, keeping an audit trail distinct from a
	// normal checkout.
	AccessRemoved bool `json:"accessRemoved,omitempty"`

	Overnight        bool   `json:"overnight,omitempty"`
	OvernightEntryID string `json:"overnightEntryId,omitempty"`
	OriginalEntryID  string `json:"originalEntryId,omitempty"`

	// OriginalEntryTimestamp is preserved on the overnight continuation so
	// reports can show the true original check-in time.
	OriginalEntryTimestamp *time.Time `json:"originalEntryTimestamp,omitempty"`
}

// Open reports whether the bike is still parked.
func (e *Entry) Open() bool {
	return e.ExitTimestamp == nil
}

// LocalDate returns the entry's local calendar date formatted as 2006-01-02.
// Bucketing and daily views key on this value, not on the UTC date, to avoid
// off-by-one-day errors across timezones.
func (e *Entry) LocalDate() string {
	return e.EntryTimestamp.Format("2006-01-02")
}
