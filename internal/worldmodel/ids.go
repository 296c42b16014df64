// Package worldmodel defines the engine's sum-typed entities — sites, NPCs,
// attempts, events — as immutable value records, plus the clamping helpers
// that keep every scalar in its declared range. See design doc Section 3.
package worldmodel

import "fmt"

// SiteID is a stable string identifier for a site.
type SiteID string

// NPCID is a stable string identifier for an NPC, generated at seed time.
type NPCID string

// AttemptID has the deterministic shape att:<tick>:<seq>.
type AttemptID string

// EventID has the deterministic shape evt:<tick>:<seq>.
type EventID string

// MemoryID has the deterministic shape mem:<npcId>:<eventId>.
type MemoryID string

// NewAttemptID builds the canonical attempt id for a tick/sequence pair.
func NewAttemptID(tick uint64, seq int) AttemptID {
	return AttemptID(fmt.Sprintf("att:%d:%d", tick, seq))
}

// NewEventID builds the canonical event id for a tick/sequence pair.
func NewEventID(tick uint64, seq int) EventID {
	return EventID(fmt.Sprintf("evt:%d:%d", tick, seq))
}

// NewMemoryID builds the canonical, deterministic memory id for a
// (witness, event) pair.
func NewMemoryID(witness NPCID, event EventID) MemoryID {
	return MemoryID(fmt.Sprintf("mem:%s:%s", witness, event))
}
