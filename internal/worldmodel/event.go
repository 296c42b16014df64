package worldmodel

// EventKind is the closed enumeration of event kinds. Events are the sole
// cross-component ledger per tick and the durable log line (spec.md
// Section 3).
type EventKind string

const (
	EventAttemptStarted     EventKind = "attempt.started"
	EventAttemptCompleted   EventKind = "attempt.completed"
	EventAttemptAborted     EventKind = "attempt.aborted"
	EventAttemptInterrupted EventKind = "attempt.interrupted"
	EventAttemptRecorded    EventKind = "attempt.recorded"

	EventOpportunityCreated   EventKind = "opportunity.created"
	EventOpportunityResponded EventKind = "opportunity.responded"

	EventNPCDied          EventKind = "npc.died"
	EventStartedTraveling EventKind = "started_traveling"
	EventTravelEncounter  EventKind = "travel.encounter"
	EventTravelArrived    EventKind = "travel.arrived"

	EventWorldIncident EventKind = "world.incident"
	EventSimDayEnded   EventKind = "sim.day.ended"

	EventFactionOperationCreated   EventKind = "faction.operation.created"
	EventFactionOperationPhase     EventKind = "faction.operation.phase"
	EventFactionOperationCompleted EventKind = "faction.operation.completed"
	EventFactionOperationAborted   EventKind = "faction.operation.aborted"

	EventGoalTold EventKind = "goal.told"
)

// SimEvent is the durable, newline-delimited-JSON-encoded event record
// (spec.md Section 6, "Event log format").
type SimEvent struct {
	ID         EventID        `json:"id"`
	Tick       uint64         `json:"tick"`
	Kind       EventKind      `json:"kind"`
	Visibility Visibility     `json:"visibility"`
	SiteID     SiteID         `json:"siteId,omitempty"`
	Message    string         `json:"message"`
	Data       map[string]any `json:"data,omitempty"`
}
