package worldmodel

// EventSink accumulates the events emitted by one tick, assigning each a
// deterministic sequential id via the owning World's counter. Every
// sub-step of the orchestrator shares one EventSink so that ids stay
// sequential across the whole pipeline in emission order (spec.md
// Section 5, "ordering guarantees").
type EventSink struct {
	World  *World
	Events []SimEvent
}

// NewEventSink creates a sink bound to the given world.
func NewEventSink(w *World) *EventSink {
	return &EventSink{World: w}
}

// Emit records one event and returns it.
func (s *EventSink) Emit(kind EventKind, vis Visibility, site SiteID, message string, data map[string]any) SimEvent {
	ev := SimEvent{
		ID:         s.World.NextEventID(),
		Tick:       s.World.Tick,
		Kind:       kind,
		Visibility: vis,
		SiteID:     site,
		Message:    message,
		Data:       data,
	}
	s.Events = append(s.Events, ev)
	return ev
}
