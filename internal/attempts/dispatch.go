// Package attempts implements the attempt lifecycle: scheduling wind-up
// attempts versus resolving immediate ones, opportunity/counter-response
// handling, and the ordered abort/interrupt checks run before a scheduled
// attempt executes (spec.md Section 4.6).
package attempts

import (
	"github.com/talgya/hollowreach/internal/rng"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

// Resolver resolves one attempt by mutating the world in place and
// emitting events through sink. Supplied by the orchestrator so this
// package never imports internal/resolvers.
type Resolver func(w *worldmodel.World, at worldmodel.Attempt, stream *rng.Stream, sink *worldmodel.EventSink) error

// Dispatch either schedules a wind-up attempt (parking it as the actor's
// pendingAttempt and marking the actor busy) or resolves it immediately.
// Returns true if the attempt was scheduled rather than resolved here.
func Dispatch(w *worldmodel.World, at worldmodel.Attempt, resolve Resolver, stream *rng.Stream, sink *worldmodel.EventSink) (bool, error) {
	actor, ok := w.NPCs[at.ActorID]
	if !ok || !actor.Alive {
		return false, nil
	}

	windup := at.Kind.WindupTicks()
	if windup > 0 && actor.PendingAttempt == nil {
		executeAt := w.Tick + uint64(windup)
		actor.PendingAttempt = &worldmodel.PendingAttempt{
			AttemptID:     at.ID,
			Kind:          at.Kind,
			Visibility:    at.Visibility,
			TargetID:      at.TargetID,
			SiteID:        at.SiteID,
			Magnitude:     at.Magnitude,
			Resources:     at.Resources,
			CreatedTick:   w.Tick,
			ExecuteAtTick: executeAt,
		}
		actor.BusyUntilTick = executeAt
		actor.BusyKind = string(at.Kind)
		w.NPCs[at.ActorID] = actor
		sink.Emit(worldmodel.EventAttemptStarted, at.Visibility, at.SiteID,
			string(at.ActorID)+" begins "+string(at.Kind), map[string]any{"attemptId": at.ID, "kind": at.Kind})
		return true, nil
	}

	if err := resolve(w, at, stream, sink); err != nil {
		return false, err
	}
	sink.Emit(worldmodel.EventAttemptCompleted, at.Visibility, at.SiteID,
		string(at.ActorID)+" completes "+string(at.Kind),
		map[string]any{"attemptId": at.ID, "kind": at.Kind, "actorId": at.ActorID, "targetId": at.TargetID})
	return false, nil
}

// ReconstructAttempt rebuilds the original Attempt value from a parked
// PendingAttempt so resolvers see the same shape whether an attempt
// resolved immediately or after a wind-up.
func ReconstructAttempt(actorID worldmodel.NPCID, p worldmodel.PendingAttempt) worldmodel.Attempt {
	return worldmodel.Attempt{
		ID:            p.AttemptID,
		Tick:          p.ExecuteAtTick,
		Kind:          p.Kind,
		Visibility:    p.Visibility,
		ActorID:       actorID,
		TargetID:      p.TargetID,
		SiteID:        p.SiteID,
		DurationHours: 0,
		Magnitude:     p.Magnitude,
		Resources:     p.Resources,
	}
}
