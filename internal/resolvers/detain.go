package resolvers

import (
	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/mapgraph"
	"github.com/talgya/hollowreach/internal/rng"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

// detentionHours fixes how long a successful kidnap or arrest holds its
// target before release absent other intervention — spec.md names the
// detained/untilTick shape but leaves the window itself unspecified, so
// kidnap (held for ransom/ritual use) gets a longer hold than a lawful
// arrest (recorded as an Open Question resolution).
func detentionHours(kind string) uint64 {
	if kind == "kidnap" {
		return 72
	}
	return 48
}

// resolveDetain returns a resolver for kidnap or arrest: a trait-based
// success roll sets the target's status.detained window on success.
func resolveDetain(kind string) Fn {
	return func(w *worldmodel.World, at worldmodel.Attempt, cfg config.Config, graph *mapgraph.Graph, stream *rng.Stream, sink *worldmodel.EventSink) error {
		if at.TargetID == "" {
			recordAttempt(sink, at, false, map[string]any{"reason": "no_target"})
			return nil
		}
		actor := w.NPCs[at.ActorID]
		target := w.NPCs[at.TargetID]

		offense := actor.Traits.Aggression*0.5 + actor.Traits.Discipline*0.3 + actor.Traits.Courage*0.2
		defense := target.Traits.Courage*0.4 + target.Traits.Discipline*0.4 + target.Traits.Suspicion*0.2
		chance := clampChance(offense-defense+50, 5, 90)
		success := stream.Bernoulli(chance / 100)
		if !success {
			recordAttempt(sink, at, false, nil)
			return nil
		}

		target.Status.Detention = &worldmodel.DetentionStatus{
			By: at.ActorID, AtSiteID: at.SiteID,
			StartedTick: w.Tick, UntilTick: w.Tick + detentionHours(kind),
		}
		w.NPCs[at.TargetID] = target

		postPublicRumor(w, at, kind+" occurred", kind, 85)
		recordAttempt(sink, at, true, map[string]any{"targetId": at.TargetID})
		return nil
	}
}

// resolveForcedEclipse begins the multi-day conversion ritual: valid only
// when the target is detained or the site's pressure is high and anchor low.
func resolveForcedEclipse(w *worldmodel.World, at worldmodel.Attempt, cfg config.Config, graph *mapgraph.Graph, stream *rng.Stream, sink *worldmodel.EventSink) error {
	if at.TargetID == "" {
		recordAttempt(sink, at, false, map[string]any{"reason": "no_target"})
		return nil
	}
	target := w.NPCs[at.TargetID]
	site := w.Sites[at.SiteID]

	eligible := target.IsDetained() || (site.EclipsingPressure >= 55 && site.AnchoringStrength <= 45)
	if !eligible {
		recordAttempt(sink, at, false, map[string]any{"reason": "not_eligible"})
		return nil
	}

	success := stream.Bernoulli(0.6)
	if !success {
		recordAttempt(sink, at, false, nil)
		return nil
	}

	days, err := stream.Int(1, 3)
	if err != nil {
		return err
	}
	initiated := w.Tick
	target.Status.Eclipsing = &worldmodel.EclipsingStatus{
		InitiatedTick:       initiated,
		CompleteTick:        initiated + uint64(days)*24,
		ReversibleUntilTick: initiated + 48,
	}
	w.NPCs[at.TargetID] = target

	recordAttempt(sink, at, true, map[string]any{"targetId": at.TargetID, "days": days})
	return nil
}

// resolveAnchorSever reverses an in-progress eclipsing while still within
// its reversible window.
func resolveAnchorSever(w *worldmodel.World, at worldmodel.Attempt, cfg config.Config, graph *mapgraph.Graph, stream *rng.Stream, sink *worldmodel.EventSink) error {
	if at.TargetID == "" {
		recordAttempt(sink, at, false, map[string]any{"reason": "no_target"})
		return nil
	}
	target := w.NPCs[at.TargetID]
	ec := target.Status.Eclipsing
	if ec == nil || w.Tick > ec.ReversibleUntilTick {
		recordAttempt(sink, at, false, map[string]any{"reason": "not_reversible"})
		return nil
	}

	success := stream.Bernoulli(0.7)
	if !success {
		recordAttempt(sink, at, false, nil)
		return nil
	}

	target.Status.Eclipsing = nil
	target.Trauma = worldmodel.Clamp100(target.Trauma - 10)
	w.NPCs[at.TargetID] = target
	recordAttempt(sink, at, true, map[string]any{"targetId": at.TargetID})
	return nil
}

// resolveIntervene clears the target's in-flight pending attempt and
// briefly staggers both the intervener and the target.
func resolveIntervene(w *worldmodel.World, at worldmodel.Attempt, cfg config.Config, graph *mapgraph.Graph, stream *rng.Stream, sink *worldmodel.EventSink) error {
	if at.TargetID == "" {
		recordAttempt(sink, at, false, map[string]any{"reason": "no_target"})
		return nil
	}
	target := w.NPCs[at.TargetID]
	target.PendingAttempt = nil
	target.BusyUntilTick = w.Tick + 1
	target.BusyKind = "staggered"
	w.NPCs[at.TargetID] = target

	actor := w.NPCs[at.ActorID]
	actor.BusyUntilTick = w.Tick + 1
	actor.BusyKind = "staggered"
	w.NPCs[at.ActorID] = actor

	recordAttempt(sink, at, true, map[string]any{"targetId": at.TargetID})
	return nil
}
