package attempts

import (
	"fmt"

	"github.com/talgya/hollowreach/internal/rng"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

// opportunityResponse maps a pending attempt's kind to the response kind
// eligible witnesses may offer before it resolves.
var opportunityResponse = map[worldmodel.AttemptKind]string{
	worldmodel.AttemptAssault: "stop_violence",
	worldmodel.AttemptKill:    "stop_violence",
	worldmodel.AttemptArrest:  "counter_arrest",
	worldmodel.AttemptKidnap:  "counter_kidnap",
	worldmodel.AttemptSteal:   "stop_theft",
}

// ProcessPendingAttempts handles every NPC whose pendingAttempt becomes due
// this tick: raise an opportunity for eligible witnesses, run the ordered
// abort/interrupt checks, then resolve or abort (spec.md Section 4.6). It
// walks NPC ids in sorted order for determinism.
func ProcessPendingAttempts(w *worldmodel.World, resolve Resolver, stream *rng.Stream, sink *worldmodel.EventSink) error {
	for _, actorID := range w.SortedNPCIDs() {
		actor := w.NPCs[actorID]
		if actor.PendingAttempt == nil || actor.PendingAttempt.ExecuteAtTick != w.Tick {
			continue
		}
		pending := *actor.PendingAttempt

		if actor.Alive && pending.Visibility == worldmodel.VisibilityPublic {
			if responderID, responded, err := raiseOpportunity(w, actorID, pending, stream, sink); err != nil {
				return err
			} else if responded {
				sink.Emit(worldmodel.EventAttemptInterrupted, pending.Visibility, pending.SiteID,
					string(responderID)+" stops "+string(actorID)+"'s "+string(pending.Kind)+" with an opportunity response",
					map[string]any{"attemptId": pending.AttemptID, "kind": pending.Kind, "reason": "opportunity_response", "guardId": responderID, "actorId": actorID, "targetId": pending.TargetID})
				continue
			}
		}

		if reason := checkAbort(w, actorID, pending); reason != "" {
			abortAttempt(w, actorID, pending, reason, sink)
			continue
		}

		if selfAbort(w, actorID, stream) {
			abortAttempt(w, actorID, pending, "self_abort", sink)
			continue
		}
		if interrupter, ok := checkInterrupt(w, actorID, pending, stream); ok {
			interruptAttempt(w, actorID, pending, interrupter, sink)
			continue
		}

		at := ReconstructAttempt(actorID, pending)
		clearPending(w, actorID)
		if err := resolve(w, at, stream, sink); err != nil {
			return err
		}
		sink.Emit(worldmodel.EventAttemptCompleted, pending.Visibility, pending.SiteID,
			string(actorID)+" completes "+string(pending.Kind),
			map[string]any{"attemptId": pending.AttemptID, "kind": pending.Kind, "actorId": actorID, "targetId": pending.TargetID})
	}
	return nil
}

func clearPending(w *worldmodel.World, actorID worldmodel.NPCID) {
	actor := w.NPCs[actorID]
	actor.PendingAttempt = nil
	actor.BusyUntilTick = 0
	actor.BusyKind = ""
	w.NPCs[actorID] = actor
}

// raiseOpportunity scores eligible witness responses and resolves the
// single highest-scoring one, clearing the pending attempt if it fires.
// Returns the responding witness id and responded=true if a
// counter-response consumed the opportunity; the caller is responsible
// for emitting the resulting attempt.interrupted event (spec.md Section
// 8 Scenario 5 requires tick T+1 to emit exactly one terminal event for
// the pending attempt, and an opportunity response is one such terminal
// outcome, not a silent clear).
func raiseOpportunity(w *worldmodel.World, actorID worldmodel.NPCID, pending worldmodel.PendingAttempt, stream *rng.Stream, sink *worldmodel.EventSink) (worldmodel.NPCID, bool, error) {
	responseKind, ok := opportunityResponse[pending.Kind]
	if !ok {
		return "", false, nil
	}

	type witnessScore struct {
		witnessID worldmodel.NPCID
		score     float64
	}
	var best *witnessScore

	for _, wid := range w.SortedNPCIDs() {
		if wid == actorID {
			continue
		}
		w2 := w.NPCs[wid]
		if !w2.Alive || w2.SiteID != pending.SiteID || w2.IsTraveling() || w2.IsDetained() || w2.IsBusy(w.Tick) {
			continue
		}

		score := witnessResponseScore(w, wid, actorID, pending)
		if score <= 0 {
			continue
		}
		if best == nil || score > best.score || (score == best.score && wid < best.witnessID) {
			best = &witnessScore{witnessID: wid, score: score}
		}
	}

	if best == nil {
		return "", false, nil
	}

	sink.Emit(worldmodel.EventOpportunityCreated, worldmodel.VisibilityPublic, pending.SiteID,
		fmt.Sprintf("%s has a chance to %s against %s", best.witnessID, responseKind, actorID),
		map[string]any{"responseKind": responseKind, "witnessId": best.witnessID, "offenderId": actorID})

	resolveOpportunity(w, best.witnessID, actorID, pending, responseKind, sink)
	sink.Emit(worldmodel.EventOpportunityResponded, worldmodel.VisibilityPublic, pending.SiteID,
		fmt.Sprintf("%s responds with %s", best.witnessID, responseKind),
		map[string]any{"responseKind": responseKind, "witnessId": best.witnessID, "offenderId": actorID})
	return best.witnessID, true, nil
}

func witnessResponseScore(w *worldmodel.World, witnessID, offenderID worldmodel.NPCID, pending worldmodel.PendingAttempt) float64 {
	witness := w.NPCs[witnessID]
	var score float64

	if pending.TargetID == witnessID {
		score += 40 + witness.Traits.Courage*0.3
	}
	if witness.Category == worldmodel.CategoryGuard {
		score += 60 + witness.Traits.Discipline*0.2
	}
	if witness.Cult != nil {
		if target, ok := w.NPCs[pending.TargetID]; ok && target.Cult != nil {
			score += 50
		}
	}
	for _, fam := range witness.Family {
		if fam == pending.TargetID {
			score += 55 + witness.Traits.Loyalty*0.2
		}
	}
	return score
}

func resolveOpportunity(w *worldmodel.World, witnessID, offenderID worldmodel.NPCID, pending worldmodel.PendingAttempt, responseKind string, sink *worldmodel.EventSink) {
	offender := w.NPCs[offenderID]
	offender.PendingAttempt = nil
	offender.BusyUntilTick = w.Tick + 1
	offender.BusyKind = "interrupted"
	w.NPCs[offenderID] = offender

	witness := w.NPCs[witnessID]
	witness.BusyUntilTick = w.Tick + 1
	witness.BusyKind = responseKind
	w.NPCs[witnessID] = witness
}

// checkAbort runs the ordered structural pre-execution checks and returns
// a non-empty abort reason if one fires, in spec order: actor_missing,
// target_unavailable, state_changed.
func checkAbort(w *worldmodel.World, actorID worldmodel.NPCID, pending worldmodel.PendingAttempt) string {
	actor, ok := w.NPCs[actorID]
	if !ok || !actor.Alive {
		return "actor_missing"
	}

	if pending.TargetID != "" {
		target, ok := w.NPCs[pending.TargetID]
		if !ok || !target.Alive || target.SiteID != pending.SiteID || target.IsTraveling() {
			return "target_unavailable"
		}
	}

	if actor.IsDetained() || actor.IsTraveling() || actor.SiteID != pending.SiteID {
		return "state_changed"
	}

	return ""
}

// selfAbort rolls the low-probability self-abort chance
// `p = 0.03 × (Discipline+Integrity)/200`.
func selfAbort(w *worldmodel.World, actorID worldmodel.NPCID, stream *rng.Stream) bool {
	actor := w.NPCs[actorID]
	p := 0.03 * (actor.Traits.Discipline + actor.Traits.Integrity) / 200
	return stream.Bernoulli(p)
}

// checkInterrupt rolls the guard-interrupt chance for wind-up attempts
// when any guard is present at the site, returning the interrupting
// guard's id (lowest id, deterministic tie-break) on success.
func checkInterrupt(w *worldmodel.World, actorID worldmodel.NPCID, pending worldmodel.PendingAttempt, stream *rng.Stream) (worldmodel.NPCID, bool) {
	if pending.Kind.WindupTicks() <= 0 {
		return "", false
	}

	var guardCount int
	var firstGuard worldmodel.NPCID
	for _, id := range w.SortedNPCIDs() {
		if id == actorID {
			continue
		}
		n := w.NPCs[id]
		if n.Alive && n.SiteID == pending.SiteID && n.Category == worldmodel.CategoryGuard && !n.IsTraveling() {
			guardCount++
			if firstGuard == "" {
				firstGuard = id
			}
		}
	}
	if guardCount == 0 {
		return "", false
	}

	p := 0.15 + 0.18*float64(guardCount)
	if p > 0.85 {
		p = 0.85
	}
	if stream.Bernoulli(p) {
		return firstGuard, true
	}
	return "", false
}

func interruptAttempt(w *worldmodel.World, actorID worldmodel.NPCID, pending worldmodel.PendingAttempt, guardID worldmodel.NPCID, sink *worldmodel.EventSink) {
	clearPending(w, actorID)
	sink.Emit(worldmodel.EventAttemptInterrupted, pending.Visibility, pending.SiteID,
		string(guardID)+" interrupts "+string(actorID)+"'s "+string(pending.Kind),
		map[string]any{"attemptId": pending.AttemptID, "kind": pending.Kind, "guardId": guardID, "actorId": actorID, "targetId": pending.TargetID})
}

// abortAttempt emits attempt.aborted and clears the pending state.
func abortAttempt(w *worldmodel.World, actorID worldmodel.NPCID, pending worldmodel.PendingAttempt, reason string, sink *worldmodel.EventSink) {
	clearPending(w, actorID)
	sink.Emit(worldmodel.EventAttemptAborted, pending.Visibility, pending.SiteID,
		string(actorID)+" aborts "+string(pending.Kind)+": "+reason,
		map[string]any{"attemptId": pending.AttemptID, "kind": pending.Kind, "reason": reason, "actorId": actorID, "targetId": pending.TargetID})
}
