// Package orchestrator wires every other package into the single-tick
// pipeline described by spec.md Section 4.11: one call advances the world
// by exactly one simulated hour, consuming a fixed RNG stream and
// producing a new, immutable world value plus the ordered events that
// tick emitted (spec.md Section 5's "single-threaded cooperative within a
// tick" scheduling model).
package orchestrator

import (
	"sort"

	"github.com/talgya/hollowreach/internal/activeset"
	"github.com/talgya/hollowreach/internal/attempts"
	"github.com/talgya/hollowreach/internal/automatic"
	"github.com/talgya/hollowreach/internal/chronicle"
	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/factions"
	"github.com/talgya/hollowreach/internal/goals"
	"github.com/talgya/hollowreach/internal/mapgraph"
	"github.com/talgya/hollowreach/internal/memory"
	"github.com/talgya/hollowreach/internal/needs"
	"github.com/talgya/hollowreach/internal/perception"
	"github.com/talgya/hollowreach/internal/plans"
	"github.com/talgya/hollowreach/internal/resolvers"
	"github.com/talgya/hollowreach/internal/rng"
	"github.com/talgya/hollowreach/internal/scoring"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

// Result is tickHour's return value (spec.md Section 6).
type Result struct {
	World        worldmodel.World
	Events       []worldmodel.SimEvent
	DailySummary *chronicle.DailySummary
}

// TickHour advances world by exactly one simulated hour: externally
// supplied attempts are resolved before any AI-generated one, in the
// fixed 14-step pipeline order. The input world is never mutated; the
// returned World is a distinct value (spec.md Section 4.11).
func TickHour(world worldmodel.World, cfg config.Config, graph *mapgraph.Graph, externalAttempts []worldmodel.Attempt) (Result, error) {
	w := world.Clone()

	// Step 1: advance tick.
	w.Tick++
	w.NextAttemptSeq = 0
	w.NextEventSeq = 0

	stream := rng.New(w.Seed, w.Tick)
	sink := worldmodel.NewEventSink(&w)
	season := automatic.SeasonForTick(w.Tick)
	hourOfDay := int(w.Tick % 24)

	resolve := bridgeResolver(cfg, graph)

	// Step 2.
	if err := automatic.Apply(&w, cfg, stream, sink); err != nil {
		return Result{}, err
	}

	// Step 3.
	if err := mapgraph.ProgressTravelHourly(&w, graph, cfg, stream, season, sink); err != nil {
		return Result{}, err
	}
	mapgraph.ProgressLocalTravelHourly(&w, cfg, sink)

	// Step 4.
	perception.UpdatePerception(&w)

	// Step 5.
	automatic.ProgressDetentionHourly(&w, sink)
	automatic.ProgressEclipsingHourly(&w, sink)

	// Step 6.
	memory.DecayEmotions(&w, cfg)
	automatic.ProgressTraumaDecay(&w, cfg)
	automatic.ProgressHomeTracking(&w, cfg)
	automatic.ApplyHungerDamage(&w, cfg, sink)

	// Step 7.
	needs.Recompute(&w)

	// Step 8.
	goals.UpdateGoals(&w, sink.Events, sink)
	plans.UpdatePlans(&w)
	factions.CreateOperations(&w, sink)

	// Step 9.
	if err := attempts.ProcessPendingAttempts(&w, resolve, stream, sink); err != nil {
		return Result{}, err
	}

	// Step 10 + 11: external attempts resolved first, then AI-generated
	// ones for the selected active set, in that order.
	forced := map[worldmodel.NPCID]bool{}
	for _, at := range externalAttempts {
		forced[at.ActorID] = true
	}

	for _, at := range externalAttempts {
		if _, err := attempts.Dispatch(&w, at, resolve, stream, sink); err != nil {
			return Result{}, err
		}
	}

	active := activeset.Select(&w, cfg, forced, stream)
	for _, npcID := range active {
		if forced[npcID] {
			continue
		}
		npc := w.NPCs[npcID]
		if !npc.Alive || npc.IsBusy(w.Tick) || npc.IsTraveling() || npc.IsDetained() {
			continue
		}
		at, ok, err := scoring.GenerateScoredAttempt(&w, &npc, cfg, stream)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			continue
		}
		if _, err := attempts.Dispatch(&w, at, resolve, stream, sink); err != nil {
			return Result{}, err
		}
	}

	// Step 12. Each call reads sink.Events fresh, since earlier calls in
	// this same step may themselves emit events (e.g. an operation
	// completing) that later calls in the step need to see.
	perception.ApplyBeliefsFromEvents(&w, sink.Events)
	plans.ApplyPlanProgressFromEvents(&w, sink.Events)
	perception.CreateSecretsFromEvents(&w, sink.Events)
	factions.ApplyOperationProgressFromEvents(&w, sink.Events, sink)
	chronicle.UpdateChronicleFromEvents(&w, sink.Events)
	goals.UpdateStates(&w, sink.Events)
	chronicle.ApplyNotabilityFromEvents(&w, sink.Events)
	memory.CreateMemoriesFromEvents(&w, cfg, sink.Events)

	// Step 13.
	var dailySummary *chronicle.DailySummary
	if hourOfDay == 23 {
		memory.DecayBeliefs(&w, cfg)
		chronicle.DecayNotability(&w)
		memory.DecayMemories(&w, cfg)
		if err := memory.DecayAndSpreadRumors(&w, cfg, graph, stream); err != nil {
			return Result{}, err
		}
		summary := chronicle.AssembleDailySummary(&w)
		dailySummary = &summary
		sink.Emit(worldmodel.EventSimDayEnded, worldmodel.VisibilityPublic, "",
			"day ends", map[string]any{"day": summary.Day})
	}

	// Step 14: sync derived entity view — the active-set and per-site
	// summaries are pure read-only queries over w, so nothing further to
	// materialize here; w itself is the synced view external callers read.

	return Result{World: w, Events: sink.Events, DailySummary: dailySummary}, nil
}

// bridgeResolver adapts resolvers.Registry's 6-arg Fn (which needs cfg and
// graph) to internal/attempts's 4-arg Resolver type, so internal/attempts
// never has to import internal/resolvers (spec.md Section 4.6's note that
// the orchestrator supplies the resolver as a closure).
func bridgeResolver(cfg config.Config, graph *mapgraph.Graph) attempts.Resolver {
	return func(w *worldmodel.World, at worldmodel.Attempt, stream *rng.Stream, sink *worldmodel.EventSink) error {
		fn, ok := resolvers.Registry[at.Kind]
		if !ok {
			return nil
		}
		return fn(w, at, cfg, graph, stream, sink)
	}
}

// SortAttemptsForDeterminism orders externally supplied attempts by actor
// id so a caller that forgot to sort still gets deterministic resolution
// order within the external batch.
func SortAttemptsForDeterminism(ats []worldmodel.Attempt) []worldmodel.Attempt {
	out := append([]worldmodel.Attempt(nil), ats...)
	sort.Slice(out, func(i, j int) bool { return out[i].ActorID < out[j].ActorID })
	return out
}
