package resolvers

import (
	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/mapgraph"
	"github.com/talgya/hollowreach/internal/rng"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

func resolveIdle(w *worldmodel.World, at worldmodel.Attempt, cfg config.Config, graph *mapgraph.Graph, stream *rng.Stream, sink *worldmodel.EventSink) error {
	recordAttempt(sink, at, true, nil)
	return nil
}

func resolveRest(w *worldmodel.World, at worldmodel.Attempt, cfg config.Config, graph *mapgraph.Graph, stream *rng.Stream, sink *worldmodel.EventSink) error {
	npc := w.NPCs[at.ActorID]
	npc.Trauma = worldmodel.Clamp100(npc.Trauma - 3)
	npc.HP = npc.HP + 1
	if npc.MaxHP > 0 && npc.HP > npc.MaxHP {
		npc.HP = npc.MaxHP
	}
	w.NPCs[at.ActorID] = npc
	recordAttempt(sink, at, true, nil)
	return nil
}

func resolveSocialize(w *worldmodel.World, at worldmodel.Attempt, cfg config.Config, graph *mapgraph.Graph, stream *rng.Stream, sink *worldmodel.EventSink) error {
	if at.TargetID != "" {
		actor := w.NPCs[at.ActorID]
		target := w.NPCs[at.TargetID]
		applyRelationshipDelta(&actor, at.TargetID, 2, 0, 0.5)
		applyRelationshipDelta(&target, at.ActorID, 2, 0, 0.5)
		w.NPCs[at.ActorID] = actor
		w.NPCs[at.TargetID] = target
	}
	recordAttempt(sink, at, true, nil)
	return nil
}

func resolveGossip(w *worldmodel.World, at worldmodel.Attempt, cfg config.Config, graph *mapgraph.Graph, stream *rng.Stream, sink *worldmodel.EventSink) error {
	postPublicRumor(w, at, "idle chatter", "gossip", 30)
	recordAttempt(sink, at, true, nil)
	return nil
}

func resolvePray(w *worldmodel.World, at worldmodel.Attempt, cfg config.Config, graph *mapgraph.Graph, stream *rng.Stream, sink *worldmodel.EventSink) error {
	npc := w.NPCs[at.ActorID]
	npc.Trauma = worldmodel.Clamp100(npc.Trauma - 1)
	w.NPCs[at.ActorID] = npc
	recordAttempt(sink, at, true, nil)
	return nil
}

func resolveTrade(w *worldmodel.World, at worldmodel.Attempt, cfg config.Config, graph *mapgraph.Graph, stream *rng.Stream, sink *worldmodel.EventSink) error {
	site := w.Sites[at.SiteID]
	if site.Settlement != nil {
		site.Settlement.Morale = worldmodel.Clamp100(site.Settlement.Morale + 0.3)
		w.Sites[at.SiteID] = site
	}
	recordAttempt(sink, at, true, nil)
	return nil
}

func resolveFlee(w *worldmodel.World, at worldmodel.Attempt, cfg config.Config, graph *mapgraph.Graph, stream *rng.Stream, sink *worldmodel.EventSink) error {
	return startTravelToBestNeighbor(w, at, graph, stream, sink)
}

func resolveDefend(w *worldmodel.World, at worldmodel.Attempt, cfg config.Config, graph *mapgraph.Graph, stream *rng.Stream, sink *worldmodel.EventSink) error {
	npc := w.NPCs[at.ActorID]
	npc.BusyUntilTick = w.Tick + 1
	npc.BusyKind = "defend"
	w.NPCs[at.ActorID] = npc
	recordAttempt(sink, at, true, nil)
	return nil
}
