package worldmodel

import "sort"

// Secret is a world-scoped fact that knowledge.SecretRefs point into —
// e.g. a hidden hideout's true location, a cult member's identity.
type Secret struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Subject string `json:"subject"`
}

// OperationPhase is one step of a multi-phase faction operation.
type OperationPhase struct {
	ActionKind AttemptKind `json:"actionKind"`
	TargetID   NPCID       `json:"targetId,omitempty"`
}

// FactionOperation is a multi-phase cult operation in progress at a site;
// at most one is active per site (spec.md Section 4.9).
type FactionOperation struct {
	ID            string            `json:"id"`
	SiteID        SiteID            `json:"siteId"`
	LeaderID      NPCID             `json:"leaderId"`
	Participants  map[NPCID]string `json:"participants"` // npc id -> assigned role
	Phases        []OperationPhase  `json:"phases"`
	PhaseIndex    int               `json:"phaseIndex"`
	Failures      int               `json:"failures"`
	CreatedTick   uint64            `json:"createdTick"`
	TargetID      NPCID             `json:"targetId,omitempty"`
}

// CurrentPhase returns the operation's active phase, or nil if it has run
// off the end.
func (f *FactionOperation) CurrentPhase() *OperationPhase {
	if f == nil || f.PhaseIndex < 0 || f.PhaseIndex >= len(f.Phases) {
		return nil
	}
	return &f.Phases[f.PhaseIndex]
}

// ChronicleEntry is one durable narrative log line.
type ChronicleEntry struct {
	Tick         uint64    `json:"tick"`
	Kind         string    `json:"kind"`
	PrimaryNPCID NPCID     `json:"primaryNpcId,omitempty"`
	SiteID       SiteID    `json:"siteId,omitempty"`
	Message      string    `json:"message"`
}

// World is the single immutable value the engine operates on: a mapping
// from site id to site, a mapping from NPC id to NPC, world-scoped secrets
// and faction operations, a chronicle, the seed, and the current tick
// (spec.md Section 3). Every update produces a new World value; identity
// equality is never relied on.
type World struct {
	Seed int64  `json:"seed"`
	Tick uint64 `json:"tick"`

	Sites map[SiteID]Site `json:"sites"`
	NPCs  map[NPCID]NPC   `json:"npcs"`

	Secrets    map[string]Secret           `json:"secrets,omitempty"`
	Operations map[string]FactionOperation `json:"operations,omitempty"`

	Chronicle []ChronicleEntry `json:"chronicle,omitempty"`

	// NextEventSeq/NextAttemptSeq are the per-tick sequence counters used to
	// build deterministic ids; reset to 0 at the start of each tick by the
	// orchestrator.
	NextEventSeq   int `json:"-"`
	NextAttemptSeq int `json:"-"`
}

// Clone returns a deep-enough copy of the world for copy-on-write mutation:
// every map is rebuilt and every mutable nested value is copied so that
// mutating the clone never touches the original (the invariant tick.go's
// orchestrator relies on for reproducible replay).
func (w World) Clone() World {
	out := World{
		Seed:           w.Seed,
		Tick:           w.Tick,
		NextEventSeq:   w.NextEventSeq,
		NextAttemptSeq: w.NextAttemptSeq,
	}

	out.Sites = make(map[SiteID]Site, len(w.Sites))
	for id, site := range w.Sites {
		out.Sites[id] = cloneSite(site)
	}

	out.NPCs = make(map[NPCID]NPC, len(w.NPCs))
	for id, npc := range w.NPCs {
		out.NPCs[id] = cloneNPC(npc)
	}

	if w.Secrets != nil {
		out.Secrets = make(map[string]Secret, len(w.Secrets))
		for k, v := range w.Secrets {
			out.Secrets[k] = v
		}
	}
	if w.Operations != nil {
		out.Operations = make(map[string]FactionOperation, len(w.Operations))
		for k, v := range w.Operations {
			out.Operations[k] = cloneOperation(v)
		}
	}
	if w.Chronicle != nil {
		out.Chronicle = append([]ChronicleEntry(nil), w.Chronicle...)
	}
	return out
}

func cloneSite(s Site) Site {
	out := s
	if s.Settlement != nil {
		settlement := *s.Settlement
		settlement.Food.Grain = append([]FoodLot(nil), s.Settlement.Food.Grain...)
		settlement.Food.Fish = append([]FoodLot(nil), s.Settlement.Food.Fish...)
		settlement.Food.Meat = append([]FoodLot(nil), s.Settlement.Food.Meat...)
		settlement.Rumors = append([]Rumor(nil), s.Settlement.Rumors...)
		if s.Settlement.DeathsToday != nil {
			settlement.DeathsToday = make(map[string]int, len(s.Settlement.DeathsToday))
			for k, v := range s.Settlement.DeathsToday {
				settlement.DeathsToday[k] = v
			}
		}
		if s.Settlement.LaborToday != nil {
			settlement.LaborToday = make(map[FoodType]float64, len(s.Settlement.LaborToday))
			for k, v := range s.Settlement.LaborToday {
				settlement.LaborToday[k] = v
			}
		}
		out.Settlement = &settlement
	}
	if s.Graph != nil {
		graph := *s.Graph
		graph.Nodes = append([]LocalNode(nil), s.Graph.Nodes...)
		for i := range graph.Nodes {
			if graph.Nodes[i].Inventory != nil {
				inv := make(map[string]float64, len(graph.Nodes[i].Inventory))
				for k, v := range graph.Nodes[i].Inventory {
					inv[k] = v
				}
				graph.Nodes[i].Inventory = inv
			}
		}
		graph.Edges = append([]LocalEdge(nil), s.Graph.Edges...)
		out.Graph = &graph
	}
	out.Neighbors = append([]SiteID(nil), s.Neighbors...)
	return out
}

func cloneNPC(n NPC) NPC {
	out := n
	out.Family = append([]NPCID(nil), n.Family...)
	if n.Values != nil {
		out.Values = make(map[string]bool, len(n.Values))
		for k, v := range n.Values {
			out.Values[k] = v
		}
	}
	if n.Death != nil {
		d := *n.Death
		out.Death = &d
	}
	if n.Cult != nil {
		c := *n.Cult
		out.Cult = &c
	}
	if n.Emotions != nil {
		e := *n.Emotions
		out.Emotions = &e
	}
	out.Beliefs = append([]Belief(nil), n.Beliefs...)
	if n.Relationships != nil {
		out.Relationships = make(map[NPCID]Relationship, len(n.Relationships))
		for k, v := range n.Relationships {
			out.Relationships[k] = v
		}
	}
	out.Debts = append([]Debt(nil), n.Debts...)
	out.Knowledge.Facts = append([]KnowledgeFact(nil), n.Knowledge.Facts...)
	out.Knowledge.SecretRefs = append([]string(nil), n.Knowledge.SecretRefs...)
	out.Memories = append([]Memory(nil), n.Memories...)
	for i := range out.Memories {
		out.Memories[i].Impact.Emotions = append([]string(nil), n.Memories[i].Impact.Emotions...)
	}
	if n.Plan != nil {
		p := *n.Plan
		p.Steps = append([]string(nil), n.Plan.Steps...)
		out.Plan = &p
	}
	if n.PendingAttempt != nil {
		p := *n.PendingAttempt
		if n.PendingAttempt.Resources != nil {
			p.Resources = make(map[string]string, len(n.PendingAttempt.Resources))
			for k, v := range n.PendingAttempt.Resources {
				p.Resources[k] = v
			}
		}
		out.PendingAttempt = &p
	}
	if n.Status.Detention != nil {
		d := *n.Status.Detention
		out.Status.Detention = &d
	}
	if n.Status.Eclipsing != nil {
		e := *n.Status.Eclipsing
		out.Status.Eclipsing = &e
	}
	if n.Travel != nil {
		t := *n.Travel
		out.Travel = &t
	}
	if n.LocalTravel != nil {
		t := *n.LocalTravel
		t.Path = append([]string(nil), n.LocalTravel.Path...)
		out.LocalTravel = &t
	}
	out.Goals = append([]Goal(nil), n.Goals...)
	for i := range out.Goals {
		if out.Goals[i].Modifiers != nil {
			m := make(map[string]float64, len(out.Goals[i].Modifiers))
			for k, v := range out.Goals[i].Modifiers {
				m[k] = v
			}
			out.Goals[i].Modifiers = m
		}
	}
	out.ReactiveStates = append([]ReactiveState(nil), n.ReactiveStates...)
	for i := range out.ReactiveStates {
		if out.ReactiveStates[i].Modifiers != nil {
			m := make(map[string]float64, len(out.ReactiveStates[i].Modifiers))
			for k, v := range out.ReactiveStates[i].Modifiers {
				m[k] = v
			}
			out.ReactiveStates[i].Modifiers = m
		}
	}
	out.RecentActions = append([]string(nil), n.RecentActions...)
	if n.TriggerMemory != nil {
		out.TriggerMemory = make(map[string]uint64, len(n.TriggerMemory))
		for k, v := range n.TriggerMemory {
			out.TriggerMemory[k] = v
		}
	}
	if n.AwayFromHomeSinceTick != nil {
		v := *n.AwayFromHomeSinceTick
		out.AwayFromHomeSinceTick = &v
	}
	return out
}

func cloneOperation(f FactionOperation) FactionOperation {
	out := f
	if f.Participants != nil {
		out.Participants = make(map[NPCID]string, len(f.Participants))
		for k, v := range f.Participants {
			out.Participants[k] = v
		}
	}
	out.Phases = append([]OperationPhase(nil), f.Phases...)
	return out
}

// SortedSiteIDs returns every site id in deterministic (lexicographic)
// order, satisfying the determinism checklist's "sorted key view"
// requirement (spec.md Section 9).
func (w *World) SortedSiteIDs() []SiteID {
	ids := make([]SiteID, 0, len(w.Sites))
	for id := range w.Sites {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SortedNPCIDs returns every NPC id in deterministic order.
func (w *World) SortedNPCIDs() []NPCID {
	ids := make([]NPCID, 0, len(w.NPCs))
	for id := range w.NPCs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// NextAttemptID allocates and returns the next deterministic attempt id for
// the current tick, advancing the counter.
func (w *World) NextAttemptID() AttemptID {
	id := NewAttemptID(w.Tick, w.NextAttemptSeq)
	w.NextAttemptSeq++
	return id
}

// NextEventID allocates and returns the next deterministic event id for the
// current tick, advancing the counter.
func (w *World) NextEventID() EventID {
	id := NewEventID(w.Tick, w.NextEventSeq)
	w.NextEventSeq++
	return id
}
