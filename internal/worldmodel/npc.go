package worldmodel

// NPCCategory is the closed enumeration of roughly twenty archetypes an NPC
// may belong to. Closed sums everywhere (design doc Section 9) — this is a
// fixed list, matched exhaustively by callers, never extended at runtime.
type NPCCategory string

const (
	CategoryFarmer        NPCCategory = "Farmer"
	CategoryFisher        NPCCategory = "Fisher"
	CategoryHunter        NPCCategory = "Hunter"
	CategoryGuard         NPCCategory = "Guard"
	CategoryScoutRanger    NPCCategory = "ScoutRanger"
	CategoryHealer        NPCCategory = "Healer"
	CategoryMerchant      NPCCategory = "Merchant"
	CategoryLaborer       NPCCategory = "Laborer"
	CategoryMiner         NPCCategory = "Miner"
	CategoryCrafter       NPCCategory = "Crafter"
	CategoryScholar       NPCCategory = "Scholar"
	CategoryNoble         NPCCategory = "Noble"
	CategoryPriest        NPCCategory = "Priest"
	CategoryCultLeader    NPCCategory = "CultLeader"
	CategoryCultMember    NPCCategory = "CultMember"
	CategoryOutlaw        NPCCategory = "Outlaw"
	CategoryBandit        NPCCategory = "Bandit"
	CategoryElder         NPCCategory = "Elder"
	CategoryChild         NPCCategory = "Child"
	CategoryTaintedThrall NPCCategory = "TaintedThrall"
)

// DeathInfo records how and when an NPC died. Set exactly once and never
// overwritten (invariant 2).
type DeathInfo struct {
	Tick  uint64 `json:"tick"`
	Cause string `json:"cause"`
}

// CultMembership tracks cult affiliation and role.
type CultMembership struct {
	Role string `json:"role"`
}

// Emotions is the optional seven-scalar affect state, each 0..100.
type Emotions struct {
	Anger      float64 `json:"anger"`
	Fear       float64 `json:"fear"`
	Joy        float64 `json:"joy"`
	Sadness    float64 `json:"sadness"`
	Disgust    float64 `json:"disgust"`
	Resentment float64 `json:"resentment"`
	Stress     float64 `json:"stress"`
}

// Clamp keeps every emotion within [0, 100].
func (e *Emotions) Clamp() {
	e.Anger = clamp01To100(e.Anger)
	e.Fear = clamp01To100(e.Fear)
	e.Joy = clamp01To100(e.Joy)
	e.Sadness = clamp01To100(e.Sadness)
	e.Disgust = clamp01To100(e.Disgust)
	e.Resentment = clamp01To100(e.Resentment)
	e.Stress = clamp01To100(e.Stress)
}

// Relationship is lazily materialized per (npcA, npcB) pair from a baseline
// function; once present it is stored in the NPC's relationship map.
type Relationship struct {
	Trust   float64 `json:"trust"`
	Fear    float64 `json:"fear"`
	Loyalty float64 `json:"loyalty"`
}

// Clamp keeps every relationship field within [0, 100].
func (r *Relationship) Clamp() {
	r.Trust = clamp01To100(r.Trust)
	r.Fear = clamp01To100(r.Fear)
	r.Loyalty = clamp01To100(r.Loyalty)
}

// Belief is a single subject/predicate/object assertion an NPC holds, with
// a source and a decaying confidence.
type Belief struct {
	Subject    string  `json:"subject"`
	Predicate  string  `json:"predicate"`
	Object     string  `json:"object"`
	Source     string  `json:"source"` // "rumor" | "report" | "witnessed"
	Confidence float64 `json:"confidence"`
	CreatedTick uint64 `json:"createdTick"`
	Traumatic  bool    `json:"traumatic"`
}

// SameKey reports whether two beliefs share the dedup key
// (subject, predicate, object, source).
func (b Belief) SameKey(other Belief) bool {
	return b.Subject == other.Subject && b.Predicate == other.Predicate &&
		b.Object == other.Object && b.Source == other.Source
}

// Debt is a social obligation one NPC owes another.
type Debt struct {
	Kind      string `json:"kind"` // e.g. "favor_granted"
	Direction string `json:"direction"` // "owes" | "owed"
	OtherNPC  NPCID  `json:"otherNpcId"`
	CreatedTick uint64 `json:"createdTick"`
}

// KnowledgeFact is a piece of identified information an NPC holds.
type KnowledgeFact struct {
	Kind       string  `json:"kind"` // e.g. "identified_cult_member", "discovered_location"
	SubjectID  string  `json:"subjectId"`
	Confidence float64 `json:"confidence"`
	CreatedTick uint64 `json:"createdTick"`
}

// Knowledge is an NPC's identified facts and references to world secrets.
type Knowledge struct {
	Facts        []KnowledgeFact `json:"facts,omitempty"`
	SecretRefs   []string        `json:"secretRefs,omitempty"`
}

// EmotionalImpact is the valence/arousal/tag triple a memory imprints on its
// holder's emotion state at creation time.
type EmotionalImpact struct {
	Valence  float64  `json:"valence"` // [-1, 1]
	Arousal  float64  `json:"arousal"` // [0, 1]
	Emotions []string `json:"emotions,omitempty"` // tags into the 7-scalar Emotions slots
}

// Memory is one episodic record an NPC holds of a witnessed event (spec.md
// Section 4.8). At most one memory exists per (witness, event) pair.
type Memory struct {
	ID             MemoryID        `json:"id"`
	EventID        EventID         `json:"eventId"`
	EventKind      EventKind       `json:"eventKind"`
	Importance     float64         `json:"importance"`
	Vividness      float64         `json:"vividness"`
	Impact         EmotionalImpact `json:"impact"`
	CreatedTick    uint64          `json:"createdTick"`
	LastRetrievedTick uint64       `json:"lastRetrievedTick"`
}

// DetentionStatus marks an NPC held by another.
type DetentionStatus struct {
	By          NPCID  `json:"by"`
	AtSiteID    SiteID `json:"atSiteId"`
	StartedTick uint64 `json:"startedTick"`
	UntilTick   uint64 `json:"untilTick"`
}

// EclipsingStatus marks an NPC undergoing the multi-day ritual conversion.
type EclipsingStatus struct {
	InitiatedTick      uint64 `json:"initiatedTick"`
	CompleteTick       uint64 `json:"completeTick"`
	ReversibleUntilTick uint64 `json:"reversibleUntilTick"`
}

// Status bundles the detention and eclipsing sub-states.
type Status struct {
	Detention *DetentionStatus `json:"detention,omitempty"`
	Eclipsing *EclipsingStatus `json:"eclipsing,omitempty"`
}

// TravelState tracks progress of an inter-site journey.
type TravelState struct {
	From             SiteID  `json:"from"`
	To               SiteID  `json:"to"`
	TotalKm          float64 `json:"totalKm"`
	RemainingKm      float64 `json:"remainingKm"`
	EdgeQuality      string  `json:"edgeQuality"` // "road" | "rough"
	StartedTick      uint64  `json:"startedTick"`
	LastProgressTick uint64  `json:"lastProgressTick"`
}

// LocalTravelState tracks progress along an intra-settlement path.
type LocalTravelState struct {
	Path             []string `json:"path"` // node ids, shortest-path order
	NextIndex        int      `json:"nextIndex"`
	RemainingMeters  float64  `json:"remainingMeters"`
	LastProgressTick uint64   `json:"lastProgressTick"`
}

// PendingAttempt parks a scheduled attempt until its wind-up elapses. It
// carries everything a resolver needs to reconstruct the original Attempt
// at execution time, so the world itself — not an external registry —
// remains the sole carrier of in-flight state (spec.md Section 5).
type PendingAttempt struct {
	AttemptID     AttemptID  `json:"attemptId"`
	Kind          AttemptKind `json:"kind"`
	Visibility    Visibility `json:"visibility"`
	TargetID      NPCID      `json:"targetId,omitempty"`
	SiteID        SiteID     `json:"siteId"`
	Magnitude     Magnitude  `json:"magnitude"`
	Resources     map[string]string `json:"resources,omitempty"`
	CreatedTick   uint64     `json:"createdTick"`
	ExecuteAtTick uint64     `json:"executeAtTick"`
}

// FoodInventory is an NPC's personal food stash, reducing Food pressure.
type FoodInventory struct {
	Grain float64 `json:"grain"`
	Fish  float64 `json:"fish"`
	Meat  float64 `json:"meat"`
}

// NPC is the required-fields record described in spec.md Section 3.
type NPC struct {
	ID         NPCID       `json:"id"`
	Category   NPCCategory `json:"category"`
	SiteID     SiteID      `json:"siteId"`
	HomeSiteID SiteID      `json:"homeSiteId"`
	Family     []NPCID     `json:"family,omitempty"`

	Alive bool       `json:"alive"`
	Death *DeathInfo `json:"death,omitempty"`

	Traits Traits          `json:"traits"`
	Values map[string]bool `json:"values,omitempty"`
	Needs  Needs           `json:"needs"`

	Notability float64 `json:"notability"`
	HP         float64 `json:"hp"`
	MaxHP      float64 `json:"maxHp"`
	Trauma     float64 `json:"trauma"`

	Cult     *CultMembership `json:"cult,omitempty"`
	Emotions *Emotions       `json:"emotions,omitempty"`

	Beliefs       []Belief                `json:"beliefs,omitempty"`
	Relationships map[NPCID]Relationship  `json:"relationships,omitempty"`
	Debts         []Debt                  `json:"debts,omitempty"`
	Inventory     FoodInventory           `json:"inventory"`
	Knowledge     Knowledge               `json:"knowledge"`
	Memories      []Memory                `json:"memories,omitempty"`

	Plan            *Plan            `json:"plan,omitempty"`
	PendingAttempt  *PendingAttempt  `json:"pendingAttempt,omitempty"`
	Status          Status           `json:"status"`
	BusyUntilTick   uint64           `json:"busyUntilTick,omitempty"`
	BusyKind        string           `json:"busyKind,omitempty"`
	Travel          *TravelState     `json:"travel,omitempty"`
	LocalTravel     *LocalTravelState `json:"localTravel,omitempty"`

	Goals          []Goal          `json:"goals,omitempty"`
	ReactiveStates []ReactiveState `json:"reactiveStates,omitempty"`

	RecentActions          []string         `json:"recentActions,omitempty"`
	ConsecutiveHungerHours int              `json:"consecutiveHungerHours"`
	TriggerMemory          map[string]uint64 `json:"triggerMemory,omitempty"`
	AwayFromHomeSinceTick  *uint64          `json:"awayFromHomeSinceTick,omitempty"`

	FactionOperationID string `json:"factionOperationId,omitempty"`
	FactionOpRole      string `json:"factionOpRole,omitempty"`
}

// IsBusy reports whether the NPC is occupied until at least the given tick.
func (n *NPC) IsBusy(tick uint64) bool {
	return n.BusyUntilTick >= tick && n.BusyUntilTick != 0
}

// IsTraveling reports whether the NPC has in-flight inter-site or
// intra-settlement movement.
func (n *NPC) IsTraveling() bool {
	return n.Travel != nil || n.LocalTravel != nil
}

// IsDetained reports whether the NPC is currently held.
func (n *NPC) IsDetained() bool {
	return n.Status.Detention != nil
}

// Clamp applies invariant 1 (scalar ranges) to every clampable field.
func (n *NPC) Clamp() {
	n.Traits.Clamp()
	n.Needs.Clamp()
	n.Notability = clamp01To100(n.Notability)
	n.Trauma = clamp01To100(n.Trauma)
	if n.HP < 0 {
		n.HP = 0
	}
	if n.MaxHP > 0 && n.HP > n.MaxHP {
		n.HP = n.MaxHP
	}
	if n.Emotions != nil {
		n.Emotions.Clamp()
	}
	for id, rel := range n.Relationships {
		rel.Clamp()
		n.Relationships[id] = rel
	}
}
