package worldmodel

// SiteKind is the closed enumeration of site variants.
type SiteKind string

const (
	SiteSettlement SiteKind = "settlement"
	SiteTerrain    SiteKind = "terrain"
	SiteSpecial    SiteKind = "special"
	SiteHideout    SiteKind = "hideout"
)

// FoodType is the closed set of staple food categories.
type FoodType string

const (
	FoodGrain FoodType = "grain"
	FoodFish  FoodType = "fish"
	FoodMeat  FoodType = "meat"
)

// FoodLot is one FIFO-ordered batch of a food type, tagged with the sim-day
// it was produced so spoilage and consumption can act on age.
type FoodLot struct {
	ProducedDay int     `json:"producedDay"`
	Quantity    float64 `json:"quantity"`
}

// FoodStock holds the per-type FIFO lot lists for a settlement.
type FoodStock struct {
	Grain []FoodLot `json:"grain,omitempty"`
	Fish  []FoodLot `json:"fish,omitempty"`
	Meat  []FoodLot `json:"meat,omitempty"`
}

// Lots returns a pointer to the lot slice for the given food type, or nil
// for an unrecognized type.
func (s *FoodStock) Lots(t FoodType) *[]FoodLot {
	switch t {
	case FoodGrain:
		return &s.Grain
	case FoodFish:
		return &s.Fish
	case FoodMeat:
		return &s.Meat
	default:
		return nil
	}
}

// Total sums quantity across all lots of the given type.
func (s *FoodStock) Total(t FoodType) float64 {
	lots := s.Lots(t)
	if lots == nil {
		return 0
	}
	var total float64
	for _, lot := range *lots {
		total += lot.Quantity
	}
	return total
}

// ProductionBaseline holds each food type's per-day production baseline.
type ProductionBaseline struct {
	Grain float64 `json:"grain"`
	Fish  float64 `json:"fish"`
	Meat  float64 `json:"meat"`
}

// Cohorts partitions settlement population into age bands.
type Cohorts struct {
	Children uint32 `json:"children"`
	Adults   uint32 `json:"adults"`
	Elders   uint32 `json:"elders"`
}

// Total returns the sum of all cohorts.
func (c Cohorts) Total() uint32 {
	return c.Children + c.Adults + c.Elders
}

// Rumor is a site-scoped labeled observation with a decaying confidence
// (spec.md Section 4.8).
type Rumor struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Kind        string  `json:"kind"`
	ActorID     NPCID   `json:"actorId,omitempty"`
	SubjectID   NPCID   `json:"subjectId,omitempty"`
	Confidence  float64 `json:"confidence"`
	CreatedTick uint64  `json:"createdTick"`
}

// AgeDays returns how many sim-days old the rumor is at the given tick.
func (r Rumor) AgeDays(tick uint64) int {
	if tick < r.CreatedTick {
		return 0
	}
	return int((tick - r.CreatedTick) / 24)
}

// LocalNodeKind enumerates intra-settlement node categories.
type LocalNodeKind string

const (
	LocalNodeHome    LocalNodeKind = "home"
	LocalNodeGate    LocalNodeKind = "gate"
	LocalNodeStreet  LocalNodeKind = "street"
	LocalNodeBuilding LocalNodeKind = "building"
)

// Point2D is a 2-D coordinate in meters within a settlement's local graph.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Footprint is a node's rectangular extent in meters.
type Footprint struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// LocalNode is one location within a settlement's intra-settlement graph.
type LocalNode struct {
	ID        string        `json:"id"`
	Kind      LocalNodeKind `json:"kind"`
	Position  Point2D       `json:"position"`
	Footprint Footprint     `json:"footprint"`
	OwnerID   NPCID         `json:"ownerId,omitempty"` // home-node owner, if any
	Inventory map[string]float64 `json:"inventory,omitempty"` // building inventories
}

// LocalEdge connects two local nodes, distance in meters.
type LocalEdge struct {
	A      string  `json:"a"`
	B      string  `json:"b"`
	Meters float64 `json:"meters"`
}

// LocalGraph is a settlement's intra-settlement walking graph.
type LocalGraph struct {
	Nodes []LocalNode `json:"nodes"`
	Edges []LocalEdge `json:"edges"`
}

// NodeByID returns the node with the given id, or nil.
func (g *LocalGraph) NodeByID(id string) *LocalNode {
	if g == nil {
		return nil
	}
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// SettlementData holds the fields that are present only for settlement-kind
// sites.
type SettlementData struct {
	Cohorts         Cohorts            `json:"cohorts"`
	HousingCapacity uint32             `json:"housingCapacity"`

	Sickness      float64 `json:"sickness"`
	Hunger        float64 `json:"hunger"`
	Unrest        float64 `json:"unrest"`
	Morale        float64 `json:"morale"`
	CultInfluence float64 `json:"cultInfluence"`

	FieldsCondition float64 `json:"fieldsCondition"` // [0,1]

	Food               FoodStock          `json:"food"`
	ProductionBaseline ProductionBaseline `json:"productionBaseline"`

	Rumors []Rumor `json:"rumors,omitempty"`

	DeathsToday map[string]int     `json:"deathsToday,omitempty"` // cause -> count
	LaborToday  map[FoodType]float64 `json:"laborToday,omitempty"` // food type -> hours

	SettlementScale string `json:"settlementScale"` // "village"|"city"|"elven_capital"|"elven_town"|"other"
}

// Clamp applies invariant 1 to every clampable settlement scalar and trims
// the rumor buffer to invariant 3's cap.
func (s *SettlementData) Clamp(rumorCap int) {
	s.Sickness = clamp01To100(s.Sickness)
	s.Hunger = clamp01To100(s.Hunger)
	s.Unrest = clamp01To100(s.Unrest)
	s.Morale = clamp01To100(s.Morale)
	s.CultInfluence = clamp01To100(s.CultInfluence)
	s.FieldsCondition = Clamp01(s.FieldsCondition)
	if rumorCap > 0 && len(s.Rumors) > rumorCap {
		s.Rumors = s.Rumors[len(s.Rumors)-rumorCap:]
	}
}

// Site is the top-level location record. Kind selects which of the
// kind-specific fields are meaningful, mirroring the teacher's preference
// for optional pointer fields over tagged-union inheritance.
type Site struct {
	ID                SiteID   `json:"id"`
	Kind              SiteKind `json:"kind"`
	EclipsingPressure float64  `json:"eclipsingPressure"`
	AnchoringStrength float64  `json:"anchoringStrength"`

	Hidden bool `json:"hidden,omitempty"` // meaningful only when Kind == SiteHideout

	Settlement *SettlementData `json:"settlement,omitempty"`
	Graph      *LocalGraph     `json:"graph,omitempty"`

	Neighbors []SiteID `json:"-"` // derived view, populated from the road graph
}

// Clamp applies invariant 1 to the site's own scalars and, if present, its
// settlement data.
func (s *Site) Clamp(rumorCap int) {
	s.EclipsingPressure = clamp01To100(s.EclipsingPressure)
	s.AnchoringStrength = clamp01To100(s.AnchoringStrength)
	if s.Settlement != nil {
		s.Settlement.Clamp(rumorCap)
	}
}

// Danger is the pressure+unrest sum used by travel and raid scoring.
func (s *Site) Danger() float64 {
	if s.Settlement == nil {
		return s.EclipsingPressure
	}
	return s.EclipsingPressure + s.Settlement.Unrest
}
