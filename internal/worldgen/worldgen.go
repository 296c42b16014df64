// Package worldgen is the concrete, non-black-box implementation of
// spec.md Section 6's createWorld collaborator: a deterministic, pure
// function of (seed, cfg) that produces a populated World and its road
// graph, grounded on the teacher's internal/world/generation.go +
// internal/world/settlement_placer.go site layout and
// internal/agents/spawner.go's per-settlement population spawn. Population
// rolls (categories, traits, family groups) are drawn from internal/rng's
// mulberry32 stream; per-site scalar variety (AnchoringStrength,
// EclipsingPressure, a settlement's starting FieldsCondition) is instead
// sampled from opensimplex noise fields seeded directly from `seed`, the
// same two-source split the teacher's own generator uses (math/rand for
// the hex-by-hex hydrology/resource rolls in generation.go, opensimplex
// for the elevation/rainfall/temperature fields underneath them) — both
// sources are pure functions of `seed` alone, so CreateWorld stays
// reproducible the same way the tick pipeline is.
package worldgen

import (
	"fmt"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/mapgraph"
	"github.com/talgya/hollowreach/internal/rng"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

// settlementBlueprint is one fixed settlement the generator always places;
// population count and NPC categories are rolled from the seed, but the
// map layout itself (which settlements exist, how they connect) is a
// fixed scenario, the way the teacher's SmallTestConfig fixes a small
// deterministic world for iteration. x/y place the settlement in the same
// continuous noise-sampling space the teacher's generation.go projects
// its hex grid into (axial hex -> cartesian), used only to sample terrain
// variety, never for the road graph itself (roadBlueprint's km figures
// are authored directly).
type settlementBlueprint struct {
	id      worldmodel.SiteID
	scale   string
	basePop uint32
	x, y    float64
}

var settlementBlueprints = []settlementBlueprint{
	{id: "HumanCityPort", scale: "city", basePop: 36, x: 0, y: 0},
	{id: "Oakvale", scale: "village", basePop: 14, x: 3, y: 1},
	{id: "Millbrook", scale: "village", basePop: 12, x: 6, y: 2},
	{id: "ElvenSpireCapital", scale: "elven_capital", basePop: 24, x: 9, y: 4},
	{id: "Windhollow", scale: "elven_town", basePop: 10, x: 12, y: 3},
}

type terrainBlueprint struct {
	id   worldmodel.SiteID
	x, y float64
}

var terrainSites = []terrainBlueprint{
	{id: "BlackwoodTrail", x: 7, y: 0},
	{id: "AshenMoor", x: 2, y: 5},
}

const specialSite worldmodel.SiteID = "RuinedShrine"
const hideoutSite worldmodel.SiteID = "HollowDen"

var specialSiteXY = [2]float64{1, 3}
var hideoutSiteXY = [2]float64{8, 6}

// noiseFields holds the two opensimplex generators that vary
// AnchoringStrength/EclipsingPressure/FieldsCondition across sites, the
// same "layered simplex noise" shape as the teacher's elevNoise/rainNoise
// pair in generation.go, minus the hex-grid terrain derivation this spec
// has no use for.
type noiseFields struct {
	anchor   opensimplex.Noise
	pressure opensimplex.Noise
}

func newNoiseFields(seed int64) noiseFields {
	return noiseFields{
		anchor:   opensimplex.NewNormalized(seed),
		pressure: opensimplex.NewNormalized(seed + 1),
	}
}

// sample returns octave noise in [0,1) at (x, y), mirroring the teacher's
// octaveNoise helper (fractal layering of the same generator at
// successively doubled frequencies and halved amplitude).
func sample(noise opensimplex.Noise, x, y float64) float64 {
	total, amplitude, maxVal, frequency := 0.0, 1.0, 0.0, 0.15
	for i := 0; i < 3; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= 0.5
		frequency *= 2
	}
	return total / maxVal
}

// roadBlueprint is one fixed road-graph edge between two blueprint sites.
type roadBlueprint struct {
	a, b    worldmodel.SiteID
	km      float64
	quality mapgraph.EdgeQuality
}

var roadBlueprints = []roadBlueprint{
	{a: "HumanCityPort", b: "Oakvale", km: 18, quality: mapgraph.QualityRoad},
	{a: "Oakvale", b: "Millbrook", km: 22, quality: mapgraph.QualityRoad},
	{a: "Millbrook", b: "BlackwoodTrail", km: 14, quality: mapgraph.QualityRough},
	{a: "BlackwoodTrail", b: "ElvenSpireCapital", km: 30, quality: mapgraph.QualityRough},
	{a: "ElvenSpireCapital", b: "Windhollow", km: 16, quality: mapgraph.QualityRoad},
	{a: "Windhollow", b: "AshenMoor", km: 20, quality: mapgraph.QualityRough},
	{a: "AshenMoor", b: "HumanCityPort", km: 26, quality: mapgraph.QualityRough},
	{a: "HumanCityPort", b: "RuinedShrine", km: 9, quality: mapgraph.QualityRough},
	{a: "BlackwoodTrail", b: "HollowDen", km: 6, quality: mapgraph.QualityRough},
}

// categoryRoll is one entry of a settlement scale's cumulative category
// distribution table, mirroring the teacher spawner's
// occupationForTerrain cumulative-threshold idiom.
type categoryRoll struct {
	category  worldmodel.NPCCategory
	threshold float64 // cumulative upper bound, in [0,1]
}

func categoryTable(scale string) []categoryRoll {
	base := []categoryRoll{
		{worldmodel.CategoryFarmer, 0.22},
		{worldmodel.CategoryFisher, 0.30},
		{worldmodel.CategoryHunter, 0.36},
		{worldmodel.CategoryGuard, 0.45},
		{worldmodel.CategoryMerchant, 0.54},
		{worldmodel.CategoryLaborer, 0.64},
		{worldmodel.CategoryCrafter, 0.72},
		{worldmodel.CategoryHealer, 0.76},
		{worldmodel.CategoryScoutRanger, 0.80},
		{worldmodel.CategoryPriest, 0.84},
		{worldmodel.CategoryCultMember, 0.89},
		{worldmodel.CategoryElder, 0.94},
		{worldmodel.CategoryChild, 1.0},
	}
	if scale == "elven_capital" || scale == "elven_town" {
		base = []categoryRoll{
			{worldmodel.CategoryScholar, 0.20},
			{worldmodel.CategoryNoble, 0.30},
			{worldmodel.CategoryGuard, 0.42},
			{worldmodel.CategoryCrafter, 0.55},
			{worldmodel.CategoryMerchant, 0.65},
			{worldmodel.CategoryHealer, 0.72},
			{worldmodel.CategoryScoutRanger, 0.80},
			{worldmodel.CategoryPriest, 0.86},
			{worldmodel.CategoryElder, 0.93},
			{worldmodel.CategoryChild, 1.0},
		}
	}
	return base
}

func rollCategory(stream *rng.Stream, scale string) worldmodel.NPCCategory {
	table := categoryTable(scale)
	r, _ := stream.Float(0, 1)
	for _, entry := range table {
		if r <= entry.threshold {
			return entry.category
		}
	}
	return table[len(table)-1].category
}

// CreateWorld builds a fresh World and its companion road Graph,
// deterministically from (seed, cfg). It is a pure function: the same
// seed always yields byte-identical NPC rosters, traits, and site scalars
// (spec.md Section 4.1's reproducibility guarantee extended to world
// generation itself).
func CreateWorld(seed int64, cfg config.Config) (worldmodel.World, *mapgraph.Graph) {
	stream := rng.New(seed, 0)
	noise := newNoiseFields(seed)

	w := worldmodel.World{
		Seed:       seed,
		Tick:       0,
		Sites:      make(map[worldmodel.SiteID]worldmodel.Site),
		NPCs:       make(map[worldmodel.NPCID]worldmodel.NPC),
		Secrets:    make(map[string]worldmodel.Secret),
		Operations: make(map[string]worldmodel.FactionOperation),
	}

	npcSeq := 0
	for _, bp := range settlementBlueprints {
		site := newSettlementSite(bp, cfg, noise)
		w.Sites[bp.id] = site
		spawnPopulation(&w, bp, cfg, stream, &npcSeq)
	}
	for _, ts := range terrainSites {
		w.Sites[ts.id] = worldmodel.Site{
			ID:                ts.id,
			Kind:              worldmodel.SiteTerrain,
			AnchoringStrength: 40 + sample(noise.anchor, ts.x, ts.y)*40,
		}
	}
	w.Sites[specialSite] = worldmodel.Site{
		ID:                specialSite,
		Kind:              worldmodel.SiteSpecial,
		AnchoringStrength: 25 + sample(noise.anchor, specialSiteXY[0], specialSiteXY[1])*30,
		EclipsingPressure: 10 + sample(noise.pressure, specialSiteXY[0], specialSiteXY[1])*25,
	}
	w.Sites[hideoutSite] = worldmodel.Site{
		ID:                hideoutSite,
		Kind:              worldmodel.SiteHideout,
		Hidden:            true,
		AnchoringStrength: 10 + sample(noise.anchor, hideoutSiteXY[0], hideoutSiteXY[1])*25,
		EclipsingPressure: 45 + sample(noise.pressure, hideoutSiteXY[0], hideoutSiteXY[1])*25,
	}

	var edges []mapgraph.Edge
	for _, rb := range roadBlueprints {
		edges = append(edges, mapgraph.Edge{A: rb.a, B: rb.b, KM: rb.km, Quality: rb.quality})
	}
	graph := mapgraph.NewGraph(edges)

	linkFamilies(&w, stream)

	return w, graph
}

func newSettlementSite(bp settlementBlueprint, cfg config.Config, noise noiseFields) worldmodel.Site {
	adults := uint32(float64(bp.basePop) * 0.55)
	children := uint32(float64(bp.basePop) * 0.25)
	elders := bp.basePop - adults - children

	// Every site scalar here (AnchoringStrength, EclipsingPressure,
	// FieldsCondition, Unrest, Morale) is derived from the two noise
	// fields; the rng.Stream is used only for population rolls, the same
	// split the teacher draws between its math/rand per-hex rolls and its
	// opensimplex elevation/rainfall fields.
	anchor := sample(noise.anchor, bp.x, bp.y)
	pressure := sample(noise.pressure, bp.x, bp.y)

	return worldmodel.Site{
		ID:                bp.id,
		Kind:              worldmodel.SiteSettlement,
		EclipsingPressure: 5 + pressure*15,
		AnchoringStrength: 55 + anchor*30,
		Settlement: &worldmodel.SettlementData{
			Cohorts:         worldmodel.Cohorts{Children: children, Adults: adults, Elders: elders},
			HousingCapacity: bp.basePop + bp.basePop/4,
			Unrest:          5 + pressure*20,
			Morale:          55 + anchor*25,
			FieldsCondition: 0.75 + anchor*0.2,
			Food: worldmodel.FoodStock{
				Grain: []worldmodel.FoodLot{{ProducedDay: 0, Quantity: float64(bp.basePop) * cfg.PerCapitaFoodNeedPerDay * 5}},
				Fish:  []worldmodel.FoodLot{{ProducedDay: 0, Quantity: float64(bp.basePop) * cfg.PerCapitaFoodNeedPerDay * 2}},
			},
			ProductionBaseline: worldmodel.ProductionBaseline{Grain: float64(adults) * 1.5, Fish: float64(adults) * 0.6, Meat: float64(adults) * 0.3},
			SettlementScale:    bp.scale,
		},
	}
}

func spawnPopulation(w *worldmodel.World, bp settlementBlueprint, cfg config.Config, stream *rng.Stream, seq *int) {
	for i := uint32(0); i < bp.basePop; i++ {
		*seq++
		id := worldmodel.NPCID(fmt.Sprintf("npc:%s:%04d", bp.id, *seq))
		category := rollCategory(stream, bp.scale)

		npc := worldmodel.NPC{
			ID:         id,
			Category:   category,
			SiteID:     bp.id,
			HomeSiteID: bp.id,
			Alive:      true,
			HP:         100,
			MaxHP:      100,
			Traits:     rollTraits(stream),
			Needs: worldmodel.Needs{
				Food: 70, Safety: 70, Belonging: 60, Esteem: 50, Purpose: 50,
				Duty: 50, Certainty: 60, Rest: 70, Social: 55, Comfort: 55,
			},
			Inventory: worldmodel.FoodInventory{},
			Knowledge: worldmodel.Knowledge{},
		}
		if category == worldmodel.CategoryCultMember || category == worldmodel.CategoryCultLeader {
			role := "member"
			if category == worldmodel.CategoryCultLeader {
				role = "leader"
			}
			npc.Cult = &worldmodel.CultMembership{Role: role}
		}
		w.NPCs[id] = npc
	}
}

func rollTraits(stream *rng.Stream) worldmodel.Traits {
	roll := func() float64 {
		v, _ := stream.Float(10, 90)
		return v
	}
	return worldmodel.Traits{
		Aggression: roll(), Courage: roll(), Discipline: roll(), Empathy: roll(),
		Greed: roll(), Integrity: roll(), Loyalty: roll(), NeedForCertainty: roll(),
		Patience: roll(), Perception: roll(), Suspicion: roll(), Zeal: roll(),
	}
}

// linkFamilies pairs up consecutive same-settlement NPCs into small family
// groups of two to four, the simplest deterministic grouping that keeps
// the needs system's "family proximity" term meaningful at world start.
func linkFamilies(w *worldmodel.World, stream *rng.Stream) {
	bySite := make(map[worldmodel.SiteID][]worldmodel.NPCID)
	for _, id := range w.SortedNPCIDs() {
		npc := w.NPCs[id]
		bySite[npc.SiteID] = append(bySite[npc.SiteID], id)
	}
	for _, siteID := range w.SortedSiteIDs() {
		ids, ok := bySite[siteID]
		if !ok {
			continue
		}
		i := 0
		for i < len(ids) {
			groupSize, _ := stream.Int(2, 4)
			end := i + groupSize
			if end > len(ids) {
				end = len(ids)
			}
			group := ids[i:end]
			for _, member := range group {
				npc := w.NPCs[member]
				for _, other := range group {
					if other != member {
						npc.Family = append(npc.Family, other)
					}
				}
				w.NPCs[member] = npc
			}
			i = end
		}
	}
}
