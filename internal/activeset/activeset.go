// Package activeset selects, per site and per tick, which living NPCs are
// considered for a generated attempt this hour: a per-settlement-scale
// budget with overflow ranked by a forced/schedule/notability/urgency
// score plus a tie-breaking RNG nudge (spec.md Section 4.4).
package activeset

import (
	"sort"

	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/rng"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

type candidate struct {
	id    worldmodel.NPCID
	score float64
}

// Select returns, per site, the NPCs eligible to be considered for a
// generated attempt this tick: living, non-traveling, non-detained,
// non-busy, ranked within their site's budget. forced marks NPCs who
// already have an externally supplied attempt this tick — they get a
// +1000 score bonus, so they fill a site's budget ahead of every
// unforced NPC (spec.md Section 5's "external attempts are resolved
// before AI-generated ones"); forced NPCs beyond the budget are still
// dropped.
func Select(w *worldmodel.World, cfg config.Config, forced map[worldmodel.NPCID]bool, stream *rng.Stream) []worldmodel.NPCID {
	bySite := map[worldmodel.SiteID][]candidate{}

	for _, id := range w.SortedNPCIDs() {
		npc := w.NPCs[id]
		if !npc.Alive || npc.IsTraveling() || npc.IsDetained() || npc.IsBusy(w.Tick) {
			continue
		}
		score := 0.0
		if forced[id] {
			score += 1000
		}
		score += scheduleFit(npc, w.Tick)
		score += npc.Notability / 10
		score += npc.Needs.MaxSurvivalUrgency() / 5
		score += stream.Next() * 0.01

		bySite[npc.SiteID] = append(bySite[npc.SiteID], candidate{id: id, score: score})
	}

	var out []worldmodel.NPCID
	for _, siteID := range w.SortedSiteIDs() {
		cands, ok := bySite[siteID]
		if !ok {
			continue
		}
		sort.SliceStable(cands, func(i, j int) bool {
			if cands[i].score != cands[j].score {
				return cands[i].score > cands[j].score
			}
			return cands[i].id < cands[j].id
		})
		budget := budgetFor(w.Sites[siteID], cfg)
		if budget > len(cands) {
			budget = len(cands)
		}
		for _, c := range cands[:budget] {
			out = append(out, c.id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func budgetFor(site worldmodel.Site, cfg config.Config) int {
	if site.Settlement == nil {
		return cfg.BudgetOther
	}
	switch site.Settlement.SettlementScale {
	case "village":
		return cfg.BudgetVillage
	case "city":
		return cfg.BudgetCity
	case "elven_capital":
		return cfg.BudgetElvenCapital
	case "elven_town":
		return cfg.BudgetElvenTown
	default:
		return cfg.BudgetOther
	}
}

// scheduleFit rewards categories whose natural working hours match the
// current hour of day: daylight trades (farmer/fisher/hunter/laborer/
// miner/crafter/merchant) fit 06:00-20:00; duty-bound roles (guard/
// scout-ranger/priest/cult leader/cult member) fit around the clock.
func scheduleFit(npc worldmodel.NPC, tick uint64) float64 {
	switch npc.Category {
	case worldmodel.CategoryGuard, worldmodel.CategoryScoutRanger, worldmodel.CategoryPriest,
		worldmodel.CategoryCultLeader, worldmodel.CategoryCultMember:
		return 10
	case worldmodel.CategoryFarmer, worldmodel.CategoryFisher, worldmodel.CategoryHunter,
		worldmodel.CategoryLaborer, worldmodel.CategoryMiner, worldmodel.CategoryCrafter,
		worldmodel.CategoryMerchant:
		hour := int(tick % 24)
		if hour >= 6 && hour < 20 {
			return 10
		}
		return 0
	default:
		return 0
	}
}
