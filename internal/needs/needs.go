// Package needs recomputes each living, non-traveling NPC's ten-scalar
// Needs record every tick from site conditions, personal state, beliefs,
// and family proximity (spec.md Section 4.4).
package needs

import (
	"github.com/talgya/hollowreach/internal/worldmodel"
)

// Recompute walks every living, non-traveling NPC in deterministic order
// and replaces its Needs with a freshly derived value.
func Recompute(w *worldmodel.World) {
	for _, id := range w.SortedNPCIDs() {
		npc := w.NPCs[id]
		if !npc.Alive || npc.IsTraveling() {
			continue
		}
		npc.Needs = derive(w, npc)
		npc.Needs.Clamp()
		w.NPCs[id] = npc
	}
}

func derive(w *worldmodel.World, npc worldmodel.NPC) worldmodel.Needs {
	site := w.Sites[npc.SiteID]

	n := worldmodel.Needs{
		Food:      foodNeed(site, npc),
		Safety:    safetyNeed(site, npc),
		Belonging: belongingNeed(w, npc),
		Esteem:    100 - npc.Notability/2,
		Purpose:   purposeNeed(npc),
		Duty:      dutyNeed(npc),
		Certainty: certaintyNeed(site, npc),
		Rest:      100 - npc.Trauma*0.3,
		Social:    socialNeed(npc),
		Comfort:   100 - site.Danger()*0.4,
	}
	return n
}

func foodNeed(site worldmodel.Site, npc worldmodel.NPC) float64 {
	base := 100.0
	if site.Settlement != nil {
		base -= site.Settlement.Hunger
	}
	stash := npc.Inventory.Grain + npc.Inventory.Fish + npc.Inventory.Meat
	relief := stash * 6
	if relief > 60 {
		relief = 60
	}
	return base + relief
}

func safetyNeed(site worldmodel.Site, npc worldmodel.NPC) float64 {
	base := 100.0
	base -= site.EclipsingPressure * 0.4
	if site.Settlement != nil {
		base -= site.Settlement.Unrest * 0.4
	}
	base -= npc.Trauma * 0.2
	base -= recentViolenceBeliefPressure(npc)
	return base
}

// recentViolenceBeliefPressure adds 15 points of safety pressure (a
// negative contribution once subtracted) if the NPC holds any belief
// implicating strong recent violence.
func recentViolenceBeliefPressure(npc worldmodel.NPC) float64 {
	for _, b := range npc.Beliefs {
		if b.Object == "assault" || b.Object == "kill" || b.Object == "raid" {
			if b.Confidence >= 50 {
				return 15
			}
		}
	}
	return 0
}

func belongingNeed(w *worldmodel.World, npc worldmodel.NPC) float64 {
	base := 100.0
	if len(npc.Family) > 0 {
		present := 0
		for _, fid := range npc.Family {
			if fam, ok := w.NPCs[fid]; ok && fam.Alive && fam.SiteID == npc.SiteID {
				present++
			}
		}
		if present == 0 {
			base -= 20
		}
	}
	if npc.AwayFromHomeSinceTick != nil {
		hoursAway := w.Tick - *npc.AwayFromHomeSinceTick
		if hoursAway > 48 {
			clock := (hoursAway - 48) / 2
			base -= float64(clock)
		}
	}
	return base
}

func purposeNeed(npc worldmodel.NPC) float64 {
	if npc.Plan != nil {
		return 100
	}
	return 100 - npc.Traits.Zeal*0.2
}

func dutyNeed(npc worldmodel.NPC) float64 {
	switch npc.Category {
	case worldmodel.CategoryGuard, worldmodel.CategoryPriest, worldmodel.CategoryCultLeader:
		return 100 - npc.Traits.Discipline*0.3
	default:
		return 100
	}
}

func certaintyNeed(site worldmodel.Site, npc worldmodel.NPC) float64 {
	base := 100 - (100-site.AnchoringStrength)*npc.Traits.NeedForCertainty/100
	return base
}

func socialNeed(npc worldmodel.NPC) float64 {
	if len(npc.Relationships) == 0 {
		return 60
	}
	var trustSum float64
	for _, rel := range npc.Relationships {
		trustSum += rel.Trust
	}
	avgTrust := trustSum / float64(len(npc.Relationships))
	return 40 + avgTrust*0.6
}
