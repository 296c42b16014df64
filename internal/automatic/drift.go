package automatic

import (
	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/rng"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

// ApplyScalarDrift nudges each settlement's unrest/morale/eclipsingPressure/
// anchoringStrength/cultInfluence scalars by small bounded deltas that
// depend on the site's other scalars, every tick.
func ApplyScalarDrift(w *worldmodel.World, stream *rng.Stream) {
	for _, id := range w.SortedSiteIDs() {
		site := w.Sites[id]
		if site.Settlement == nil {
			continue
		}
		s := site.Settlement

		unrestPressure := s.Hunger*0.03 + s.Sickness*0.02 + site.EclipsingPressure*0.01
		s.Unrest = worldmodel.Clamp100(s.Unrest + unrestPressure - 0.2)

		moraleDelta := -s.Unrest*0.02 - s.Hunger*0.01 + 0.1
		s.Morale = worldmodel.Clamp100(s.Morale + moraleDelta)

		pressureDelta := s.CultInfluence*0.02 + s.Unrest*0.01 - site.AnchoringStrength*0.02
		site.EclipsingPressure = worldmodel.Clamp100(site.EclipsingPressure + pressureDelta)

		anchorDelta := -site.EclipsingPressure*0.015 + s.Morale*0.01 - 0.05
		site.AnchoringStrength = worldmodel.Clamp100(site.AnchoringStrength + anchorDelta)

		cultDelta := site.EclipsingPressure*0.01 - s.Morale*0.005
		s.CultInfluence = worldmodel.Clamp100(s.CultInfluence + cultDelta)

		site.Settlement = s
		w.Sites[id] = site
	}
}

// ApplyCohortDrift applies sickness/hunger/starvation deaths and
// unrest/pressure-driven refugee migration once per day.
func ApplyCohortDrift(w *worldmodel.World, stream *rng.Stream, sink *worldmodel.EventSink) error {
	if w.Tick%24 != 0 {
		return nil
	}

	for _, id := range w.SortedSiteIDs() {
		site := w.Sites[id]
		if site.Settlement == nil {
			continue
		}
		s := site.Settlement

		deathChance := (s.Sickness*0.0006 + s.Hunger*0.0008)
		adultDeaths := rollDeaths(stream, s.Cohorts.Adults, deathChance)
		elderDeaths := rollDeaths(stream, s.Cohorts.Elders, deathChance*1.5)
		childDeaths := rollDeaths(stream, s.Cohorts.Children, deathChance*0.5)

		if adultDeaths+elderDeaths+childDeaths > 0 {
			s.Cohorts.Adults -= adultDeaths
			s.Cohorts.Elders -= elderDeaths
			s.Cohorts.Children -= childDeaths
			if s.DeathsToday == nil {
				s.DeathsToday = make(map[string]int)
			}
			s.DeathsToday["attrition"] += int(adultDeaths + elderDeaths + childDeaths)
			sink.Emit(worldmodel.EventWorldIncident, worldmodel.VisibilitySystem, id,
				"population attrition from sickness and hunger",
				map[string]any{"deaths": adultDeaths + elderDeaths + childDeaths})
		}

		migrationPressure := (s.Unrest + site.EclipsingPressure) / 200
		if migrationPressure > 0.3 {
			departing := uint32(float64(s.Cohorts.Adults) * 0.01 * migrationPressure)
			if departing > 0 && departing < s.Cohorts.Adults {
				s.Cohorts.Adults -= departing
			}
		} else if migrationPressure < 0.1 {
			arriving, err := stream.Int(0, 2)
			if err != nil {
				return err
			}
			s.Cohorts.Adults += uint32(arriving)
		}

		site.Settlement = s
		w.Sites[id] = site
	}
	return nil
}

func rollDeaths(stream *rng.Stream, population uint32, pPerHead float64) uint32 {
	var deaths uint32
	for i := uint32(0); i < population; i++ {
		if stream.Bernoulli(pPerHead) {
			deaths++
		}
	}
	return deaths
}
