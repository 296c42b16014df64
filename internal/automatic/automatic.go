// Package automatic implements the hourly/daily maintenance processes that
// run at the start of every tick, ahead of any NPC-driven attempt: food
// production/consumption/spoilage, cohort drift, and scalar drift
// (spec.md Section 4.3).
package automatic

import (
	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/rng"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

// Apply runs the full automatic-process pipeline in the fixed order the
// orchestrator's step 2 requires: production, consumption, spoilage,
// cohort drift, scalar drift.
func Apply(w *worldmodel.World, cfg config.Config, stream *rng.Stream, sink *worldmodel.EventSink) error {
	season := SeasonForTick(w.Tick)

	ApplyDailyProduction(w, cfg, season)
	ApplyHourlyConsumption(w, cfg)
	ApplyDailySpoilage(w, cfg, sink)
	if err := ApplyCohortDrift(w, stream, sink); err != nil {
		return err
	}
	ApplyScalarDrift(w, stream)
	return nil
}
