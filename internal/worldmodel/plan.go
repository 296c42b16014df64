package worldmodel

// PlanGoal is the closed set of plan intents an NPC's short-term plan can
// pursue.
type PlanGoal string

const (
	PlanGetFood PlanGoal = "get_food"
	PlanStaySafe PlanGoal = "stay_safe"
	PlanDoDuty  PlanGoal = "do_duty"
)

// Plan is a per-NPC, at-most-one multi-step sequence biasing the scorer
// toward its current step's action kind (spec.md Section 4.9).
type Plan struct {
	Goal            PlanGoal `json:"goal"`
	Steps           []string `json:"steps"` // action kinds, in order
	StepIndex       int      `json:"stepIndex"`
	CreatedTick     uint64   `json:"createdTick"`
	Failures        int      `json:"failures"`
	LastProgressTick uint64  `json:"lastProgressTick"`
}

// CurrentStep returns the action kind the plan currently biases toward, or
// "" if the plan has run off the end of its steps.
func (p *Plan) CurrentStep() string {
	if p == nil || p.StepIndex < 0 || p.StepIndex >= len(p.Steps) {
		return ""
	}
	return p.Steps[p.StepIndex]
}

// Goal is a rule-defined long-term intent with triggers contributing fixed
// (actionKind, weightDelta) modifiers to the scorer (spec.md Section 4.10).
type Goal struct {
	Kind       string             `json:"kind"`
	Priority   float64            `json:"priority"`
	Modifiers  map[string]float64 `json:"modifiers"` // actionKind -> weightDelta
	CreatedTick uint64            `json:"createdTick"`
	Procedural bool               `json:"procedural,omitempty"`
}

// ReactiveState is a short-lived flag with intensity and expiry that
// modulates scoring while active (spec.md Section 4.10).
type ReactiveState struct {
	Kind            string             `json:"kind"`
	Intensity       float64            `json:"intensity"` // 0..100
	DurationHours   int                `json:"durationHours"`
	RemainingHours  int                `json:"remainingHours"`
	Modifiers       map[string]float64 `json:"modifiers"` // actionKind -> weightDelta ("*" = global)
	DecayRateModifier float64          `json:"decayRateModifier"`
	TriggeredTick   uint64             `json:"triggeredTick"`
}

// Expired reports whether the reactive state has decayed to nothing.
func (r *ReactiveState) Expired() bool {
	return r.RemainingHours <= 0 || r.Intensity <= 0
}
