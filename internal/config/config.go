// Package config carries the engine's tuning knobs as a single record passed
// in at construction — no global singletons, per spec.md Section 9.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable constant the resolvers, scorer, and daily
// maintenance steps reference. spec.md Section 9's "open questions" note
// that the source material has several files with diverging defaults; the
// values below are the consolidated defaults this implementation treats as
// the source of truth.
type Config struct {
	// Active-set budgets per settlement kind.
	BudgetVillage       int `yaml:"budget_village" toml:"budget_village"`
	BudgetCity          int `yaml:"budget_city" toml:"budget_city"`
	BudgetElvenCapital  int `yaml:"budget_elven_capital" toml:"budget_elven_capital"`
	BudgetElvenTown     int `yaml:"budget_elven_town" toml:"budget_elven_town"`
	BudgetOther         int `yaml:"budget_other" toml:"budget_other"`

	// Scorer.
	ScoreThreshold float64 `yaml:"score_threshold" toml:"score_threshold"`

	// Rumor system.
	RumorCap            int     `yaml:"rumor_cap" toml:"rumor_cap"`
	RumorDecayPerDay     float64 `yaml:"rumor_decay_per_day" toml:"rumor_decay_per_day"`
	RumorDropConfidence  float64 `yaml:"rumor_drop_confidence" toml:"rumor_drop_confidence"`
	RumorMaxAgeDays      int     `yaml:"rumor_max_age_days" toml:"rumor_max_age_days"`
	RumorSpreadChance    float64 `yaml:"rumor_spread_chance" toml:"rumor_spread_chance"`
	RumorSpreadConfidenceMult float64 `yaml:"rumor_spread_confidence_mult" toml:"rumor_spread_confidence_mult"`
	ShareBeliefsOnArrival bool `yaml:"share_beliefs_on_arrival" toml:"share_beliefs_on_arrival"`

	// Beliefs.
	BeliefCap               int     `yaml:"belief_cap" toml:"belief_cap"`
	BeliefDecayRumor        float64 `yaml:"belief_decay_rumor" toml:"belief_decay_rumor"`
	BeliefDecayReport       float64 `yaml:"belief_decay_report" toml:"belief_decay_report"`
	BeliefDecayWitnessed    float64 `yaml:"belief_decay_witnessed" toml:"belief_decay_witnessed"`
	BeliefDropConfidence    float64 `yaml:"belief_drop_confidence" toml:"belief_drop_confidence"`

	// Memory.
	MaxMemoriesPerEntity int     `yaml:"max_memories_per_entity" toml:"max_memories_per_entity"`
	BaseEmotionIntensity float64 `yaml:"base_emotion_intensity" toml:"base_emotion_intensity"`
	MemoryDecayRate      float64 `yaml:"memory_decay_rate" toml:"memory_decay_rate"`
	MemoryDropVividness  float64 `yaml:"memory_drop_vividness" toml:"memory_drop_vividness"`
	MemoryKeepImportance float64 `yaml:"memory_keep_importance" toml:"memory_keep_importance"`

	// Emotions.
	EmotionDecayPerHour float64 `yaml:"emotion_decay_per_hour" toml:"emotion_decay_per_hour"`
	TraumaDecayPerHour  float64 `yaml:"trauma_decay_per_hour" toml:"trauma_decay_per_hour"`

	// Hunger-driven harm.
	HungerDamagePerHour     float64 `yaml:"hunger_damage_per_hour" toml:"hunger_damage_per_hour"`
	HomesicknessHoursBeforeTrauma int `yaml:"homesickness_hours_before_trauma" toml:"homesickness_hours_before_trauma"`

	// Food production, consumption, and spoilage.
	PerCapitaFoodNeedPerDay float64 `yaml:"per_capita_food_need_per_day" toml:"per_capita_food_need_per_day"`
	FoodExpiryDaysGrain     int     `yaml:"food_expiry_days_grain" toml:"food_expiry_days_grain"`
	FoodExpiryDaysFish      int     `yaml:"food_expiry_days_fish" toml:"food_expiry_days_fish"`
	FoodExpiryDaysMeat      int     `yaml:"food_expiry_days_meat" toml:"food_expiry_days_meat"`
	HungerRisePerUnmetUnit  float64 `yaml:"hunger_rise_per_unmet_unit" toml:"hunger_rise_per_unmet_unit"`
	HungerPersistHoursLethal int    `yaml:"hunger_persist_hours_lethal" toml:"hunger_persist_hours_lethal"`

	// Movement.
	RoadKmPerHourDay    float64 `yaml:"road_km_per_hour_day" toml:"road_km_per_hour_day"`
	RoadKmPerHourNight  float64 `yaml:"road_km_per_hour_night" toml:"road_km_per_hour_night"`
	RoughKmPerHourDay   float64 `yaml:"rough_km_per_hour_day" toml:"rough_km_per_hour_day"`
	RoughKmPerHourNight float64 `yaml:"rough_km_per_hour_night" toml:"rough_km_per_hour_night"`
	LocalTravelMetersPerHour float64 `yaml:"local_travel_meters_per_hour" toml:"local_travel_meters_per_hour"`
	MaxEncounterChance  float64 `yaml:"max_encounter_chance" toml:"max_encounter_chance"`

	// Driver.
	MaxCatchupTicks int `yaml:"max_catchup_ticks" toml:"max_catchup_ticks"`
}

// Default returns the consolidated-source-of-truth configuration.
func Default() Config {
	return Config{
		BudgetVillage:      30,
		BudgetCity:         40,
		BudgetElvenCapital: 60,
		BudgetElvenTown:    30,
		BudgetOther:        10,

		ScoreThreshold: 10,

		RumorCap:                  120,
		RumorDecayPerDay:          1.0,
		RumorDropConfidence:       10,
		RumorMaxAgeDays:           14,
		RumorSpreadChance:         0.15,
		RumorSpreadConfidenceMult: 0.7,
		ShareBeliefsOnArrival:     true,

		BeliefCap:            120,
		BeliefDecayRumor:     7,
		BeliefDecayReport:    6,
		BeliefDecayWitnessed: 4,
		BeliefDropConfidence: 15,

		MaxMemoriesPerEntity: 80,
		BaseEmotionIntensity: 20,
		MemoryDecayRate:      1.0,
		MemoryDropVividness:  10,
		MemoryKeepImportance: 70,

		EmotionDecayPerHour: 1.5,
		TraumaDecayPerHour:  0.1,

		HungerDamagePerHour:           2.0,
		HomesicknessHoursBeforeTrauma: 72,

		PerCapitaFoodNeedPerDay:  2.0,
		FoodExpiryDaysGrain:      30,
		FoodExpiryDaysFish:       3,
		FoodExpiryDaysMeat:       7,
		HungerRisePerUnmetUnit:   4,
		HungerPersistHoursLethal: 48,

		RoadKmPerHourDay:    4,
		RoadKmPerHourNight:  2,
		RoughKmPerHourDay:   2,
		RoughKmPerHourNight: 1,
		LocalTravelMetersPerHour: 450,
		MaxEncounterChance:       0.08,

		MaxCatchupTicks: 5,
	}
}

// LoadScenarioYAML loads a Config override from a YAML file, starting from
// Default() and overwriting any fields the file sets.
func LoadScenarioYAML(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadScenarioTOML loads a Config override from a TOML file, the format
// CLI-supplied scenario files may use as an alternative to YAML.
func LoadScenarioTOML(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
