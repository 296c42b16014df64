package memory

import (
	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

// emotionDecayMultipliers scales cfg.EmotionDecayPerHour per emotion slot.
// Fear and resentment linger longest; joy fades fastest — the same relative
// ordering the teacher's cognition module uses for mood decay.
var emotionDecayMultipliers = map[string]float64{
	"anger": 0.8, "fear": 0.7, "joy": 1.3, "sadness": 0.9,
	"disgust": 1.0, "resentment": 0.4, "stress": 1.0,
}

// applyEmotionalImpact nudges the witness's emotion slots named by the
// memory's impact tags, scaled by baseEmotionIntensity × (importance/100) ×
// arousal; a negative valence also raises stress.
func applyEmotionalImpact(npc *worldmodel.NPC, cfg config.Config, mem worldmodel.Memory) {
	if npc.Emotions == nil {
		npc.Emotions = &worldmodel.Emotions{}
	}
	scale := cfg.BaseEmotionIntensity * (mem.Importance / 100) * mem.Impact.Arousal
	for _, tag := range mem.Impact.Emotions {
		addEmotion(npc.Emotions, tag, scale)
	}
	if mem.Impact.Valence < 0 {
		npc.Emotions.Stress = worldmodel.Clamp100(npc.Emotions.Stress + scale*0.5)
	}
	npc.Emotions.Clamp()
}

func addEmotion(e *worldmodel.Emotions, tag string, delta float64) {
	switch tag {
	case "anger":
		e.Anger = worldmodel.Clamp100(e.Anger + delta)
	case "fear":
		e.Fear = worldmodel.Clamp100(e.Fear + delta)
	case "joy":
		e.Joy = worldmodel.Clamp100(e.Joy + delta)
	case "sadness":
		e.Sadness = worldmodel.Clamp100(e.Sadness + delta)
	case "disgust":
		e.Disgust = worldmodel.Clamp100(e.Disgust + delta)
	case "resentment":
		e.Resentment = worldmodel.Clamp100(e.Resentment + delta)
	case "stress":
		e.Stress = worldmodel.Clamp100(e.Stress + delta)
	}
}

// DecayEmotions applies each emotion slot's fixed hourly decay rate to
// every living NPC, run every tick (spec.md Section 4.11 step 6).
func DecayEmotions(w *worldmodel.World, cfg config.Config) {
	base := cfg.EmotionDecayPerHour
	for _, id := range w.SortedNPCIDs() {
		npc := w.NPCs[id]
		if npc.Emotions == nil || !npc.Alive {
			continue
		}
		e := npc.Emotions
		e.Anger = worldmodel.Clamp100(e.Anger - base*emotionDecayMultipliers["anger"])
		e.Fear = worldmodel.Clamp100(e.Fear - base*emotionDecayMultipliers["fear"])
		e.Joy = worldmodel.Clamp100(e.Joy - base*emotionDecayMultipliers["joy"])
		e.Sadness = worldmodel.Clamp100(e.Sadness - base*emotionDecayMultipliers["sadness"])
		e.Disgust = worldmodel.Clamp100(e.Disgust - base*emotionDecayMultipliers["disgust"])
		e.Resentment = worldmodel.Clamp100(e.Resentment - base*emotionDecayMultipliers["resentment"])
		e.Stress = worldmodel.Clamp100(e.Stress - base*emotionDecayMultipliers["stress"])
		w.NPCs[id] = npc
	}
}
