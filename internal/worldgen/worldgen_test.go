package worldgen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

func TestCreateWorld_IsDeterministic(t *testing.T) {
	cfg := config.Default()
	w1, g1 := CreateWorld(42, cfg)
	w2, g2 := CreateWorld(42, cfg)

	require.Equal(t, w1.NPCs, w2.NPCs)
	require.Equal(t, w1.Sites, w2.Sites)
	require.Equal(t, g1.AllEdges(), g2.AllEdges())
}

func TestCreateWorld_DifferentSeedsDiverge(t *testing.T) {
	cfg := config.Default()
	w1, _ := CreateWorld(1, cfg)
	w2, _ := CreateWorld(2, cfg)
	require.NotEqual(t, w1.NPCs, w2.NPCs)
}

func TestCreateWorld_PopulatesExpectedSiteKinds(t *testing.T) {
	cfg := config.Default()
	w, graph := CreateWorld(7, cfg)

	require.Contains(t, w.Sites, worldmodel.SiteID("HumanCityPort"))
	require.Equal(t, worldmodel.SiteSettlement, w.Sites["HumanCityPort"].Kind)
	require.Equal(t, worldmodel.SiteHideout, w.Sites["HollowDen"].Kind)
	require.True(t, w.Sites["HollowDen"].Hidden)

	require.NotEmpty(t, w.NPCs)
	for _, npc := range w.NPCs {
		require.True(t, npc.Alive)
		require.Equal(t, 100.0, npc.HP)
		require.GreaterOrEqual(t, npc.Traits.Aggression, 10.0)
		require.LessOrEqual(t, npc.Traits.Aggression, 90.0)
	}

	_, ok := graph.Edge("HumanCityPort", "Oakvale")
	require.True(t, ok)
}

func TestCreateWorld_FamiliesAreMutual(t *testing.T) {
	cfg := config.Default()
	w, _ := CreateWorld(3, cfg)
	for id, npc := range w.NPCs {
		for _, famID := range npc.Family {
			other, ok := w.NPCs[famID]
			require.True(t, ok)
			var mutual bool
			for _, back := range other.Family {
				if back == id {
					mutual = true
				}
			}
			require.True(t, mutual, "family link from %s to %s must be mutual", id, famID)
		}
	}
}
