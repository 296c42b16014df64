package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talgya/hollowreach/internal/chronicle"
	"github.com/talgya/hollowreach/internal/snapshot"
)

func newSnapshotCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect snapshot.json documents",
	}
	root.AddCommand(newSnapshotInspectCmd())
	return root
}

func newSnapshotInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <snapshot.json>",
		Short: "Print a summary of a snapshot document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := snapshot.Read(args[0])
			if err != nil {
				return err
			}
			alive := 0
			for _, npc := range doc.World.NPCs {
				if npc.Alive {
					alive++
				}
			}
			fmt.Printf("seed=%d createdAt=%s tick=%d (day %d)\n", doc.Seed, doc.CreatedAt, doc.World.Tick, doc.World.Tick/24)
			fmt.Printf("sites=%d npcs=%d (alive=%d) chronicle_entries=%d\n",
				len(doc.World.Sites), len(doc.World.NPCs), alive, len(doc.World.Chronicle))
			for _, id := range doc.World.SortedNPCIDs() {
				npc := doc.World.NPCs[id]
				if npc.Notability >= 70 {
					fmt.Printf("  notable: %s %s\n", id, chronicle.ComputeNpcLabel(npc, doc.World.Tick))
				}
			}
			return nil
		},
	}
}
