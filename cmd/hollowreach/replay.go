package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/talgya/hollowreach/internal/worldmodel"
)

func newReplayCmd() *cobra.Command {
	var kindFilter string
	cmd := &cobra.Command{
		Use:   "replay <events.ndjson>",
		Short: "Print an event log file, optionally filtered by event kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return replayFile(args[0], kindFilter)
		},
	}
	cmd.Flags().StringVar(&kindFilter, "kind", "", "only print events of this kind")
	return cmd
}

func replayFile(path string, kindFilter string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("replay: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	count := 0
	for scanner.Scan() {
		var ev worldmodel.SimEvent
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := json.Unmarshal(line, &ev); err != nil {
			return fmt.Errorf("replay: parse line %d: %w", count+1, err)
		}
		if kindFilter != "" && string(ev.Kind) != kindFilter {
			continue
		}
		fmt.Printf("[%d] %s %s %s: %s\n", ev.Tick, ev.ID, ev.Kind, ev.SiteID, ev.Message)
		count++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("replay: scan %s: %w", path, err)
	}
	fmt.Printf("%d events printed\n", count)
	return nil
}
