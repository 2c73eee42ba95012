package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chorusmith/chorusmith/log"
	"github.com/chorusmith/chorusmith/midi"
	"github.com/chorusmith/chorusmith/track"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [midi file]",
	Short: "Inspects a midi file's tracks",
	Long:  `Prints per-track stats and the melody score each track would get.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inspect(args[0])
	},
}

func inspect(path string) {
	tracks, err := midi.ReadTracksFromFile(path)
	if err != nil {
		log.Logger.WithError(err).Fatal("Could not read midi file")
	}

	for _, t := range tracks {
		score := 0.0
		if !t.IsPercussive && len(t.Notes) > 0 {
			score = track.DefaultScore(t)
		}
		fmt.Printf("track %v: name=%q program=%v percussive=%v notes=%v score=%.1f\n",
			t.ID, t.Name, t.Program, t.IsPercussive, len(t.Notes), score)
	}

	if selected, ok := track.Select(tracks, nil); ok {
		fmt.Printf("melody track: %v (%q)\n", selected.ID, selected.Name)
	} else {
		fmt.Println("no suitable melody track")
	}
}
