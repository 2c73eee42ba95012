package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chorusmith/chorusmith/constants"
	"github.com/chorusmith/chorusmith/log"
	"github.com/chorusmith/chorusmith/midi"
	"github.com/chorusmith/chorusmith/pipeline"
	"github.com/chorusmith/chorusmith/util"
)

var arrangeFlags struct {
	segmentSeconds    float64
	measureSeconds    float64
	minChorusFraction float64
	baseOctave        int
	velocity          uint8
	minorFallback     bool
}

func init() {
	arrangeCmd.Flags().Float64Var(&arrangeFlags.segmentSeconds, "segment", constants.DefaultSegmentSeconds, "repetition-detection window in seconds")
	arrangeCmd.Flags().Float64Var(&arrangeFlags.measureSeconds, "measure", constants.DefaultMeasureSeconds, "chord window in seconds")
	arrangeCmd.Flags().Float64Var(&arrangeFlags.minChorusFraction, "min-fraction", constants.DefaultMinChorusFraction, "minimum fraction of melody notes a chorus must keep")
	arrangeCmd.Flags().IntVar(&arrangeFlags.baseOctave, "base-octave", constants.DefaultBaseOctave, "chords are voiced one octave below this octave")
	arrangeCmd.Flags().Uint8Var(&arrangeFlags.velocity, "velocity", constants.AccompanimentVelocity, "accompaniment velocity")
	arrangeCmd.Flags().BoolVar(&arrangeFlags.minorFallback, "minor-fallback", false, "default to minor when a measure has no identifiable third")
	rootCmd.AddCommand(arrangeCmd)
}

var arrangeCmd = &cobra.Command{
	Use:   "arrange [midi file]",
	Short: "Creates a two-hand piano arrangement",
	Long:  `Extracts the melody/chorus line and writes a two-track MIDI file with block-chord accompaniment.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		arrange(args[0])
	},
}

func arrangeConfig() pipeline.Config {
	cfg := pipeline.DefaultConfig()
	cfg.SegmentSeconds = arrangeFlags.segmentSeconds
	cfg.MeasureSeconds = arrangeFlags.measureSeconds
	cfg.MinChorusFraction = arrangeFlags.minChorusFraction
	cfg.BaseOctave = arrangeFlags.baseOctave
	cfg.AccompVelocity = arrangeFlags.velocity
	cfg.MinorFallback = arrangeFlags.minorFallback
	return cfg
}

func arrange(path string) {
	tracks, err := midi.ReadTracksFromFile(path)
	if err != nil {
		log.Logger.WithError(err).Fatal("Could not read midi file")
	}

	res, err := pipeline.Run(tracks, arrangeConfig())
	if err != nil {
		log.Logger.WithError(err).Fatal("Arrangement failed")
	}

	util.EnsureOutputDir(constants.GetOutputDir())
	out := outputPath(path, "_arrangement.mid")
	if err := midi.WriteArrangementFile(out, res.Melody, res.Accompaniment); err != nil {
		log.Logger.WithError(err).Fatal("Could not write arrangement file")
	}

	log.Logger.WithFields(logrus.Fields{
		"original_track":      res.TrackName,
		"melody_notes":        len(res.Melody),
		"accompaniment_notes": len(res.Accompaniment),
		"duration":            res.Duration,
		"output":              out,
	}).Info("Created arrangement")
}
