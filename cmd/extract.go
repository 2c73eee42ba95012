package cmd

import (
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chorusmith/chorusmith/constants"
	"github.com/chorusmith/chorusmith/log"
	"github.com/chorusmith/chorusmith/midi"
	"github.com/chorusmith/chorusmith/pipeline"
	"github.com/chorusmith/chorusmith/util"
)

func init() {
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract [midi file]",
	Short: "Extracts the melody/chorus line",
	Long:  `Extracts the melody/chorus line and writes it as a single-track MIDI file.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		extract(args[0])
	},
}

func outputPath(inputPath, suffix string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return filepath.Join(constants.GetOutputDir(), base+suffix)
}

func extract(path string) {
	tracks, err := midi.ReadTracksFromFile(path)
	if err != nil {
		log.Logger.WithError(err).Fatal("Could not read midi file")
	}

	cfg := pipeline.DefaultConfig()
	cfg.WithAccompaniment = false
	res, err := pipeline.Run(tracks, cfg)
	if err != nil {
		log.Logger.WithError(err).Fatal("Melody extraction failed")
	}

	util.EnsureOutputDir(constants.GetOutputDir())
	out := outputPath(path, "_melody.mid")
	if err := midi.WriteMelodyFile(out, res.Program, res.Melody); err != nil {
		log.Logger.WithError(err).Fatal("Could not write melody file")
	}

	log.Logger.WithFields(logrus.Fields{
		"original_track": res.TrackName,
		"total_notes":    res.TotalNoteCount,
		"chorus_notes":   res.ChorusNoteCount,
		"duration":       res.Duration,
		"output":         out,
	}).Info("Extracted melody")
}
