package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chorusmith/chorusmith/constants"
	"github.com/chorusmith/chorusmith/file"
	"github.com/chorusmith/chorusmith/log"
	"github.com/chorusmith/chorusmith/midi"
	"github.com/chorusmith/chorusmith/pipeline"
	"github.com/chorusmith/chorusmith/util"
)

var batchMax int

func init() {
	batchCmd.Flags().IntVar(&batchMax, "max", 0, "stop after this many files (0 = no limit)")
	rootCmd.AddCommand(batchCmd)
}

var batchCmd = &cobra.Command{
	Use:   "batch [dir]",
	Short: "Arranges every midi file under a directory",
	Long:  `Arranges every midi file under a directory`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		batch(args[0])
	},
}

func batch(dir string) {
	paths := util.GatherAllMidiPaths(dir, batchMax)
	fileNumMap := file.CreateFileNumMap(paths)
	util.EnsureOutputDir(constants.GetOutputDir())

	keys := util.GetKeys(fileNumMap)
	for i, num := range keys {
		path := fileNumMap[num]
		fmt.Printf("Processing %v of %v midi files\n", i+1, len(keys))
		if err := arrangeOne(num, path); err != nil {
			log.Logger.WithError(err).WithField("path", path).Warn("Skipping file")
		}
	}
}

func arrangeOne(num uint32, path string) error {
	tracks, err := midi.ReadTracksFromFile(path)
	if err != nil {
		return err
	}

	res, err := pipeline.Run(tracks, pipeline.DefaultConfig())
	if err != nil {
		return err
	}

	out := filepath.Join(constants.GetOutputDir(), fmt.Sprintf("%05d_arrangement.mid", num))
	return midi.WriteArrangementFile(out, res.Melody, res.Accompaniment)
}
