package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/chorusmith/chorusmith/log"
)

var rootCmd = &cobra.Command{
	Use:   "chorusmith",
	Short: "Piano chorus arranger",
	Long:  `Extracts the melody/chorus line from a transcribed MIDI file and arranges it for two-hand piano.`,
}

func Execute() {
	_ = godotenv.Load()
	log.Init()
	cobra.CheckErr(rootCmd.Execute())
}
