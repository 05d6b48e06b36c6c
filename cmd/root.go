package cmd

import (
	"log"
	"os"

	"github.com/jsphweid/brailledex/constants"
	"github.com/jsphweid/brailledex/file"
	"github.com/jsphweid/brailledex/musicxml"
	"github.com/spf13/cobra"
)

var logger = log.New(os.Stderr, "brailledex: ", log.LstdFlags)

var workers int

var rootCmd = &cobra.Command{
	Use:   "brailledex",
	Short: "MusicXML to braille music",
	Long: `brailledex transcribes MusicXML scores into braille music, and
exports them as MIDI for proof listening.`,
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", constants.GetWorkers(), "parts transcribed at once (0 = one per CPU)")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func newParser() *musicxml.Parser {
	return musicxml.NewParser(workers, logger)
}

func loadScore(name string) (*musicxml.Score, error) {
	r, err := file.Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return newParser().Parse(r)
}
