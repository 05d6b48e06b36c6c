package cmd

import (
	"fmt"

	"github.com/jsphweid/brailledex/chord"
	"github.com/jsphweid/brailledex/midi"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid>",
	Short: "Lists the sounding chords of a MIDI file",
	Long: `Lists every distinct set of sounding keys of a MIDI file, e.g. one
written by the midi command, to check a transcription by ear or eye.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := midi.ReadMidiFile(args[0])
		cobra.CheckErr(err)
		fmt.Printf("time format: %v\n", s.TimeFormat)
		for _, c := range chord.FromSMF(s) {
			fmt.Printf("tick %v: %v\n", c.Tick, c.Key())
		}
	},
}
