package cmd

import (
	"path/filepath"
	"strings"

	"github.com/jsphweid/brailledex/constants"
	"github.com/jsphweid/brailledex/midi"
	"github.com/jsphweid/brailledex/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(midiCmd)
}

var midiCmd = &cobra.Command{
	Use:   "midi <file|url> [out.mid]",
	Short: "Exports a score as a Standard MIDI File",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		score, err := loadScore(args[0])
		cobra.CheckErr(err)

		out := ""
		if len(args) == 2 {
			out = args[1]
		} else {
			cobra.CheckErr(util.EnsureDir(constants.GetOutDir()))
			base := filepath.Base(args[0])
			out = filepath.Join(constants.GetOutDir(), strings.TrimSuffix(base, filepath.Ext(base))+".mid")
		}

		s, err := midi.Export(score)
		cobra.CheckErr(err)
		cobra.CheckErr(midi.WriteFile(s, out))
		logger.Printf("wrote %s", out)
	},
}
