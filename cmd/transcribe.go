package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/brailledex/constants"
	"github.com/jsphweid/brailledex/file"
	"github.com/jsphweid/brailledex/model"
	"github.com/jsphweid/brailledex/musicxml"
	"github.com/jsphweid/brailledex/render"
	"github.com/jsphweid/brailledex/sample"
	"github.com/jsphweid/brailledex/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	measures string
	writeOut bool
	maxFiles int
)

func init() {
	transcribeCmd.Flags().StringVarP(&measures, "measures", "m", "", `measure range, e.g. "3-8"`)
	transcribeCmd.Flags().BoolVarP(&writeOut, "out", "o", false, "write .brl files to BRAILLEDEX_OUT_DIR instead of stdout")
	transcribeCmd.Flags().IntVarP(&maxFiles, "max", "n", 0, "stop after this many files (0 = all)")
	rootCmd.AddCommand(transcribeCmd)
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <file|dir|url>...",
	Short: "Transcribes MusicXML into braille",
	Long: `Transcribes MusicXML (.xml, .musicxml or compressed .mxl) into unicode
braille music. Directories are searched for scores.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		paths, err := file.Gather(args, maxFiles)
		cobra.CheckErr(err)
		if writeOut {
			cobra.CheckErr(util.EnsureDir(constants.GetOutDir()))
		}
		for _, p := range paths {
			cobra.CheckErr(transcribe(p))
		}
	},
}

// excerpt applies the --measures flag to every part of score.
func excerpt(score *musicxml.Score) (map[string]model.MusicList, error) {
	res := make(map[string]model.MusicList)
	for _, part := range score.Parts() {
		res[part.ID] = part.Events()
	}
	if measures == "" {
		return res, nil
	}
	first, last, err := sample.ParseRange(measures)
	if err != nil {
		return nil, err
	}
	for id, events := range res {
		if res[id], err = sample.Excerpt(events, first, last); err != nil {
			return nil, errors.Wrapf(err, "part %s", id)
		}
	}
	return res, nil
}

func transcribe(path string) error {
	score, err := loadScore(path)
	if err != nil {
		return errors.Wrapf(err, "could not transcribe %s", path)
	}
	for _, w := range score.Warnings() {
		logger.Printf("%s: %v", path, w)
	}

	text := render.Score(score)
	if measures != "" {
		events, err := excerpt(score)
		if err != nil {
			return err
		}
		var sb strings.Builder
		for _, part := range score.Parts() {
			fmt.Fprintf(&sb, "%s (%s)\n%s\n", part.Name(), measures, render.Events(events[part.ID]))
		}
		text = sb.String()
	}

	if !writeOut {
		fmt.Print(text)
		return nil
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".brl"
	out := filepath.Join(constants.GetOutDir(), name)
	logger.Printf("writing %s", out)
	return os.WriteFile(out, []byte(text), 0644)
}
