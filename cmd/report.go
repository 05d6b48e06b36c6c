package cmd

import (
	"bytes"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jsphweid/brailledex/file"
	"github.com/jsphweid/brailledex/model"
	"github.com/jsphweid/brailledex/util"
	"github.com/spf13/cobra"
)

func init() {
	reportCmd.Flags().IntVarP(&maxFiles, "max", "n", 0, "stop after this many files (0 = all)")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report <file|dir|url>...",
	Short: "Summarizes a collection of scores",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		paths, err := file.Gather(args, maxFiles)
		cobra.CheckErr(err)
		r := analyze(paths)
		fmt.Print(r)
	},
}

type scoreReport struct {
	numFiles    int64
	numFailed   int64
	numBytes    []int64
	numParts    []int64
	numMeasures []int64
	numNotes    []int64
	numChords   []int64
	numWarnings []int64
}

func analyze(paths []string) scoreReport {
	var report scoreReport
	for _, p := range paths {
		report.numFiles += 1
		data, err := file.Read(p)
		if err != nil {
			logger.Printf("skipping %s: %v", p, err)
			report.numFailed += 1
			continue
		}
		score, err := newParser().Parse(bytes.NewReader(data))
		if err != nil {
			logger.Printf("skipping %s: %v", p, err)
			report.numFailed += 1
			continue
		}

		var measures, notes, chords int64
		for _, part := range score.Parts() {
			measures += int64(part.Events().Measures())
			part.Events().EachNote(func(n *model.Note) {
				if !n.Invisible {
					notes += 1
				}
			})
			for _, e := range part.Events() {
				if _, ok := e.(*model.Chord); ok {
					chords += 1
				}
			}
		}
		report.numBytes = append(report.numBytes, int64(len(data)))
		report.numParts = append(report.numParts, int64(len(score.Parts())))
		report.numMeasures = append(report.numMeasures, measures)
		report.numNotes = append(report.numNotes, notes)
		report.numChords = append(report.numChords, chords)
		report.numWarnings = append(report.numWarnings, int64(len(score.Warnings())))
	}
	return report
}

func (r scoreReport) String() string {
	count := func(nums []int64) string {
		return humanize.Comma(int64(util.Sum(nums)))
	}
	return fmt.Sprintf(`files:    %s (%s failed)
size:     %s
parts:    %s
measures: %s
notes:    %s
chords:   %s
warnings: %s
`,
		humanize.Comma(r.numFiles), humanize.Comma(r.numFailed),
		humanize.Bytes(util.Sum(r.numBytes)),
		count(r.numParts),
		count(r.numMeasures),
		count(r.numNotes),
		count(r.numChords),
		count(r.numWarnings),
	)
}
