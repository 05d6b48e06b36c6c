package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jsphweid/brailledex/model"
	"github.com/spf13/cobra"
)

var asJSON bool

func init() {
	eventsCmd.Flags().BoolVar(&asJSON, "json", false, "print events as JSON")
	rootCmd.AddCommand(eventsCmd)
}

var eventsCmd = &cobra.Command{
	Use:   "events <file|url>",
	Short: "Prints the event timeline of every part",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		score, err := loadScore(args[0])
		cobra.CheckErr(err)

		if asJSON {
			views := make(map[string][]model.EventView)
			for _, part := range score.Parts() {
				for _, e := range part.Events() {
					views[part.ID] = append(views[part.ID], model.Describe(e))
				}
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			cobra.CheckErr(enc.Encode(views))
			return
		}

		for _, part := range score.Parts() {
			fmt.Printf("part %s %q\n", part.ID, part.Name())
			for _, e := range part.Events() {
				v := model.Describe(e)
				fmt.Printf("%8s  %-12s %s\n", v.Offset, v.Type, v.Detail)
			}
		}
	},
}
