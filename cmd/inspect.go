package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jsphweid/rhythmdex/file"
	"github.com/jsphweid/rhythmdex/measure"
	"github.com/jsphweid/rhythmdex/model"
	"github.com/jsphweid/rhythmdex/rhythm"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <page>",
	Short: "Prints the slots and voices of a page",
	Long:  `Transcribes a single page and prints, measure by measure, its time slots with their chords and voices.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := file.ReadPage(args[0])
		if err != nil {
			return err
		}
		res, _, err := rhythm.TranscribePage(page, settings().Params, measure.IDState{}, uuid.NewString())
		if err != nil {
			return err
		}
		return inspect(cmd.OutOrStdout(), res)
	},
}

func stackFlags(st model.StackResult) string {
	var flags []string
	for _, f := range []struct {
		on   bool
		name string
	}{
		{st.Pickup, "pickup"},
		{st.Implicit, "implicit"},
		{st.FirstHalf, "first-half"},
		{st.SecondHalf, "second-half"},
	} {
		if f.on {
			flags = append(flags, f.name)
		}
	}
	return strings.Join(flags, ",")
}

func inspect(out io.Writer, res *model.PageResult) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, st := range res.Stacks {
		fmt.Fprintf(w, "measure %d\tsystem %d\tactual %s\t%s\n", st.PageID, st.System, st.Actual, stackFlags(st))
		for _, mr := range st.Measures {
			voices := make(map[model.ChordID]int, len(mr.Chords))
			for _, c := range mr.Chords {
				voices[c.ID] = c.Voice
			}
			for _, s := range mr.Slots {
				var chords []string
				for _, id := range s.Chords {
					chords = append(chords, fmt.Sprintf("#%d/v%d", id, voices[id]))
				}
				fmt.Fprintf(w, "  part %d\tslot %d\t@%s\t%s\n", mr.Context.PartID, s.ID, s.Offset, strings.Join(chords, " "))
			}
		}
	}
	for _, a := range res.Advisories {
		fmt.Fprintf(w, "! %s\n", a)
	}
	return w.Flush()
}
