package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jsphweid/rhythmdex/file"
	"github.com/jsphweid/rhythmdex/sample"
)

var (
	sampleOpts   sample.Options
	sampleIndex  int
	sampleOutput string
)

func init() {
	f := sampleCmd.Flags()
	f.IntVar(&sampleOpts.Systems, "systems", 2, "systems on the page")
	f.IntVar(&sampleOpts.Parts, "parts", 2, "parts per system")
	f.IntVar(&sampleOpts.Measures, "measures", 4, "measures per system")
	f.BoolVar(&sampleOpts.Pickup, "pickup", false, "start the page with a pickup measure")
	f.IntVar(&sampleIndex, "index", 0, "page index")
	f.StringVarP(&sampleOutput, "output", "o", "", "write to this file instead of stdout")
	rootCmd.AddCommand(sampleCmd)
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Writes a synthetic page file",
	Long:  `Writes a synthetic 4/4 page as JSON, handy to try transcribe, inspect and watch.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		page := sample.Page(sampleIndex, sampleOpts)
		if sampleOutput == "" {
			return file.WritePage(cmd.OutOrStdout(), page)
		}
		f, err := os.Create(sampleOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		return file.WritePage(f, page)
	},
}
