package cmd

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/jsphweid/rhythmdex/file"
	"github.com/jsphweid/rhythmdex/logger"
	"github.com/jsphweid/rhythmdex/measure"
	"github.com/jsphweid/rhythmdex/midi"
	"github.com/jsphweid/rhythmdex/model"
	"github.com/jsphweid/rhythmdex/rhythm"
)

var (
	midiPath string
	workers  int
	lastID   int
)

func init() {
	transcribeCmd.Flags().StringVar(&midiPath, "midi", "", "also write a MIDI preview to this file")
	transcribeCmd.Flags().IntVar(&workers, "workers", 0, "pages transcribed in parallel (defaults to WORKERS)")
	transcribeCmd.Flags().IntVar(&lastID, "last-id", 0, "number measures after this id, as if a previous page ended with it")
	rootCmd.AddCommand(transcribeCmd)
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <page or dir>...",
	Short: "Transcribes page files and prints the result as JSON",
	Long: `Transcribes page files (JSON or YAML) in the order given. Directories are
expanded to the page files they hold, sorted by name. Measure numbers
continue from one page to the next.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := expandPaths(args)
		if err != nil {
			return err
		}
		pages, err := file.ReadPages(paths)
		if err != nil {
			return err
		}

		acc := measure.IDState{}
		if cmd.Flags().Changed("last-id") {
			acc = measure.IDState{LastID: lastID, HasLast: true}
		}
		n := workers
		if n <= 0 {
			n = settings().Workers
		}

		res, runErr := transcribe(cmd.Context(), pages, acc, n)
		if err := writeResponse(cmd.OutOrStdout(), res); err != nil {
			return err
		}
		if midiPath != "" {
			if err := midi.WriteFile(midiPath, pages); err != nil {
				return err
			}
			logger.Info("wrote midi preview", logger.String("path", midiPath))
		}
		return runErr
	},
}

// expandPaths replaces every directory of args with its page files.
func expandPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		inDir, err := file.PagePaths(arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, inDir...)
	}
	return paths, nil
}

func transcribe(ctx context.Context, pages []*model.Page, acc measure.IDState, n int) (model.TranscribeResponse, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	results, _, err := rhythm.NewPool(settings().Params, n).Run(ctx, pages, acc)
	res := model.TranscribeResponse{Results: make([]model.PageResult, 0, len(results))}
	for _, r := range results {
		res.Results = append(res.Results, *r)
	}
	for _, e := range multierr.Errors(err) {
		res.Errors = append(res.Errors, e.Error())
	}
	return res, err
}

func writeResponse(w io.Writer, res model.TranscribeResponse) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
