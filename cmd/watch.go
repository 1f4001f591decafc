package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/jsphweid/rhythmdex/constants"
	"github.com/jsphweid/rhythmdex/file"
	"github.com/jsphweid/rhythmdex/logger"
	"github.com/jsphweid/rhythmdex/measure"
	"github.com/jsphweid/rhythmdex/midi"
)

var watchOut string

func init() {
	watchCmd.Flags().StringVar(&watchOut, "out", constants.OutDir, "directory receiving result.json and preview.mid")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Re-transcribes a directory of pages whenever it changes",
	Long: `Transcribes every page file of a directory, then watches it and does it
again after each burst of changes. Results go to the --out directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return watch(ctx, args[0], watchOut)
	},
}

// rebuild transcribes all pages of dir and writes the results to out.
func rebuild(ctx context.Context, dir, out string) error {
	paths, err := file.PagePaths(dir)
	if err != nil {
		return err
	}
	pages, err := file.ReadPages(paths)
	if err != nil {
		return err
	}
	res, runErr := transcribe(ctx, pages, measure.IDState{}, settings().Workers)
	if runErr != nil {
		logger.Warn("some pages failed", logger.ErrorField(runErr))
	}

	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := writeResponse(&buf, res); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(out, "result.json"), buf.Bytes(), 0o644); err != nil {
		return err
	}
	if len(res.Results) > 0 {
		if err := midi.WriteFile(filepath.Join(out, "preview.mid"), pages); err != nil {
			return err
		}
	}
	logger.Info("rebuilt", logger.String("dir", dir), logger.Int("pages", len(res.Results)))
	return nil
}

func isPageEvent(event fsnotify.Event) bool {
	if _, err := file.FormatOf(event.Name); err != nil {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

func watch(ctx context.Context, dir, out string) error {
	if err := rebuild(ctx, dir, out); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return err
	}
	logger.Info("watching", logger.String("dir", dir), logger.String("out", out))

	debounced := debounce.New(constants.WatchDebounce)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isPageEvent(event) {
				continue
			}
			logger.Debug("page changed", logger.String("file", event.Name), logger.String("op", event.Op.String()))
			debounced(func() {
				if err := rebuild(ctx, dir, out); err != nil {
					logger.Error("rebuild failed", logger.ErrorField(err))
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", logger.ErrorField(err))
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
