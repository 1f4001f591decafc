package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jsphweid/rhythmdex/config"
	"github.com/jsphweid/rhythmdex/logger"
)

var (
	cfg        *config.Config
	paramsFile string
)

var rootCmd = &cobra.Command{
	Use:   "rhythmdex",
	Short: "Rebuilds the rhythm of recognized score pages",
	Long: `rhythmdex takes the symbols found on a score page (heads, stems, beams,
rests, barlines) and rebuilds its rhythm: time slots, chords, beam groups,
voices, measure durations and measure numbers.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if paramsFile != "" {
			if err := config.LoadParamsFile(paramsFile, &loaded.Params); err != nil {
				return err
			}
			if err := loaded.Validate(); err != nil {
				return err
			}
		}
		cfg = loaded
		logger.InitLogger(logger.Config{
			Level:      cfg.LogLevel,
			OutputPath: cfg.LogPath,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		})
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&paramsFile, "params", "", "YAML file overriding the tuning parameters")
}

// settings is the loaded configuration, or the defaults when no command
// ran the root hooks (handlers under test).
func settings() *config.Config {
	if cfg == nil {
		return &config.Config{Params: config.DefaultParams(), Workers: 1, Port: "8080"}
	}
	return cfg
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
