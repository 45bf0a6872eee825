package cli

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"cueplay/internal/config"
	"cueplay/internal/errors"
	"cueplay/internal/logging"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cueplay <media>",
	Short: "Schedule Spotify playback at a future time",
	Long: `Cueplay resolves a Spotify track, album, playlist, or artist reference
and starts playback on a Spotify Connect device at a chosen time, either
by waiting in-process or by handing the job to the OS scheduler.

Examples:
  cueplay spotify:track:4uLU6hMCjMI75M1A2tKUQC --time 08:30
  cueplay https://open.spotify.com/album/2guirTSEqLizK7j9i1MTTZ --at 2025-10-04T07:45
  cueplay 4uLU6hMCjMI75M1A2tKUQC --time 07:00 --device "Bedroom" --volume 40 --job
  cueplay spotify:playlist:37i9dQZF1DXcBWIGoYBM5M --now`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	RunE:          runSchedule,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.cueplayrc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	log = logging.New(cfg.Log)
	return nil
}

// Execute runs the root command. An interrupted wait exits 130, the
// conventional status for termination by SIGINT.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	if stderrors.Is(err, errors.ErrInterrupted) {
		fmt.Fprintln(os.Stderr, "Aborted.")
		os.Exit(130)
	}
	fmt.Fprintln(os.Stderr, errors.Format(err))
	os.Exit(1)
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}
