package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cueplay/internal/schedule"
	"cueplay/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scheduling web form",
	Long: `Serves a small web form for scheduling playback and managing pending
jobs. Listens on the configured address (CUEPLAY_WEB_ADDR or the [web]
config section, default :5000).`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	webCfg, err := web.NewConfigFromEnv(ctx)
	if err != nil {
		return fmt.Errorf("failed to load web config: %w", err)
	}
	if cfg.Web.Addr != "" {
		webCfg.Addr = cfg.Web.Addr
	}
	if serveAddr != "" {
		webCfg.Addr = serveAddr
	}

	prog, err := schedule.DiscoverProgram(cfg.Schedule.Activate)
	if err != nil {
		return err
	}

	server := web.NewServer(webCfg, web.Deps{
		Service:   quietMediaService(),
		Jobs:      newRegistry(),
		Scheduler: schedule.NewScheduler(schedule.ExecRunner{}, prog, log),
		Log:       log,
	})

	return server.Run(ctx)
}
