package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"cueplay/internal/errors"
	"cueplay/internal/media"
	"cueplay/internal/schedule"
)

var (
	flagAt        string
	flagTime      string
	flagDate      string
	flagDevice    string
	flagVolume    int
	flagJob       bool
	flagNow       bool
	flagNoBrowser bool
)

func init() {
	rootCmd.Flags().StringVar(&flagAt, "at", "", "absolute target time (ISO, e.g. 2025-10-03T08:30)")
	rootCmd.Flags().StringVar(&flagTime, "time", "", "target clock time (HH:MM or HH:MM:SS)")
	rootCmd.Flags().StringVar(&flagDate, "date", "", "target date (YYYY-MM-DD, used with --time)")
	rootCmd.Flags().StringVar(&flagDevice, "device", "", "preferred playback device name")
	rootCmd.Flags().IntVar(&flagVolume, "volume", 0, "playback volume (0-100)")
	rootCmd.Flags().BoolVar(&flagJob, "job", false, "submit an OS scheduler job instead of waiting")
	rootCmd.Flags().BoolVar(&flagNow, "now", false, "start playback immediately")
	rootCmd.Flags().BoolVar(&flagNoBrowser, "no-browser", false, "never open a browser for authentication")
}

// volumeArg returns the --volume value, or nil when the flag was not
// given. Zero is a valid volume, so presence matters.
func volumeArg(cmd *cobra.Command) (*int, error) {
	if !cmd.Flags().Changed("volume") {
		return nil, nil
	}
	if flagVolume < 0 || flagVolume > 100 {
		return nil, fmt.Errorf("%w: volume must be between 0 and 100", errors.ErrParse)
	}
	v := flagVolume
	return &v, nil
}

func runSchedule(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	ref, err := media.ParseReference(args[0])
	if err != nil {
		return err
	}

	volume, err := volumeArg(cmd)
	if err != nil {
		return err
	}

	device := flagDevice
	if device == "" {
		device = cfg.Playback.Device
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flagNow {
		return playNow(ctx, ref, device, volume)
	}

	target, err := schedule.Resolve(schedule.ResolveInput{
		At:   flagAt,
		Time: flagTime,
		Date: flagDate,
	}, time.Now())
	if err != nil {
		return err
	}

	spec := schedule.Spec{
		Target: target,
		Media:  ref,
		Device: device,
		Volume: volume,
	}

	if flagJob {
		return submitJob(ctx, spec)
	}

	return waitAndPlay(ctx, spec)
}

// playNow starts playback immediately. This is the mode deferred jobs
// re-invoke the program in.
func playNow(ctx context.Context, ref media.Reference, device string, volume *int) error {
	svc, err := newMediaService(ctx)
	if err != nil {
		return err
	}

	played, err := media.NewExecutor(svc).Play(ctx, ref, device, volume)
	if err != nil {
		return err
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"status": "playing",
			"uri":    ref.URI(),
			"device": played.Name,
		})
	}
	fmt.Printf("Playback started on %s. Enjoy!\n", played.Name)
	return nil
}

// submitJob hands the schedule to the OS facility and exits without
// waiting.
func submitJob(ctx context.Context, spec schedule.Spec) error {
	prog, err := schedule.DiscoverProgram(cfg.Schedule.Activate)
	if err != nil {
		return err
	}

	scheduler := schedule.NewScheduler(schedule.ExecRunner{}, prog, log)
	label, err := scheduler.Submit(ctx, spec.Target, spec)
	if err != nil {
		return err
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"status": "scheduled",
			"label":  label,
			"target": spec.Target.Format(time.RFC3339),
		})
	}
	fmt.Printf("Scheduled job: %s\n", label)
	fmt.Printf("Playback at %s\n", spec.Target.Format("Mon Jan 2 15:04:05 2006"))
	return nil
}

// waitAndPlay blocks in-process until the target instant, then starts
// playback. Interrupts surface as ErrInterrupted so Execute can exit 130.
func waitAndPlay(ctx context.Context, spec schedule.Spec) error {
	// Authenticate up front so the wait doesn't end in a login prompt.
	svc, err := newMediaService(ctx)
	if err != nil {
		return err
	}

	label := spec.Media.URI()
	if desc, err := svc.Describe(ctx, spec.Media); err == nil {
		label = desc.Label()
	}

	remaining := time.Until(spec.Target)
	fmt.Printf("Scheduled %s for %s\n", label, spec.Target.Format("Mon Jan 2 15:04:05 2006"))
	fmt.Printf("Waiting for ~%s (Ctrl-C to abort)\n", formatWait(remaining))

	if err := schedule.NewWaiter().Wait(ctx, spec.Target); err != nil {
		return fmt.Errorf("%w: %s", errors.ErrInterrupted, err)
	}

	played, err := media.NewExecutor(svc).Play(ctx, spec.Media, spec.Device, spec.Volume)
	if err != nil {
		return err
	}
	fmt.Printf("Playback started on %s. Enjoy!\n", played.Name)
	return nil
}

// formatWait renders a duration as hh:mm:ss.
func formatWait(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return FormatDuration(int(d.Seconds()))
}
