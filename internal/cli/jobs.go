package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"cueplay/internal/errors"
	"cueplay/internal/schedule"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List and manage scheduled playback jobs",
	Long: `Commands for inspecting the OS job queue. The queue itself is the only
record of pending jobs; listings are rebuilt from it on every call.`,
	RunE: runJobsList,
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending jobs",
	RunE:  runJobsList,
}

var jobsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one job's stored payload details",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsShow,
}

var jobsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a pending job",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsRm,
}

func init() {
	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsShowCmd)
	jobsCmd.AddCommand(jobsRmCmd)
	rootCmd.AddCommand(jobsCmd)
}

func newRegistry() *schedule.Registry {
	programPath, err := os.Executable()
	if err != nil {
		programPath = "cueplay"
	}
	runner := schedule.ExecRunner{}
	inspector := schedule.NewInspector(runner, programPath, log)
	return schedule.NewRegistry(runner, inspector, quietMediaService(), log)
}

func runJobsList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	records, note := newRegistry().List(ctx)

	if JSONOutput() {
		output := make([]map[string]interface{}, 0, len(records))
		for _, rec := range records {
			item := map[string]interface{}{
				"id":      rec.ID,
				"command": rec.Command,
				"queue":   rec.Queue,
				"user":    rec.User,
			}
			if rec.HasTimestamp {
				item["scheduled_for"] = rec.ScheduledFor.Format(time.RFC3339)
				if !rec.PlaybackAt.IsZero() {
					item["playback_at"] = rec.PlaybackAt.Format(time.RFC3339)
				}
			}
			if rec.Media != nil {
				item["media"] = rec.Media.URI()
			}
			if rec.MediaLabel != "" {
				item["media_label"] = rec.MediaLabel
			}
			if rec.Volume != nil {
				item["volume"] = *rec.Volume
			}
			output = append(output, item)
		}
		result := map[string]interface{}{"jobs": output}
		if note != "" {
			result["note"] = note
		}
		return json.NewEncoder(os.Stdout).Encode(result)
	}

	if note != "" {
		fmt.Println(note)
	}
	if len(records) == 0 {
		if note == "" {
			fmt.Println("No scheduled jobs.")
		}
		return nil
	}

	t := NewTable("ID", "PLAYBACK AT", "MEDIA", "VOLUME", "USER")
	for _, rec := range records {
		playback := "-"
		if rec.HasTimestamp {
			at := rec.ScheduledFor
			if !rec.PlaybackAt.IsZero() {
				at = rec.PlaybackAt
			}
			playback = at.Format("Mon Jan 2 15:04:05 2006")
		}
		mediaCol := "-"
		if rec.MediaLabel != "" {
			mediaCol = TruncateString(rec.MediaLabel, 48)
		} else if rec.Media != nil {
			mediaCol = rec.Media.URI()
		}
		volume := "-"
		if rec.Volume != nil {
			volume = fmt.Sprintf("%d%%", *rec.Volume)
		}
		t.Row(rec.ID, playback, mediaCol, volume, rec.User)
	}
	t.Flush()
	return nil
}

func runJobsShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	jobID := args[0]

	programPath, err := os.Executable()
	if err != nil {
		programPath = "cueplay"
	}
	inspector := schedule.NewInspector(schedule.ExecRunner{}, programPath, log)

	insp, ok := inspector.Inspect(ctx, jobID)
	if !ok {
		return fmt.Errorf("%w: the facility has no job %s", errors.ErrNotFound, jobID)
	}

	if JSONOutput() {
		item := map[string]interface{}{
			"id": jobID,
		}
		if insp.HasCommand {
			item["command"] = insp.Command
		}
		if insp.HasSleep {
			item["sleep_seconds"] = insp.SleepSeconds
		}
		if insp.Media != nil {
			item["media"] = insp.Media.URI()
		}
		if insp.Volume != nil {
			item["volume"] = *insp.Volume
		}
		return json.NewEncoder(os.Stdout).Encode(item)
	}

	fmt.Printf("Job %s\n", jobID)
	if insp.HasCommand {
		fmt.Printf("  Command: %s\n", insp.Command)
	} else {
		fmt.Println("  Command: (not recoverable from the stored payload)")
	}
	if insp.HasSleep {
		fmt.Printf("  Sleep offset: %ds\n", insp.SleepSeconds)
	}
	if insp.Media != nil {
		fmt.Printf("  Media: %s\n", insp.Media.URI())
	}
	if insp.Volume != nil {
		fmt.Printf("  Volume: %d%%\n", *insp.Volume)
	}
	return nil
}

func runJobsRm(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	ok, msg := newRegistry().Remove(ctx, args[0])
	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"removed": ok,
			"message": msg,
		})
	}
	fmt.Println(msg)
	if !ok {
		os.Exit(1)
	}
	return nil
}
