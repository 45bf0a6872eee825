package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"cueplay/internal/errors"
)

var volumeCmd = &cobra.Command{
	Use:   "volume [percent]",
	Short: "Show or set the active device's volume",
	Long: `Without an argument, prints the active device's volume percent.
With an argument (0-100), sets it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVolume,
}

func init() {
	rootCmd.AddCommand(volumeCmd)
}

func runVolume(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	svc, err := newMediaService(ctx)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		volume, err := svc.CurrentVolume(ctx)
		if err != nil {
			return fmt.Errorf("failed to read volume: %w", err)
		}
		if JSONOutput() {
			return json.NewEncoder(os.Stdout).Encode(map[string]int{"volume": volume})
		}
		fmt.Printf("Volume: %d%%\n", volume)
		return nil
	}

	percent, err := strconv.Atoi(args[0])
	if err != nil || percent < 0 || percent > 100 {
		return fmt.Errorf("%w: volume must be an integer between 0 and 100", errors.ErrParse)
	}

	// Empty device ID targets the active device.
	if err := svc.SetVolume(ctx, "", percent); err != nil {
		return fmt.Errorf("failed to set volume: %w", err)
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(map[string]int{"volume": percent})
	}
	fmt.Printf("Volume set to %d%%\n", percent)
	return nil
}
