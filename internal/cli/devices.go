package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cueplay/internal/media"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available playback devices",
	Long:  `Lists the Spotify Connect devices visible to your account.`,
	RunE:  runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	svc, err := newMediaService(ctx)
	if err != nil {
		return err
	}

	devices, err := svc.Devices(ctx)
	if err != nil {
		return fmt.Errorf("failed to get devices: %w", err)
	}

	if len(devices) == 0 {
		if JSONOutput() {
			return json.NewEncoder(os.Stdout).Encode([]interface{}{})
		}
		fmt.Println("No devices found. Make sure Spotify is open on at least one device.")
		return nil
	}

	if JSONOutput() {
		return outputDevicesJSON(devices)
	}
	outputDevicesTable(devices)
	return nil
}

func outputDevicesJSON(devices []media.Device) error {
	output := make([]map[string]interface{}, 0, len(devices))
	for _, d := range devices {
		item := map[string]interface{}{
			"id":         d.ID,
			"name":       d.Name,
			"type":       d.Type,
			"is_active":  d.IsActive,
			"is_private": d.IsPrivateSession,
		}
		if d.VolumePercent != nil {
			item["volume"] = *d.VolumePercent
		}
		output = append(output, item)
	}
	return json.NewEncoder(os.Stdout).Encode(output)
}

func outputDevicesTable(devices []media.Device) {
	t := NewTable("", "NAME", "TYPE", "VOLUME", "ID")
	for _, d := range devices {
		marker := StatusIcon(d.IsActive)
		name := d.Name
		if d.IsPrivateSession {
			name += " (private)"
		}
		volume := "-"
		if d.VolumePercent != nil {
			volume = fmt.Sprintf("%d%%", *d.VolumePercent)
		}
		t.Row(marker, name, d.Type, volume, d.ID)
	}
	t.Flush()
}
