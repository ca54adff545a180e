package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sightlinelabs/go-sightline/internal/config"
	"github.com/sightlinelabs/go-sightline/pkg/scene"
	"github.com/sightlinelabs/go-sightline/pkg/trace"
)

func newReplayCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	var (
		input string
		mode  string
	)

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-run a recorded detection trace through the engines",
		Long: `Replay feeds a JSONL trace recorded with "run --record" through the
scene engines on a manual clock stepped by the recorded offsets, so a
session re-runs deterministically regardless of wall time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if mode != "describe" && mode != "watchdog" && mode != "both" {
				return fmt.Errorf("invalid mode %q (want describe, watchdog or both)", mode)
			}
			return replay(cfg, input, mode, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "trace file to replay")
	cmd.Flags().StringVar(&mode, "mode", "both", "engines to run: describe, watchdog or both")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func replay(cfg config.Config, path, mode string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()

	// A fixed epoch keeps replay output identical across runs.
	clock := scene.NewManualClock(time.Unix(0, 0).UTC())
	describer := scene.NewDescriber(cfg.DescriberConfig(), clock)
	watchdog := scene.NewWatchdog(cfg.WatchdogConfig(), clock)

	reader := trace.NewReader(f)
	var lastOffset float64

	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		clock.Advance(time.Duration((rec.Offset - lastOffset) * float64(time.Second)))
		lastOffset = rec.Offset

		frame := rec.Frame()

		if mode == "describe" || mode == "both" {
			if desc := describer.Describe(frame); desc != "" {
				fmt.Fprintf(out, "%8.2fs  [DESCRIBE] %s\n", rec.Offset, desc)
			}
		}

		if mode == "watchdog" || mode == "both" {
			for _, alert := range watchdog.Process(frame) {
				fmt.Fprintf(out, "%8.2fs  [%s] %s\n", rec.Offset, alert.Level, alert.Message)
			}
		}
	}

	return nil
}
