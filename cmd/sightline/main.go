// Sightline - assistive camera narrator and watchdog.
//
// Runs a webcam feed through YOLO object detection and turns the
// detections into spoken scene descriptions or security alerts.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sightlinelabs/go-sightline/internal/config"
	"github.com/sightlinelabs/go-sightline/internal/log"
)

var version = "dev" // set via -ldflags at build time

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		logJSON    bool
	)

	root := &cobra.Command{
		Use:           "sightline",
		Short:         "Assistive camera narrator and watchdog",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to settings YAML")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log in JSON format")

	loadConfig := func() (config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return cfg, err
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		if logJSON {
			cfg.Log.JSON = true
		}
		log.Init(cfg.Log.Level, cfg.Log.JSON)
		return cfg, nil
	}

	root.AddCommand(newRunCmd(loadConfig))
	root.AddCommand(newReplayCmd(loadConfig))

	return root
}
