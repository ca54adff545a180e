package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gocv.io/x/gocv"

	"github.com/sightlinelabs/go-sightline/internal/config"
	"github.com/sightlinelabs/go-sightline/internal/log"
	"github.com/sightlinelabs/go-sightline/pkg/scene"
	"github.com/sightlinelabs/go-sightline/pkg/speech"
	"github.com/sightlinelabs/go-sightline/pkg/trace"
	"github.com/sightlinelabs/go-sightline/pkg/vision"
)

const speakTimeout = 30 * time.Second

func newRunCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	var (
		device     int
		modelPath  string
		headless   bool
		mute       bool
		watchdogOn bool
		recordPath string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the live camera loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("device") {
				cfg.Camera.Device = device
			}
			if modelPath != "" {
				cfg.Detector.ModelPath = modelPath
			}
			if mute {
				cfg.Speech.Mute = true
			}
			return runLoop(cfg, headless, watchdogOn, recordPath)
		},
	}

	cmd.Flags().IntVar(&device, "device", 0, "camera device index")
	cmd.Flags().StringVar(&modelPath, "model", "", "path to YOLOv8 ONNX model")
	cmd.Flags().BoolVar(&headless, "headless", false, "run without the preview window")
	cmd.Flags().BoolVar(&mute, "mute", false, "log output instead of speaking")
	cmd.Flags().BoolVar(&watchdogOn, "watchdog", false, "start in watchdog mode")
	cmd.Flags().StringVar(&recordPath, "record", "", "record the detection trace to this JSONL file")

	return cmd
}

func runLoop(cfg config.Config, headless, watchdogOn bool, recordPath string) error {
	logger := log.Component("run").With("session", uuid.NewString())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	camera, err := vision.OpenCamera(cfg.Camera.Device, cfg.Camera.Width, cfg.Camera.Height)
	if err != nil {
		return err
	}
	defer camera.Close()

	detector, err := vision.NewYOLO(cfg.YOLOConfig())
	if err != nil {
		return err
	}
	defer detector.Close()

	speaker := newSpeaker(cfg.Speech)
	defer speaker.Close()

	clock := scene.SystemClock()
	describer := scene.NewDescriber(cfg.DescriberConfig(), clock)
	watchdog := scene.NewWatchdog(cfg.WatchdogConfig(), clock)
	toggle := scene.NewToggle(cfg.ToggleConfig(), clock)
	if watchdogOn {
		// Consume one synthetic trigger sighting so the toggle starts on.
		toggle.Observe([]vision.Detection{{Label: cfg.Toggle.Trigger, Confidence: 1}})
		toggle.Observe(nil)
	}

	var recorder *trace.Writer
	if recordPath != "" {
		f, err := os.Create(recordPath)
		if err != nil {
			return fmt.Errorf("create trace: %w", err)
		}
		defer f.Close()
		recorder = trace.NewWriter(f)
	}

	var window *gocv.Window
	if !headless {
		window = gocv.NewWindow("Sightline")
		defer window.Close()
	}

	img := gocv.NewMat()
	defer img.Close()

	speak := func(text string) {
		if text == "" {
			return
		}
		sctx, cancel := context.WithTimeout(ctx, speakTimeout)
		defer cancel()
		if err := speaker.Speak(sctx, text); err != nil {
			logger.Warn("speech failed", "error", err)
		}
	}

	logger.Info("sightline running",
		"device", cfg.Camera.Device,
		"model", cfg.Detector.ModelPath,
		"trigger", cfg.Toggle.Trigger,
	)
	start := clock.Now()

	for ctx.Err() == nil {
		if !camera.Read(&img) {
			logger.Warn("camera produced no frame")
			continue
		}

		jpeg, err := encodeJPEG(img)
		if err != nil {
			logger.Warn("encode frame failed", "error", err)
			continue
		}

		dets, err := detector.Detect(jpeg)
		if err != nil {
			logger.Warn("detection failed", "error", err)
			continue
		}

		if recorder != nil {
			if err := recorder.Write(trace.FromFrame(clock.Now().Sub(start), dets)); err != nil {
				logger.Warn("trace write failed", "error", err)
			}
		}

		flipped, watchdogMode := toggle.Observe(dets)
		if flipped {
			msg := "Watchdog Mode disabled"
			if watchdogMode {
				msg = "Watchdog Mode enabled"
			}
			logger.Info("mode switched", "watchdog", watchdogMode)
			speak(msg)
		}

		if watchdogMode {
			for _, alert := range watchdog.Process(dets) {
				logger.Info("alert", "level", alert.Level.String(), "message", alert.Message)
				speak(alert.Message)
			}
		} else if desc := describer.Describe(dets); desc != "" {
			logger.Info("describing scene", "text", desc)
			speak(desc)
		}

		if window != nil {
			vision.DrawOverlay(&img, dets, cfg.Toggle.Trigger, watchdogMode)
			window.IMShow(img)
			if key := window.WaitKey(1); key == 'q' {
				break
			}
		}
	}

	logger.Info("sightline stopped")
	return nil
}

// newSpeaker builds the output speaker from configuration: a chain of the
// synthesizer candidates found on PATH, or a silent mock when muted or
// when no synthesizer exists.
func newSpeaker(cfg config.Speech) speech.Speaker {
	if cfg.Mute {
		return speech.NewMock()
	}

	var candidates []speech.Speaker
	for _, s := range cfg.Synthesizers {
		cmd, err := speech.NewCommand(s.Binary, s.Args...)
		if err != nil {
			continue
		}
		candidates = append(candidates, cmd)
	}

	chain, err := speech.NewChain(candidates...)
	if err != nil {
		log.Warn("no text-to-speech synthesizer found, running muted")
		return speech.NewMock()
	}
	return chain
}

func encodeJPEG(img gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}
