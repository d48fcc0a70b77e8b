package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrDoe/lyrehero/internal/audio"
	"github.com/MrDoe/lyrehero/internal/config"
	"github.com/MrDoe/lyrehero/internal/engine"
)

func calibrateCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "calibrate",
		Short: "Run a calibration wizard and persist the result",
	}
	root.AddCommand(&cobra.Command{
		Use:   "noise",
		Short: "Sample ambient noise while silent to set the RMS gate",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalibrateNoise()
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "note",
		Short: "Hold a clean note to set the clarity gate",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalibrateNote()
		},
	})
	return root
}

func loadEngineAndStore() (*engine.Engine, *config.FileStore, engine.Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, nil, engine.Config{}, fmt.Errorf("lyrehero: locate config: %w", err)
	}
	store := config.NewFileStore(path)
	cfg, err := store.Load()
	if err != nil {
		log.Printf("lyrehero: %v, using defaults", err)
	}
	eng := engine.New(audio.DefaultCaptureConfig(), cfg)
	if err := eng.Start(context.Background()); err != nil {
		return nil, nil, engine.Config{}, fmt.Errorf("lyrehero: %w", err)
	}
	return eng, store, cfg, nil
}

func runCalibrateNoise() error {
	eng, store, cfg, err := loadEngineAndStore()
	if err != nil {
		return err
	}
	defer eng.Stop()

	fmt.Println("Stay silent for a moment...")
	eng.CalibrateNoise(func() float64 {
		time.Sleep(pollInterval)
		frame := eng.DetectPitch()
		if frame == nil {
			return 0
		}
		return frame.RMS
	})

	fmt.Printf("New RMS threshold: %.6f\n", eng.RMSThreshold)
	return saveCalibratedConfig(store, cfg, eng)
}

func runCalibrateNote() error {
	eng, store, cfg, err := loadEngineAndStore()
	if err != nil {
		return err
	}
	defer eng.Stop()

	fmt.Println("Hold a clear, steady note...")
	err = eng.CalibrateNote(func() *engine.DetectionFrame {
		time.Sleep(pollInterval)
		return eng.DetectPitch()
	})
	if errors.Is(err, engine.ErrCalibrationFailedNoNote) {
		fmt.Println("No note detected. Thresholds left unchanged.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("lyrehero: %w", err)
	}

	fmt.Printf("New clarity threshold: %.4f\n", eng.ClarityThreshold)
	return saveCalibratedConfig(store, cfg, eng)
}

func saveCalibratedConfig(store *config.FileStore, cfg engine.Config, eng *engine.Engine) error {
	cfg.RMSThreshold = eng.RMSThreshold
	cfg.ClarityThreshold = eng.ClarityThreshold
	if err := store.Save(cfg); err != nil {
		return fmt.Errorf("lyrehero: save config: %w", err)
	}
	return nil
}
