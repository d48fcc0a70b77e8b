package main

import (
	"context"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/MrDoe/lyrehero/internal/audio"
	"github.com/MrDoe/lyrehero/internal/config"
	"github.com/MrDoe/lyrehero/internal/engine"
	"github.com/MrDoe/lyrehero/internal/song"
	"github.com/MrDoe/lyrehero/internal/tutor"
)

const pollInterval = time.Second / 60

func playCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <song-file>",
		Short: "Play through a song, holding each note in turn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(args[0])
		},
	}
}

func runPlay(songPath string) error {
	s, err := song.Load(songPath)
	if err != nil {
		return fmt.Errorf("lyrehero: %w", err)
	}

	path, err := configPath()
	if err != nil {
		return fmt.Errorf("lyrehero: locate config: %w", err)
	}
	store := config.NewFileStore(path)
	cfg, err := store.Load()
	if err != nil {
		log.Printf("lyrehero: %v, using defaults", err)
	}

	eng := engine.New(audio.DefaultCaptureConfig(), cfg)
	if err := eng.Start(context.Background()); err != nil {
		return fmt.Errorf("lyrehero: %w", err)
	}
	defer eng.Stop()

	tu := tutor.New(s, time.Duration(cfg.HoldDurationMs)*time.Millisecond)
	tu.Start()

	m := newPlayModel(eng, tu, s)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("lyrehero: %w", err)
	}
	return nil
}
