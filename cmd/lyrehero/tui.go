package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrDoe/lyrehero/internal/engine"
	"github.com/MrDoe/lyrehero/internal/song"
	"github.com/MrDoe/lyrehero/internal/tutor"
)

// spectrumLevels are the sparkline glyphs from quietest to loudest.
var spectrumLevels = []rune(" ▁▂▃▄▅▆▇█")

// lyreBandLowHz and lyreBandHighHz bracket the sparkline to the lyre's
// playable range (F3..C6) instead of the full 0..24kHz spectrum, so the
// visible detail tracks the notes a player can actually sound.
const (
	lyreBandLowHz  = 150.0
	lyreBandHighHz = 2100.0
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// playModel drives one play-through: it polls the engine once per tick,
// feeds the tutor, and renders the current target note and hold progress.
type playModel struct {
	eng  *engine.Engine
	tu   *tutor.Tutor
	song *song.Song

	lastFrame *engine.DetectionFrame
	width     int
}

func newPlayModel(eng *engine.Engine, tu *tutor.Tutor, s *song.Song) playModel {
	return playModel{eng: eng, tu: tu, song: s}
}

func (m playModel) Init() tea.Cmd {
	return tick()
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.tu.Restart()
			m.tu.Start()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tickMsg:
		frame := m.eng.DetectPitch()
		if frame == nil {
			m.tu.SetCaptureUnavailable()
		} else {
			m.lastFrame = frame
			m.tu.Tick(time.Time(msg), frame.Note)
		}
		return m, tick()
	}
	return m, nil
}

func (m playModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("LyreHero — %s", m.song.Title)))
	b.WriteString("\n\n")

	switch m.tu.State() {
	case tutor.Finished:
		b.WriteString(finishedStyle.Render("Song complete!"))
		b.WriteString("\n")
		b.WriteString(infoStyle.Render("Press r to restart, q to quit"))
		return b.String()

	case tutor.ErrorCaptureUnavailable:
		b.WriteString(errorStyle.Render("Audio capture unavailable"))
		b.WriteString("\n")
		b.WriteString(infoStyle.Render("Check your microphone, then press r to restart"))
		return b.String()
	}

	target := m.tu.TargetNote()
	b.WriteString(noteBoxStyle(target).Render(target))
	b.WriteString("\n")
	b.WriteString(progressBar(m.tu.Progress()))
	b.WriteString("\n")

	if m.lastFrame != nil {
		info := fmt.Sprintf("Detected: %-3s  Freq: %6.1f Hz  Clarity: %.2f  RMS: %.4f",
			displayNote(m.lastFrame.Note), m.lastFrame.Frequency, m.lastFrame.Clarity, m.lastFrame.RMS)
		b.WriteString(infoStyle.Render(info))
	} else {
		b.WriteString(infoStyle.Render("Listening..."))
	}
	b.WriteString("\n")
	b.WriteString(spectrumBar(m.eng.SpectrumSnapshot()))
	b.WriteString("\n\n")
	b.WriteString(infoStyle.Render("Press q to quit"))
	return b.String()
}

func displayNote(note string) string {
	if note == "" {
		return "-"
	}
	return note
}

// spectrumBar renders a fixed-width sparkline of the lyre band of snap,
// downsampled to one peak-dB bucket per character and normalized to the
// band's own min/max so quiet and loud frames both fill the display.
func spectrumBar(snap engine.SpectrumSnapshot) string {
	const width = 50
	bins := snap.Bins
	if len(bins) == 0 || snap.BinWidthHz <= 0 {
		return progressBarStyle.Render(strings.Repeat(" ", width))
	}

	lo := int(lyreBandLowHz / snap.BinWidthHz)
	hi := int(lyreBandHighHz / snap.BinWidthHz)
	if lo < 0 {
		lo = 0
	}
	if hi >= len(bins) {
		hi = len(bins) - 1
	}
	if lo >= hi {
		lo, hi = 0, len(bins)-1
	}
	band := bins[lo : hi+1]

	bucketSize := float64(len(band)) / float64(width)
	buckets := make([]float64, width)
	minDB, maxDB := math.Inf(1), math.Inf(-1)
	for i := range buckets {
		start := int(float64(i) * bucketSize)
		end := int(float64(i+1) * bucketSize)
		if end <= start {
			end = start + 1
		}
		if end > len(band) {
			end = len(band)
		}
		peak := math.Inf(-1)
		for _, v := range band[start:end] {
			if v > peak {
				peak = v
			}
		}
		buckets[i] = peak
		if peak < minDB {
			minDB = peak
		}
		if peak > maxDB {
			maxDB = peak
		}
	}

	span := maxDB - minDB
	if span < 1 {
		span = 1
	}
	var sb strings.Builder
	for _, v := range buckets {
		norm := (v - minDB) / span
		idx := int(norm * float64(len(spectrumLevels)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(spectrumLevels) {
			idx = len(spectrumLevels) - 1
		}
		sb.WriteRune(spectrumLevels[idx])
	}
	return progressBarStyle.Render(sb.String())
}

func progressBar(progress float64) string {
	const width = 30
	filled := int(progress * width)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return progressBarStyle.Render("[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]")
}
