package app

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/strumapp/strum/internal/browser"
	"github.com/strumapp/strum/internal/catalog"
	"github.com/strumapp/strum/internal/fuzzy"
	"github.com/strumapp/strum/internal/launcher"
	"github.com/strumapp/strum/internal/player"
	"github.com/strumapp/strum/internal/ui"
)

// Config describes user-provided application options.
type Config struct {
	Root    string
	Width   int
	Height  int
	Verbose bool
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	model, err := ui.NewModel(ui.Options{
		Root:    cfg.Root,
		Width:   cfg.Width,
		Height:  cfg.Height,
		Verbose: cfg.Verbose,
		Source:  catalog.FS{},
		Scorer:  fuzzy.Ranker{},
		Factory: player.BeepFactory{},
		Opener:  launcher.System{},
		Sampler: browser.NewSampler(catalog.DirCount(cfg.Root)),
	})
	if err != nil {
		return fmt.Errorf("initialise browser: %w", err)
	}
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
