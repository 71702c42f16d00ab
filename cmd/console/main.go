package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/story-player/internal/app"
	"github.com/jwebster45206/story-player/internal/config"
	"github.com/jwebster45206/story-player/internal/logger"
	"github.com/jwebster45206/story-player/pkg/game"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to a file.
	log, logFile, err := logger.SetupFile(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Watch(ctx); err != nil {
		log.Warn("Story hot reload disabled", "error", err)
	}

	var p *tea.Program
	renderer := newTeaRenderer(func(msg tea.Msg) { p.Send(msg) })

	d, err := game.NewDirector(a.DirectorConfig(renderer))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}

	p = tea.NewProgram(NewConsoleUI(a.Story.Current().Name(), d.Inputs()),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())

	go func() {
		err := d.Start(ctx)
		if err == nil {
			err = d.Run(ctx)
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Director stopped", "error", err)
			p.Send(directorErrMsg{err: err})
		}
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
