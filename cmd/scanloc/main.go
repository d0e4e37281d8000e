package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/warefleet/scanloc/internal/duckdb"
	"github.com/warefleet/scanloc/internal/model"
	"github.com/warefleet/scanloc/internal/tui"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var showVersion bool
	var noHistory bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/scanloc/config.yml)")
	flag.BoolVar(&noHistory, "no-history", false, "run without recording picks")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("scanloc - Rack Location Picker\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadCLIConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if noHistory {
		cfg.HistoryEnabled = false
	}

	if err := runTUI(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cfg cliConfig) error {
	var recorder tui.Recorder
	var querier model.ScanQuerier

	if cfg.HistoryEnabled {
		store, err := duckdb.NewStore(cfg.DBPath)
		if err != nil {
			// The picker still works without history, e.g. when the file is
			// locked by another process.
			fmt.Fprintf(os.Stderr, "Warning: pick history unavailable (%v), continuing without it\n", err)
		} else {
			defer store.Close()
			querier = store

			buffer := duckdb.NewInsertBuffer(store)
			defer buffer.Stop()
			recorder = buffer
		}
	}

	picker := tui.NewPickerModel(recorder, querier, cfg.UpdateInterval)
	picker.SetReverseScrollWheel(cfg.ReverseScrollWheel)

	p := tea.NewProgram(picker, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
