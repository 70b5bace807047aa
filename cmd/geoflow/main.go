package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aristath/geoflow/internal/config"
	"github.com/aristath/geoflow/internal/events"
	"github.com/aristath/geoflow/internal/pool"
	"github.com/aristath/geoflow/internal/procman"
	"github.com/aristath/geoflow/internal/tui"
)

func main() {
	// Create signal-aware context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create ProcessManager for subprocess tracking
	pm := procman.NewProcessManager()

	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Determine config paths
	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
		os.Exit(1)
	}
	globalPath, projectPath := configPaths(homeDir)

	// Create event bus
	bus := events.NewEventBus()
	defer bus.Close()

	// Worker pool that will run import/build/route tasks.
	p := pool.New(resolveWorkerCount(cfg.Pool.Workers))
	p.SetEventBus(bus)
	defer p.Close()

	// Create TUI model
	model := tui.New(bus, cfg, globalPath, projectPath)

	// Start Bubble Tea program in a goroutine so main can handle shutdown
	tprogram := tea.NewProgram(model, tea.WithAltScreen())

	errChan := make(chan error, 1)
	go func() {
		_, err := tprogram.Run()
		errChan <- err
	}()

	// Handle shutdown
	select {
	case err := <-errChan:
		// Normal TUI exit (user pressed 'q' or TUI finished)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		// Signal received (Ctrl+C or SIGTERM)
		// Call stop() to restore default signal handling (double Ctrl+C = force exit)
		stop()

		log.Println("Shutdown signal received, cleaning up...")

		// Kill all tracked subprocesses
		if err := pm.KillAll(); err != nil {
			log.Printf("Error killing subprocesses: %v", err)
		}

		// Quit the TUI
		tprogram.Quit()

		// Wait for TUI to exit with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		select {
		case err := <-errChan:
			if err != nil {
				log.Printf("TUI exit error: %v", err)
			}
		case <-shutdownCtx.Done():
			log.Println("Shutdown timeout exceeded, forcing exit")
		}
	}

	log.Println("Shutdown complete")
}

// resolveWorkerCount turns a config value into the worker count pool.New
// should actually use. 0 or negative means "unset" and falls back to
// GOMAXPROCS; pool.New itself starts exactly the number of workers it is
// given.
func resolveWorkerCount(configured int) int {
	if configured <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return configured
}

// configPaths builds the global and project config file locations geoflow
// reads on startup: a per-user default under homeDir, and a project-local
// override under the current working directory.
func configPaths(homeDir string) (global, project string) {
	global = filepath.Join(homeDir, ".geoflow", "config.json")
	project = filepath.Join(".geoflow", "config.json")
	return global, project
}
