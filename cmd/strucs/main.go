package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/p-astudillo/nifes-strucs/internal/store"
	"github.com/p-astudillo/nifes-strucs/version"
)

var rootCmd = &cobra.Command{
	Use:   "strucs",
	Short: "Inspect and maintain structural model databases",
	Long: `strucs is a command-line companion to the interactive modeler.
It reads the same model database and reports statistics, lists points and
elements, and finds leftover geometry such as orphan points.`,
	Version: version.GetVersion(),
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openStore opens the model database named by the command argument
func openStore(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("model database %s: %w", path, err)
	}
	return createStore(path)
}

// createStore opens the model database, creating it if necessary
func createStore(path string) (*store.Store, error) {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return store.Open(path, log)
}
