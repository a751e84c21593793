package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/p-astudillo/nifes-strucs/pkg/modelio"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export [database]",
	Short: "Export a model database to CSV files",
	Long: `Write the points and elements of a model database to points.csv and
elements.csv in the output directory. The files can be edited and loaded
back with the import command.`,
	Args: cobra.ExactArgs(1),
	Run:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportDir, "out", "o", ".", "Output directory for CSV files")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) {
	s, err := openStore(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	pointsPath := filepath.Join(exportDir, "points.csv")
	elementsPath := filepath.Join(exportDir, "elements.csv")

	if err := modelio.Export(context.Background(), s, pointsPath, elementsPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Exported %s and %s\n", pointsPath, elementsPath)
}
