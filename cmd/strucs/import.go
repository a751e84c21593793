package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/p-astudillo/nifes-strucs/pkg/modelio"
)

var (
	importPoints   string
	importElements string
)

var importCmd = &cobra.Command{
	Use:   "import [database]",
	Short: "Import points and elements from CSV files",
	Long: `Load points and elements from CSV files into a model database.
Point ids in the files are remapped to the ids assigned by the database,
and element connectivity is rewritten accordingly. The database is
created if it does not exist.`,
	Args: cobra.ExactArgs(1),
	Run:  runImport,
}

func init() {
	importCmd.Flags().StringVar(&importPoints, "points", "points.csv", "Points CSV file (columns: id, x, y, z)")
	importCmd.Flags().StringVar(&importElements, "elements", "", "Elements CSV file (columns: id, start, end)")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) {
	s, err := createStore(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	pointCount, elementCount, err := modelio.Import(context.Background(), s, importPoints, importElements)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Imported %d points and %d elements into %s\n", pointCount, elementCount, args[0])
}
