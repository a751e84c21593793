package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/p-astudillo/nifes-strucs/pkg/analysis"
)

var pointsCmd = &cobra.Command{
	Use:   "points [database]",
	Short: "List all points in a model database",
	Args:  cobra.ExactArgs(1),
	Run:   runPoints,
}

func init() {
	rootCmd.AddCommand(pointsCmd)
}

func runPoints(cmd *cobra.Command, args []string) {
	s, err := openStore(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	points, err := s.ListPoints(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%d points\n", len(points))
	for _, p := range points {
		fmt.Printf("  #%d %s\n", p.ID, analysis.FormatVector(p.Position))
	}
}
