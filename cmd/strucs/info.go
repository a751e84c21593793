package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/p-astudillo/nifes-strucs/pkg/analysis"
)

var infoCmd = &cobra.Command{
	Use:   "info [database]",
	Short: "Display general information about a model database",
	Long:  "Show model statistics including point and element counts, bounding box, and element length distribution.",
	Args:  cobra.ExactArgs(1),
	Run:   runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	summary, err := summarize(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Model Information")
	fmt.Println("=================")
	fmt.Printf("File: %s\n\n", args[0])

	fmt.Println("Contents:")
	fmt.Printf("  Points: %d\n", summary.PointCount)
	fmt.Printf("  Elements: %d\n\n", summary.ElementCount)

	if !summary.BoundingBox.IsEmpty() {
		fmt.Println("Bounding Box:")
		fmt.Printf("  Min: %s\n", analysis.FormatVector(summary.BoundingBox.Min))
		fmt.Printf("  Max: %s\n", analysis.FormatVector(summary.BoundingBox.Max))
		fmt.Printf("  Diagonal: %.3f\n\n", summary.BoundingBox.Diagonal())
	}

	if summary.ElementCount > 0 {
		fmt.Println("Element Lengths:")
		fmt.Printf("  Total: %.3f\n", summary.TotalLength)
		fmt.Printf("  Minimum: %.3f\n", summary.MinLength)
		fmt.Printf("  Maximum: %.3f\n", summary.MaxLength)
		fmt.Printf("  Average: %.3f\n", summary.AvgLength)
	}
}

// summarize loads a model database and computes its summary
func summarize(path string) (*analysis.Summary, error) {
	s, err := openStore(path)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	ctx := context.Background()
	points, err := s.ListPoints(ctx)
	if err != nil {
		return nil, err
	}
	elements, err := s.ListElements(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.Summarize(points, elements), nil
}
