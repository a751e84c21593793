package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/p-astudillo/nifes-strucs/pkg/analysis"
)

var fixOrphans bool

var validateCmd = &cobra.Command{
	Use:   "validate [database]",
	Short: "Check a model database for leftover or inconsistent geometry",
	Long: `Reports orphan points (typically left behind by failed element
creations), elements referencing missing points, duplicate elements, and
zero-length elements. With --fix-orphans, orphan points are deleted.`,
	Args: cobra.ExactArgs(1),
	Run:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&fixOrphans, "fix-orphans", false, "delete orphan points")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) {
	s, err := openStore(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	ctx := context.Background()
	points, err := s.ListPoints(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	elements, err := s.ListElements(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	summary := analysis.Summarize(points, elements)
	duplicates := analysis.DuplicateElements(elements)
	zeroLength := analysis.ZeroLengthElements(summary, 1e-9)

	issues := 0

	if len(summary.OrphanPointIDs) > 0 {
		issues += len(summary.OrphanPointIDs)
		fmt.Printf("Orphan points (%d):\n", len(summary.OrphanPointIDs))
		for _, id := range summary.OrphanPointIDs {
			fmt.Printf("  #%d\n", id)
		}
		if fixOrphans {
			for _, id := range summary.OrphanPointIDs {
				if err := s.DeletePoint(ctx, id); err != nil {
					fmt.Fprintf(os.Stderr, "Error deleting point %d: %v\n", id, err)
					os.Exit(1)
				}
			}
			fmt.Printf("Deleted %d orphan points\n", len(summary.OrphanPointIDs))
		}
	}

	if len(summary.DanglingElementIDs) > 0 {
		issues += len(summary.DanglingElementIDs)
		fmt.Printf("Elements referencing missing points (%d):\n", len(summary.DanglingElementIDs))
		for _, id := range summary.DanglingElementIDs {
			fmt.Printf("  #%d\n", id)
		}
	}

	if len(duplicates) > 0 {
		issues += len(duplicates)
		fmt.Printf("Duplicate elements (%d):\n", len(duplicates))
		for _, id := range duplicates {
			fmt.Printf("  #%d\n", id)
		}
	}

	if len(zeroLength) > 0 {
		issues += len(zeroLength)
		fmt.Printf("Zero-length elements (%d):\n", len(zeroLength))
		for _, id := range zeroLength {
			fmt.Printf("  #%d\n", id)
		}
	}

	if issues == 0 {
		fmt.Println("Model is consistent")
	}
}
