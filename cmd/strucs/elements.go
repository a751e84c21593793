package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/p-astudillo/nifes-strucs/pkg/analysis"
)

var elementsCmd = &cobra.Command{
	Use:   "elements [database]",
	Short: "List all elements in a model database with their lengths",
	Args:  cobra.ExactArgs(1),
	Run:   runElements,
}

func init() {
	rootCmd.AddCommand(elementsCmd)
}

func runElements(cmd *cobra.Command, args []string) {
	summary, err := summarize(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%d elements\n", summary.ElementCount)
	for _, e := range summary.Elements {
		fmt.Printf("  #%d %s -> %s  length %.3f\n",
			e.ID,
			analysis.FormatVector(e.Start),
			analysis.FormatVector(e.End),
			e.Length)
	}
}
