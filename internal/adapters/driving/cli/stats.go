package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate analysis statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent analyses",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum number of analyses")
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	ctx := context.Background()

	stats, err := analysisService.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	cmd.Println("Analysis Statistics")
	cmd.Println("===================")
	cmd.Println()
	cmd.Printf("  Total analyses: %d\n", stats.TotalAnalyses)
	cmd.Printf("  Approved:       %d\n", stats.Approved)
	cmd.Printf("  Partial:        %d\n", stats.Partial)
	cmd.Printf("  Rejected:       %d\n", stats.Rejected)
	cmd.Printf("  Approval rate:  %.1f%%\n", stats.ApprovalRate)

	return nil
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	ctx := context.Background()

	analyses, err := analysisService.Recent(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list analyses: %w", err)
	}

	if len(analyses) == 0 {
		cmd.Println("No analyses recorded yet.")
		return nil
	}

	for i := range analyses {
		analysis := &analyses[i]
		cmd.Printf("%s  %s\n", analysis.CreatedAt.Format("2006-01-02 15:04:05"), analysis.ID)
		cmd.Printf("  Decision: %s (%s)\n", analysis.Decision.Verdict, analysis.Decision.ApprovedAmount)
		cmd.Printf("  Rule:     %s\n\n", analysis.Decision.RuleID)
	}

	return nil
}
