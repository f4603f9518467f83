package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claimsight/claimsight-cli/internal/core/ports/driving"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [doc-id] [query]",
	Short: "Analyse a claim query against a policy document",
	Long: `Interprets a free-text claim query, finds the most relevant policy
clauses and decides coverage, citing the clauses consulted.

Example:
  claimsight analyze 3f2a... "46M, knee surgery, Pune, 3-month policy"`,
	Args: cobra.ExactArgs(2),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output result as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	docID, query := args[0], args[1]
	ctx := context.Background()

	result, err := analysisService.Analyze(ctx, docID, query)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeJSON {
		return outputAnalysisJSON(cmd, result)
	}

	return outputAnalysisText(cmd, result)
}

func outputAnalysisJSON(cmd *cobra.Command, result *driving.AnalysisResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	cmd.Println(string(data))
	return nil
}

func outputAnalysisText(cmd *cobra.Command, result *driving.AnalysisResult) error {
	cmd.Printf("Query: %s\n\n", result.Query)

	cmd.Printf("Interpreted claim:\n")
	cmd.Printf("  Age:    %d\n", result.Intent.Age)
	cmd.Printf("  Gender: %s\n", result.Intent.Gender)
	if result.Intent.Location != nil {
		cmd.Printf("  Location:  %s\n", *result.Intent.Location)
	}
	if result.Intent.PolicyMonths != nil {
		cmd.Printf("  Policy age: %d months\n", *result.Intent.PolicyMonths)
	}
	if result.Intent.ClaimAmount != nil {
		cmd.Printf("  Claimed:   %.0f\n", *result.Intent.ClaimAmount)
	}

	cmd.Printf("\nDecision: %s\n", result.Decision.Verdict)
	cmd.Printf("Approved amount: %s\n", result.Decision.ApprovedAmount)
	cmd.Printf("\n%s\n", result.Decision.Justification)

	if len(result.Clauses) > 0 {
		cmd.Println("\nClauses consulted:")
		for _, clause := range result.Clauses {
			cmd.Printf("  [%.2f] %s (p.%d)\n", clause.Score, clause.Section.Title, clause.Section.PageNumber)
		}
	}

	return nil
}
