package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/claimsight/claimsight-cli/internal/core/domain"
)

var (
	batchFile string
	batchJSON bool
)

var batchCmd = &cobra.Command{
	Use:   "batch [doc-id] [query...]",
	Short: "Analyse multiple claim queries concurrently",
	Long: `Runs every query against the same policy document in parallel.
Results keep the input order and one query failing never affects the
others. Queries come from the arguments or, with --file, one per line
from a text file (blank lines and # comments are skipped).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchFile, "file", "f", "", "read queries from file, one per line")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	docID := args[0]
	queries := args[1:]

	if batchFile != "" {
		fileQueries, err := readQueryFile(batchFile)
		if err != nil {
			return err
		}
		queries = append(queries, fileQueries...)
	}
	if len(queries) == 0 {
		return errors.New("no queries given: pass them as arguments or via --file")
	}

	ctx := context.Background()

	results, err := analysisService.AnalyzeBatch(ctx, docID, queries)
	if err != nil {
		return fmt.Errorf("batch analysis failed: %w", err)
	}

	if batchJSON {
		return outputBatchJSON(cmd, results)
	}

	return outputBatchText(cmd, results)
}

// readQueryFile reads one query per line, skipping blanks and # comments.
func readQueryFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open query file: %w", err)
	}
	defer f.Close()

	var queries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read query file: %w", err)
	}
	return queries, nil
}

func outputBatchJSON(cmd *cobra.Command, results []domain.BatchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	cmd.Println(string(data))
	return nil
}

func outputBatchText(cmd *cobra.Command, results []domain.BatchResult) error {
	var failed int
	for i := range results {
		result := &results[i]
		cmd.Printf("[%d] %s\n", result.Index+1, result.Query)
		if result.Err != "" {
			failed++
			cmd.Printf("    Error: %s\n\n", result.Err)
			continue
		}
		cmd.Printf("    Decision: %s\n", result.Decision.Verdict)
		cmd.Printf("    Approved: %s\n", result.Decision.ApprovedAmount)
		cmd.Printf("    %s\n\n", result.Decision.Justification)
	}

	cmd.Printf("Total: %d queries, %d failed\n", len(results), failed)
	return nil
}
