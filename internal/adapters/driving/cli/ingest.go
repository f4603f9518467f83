package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest policy documents",
	Long: `Reads one or more policy documents (PDF or plain text), extracts
their sections and stores them for analysis.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	ctx := context.Background()

	var failed int
	for _, path := range args {
		doc, err := documentService.IngestFile(ctx, path)
		if err != nil {
			failed++
			cmd.PrintErrf("Failed to ingest %s: %v\n", path, err)
			continue
		}
		cmd.Printf("Ingested %s\n", doc.Name)
		cmd.Printf("  ID:       %s\n", doc.ID)
		cmd.Printf("  Sections: %d\n", len(doc.Sections))
		cmd.Printf("  Size:     %d bytes\n", doc.SizeBytes)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(args))
	}
	return nil
}
