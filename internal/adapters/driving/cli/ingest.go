package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docent-ai/docent-cli/internal/core/ports/driving"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [documents...]",
	Short: "Build or refresh the document index",
	Long: `Loads the configured document set into the vector index.
If document names are given, only those documents define the set;
otherwise the source's manifest is used. Documents are re-embedded
only when the set has changed or the stored index has gone stale.`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestor == nil {
		if wireErr != nil {
			return fmt.Errorf("ingestion not available: %w (run 'docent config' to review settings)", wireErr)
		}
		return errors.New("ingest service not configured")
	}

	ingestNotify = ingestPrinter(cmd)
	defer func() { ingestNotify = nil }()

	metas, err := ingestor.Load(context.Background(), args)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Println()
	for _, m := range metas {
		if m.Error != "" {
			cmd.Printf("  FAIL %s: %s\n", m.Name, m.Error)
			continue
		}
		cmd.Printf("  OK   %s (%d chunks)\n", m.Name, m.ChunkCount)
	}
	return nil
}

// ingestPrinter renders pipeline progress as it happens.
func ingestPrinter(cmd *cobra.Command) func(driving.IngestStatus) {
	return func(status driving.IngestStatus) {
		switch status.State {
		case driving.IngestChecking:
			cmd.Println("Checking document set...")
		case driving.IngestUpToDate:
			cmd.Println("Index is up to date.")
		case driving.IngestRebuilding:
			if status.Document != "" {
				cmd.Printf("  processing %s\n", status.Document)
			} else {
				cmd.Println("Rebuilding index...")
			}
		case driving.IngestReady:
			cmd.Printf("Index ready: %d processed, %d failed.\n", status.Processed, status.Failed)
		case driving.IngestFailed:
			cmd.Println("Ingestion failed.")
		}
	}
}
