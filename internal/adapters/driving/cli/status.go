package cli

import (
	"context"
	"errors"
	"sort"

	"github.com/spf13/cobra"
)

var statusPing bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index and provider status",
	Long: `Shows what is currently indexed and, with --ping, verifies the
configured providers are reachable.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusPing, "ping", false, "verify provider connectivity")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if indexStats == nil {
		if wireErr != nil {
			cmd.Printf("Services not available: %v\n", wireErr)
			return nil
		}
		return errors.New("index not configured")
	}

	if err := indexStats.Initialize(context.Background()); err != nil {
		return err
	}

	total := indexStats.Count()
	cmd.Printf("Indexed chunks: %d\n", total)

	bySource := indexStats.CountBySource()
	if len(bySource) > 0 {
		sources := make([]string, 0, len(bySource))
		for name := range bySource {
			sources = append(sources, name)
		}
		sort.Strings(sources)

		cmd.Println("Documents:")
		for _, name := range sources {
			cmd.Printf("  %s (%d chunks)\n", name, bySource[name])
		}
	} else {
		cmd.Println("No documents indexed. Run 'docent ingest' first.")
	}

	if statusPing {
		if assistant == nil {
			return assistantUnavailable()
		}
		cmd.Print("Checking providers... ")
		if err := assistant.TestConnection(context.Background()); err != nil {
			cmd.Println("FAILED")
			return err
		}
		cmd.Println("OK")
	}

	return nil
}
