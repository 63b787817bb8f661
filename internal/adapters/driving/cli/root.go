// Package cli provides the cobra command surface for docent.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/docent-ai/docent-cli/internal/core/ports/driving"
	"github.com/docent-ai/docent-cli/internal/core/services"
	"github.com/docent-ai/docent-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services wired at startup. Commands check for nil so the binary still
// answers version/help when wiring fails.
var (
	assistant       driving.Assistant
	ingestor        driving.Ingestor
	settingsService *services.SettingsService
	indexStats      IndexStats

	// wireErr remembers why the AI services could not be built so
	// commands that need them can report it.
	wireErr error
)

// IndexStats is the slice of the vector store the status command
// renders. Initialize restores the persisted snapshot so counts reflect
// the stored index, not just this process.
type IndexStats interface {
	Initialize(ctx context.Context) error
	Count() int
	CountBySource() map[string]int
}

// Status forwarding. The services are wired once with these hooks; each
// command installs its own renderer for the duration of a run.
var (
	queryNotify  driving.StatusFunc
	ingestNotify func(driving.IngestStatus)
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "docent",
	Short: "Ask questions about your documents",
	Long: `Docent is a retrieval-augmented assistant for a local document set.
It ingests your documents into a vector index and answers questions
grounded in their content, with citations.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute wires the services and runs the root command.
func Execute() error {
	initServices()
	return rootCmd.Execute()
}
