package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/docent-ai/docent-cli/internal/core/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question-and-answer session",
	Long: `Starts an interactive session against the indexed documents.
Each answer is grounded in retrieved passages and cites its sources.

Session commands:
  clear   discard the conversation history
  exit    leave the session`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if assistant == nil {
		return assistantUnavailable()
	}

	ctx := context.Background()
	if err := warmIndex(ctx); err != nil {
		return err
	}

	queryNotify = statusPrinter(cmd)
	defer func() { queryNotify = nil }()

	cmd.Println("Docent ready. Ask a question, or 'exit' to leave.")
	reader := bufio.NewReader(os.Stdin)

	for {
		cmd.Print("\n> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			// EOF ends the session cleanly (piped input, Ctrl-D).
			cmd.Println()
			return nil
		}

		switch text := strings.TrimSpace(line); text {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "clear":
			assistant.ClearConversation()
			cmd.Println("Conversation cleared.")
		default:
			answer, err := assistant.SendMessage(ctx, text)
			if err != nil {
				cmd.Printf("Error: %v\n", err)
				continue
			}
			printAnswer(cmd, answer)
		}
	}
}

// statusPrinter renders intermediate phases on a single updating line.
func statusPrinter(cmd *cobra.Command) func(domain.StatusUpdate) {
	return func(update domain.StatusUpdate) {
		switch update.Phase {
		case domain.PhaseComplete:
			cmd.Print("\r                                        \r")
		case domain.PhaseRetrieving:
			if n := len(update.Subtopics); n > 0 {
				done := 0
				for _, s := range update.Subtopics {
					if s.Status == domain.SubtopicComplete {
						done++
					}
				}
				cmd.Printf("\rRetrieving... %d/%d subtopics", done, n)
				return
			}
			cmd.Print("\rRetrieving...                 ")
		case domain.PhasePlanning:
			cmd.Print("\rPlanning...                   ")
		case domain.PhaseSynthesizing:
			cmd.Print("\rSynthesizing...               ")
		}
	}
}

func printAnswer(cmd *cobra.Command, answer *domain.Answer) {
	cmd.Println(answer.Text)

	if len(answer.Citations) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, c := range answer.Citations {
			cmd.Printf("  [%d] %s (%.2f)\n", i+1, c.Source, c.Similarity)
		}
	}

	if verbose {
		cmd.Println()
		cmd.Printf("(%s", answer.Elapsed.Round(10*time.Millisecond))
		if answer.TokensUsed > 0 {
			cmd.Printf(", %d tokens", answer.TokensUsed)
		}
		if answer.Compound {
			cmd.Printf(", %d subtopics", len(answer.Subtopics))
		}
		cmd.Println(")")
	}
}

func assistantUnavailable() error {
	if wireErr != nil {
		return fmt.Errorf("assistant not available: %w (run 'docent config' to review settings)", wireErr)
	}
	return errors.New("assistant service not configured")
}

// warmIndex restores the persisted snapshot so queries see the stored
// index without a fresh ingest in this process.
func warmIndex(ctx context.Context) error {
	if indexStats == nil {
		return nil
	}
	return indexStats.Initialize(ctx)
}
