package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/docent-ai/docent-cli/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application settings",
	Long: `View and configure providers, retrieval tuning, and the document
source. Run without a subcommand to show the current configuration.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runConfigShow,
}

var configModeCmd = &cobra.Command{
	Use:   "mode [quick|detailed]",
	Short: "Set the response mode",
	Long: `Set the response mode.

Available modes:
  quick      - Short, direct answers
  detailed   - Thorough answers with structure`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigMode,
}

var configKeyCmd = &cobra.Command{
	Use:   "key",
	Short: "Set the provider API key",
	Long: `Prompts for the API key used by the cloud providers and stores it
in the config file. The OPENAI_API_KEY environment variable takes
effect without storing anything.`,
	RunE: runConfigKey,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configModeCmd)
	configCmd.AddCommand(configKeyCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider)
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	printAPIKey(cmd, settings.Embedding.Provider, settings.Embedding.APIKey)
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider)
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	printAPIKey(cmd, settings.LLM.Provider, settings.LLM.APIKey)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Mode: %s\n", settings.Retrieval.Mode.Description())
	cmd.Printf("  Threshold: %.2f\n", settings.Retrieval.Threshold)
	cmd.Printf("  Max results: %d\n", settings.Retrieval.MaxResults)
	cmd.Printf("  History window: %d\n", settings.Retrieval.HistoryWindow)
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Target size: %d\n", settings.Chunking.TargetSize)
	cmd.Printf("  Min length: %d\n", settings.Chunking.MinLength)
	cmd.Println()

	cmd.Println("[Documents]")
	cmd.Printf("  Source: %s\n", settings.Documents.Source)
	if settings.Documents.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Documents.BaseURL)
	}
	if settings.Documents.Dir != "" {
		cmd.Printf("  Directory: %s\n", settings.Documents.Dir)
	}
	cmd.Println()

	cmd.Printf("Config file: %s\n", settingsService.Path())

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'docent config key' to set the API key.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runConfigMode(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	mode := domain.ResponseMode(args[0])
	if err := settingsService.SetResponseMode(mode); err != nil {
		return err
	}

	cmd.Printf("Response mode set to: %s\n", mode.Description())
	return nil
}

func runConfigKey(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Print("Enter API key: ")
	apiKey := readPassword()
	cmd.Println()
	if apiKey == "" {
		return errors.New("API key must not be empty")
	}

	if err := settingsService.SetAPIKey(apiKey); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}

	cmd.Println("API key saved.")
	return nil
}

func printAPIKey(cmd *cobra.Command, provider domain.AIProvider, key string) {
	if !provider.RequiresAPIKey() {
		return
	}
	if key == "" {
		cmd.Printf("  API Key: (not set)\n")
		return
	}
	cmd.Printf("  API Key: %s\n", maskAPIKey(key))
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read without echo first.
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	// Fallback to regular input (piped stdin, tests).
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
