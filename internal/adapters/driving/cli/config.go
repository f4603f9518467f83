package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change configuration values.

Well-known keys:
  storage.backend       memory or sqlite (default: sqlite)
  batch.concurrency     parallel queries in batch analysis (default: 4)
  inbox.dir             directory watched for new policy documents
  enrichment.provider   perplexity, ollama or unset (disabled)
  enrichment.api_key    hosted provider API key
  enrichment.model      override the provider's default model
  enrichment.base_url   override the provider's base URL`,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset [key]",
	Short: "Remove a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	rootCmd.AddCommand(configCmd)
}

// sensitiveKeys are never echoed back in full.
var sensitiveKeys = map[string]bool{
	"enrichment.api_key": true,
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key := args[0]
	val, ok := configStore.Get(key)
	if !ok {
		return fmt.Errorf("key %q is not set", key)
	}

	if sensitiveKeys[key] {
		cmd.Println("(set, hidden)")
		return nil
	}
	cmd.Printf("%v\n", val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]

	// Store integers as integers so GetInt works.
	var value any = raw
	if n, err := strconv.Atoi(raw); err == nil {
		value = int64(n)
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s\n", key)
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key := args[0]
	if err := configStore.Delete(key); err != nil {
		return fmt.Errorf("failed to unset %s: %w", key, err)
	}

	cmd.Printf("Unset %s\n", key)
	return nil
}
