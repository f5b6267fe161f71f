// Package portal hosts the CLI entrypoints for the document portal.
package portal

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docportal/docportal/pkg/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "portal",
	Short: "Document portal backend",
	Long: `Document portal backend: single-document analysis, pairwise
comparison, and session-scoped conversational question answering over
uploaded documents.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default portal.toml)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(pruneCmd)
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
