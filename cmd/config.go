package cmd

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const redacted = "<redacted>"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration with secrets redacted",
	Run: func(cmd *cobra.Command, _ []string) {
		config, err := getConfig()
		if err != nil {
			log.Fatalf("getting a config: %s", err)
		}

		if err := printConfig(cmd.OutOrStdout(), config); err != nil {
			log.Fatalf("printing a config: %s", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func printConfig(w io.Writer, config *Config) error {
	out := redactConfig(config)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return enc.Close()
}

// redactConfig returns a copy of config with inline secrets masked.
func redactConfig(config *Config) *Config {
	out := *config
	if out.APIKey != "" {
		out.APIKey = redacted
	}

	if config.Gemini != nil {
		gemini := *config.Gemini
		if gemini.APIKey != "" {
			gemini.APIKey = redacted
		}
		out.Gemini = &gemini
	}

	return &out
}
