package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scepter-sec/scepter/internal/config"
)

//go:embed templates/providers.yaml
var providersTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter providers rule file",
		Long: `Init creates a providers.yaml rule file in the current directory.

The generated file documents both rule formats (structured and legacy
shorthand) and contains commented examples for adding custom providers
or overriding the built-in signatures.

Examples:
  # Create providers.yaml in the current directory
  scepter init

  # Create the rule file at a specific path
  scepter init -o rules/providers.yaml

  # Force overwrite an existing file
  scepter init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultProvidersFile,
		"Output file path for the rule file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing rule file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("rule file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := providersTemplate.ReadFile("templates/providers.yaml")
	if err != nil {
		return fmt.Errorf("failed to read rule template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write rule file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", outputPath)
	return nil
}
