package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for SCEPTER.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scepter",
		Short: "Detect MFA and SSO providers used by websites",
		Long: `SCEPTER probes websites for evidence of Multi-Factor Authentication (MFA)
and Single Sign-On (SSO) providers. It fetches each target's HTML and the
scripts it references, then matches the content against a library of
provider signatures (Okta, Duo, Auth0, and others).

Built-in signatures can be extended or overridden with a providers.yaml
rule file; see "scepter init" for a starter file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
