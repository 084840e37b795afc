package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/urunc-dev/urunc-workflows/pkg/constants"
	"golang.org/x/mod/semver"
)

// Package-level version information
var (
	version = "dev"
)

// SetVersionInfo sets the version reported by the CLI
func SetVersionInfo(v string) {
	version = v
}

// GetVersion returns the current version
func GetVersion() string {
	return version
}

// FormatVersion adds the "v" prefix to semantic versions that lack it.
// Anything that is not a semantic version (e.g. "dev") is returned unchanged.
func FormatVersion(v string) string {
	if v == "" {
		return "dev"
	}
	if !strings.HasPrefix(v, "v") && semver.IsValid("v"+v) {
		return "v" + v
	}
	return v
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", constants.CLIName, FormatVersion(GetVersion()))
		},
	}
}
