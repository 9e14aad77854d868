package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"neutone-sdk/internal/manifest"
	"neutone-sdk/internal/wrapper"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate model cards and packaging manifests",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'validate' requires a subcommand (card, manifest)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var validateCardCmd = &cobra.Command{
	Use:   "card <file>",
	Short: "Validate a YAML model card",
	Long: `Validate a YAML model card against the card schema.

Example:
  neutone validate card model.yaml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		card, err := wrapper.LoadMetadata(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid model card: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s: ok (%s %s)\n", args[0], card.Name, card.Version)
	},
}

var validateManifestCmd = &cobra.Command{
	Use:   "manifest <file> [sibling]",
	Short: "Validate a packaging manifest",
	Long: `Validate a poetry-style packaging manifest: the package name, the
version, every dependency constraint, and the build backend declaration.

When a sibling manifest is given, the two are also checked for consistency:
same package, same version, overlapping constraints for shared dependencies.

Example:
  neutone validate manifest pyproject.toml
  neutone validate manifest pyproject.toml examples/pyproject.toml`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		m, err := manifest.Load(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}

		issues := manifest.Validate(m)

		if len(args) == 2 {
			sibling, err := manifest.Load(args[1])
			if err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
				os.Exit(1)
			}
			issues = append(issues, manifest.Validate(sibling)...)
			issues = append(issues, manifest.Consistent(m, sibling)...)
		}

		if len(issues) > 0 {
			for _, issue := range issues {
				fmt.Fprintln(os.Stderr, issue.String())
			}
			fmt.Fprintf(os.Stderr, "%d issue(s) found\n", len(issues))
			os.Exit(1)
		}
		fmt.Printf("%s: ok (%s %s)\n", args[0], m.Package.Name, m.Package.Version)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.AddCommand(validateCardCmd)
	validateCmd.AddCommand(validateManifestCmd)
}
