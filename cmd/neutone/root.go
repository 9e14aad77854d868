package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "neutone",
	Short: "Tooling for wrapped audio models",
	Long: `Tooling for wrapped audio models.

neutone validates model cards and packaging manifests, benchmarks wrapped
models against WAV files, submits models to a registry server, and manages
the registry database schema.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
