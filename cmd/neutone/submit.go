package main

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"neutone-sdk/internal/client"
	"neutone-sdk/internal/wrapper"
)

// submitCmd represents the submit command
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a wrapped model to a registry server",
	Long: `Submit a wrapped model to a registry server.

The model card is validated, the model is registered if it does not exist
yet, a version is created from the card, and the model file is uploaded as
the version's artifact.

Example:
  neutone submit --card model.yaml --model model.nm --registry http://localhost:8080`,
	Run: func(cmd *cobra.Command, args []string) {
		cardPath, _ := cmd.Flags().GetString("card")
		modelPath, _ := cmd.Flags().GetString("model")
		registry, _ := cmd.Flags().GetString("registry")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		if cardPath == "" || modelPath == "" {
			fmt.Fprintln(os.Stderr, "error: --card and --model are required")
			os.Exit(1)
		}

		if err := runSubmit(cmd, cardPath, modelPath, registry, timeout); err != nil {
			fmt.Fprintf(os.Stderr, "Submit failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(submitCmd)
	submitCmd.Flags().String("card", "", "YAML model card")
	submitCmd.Flags().String("model", "", "Model file to upload")
	submitCmd.Flags().String("registry", "http://localhost:8080", "Registry base URL")
	submitCmd.Flags().Duration("timeout", 5*time.Minute, "Request timeout")
}

func runSubmit(cmd *cobra.Command, cardPath, modelPath, registry string, timeout time.Duration) error {
	card, err := wrapper.LoadMetadata(cardPath)
	if err != nil {
		return err
	}

	info, err := os.Stat(modelPath)
	if err != nil {
		return fmt.Errorf("model file: %w", err)
	}

	bar := progressbar.DefaultBytes(info.Size(), "uploading")

	c := client.New(registry, timeout)
	version, err := c.Submit(cmd.Context(), card, modelPath, bar)
	if err != nil {
		return err
	}
	_ = bar.Finish()

	fmt.Printf("Submitted %s %s (status %s, checksum %s)\n",
		card.Name, version.Version, version.Status, version.Checksum)
	return nil
}
