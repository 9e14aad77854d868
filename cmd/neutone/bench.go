package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"neutone-sdk/internal/audio"
	"neutone-sdk/internal/bench"
	"neutone-sdk/internal/wrapper"
)

// benchCmd represents the bench command
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark a wrapped model against a WAV file",
	Long: `Benchmark a wrapped model against a WAV file.

The file is streamed through the wrapper in fixed-size blocks, the way a
plugin host would, and per-block timings are reported. The built-in soft
clipper is used as the model. When --output is given the processed audio is
written out as well.

Example:
  neutone bench -i input.wav -o clipped.wav -b 512`,
	Run: func(cmd *cobra.Command, args []string) {
		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")
		bufferSize, _ := cmd.Flags().GetInt("buffer-size")
		sampleRate, _ := cmd.Flags().GetInt("sample-rate")

		if input == "" {
			fmt.Fprintln(os.Stderr, "error: --input is required")
			os.Exit(1)
		}

		if err := runBench(cmd, input, output, bufferSize, sampleRate); err != nil {
			fmt.Fprintf(os.Stderr, "Bench failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(benchCmd)
	benchCmd.Flags().StringP("input", "i", "", "Input WAV file")
	benchCmd.Flags().StringP("output", "o", "", "Write processed audio to this WAV file")
	benchCmd.Flags().IntP("buffer-size", "b", wrapper.DefaultHostBufferSize, "Host buffer size in frames")
	benchCmd.Flags().IntP("sample-rate", "r", 0, "Host sample rate (default: the file's rate)")
}

func runBench(cmd *cobra.Command, input, output string, bufferSize, sampleRate int) error {
	clip, err := audio.ReadWAV(input)
	if err != nil {
		return err
	}
	if sampleRate != 0 {
		clip.SampleRate = sampleRate
	}

	w, err := wrapper.NewStreamWrapper(wrapper.NewSoftClipper(), clip.SampleRate, bufferSize)
	if err != nil {
		return err
	}

	totalBlocks := (clip.Frames() + bufferSize - 1) / bufferSize
	bar := progressbar.NewOptions(totalBlocks,
		progressbar.OptionSetDescription("processing"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)

	runner := &bench.Runner{
		Wrapper:    w,
		HostFrames: bufferSize,
		OnBlock: func(done int) {
			_ = bar.Set(done)
		},
	}

	stats, processed, err := runner.Run(cmd.Context(), clip)
	if err != nil {
		return err
	}
	_ = bar.Finish()

	fmt.Printf("host:        %d Hz / %d frames\n", clip.SampleRate, bufferSize)
	fmt.Printf("model:       %d Hz / %d frames\n", w.ModelSampleRate(), w.ModelBufferSize())
	fmt.Printf("blocks:      %d\n", stats.Blocks)
	fmt.Printf("delay:       %d samples\n", stats.DelaySamples)
	fmt.Printf("mean:        %v\n", stats.Mean)
	fmt.Printf("p50:         %v\n", stats.P50)
	fmt.Printf("p99:         %v\n", stats.P99)
	fmt.Printf("total:       %v\n", stats.Total)
	fmt.Printf("realtime:    %v\n", stats.Realtime(clip.SampleRate, bufferSize))

	if output != "" {
		if err := audio.WriteWAV(output, processed); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", output)
	}
	return nil
}
