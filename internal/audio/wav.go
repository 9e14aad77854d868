// Package audio converts between WAV files and the planar float32 sample
// layout the dsp and wrapper packages operate on.
package audio

import (
	"fmt"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Clip is a fully decoded audio file. Samples are planar, one slice per
// channel, scaled to [-1, 1].
type Clip struct {
	SampleRate int
	BitDepth   int
	Samples    [][]float32
}

// Channels returns the number of channels in the clip.
func (c *Clip) Channels() int {
	return len(c.Samples)
}

// Frames returns the number of frames per channel.
func (c *Clip) Frames() int {
	if len(c.Samples) == 0 {
		return 0
	}
	return len(c.Samples[0])
}

// ReadWAV decodes a WAV file into planar float32 samples.
func ReadWAV(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%s: not a valid wav file", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("%s: no channels", path)
	}

	frames := len(buf.Data) / channels
	scale := float32(int(1) << (bitDepth - 1))

	samples := make([][]float32, channels)
	for ch := range samples {
		samples[ch] = make([]float32, frames)
	}
	// Interleaved int PCM to planar floats.
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			samples[ch][i] = float32(buf.Data[i*channels+ch]) / scale
		}
	}

	return &Clip{
		SampleRate: buf.Format.SampleRate,
		BitDepth:   bitDepth,
		Samples:    samples,
	}, nil
}

// WriteWAV encodes planar float32 samples as a PCM WAV file.
func WriteWAV(path string, clip *Clip) error {
	if clip.Channels() == 0 {
		return fmt.Errorf("write wav: no channels")
	}
	if clip.BitDepth == 0 {
		clip.BitDepth = 16
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}
	defer f.Close()

	channels := clip.Channels()
	frames := clip.Frames()
	scale := float32(int(1)<<(clip.BitDepth-1)) - 1

	buf := &gaudio.IntBuffer{
		Format: &gaudio.Format{
			NumChannels: channels,
			SampleRate:  clip.SampleRate,
		},
		SourceBitDepth: clip.BitDepth,
		Data:           make([]int, frames*channels),
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			s := clip.Samples[ch][i]
			if s > 1 {
				s = 1
			} else if s < -1 {
				s = -1
			}
			buf.Data[i*channels+ch] = int(s * scale)
		}
	}

	enc := wav.NewEncoder(f, clip.SampleRate, clip.BitDepth, channels, 1)
	if err := enc.Write(buf); err != nil {
		enc.Close()
		return fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return nil
}
