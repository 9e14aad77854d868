// Package bench measures how a wrapped model performs when driven the way a
// plugin host would drive it: fixed-size blocks at a fixed rate, with
// per-block wall clock timing.
package bench

import (
	"context"
	"fmt"
	"sort"
	"time"

	"neutone-sdk/internal/audio"
	"neutone-sdk/internal/wrapper"
)

// Runner streams audio through a wrapper and records per-block timings.
type Runner struct {
	Wrapper    *wrapper.StreamWrapper
	HostFrames int

	// OnBlock, when set, is called after every processed block with the
	// number of blocks completed so far.
	OnBlock func(done int)
}

// Stats summarizes one bench run. Durations are per-block wall clock times
// of the wrapper's Process call.
type Stats struct {
	Blocks       int
	DelaySamples int
	Mean         time.Duration
	P50          time.Duration
	P99          time.Duration
	Total        time.Duration
}

// Realtime reports whether the mean block time fits inside the block's
// duration at the given host rate.
func (s *Stats) Realtime(hostRate, hostFrames int) bool {
	budget := time.Duration(float64(hostFrames) / float64(hostRate) * float64(time.Second))
	return s.Mean < budget
}

// Run streams clip through the wrapper block by block and returns timing
// stats plus the processed audio. The output clip is aligned with the input:
// the wrapper's priming delay is trimmed from the front and the run is
// flushed with silence until every input frame has come back out.
func (r *Runner) Run(ctx context.Context, clip *audio.Clip) (*Stats, *audio.Clip, error) {
	if clip.Frames() == 0 {
		return nil, nil, fmt.Errorf("bench: empty clip")
	}

	channels := clip.Channels()
	if channels > 2 {
		channels = 2
	}
	frames := clip.Frames()
	hostFrames := r.HostFrames
	delay := r.Wrapper.MinDelaySamples()

	in := make([][]float32, channels)
	out := make([][]float32, channels)
	for ch := range in {
		in[ch] = make([]float32, hostFrames)
		out[ch] = make([]float32, 0, frames+delay)
	}

	var timings []time.Duration
	total := time.Duration(0)

	process := func(block [][]float32) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		y := r.Wrapper.Process(block, nil)
		elapsed := time.Since(start)

		timings = append(timings, elapsed)
		total += elapsed
		for ch := 0; ch < channels; ch++ {
			out[ch] = append(out[ch], y[ch]...)
		}
		if r.OnBlock != nil {
			r.OnBlock(len(timings))
		}
		return nil
	}

	for pos := 0; pos < frames; pos += hostFrames {
		for ch := 0; ch < channels; ch++ {
			n := copy(in[ch], clip.Samples[ch][pos:])
			for i := n; i < hostFrames; i++ {
				in[ch][i] = 0
			}
		}
		if err := process(in); err != nil {
			return nil, nil, err
		}
	}

	// Flush the wrapper's delay with silence so the tail comes out.
	for ch := range in {
		for i := range in[ch] {
			in[ch][i] = 0
		}
	}
	for len(out[0]) < frames+delay {
		if err := process(in); err != nil {
			return nil, nil, err
		}
	}

	for ch := range out {
		out[ch] = out[ch][delay : delay+frames]
	}

	stats := summarize(timings, total)
	stats.DelaySamples = delay

	return stats, &audio.Clip{
		SampleRate: clip.SampleRate,
		BitDepth:   clip.BitDepth,
		Samples:    out,
	}, nil
}

func summarize(timings []time.Duration, total time.Duration) *Stats {
	sorted := make([]time.Duration, len(timings))
	copy(sorted, timings)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	return &Stats{
		Blocks: len(timings),
		Mean:   total / time.Duration(len(timings)),
		P50:    percentile(sorted, 0.50),
		P99:    percentile(sorted, 0.99),
		Total:  total,
	}
}

func percentile(sorted []time.Duration, q float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(q * float64(len(sorted)-1))
	return sorted[idx]
}
