// Package dsp contains the realtime-safe building blocks used to adapt a
// model's audio format to the host's: channel normalization, block
// resampling, and fixed-capacity sample queues. Audio is planar float32,
// indexed channel first. All buffers are preallocated; the per-block paths
// reuse them instead of allocating.
package dsp

// NormalizeChannels converts a block between mono and stereo layouts without
// allocating. scratch must have two channels of at least len(x[0]) frames.
// When no conversion is needed x is returned as-is; otherwise the result is
// a view into scratch, valid until the next call that reuses it.
func NormalizeChannels(x [][]float32, wantMono bool, scratch [][]float32) [][]float32 {
	channels := len(x)
	frames := len(x[0])

	switch {
	case wantMono && channels == 2:
		mono := scratch[0][:frames]
		for i := 0; i < frames; i++ {
			mono[i] = (x[0][i] + x[1][i]) * 0.5
		}
		scratch[0] = mono
		return scratch[:1]
	case !wantMono && channels == 1:
		copy(scratch[0][:frames], x[0])
		copy(scratch[1][:frames], x[0])
		scratch[0] = scratch[0][:frames]
		scratch[1] = scratch[1][:frames]
		return scratch[:2]
	default:
		return x
	}
}
