package dsp

import (
	"fmt"
	"math"
)

// LinearResampler converts fixed-size blocks between two sample rates using
// linear interpolation with aligned endpoints: the first and last sample of
// every block are preserved exactly, which keeps block boundaries
// click-free. Interpolation indices and fractions are precomputed in
// SetRates, and each direction writes into its own preallocated output
// buffer.
//
// The forward direction may carry a different channel count than the
// reverse one (a model's input and output layouts can differ).
type LinearResampler struct {
	inRate    int
	outRate   int
	inFrames  int
	outFrames int

	fwd resampleTable // inFrames -> outFrames
	bwd resampleTable // outFrames -> inFrames
}

type resampleTable struct {
	idx0 []int
	idx1 []int
	frac []float32
	out  [][]float32
}

// NewLinearResampler creates a resampler for the given channel counts.
// SetRates must be called before processing.
func NewLinearResampler(inChannels, outChannels int) *LinearResampler {
	return &LinearResampler{
		fwd: resampleTable{out: make([][]float32, inChannels)},
		bwd: resampleTable{out: make([][]float32, outChannels)},
	}
}

// SetRates reconfigures the resampler. It must be called whenever the
// incoming rate, outgoing rate, or incoming block size changes.
func (r *LinearResampler) SetRates(inRate, outRate, inFrames int) error {
	if inRate <= 0 || outRate <= 0 {
		return fmt.Errorf("invalid sample rates %d -> %d", inRate, outRate)
	}
	if inFrames < 2 {
		return fmt.Errorf("block size %d is too small to interpolate", inFrames)
	}

	outFrames := int(math.Ceil(float64(inFrames) * float64(outRate) / float64(inRate)))
	if outFrames < 2 {
		outFrames = 2
	}

	r.inRate = inRate
	r.outRate = outRate
	r.inFrames = inFrames
	r.outFrames = outFrames

	r.fwd.build(inFrames, outFrames)
	r.bwd.build(outFrames, inFrames)
	return nil
}

func (r *LinearResampler) InFrames() int  { return r.inFrames }
func (r *LinearResampler) OutFrames() int { return r.outFrames }

func (r *LinearResampler) IsResampling() bool { return r.inFrames != r.outFrames }

// ProcessIn resamples a block of InFrames frames to OutFrames frames. The
// result is a view into the resampler's forward buffer. When not resampling
// the input is returned untouched.
func (r *LinearResampler) ProcessIn(x [][]float32) [][]float32 {
	if !r.IsResampling() {
		return x
	}
	return r.fwd.apply(x)
}

// ProcessOut resamples a block of OutFrames frames back to InFrames frames.
func (r *LinearResampler) ProcessOut(x [][]float32) [][]float32 {
	if !r.IsResampling() {
		return x
	}
	return r.bwd.apply(x)
}

// build precomputes, for each output frame, the two source indices that
// bracket it and the interpolation fraction between them. Index and
// fraction clipping guards against floating point error at the block edges.
func (t *resampleTable) build(inFrames, outFrames int) {
	if cap(t.idx0) < outFrames {
		t.idx0 = make([]int, outFrames)
		t.idx1 = make([]int, outFrames)
		t.frac = make([]float32, outFrames)
	}
	t.idx0 = t.idx0[:outFrames]
	t.idx1 = t.idx1[:outFrames]
	t.frac = t.frac[:outFrames]

	scale := float64(inFrames-1) / float64(outFrames-1)
	for i := 0; i < outFrames; i++ {
		pos := float64(i) * scale
		i0 := int(math.Floor(pos))
		if i0 > inFrames-1 {
			i0 = inFrames - 1
		}
		i1 := int(math.Ceil(pos))
		if i1 > inFrames-1 {
			i1 = inFrames - 1
		}
		f := pos - float64(i0)
		if f < 0 {
			f = 0
		} else if f > 1 {
			f = 1
		}
		t.idx0[i] = i0
		t.idx1[i] = i1
		t.frac[i] = float32(f)
	}

	for ch := range t.out {
		if cap(t.out[ch]) < outFrames {
			t.out[ch] = make([]float32, outFrames)
		}
		t.out[ch] = t.out[ch][:outFrames]
	}
}

func (t *resampleTable) apply(x [][]float32) [][]float32 {
	for ch := range t.out {
		src := x[ch]
		dst := t.out[ch]
		for i := range dst {
			y0 := src[t.idx0[i]]
			dst[i] = y0 + (src[t.idx1[i]]-y0)*t.frac[i]
		}
	}
	return t.out
}
