package wrapper

import "math"

// SoftClipper is the reference processor shipped with the SDK: a stereo
// tanh waveshaper with a single drive control. It supports any sample rate
// and buffer size, making it useful as a smoke-test model for the wrapper,
// the bench harness, and the CLI.
type SoftClipper struct {
	// DefaultDrive is used when the host supplies no parameter signal.
	DefaultDrive float32

	out [][]float32
}

func NewSoftClipper() *SoftClipper {
	return &SoftClipper{DefaultDrive: 0.5}
}

func (c *SoftClipper) Process(in, params [][]float32) [][]float32 {
	for ch := range c.out {
		src := in[ch]
		dst := c.out[ch]
		for i := range dst {
			drive := c.DefaultDrive
			if params != nil {
				drive = params[0][i]
			}
			gain := 1 + 9*float64(drive)
			dst[i] = float32(math.Tanh(float64(src[i]) * gain))
		}
	}
	return c.out
}

func (c *SoftClipper) IsInputMono() bool  { return false }
func (c *SoftClipper) IsOutputMono() bool { return false }

func (c *SoftClipper) NativeSampleRates() []int { return nil }
func (c *SoftClipper) NativeBufferSizes() []int { return nil }

func (c *SoftClipper) MinDelaySamples() int { return 0 }

func (c *SoftClipper) SetBufferSize(frames int) error {
	c.out = make([][]float32, 2)
	for ch := range c.out {
		c.out[ch] = make([]float32, frames)
	}
	return nil
}

func (c *SoftClipper) Reset() {}
