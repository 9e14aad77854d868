// Package wrapper adapts an audio model to the block sizes and sample rates
// an arbitrary plugin host runs at. A model declares what it natively
// supports; StreamWrapper buffers, resamples, and re-blocks around it so the
// host never notices the difference.
package wrapper

// SDKVersion is reported in model cards produced by this library.
const SDKVersion = "1.4.1"

// MaxParams is the number of per-frame control signals a processor can
// expose to the host.
const MaxParams = 4

// Default host format assumed before the host reports its own.
const (
	DefaultHostSampleRate = 48000
	DefaultHostBufferSize = 2048
)

// Processor is an audio model prepared for wrapping. Process is called with
// planar float32 blocks of exactly the configured buffer size; params is
// either nil or MaxParams rows of per-frame control values in [0, 1]. The
// returned block must keep its shape until the next Process call.
//
// Implementations are driven from the host's audio thread and must not
// allocate or block in Process.
type Processor interface {
	Process(in, params [][]float32) [][]float32

	IsInputMono() bool
	IsOutputMono() bool

	// NativeSampleRates lists the sample rates the model supports. Empty
	// means any rate.
	NativeSampleRates() []int

	// NativeBufferSizes lists the buffer sizes the model supports. Empty
	// means any size.
	NativeBufferSizes() []int

	// MinDelaySamples is the model's own lookahead/latency at its native
	// rate, excluding any delay added by wrapping.
	MinDelaySamples() int

	// SetBufferSize prepares the model for blocks of the given size.
	SetBufferSize(frames int) error

	Reset()
}
