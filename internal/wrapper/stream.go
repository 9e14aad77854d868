package wrapper

import (
	"fmt"
	"math"

	"neutone-sdk/internal/dsp"
)

// StreamWrapper makes a Processor usable from a host with an arbitrary
// sample rate and buffer size. Incoming blocks are channel-normalized,
// resampled to the model's rate, and queued; whenever a full model block is
// available it runs the model and queues the result; outgoing blocks are
// resampled back and restored to the host's channel layout.
//
// The wrapper emits silence until its input queue has absorbed enough
// samples that it can keep producing without starving; the length of that
// priming region is reported through MinDelaySamples so the host can
// compensate.
type StreamWrapper struct {
	proc Processor

	hostRate    int
	modelRate   int
	hostFrames  int
	ioFrames    int
	modelFrames int

	inCh  int
	outCh int

	audioRes  *dsp.LinearResampler
	paramsRes *dsp.LinearResampler

	inQueue     *dsp.SampleQueue
	paramsQueue *dsp.SampleQueue
	outQueue    *dsp.SampleQueue

	hostBuf   [][]float32 // channel normalizer scratch, 2 x hostFrames
	modelIn   [][]float32 // inCh x modelFrames
	paramsBuf [][]float32 // MaxParams x modelFrames
	ioOut     [][]float32 // outCh x ioFrames
	tailBuf   [][]float32 // 2 x MaxHostQueueFrames, variable-block output
	tailView  [][]float32

	saturation int
	saturated  bool
}

// NewStreamWrapper wraps proc for a host running at hostRate with
// hostFrames-sized blocks. The model's rate and block size are chosen
// automatically from its native lists.
func NewStreamWrapper(proc Processor, hostRate, hostFrames int) (*StreamWrapper, error) {
	inCh, outCh := 2, 2
	if proc.IsInputMono() {
		inCh = 1
	}
	if proc.IsOutputMono() {
		outCh = 1
	}

	w := &StreamWrapper{
		proc:      proc,
		inCh:      inCh,
		outCh:     outCh,
		audioRes:  dsp.NewLinearResampler(inCh, outCh),
		paramsRes: dsp.NewLinearResampler(MaxParams, MaxParams),
		tailView:  make([][]float32, 2),
	}
	if _, err := w.Configure(hostRate, hostFrames, 0, 0); err != nil {
		return nil, err
	}
	return w, nil
}

// Configure adapts the wrapper to a new host format. modelRate and
// modelFrames may be zero to let the wrapper pick the best values from the
// model's native lists. It returns the maximum number of frames a single
// ProcessVariable call can emit, and resets all state.
func (w *StreamWrapper) Configure(hostRate, hostFrames, modelRate, modelFrames int) (int, error) {
	if hostRate <= 0 || hostFrames < 2 {
		return 0, fmt.Errorf("invalid host format %d Hz / %d frames", hostRate, hostFrames)
	}

	if modelRate != 0 {
		if !rateSupported(modelRate, w.proc.NativeSampleRates()) {
			return 0, fmt.Errorf("model does not support %d Hz", modelRate)
		}
	} else {
		modelRate = BestSampleRate(hostRate, w.proc.NativeSampleRates())
	}

	if err := w.audioRes.SetRates(hostRate, modelRate, hostFrames); err != nil {
		return 0, err
	}
	if err := w.paramsRes.SetRates(hostRate, modelRate, hostFrames); err != nil {
		return 0, err
	}
	ioFrames := w.audioRes.OutFrames()

	if modelFrames != 0 {
		if !sizeSupported(modelFrames, w.proc.NativeBufferSizes()) {
			return 0, fmt.Errorf("model does not support %d-frame blocks", modelFrames)
		}
	} else {
		modelFrames = BestBufferSize(ioFrames, w.proc.NativeBufferSizes())
	}
	if err := w.proc.SetBufferSize(modelFrames); err != nil {
		return 0, fmt.Errorf("set model buffer size: %w", err)
	}

	w.hostRate = hostRate
	w.modelRate = modelRate
	w.hostFrames = hostFrames
	w.ioFrames = ioFrames
	w.modelFrames = modelFrames

	queueLen := 2*ioFrames + modelFrames
	w.inQueue = dsp.NewSampleQueue(w.inCh, queueLen)
	w.paramsQueue = dsp.NewSampleQueue(MaxParams, queueLen)
	w.outQueue = dsp.NewSampleQueue(w.outCh, queueLen)

	w.hostBuf = newBlock(2, hostFrames)
	w.modelIn = newBlock(w.inCh, modelFrames)
	w.paramsBuf = newBlock(MaxParams, modelFrames)
	w.ioOut = newBlock(w.outCh, ioFrames)

	maxTail := MaxHostQueueFrames(hostRate, hostFrames, modelRate, modelFrames)
	w.tailBuf = newBlock(2, maxTail)

	w.saturation = SaturationFrames(ioFrames, modelFrames)
	w.Reset()

	return maxTail, nil
}

// Process runs one fixed-size host block through the model. x must hold
// exactly the configured host block size; params is nil or MaxParams rows of
// the same length. The returned block has the same channel count and length
// as x and is valid until the next call.
func (w *StreamWrapper) Process(x, params [][]float32) [][]float32 {
	hostMono := len(x) == 1

	y := dsp.NormalizeChannels(x, w.proc.IsInputMono(), w.hostBuf)
	y = w.audioRes.ProcessIn(y)
	w.feed(y, params)

	w.outQueue.Pop(w.ioOut)
	y = w.audioRes.ProcessOut(w.ioOut)
	return dsp.NormalizeChannels(y, hostMono, w.hostBuf)
}

// ProcessVariable is the offline / non-realtime path: it accepts one host
// block and returns every full host block the model has produced so far,
// concatenated, or nil when nothing is ready yet. The result is a view into
// an internal buffer of at most the size returned by Configure.
func (w *StreamWrapper) ProcessVariable(x, params [][]float32) [][]float32 {
	hostCh := len(x)
	hostMono := hostCh == 1

	y := dsp.NormalizeChannels(x, w.proc.IsInputMono(), w.hostBuf)
	y = w.audioRes.ProcessIn(y)
	w.feed(y, params)

	cur := 0
	for w.outQueue.Len() >= w.ioFrames {
		w.outQueue.Pop(w.ioOut)
		y = w.audioRes.ProcessOut(w.ioOut)
		y = dsp.NormalizeChannels(y, hostMono, w.hostBuf)
		for ch := 0; ch < hostCh; ch++ {
			copy(w.tailBuf[ch][cur:], y[ch])
		}
		cur += w.hostFrames
	}

	if cur == 0 {
		return nil
	}
	view := w.tailView[:hostCh]
	for ch := range view {
		view[ch] = w.tailBuf[ch][:cur]
	}
	return view
}

// feed queues one resampled block and runs the model for as long as full
// model blocks are available. The queues are sized so pushes cannot
// overflow while the host honours the configured block size.
func (w *StreamWrapper) feed(x, params [][]float32) {
	if params != nil {
		p := w.paramsRes.ProcessIn(params)
		_ = w.paramsQueue.Push(p)
	}

	_ = w.inQueue.Push(x)
	if w.inQueue.Len() >= w.saturation {
		w.saturated = true
	}

	for w.saturated && w.inQueue.Len() >= w.modelFrames {
		w.inQueue.Pop(w.modelIn)

		var out [][]float32
		if w.paramsQueue.Empty() {
			out = w.proc.Process(w.modelIn, nil)
		} else {
			w.paramsQueue.Pop(w.paramsBuf)
			out = w.proc.Process(w.modelIn, w.paramsBuf)
		}
		_ = w.outQueue.Push(out)
	}
}

func (w *StreamWrapper) HostSampleRate() int  { return w.hostRate }
func (w *StreamWrapper) ModelSampleRate() int { return w.modelRate }
func (w *StreamWrapper) HostBufferSize() int  { return w.hostFrames }
func (w *StreamWrapper) ModelBufferSize() int { return w.modelFrames }

func (w *StreamWrapper) IsResampling() bool { return w.hostRate != w.modelRate }

// MinDelaySamples is the total latency the host should report: the model's
// own delay plus the wrapper's queueing delay, expressed at the host rate.
func (w *StreamWrapper) MinDelaySamples() int {
	delay := w.proc.MinDelaySamples() + DelaySamples(w.ioFrames, w.modelFrames)
	if w.IsResampling() {
		delay = int(float64(delay) * float64(w.hostFrames) / float64(w.ioFrames))
	}
	return delay
}

// Reset clears all queues and scratch buffers and resets the model.
func (w *StreamWrapper) Reset() {
	w.proc.Reset()
	w.inQueue.Reset()
	w.paramsQueue.Reset()
	w.outQueue.Reset()
	zeroBlock(w.hostBuf)
	zeroBlock(w.modelIn)
	zeroBlock(w.paramsBuf)
	zeroBlock(w.ioOut)
	zeroBlock(w.tailBuf)
	w.saturated = false
}

// FillMetadata records the wrapped model's audio facts on a model card.
func (w *StreamWrapper) FillMetadata(m *Metadata) {
	m.IsInputMono = w.proc.IsInputMono()
	m.IsOutputMono = w.proc.IsOutputMono()
	m.NativeSampleRates = w.proc.NativeSampleRates()
	m.NativeBufferSizes = w.proc.NativeBufferSizes()
	m.MinDelaySamples = w.MinDelaySamples()
	m.SDKVersion = SDKVersion
}

// BestSampleRate picks the model rate that minimizes resampling work: the
// host rate itself when supported, otherwise the closest native rate.
func BestSampleRate(hostRate int, native []int) int {
	if len(native) == 0 {
		return hostRate
	}
	for _, sr := range native {
		if sr == hostRate {
			return hostRate
		}
	}
	if len(native) == 1 {
		return native[0]
	}
	best := native[0]
	for _, sr := range native[1:] {
		if abs(sr-hostRate) < abs(best-hostRate) {
			best = sr
		}
	}
	return best
}

// BestBufferSize picks the model block size for a given io block size:
// prefer a native size the io size divides evenly, then the first larger
// native size, then the nearest.
func BestBufferSize(ioFrames int, native []int) int {
	if len(native) == 0 {
		return ioFrames
	}
	if len(native) == 1 {
		return native[0]
	}
	sorted := make([]int, len(native))
	copy(sorted, native)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	for _, bs := range sorted {
		if bs%ioFrames == 0 {
			return bs
		}
	}
	for _, bs := range sorted {
		if bs > ioFrames {
			return bs
		}
	}
	best := sorted[0]
	for _, bs := range sorted[1:] {
		if abs(bs-ioFrames) < abs(best-ioFrames) {
			best = bs
		}
	}
	return best
}

// SaturationFrames is the number of queued input frames after which the
// wrapper can produce a full io block on every host callback.
func SaturationFrames(ioFrames, modelFrames int) int {
	if modelFrames%ioFrames == 0 {
		return modelFrames
	}
	if ioFrames%modelFrames == 0 {
		return modelFrames
	}
	if ioFrames%2 == 0 && modelFrames%(ioFrames/2) == 0 {
		return modelFrames
	}
	if ioFrames < modelFrames {
		return modelFrames + ioFrames - 1
	}
	multiplier := ioFrames / modelFrames
	return multiplier*modelFrames + ioFrames%modelFrames + 1
}

// DelaySamples is the queueing delay, in io-rate samples, introduced by
// re-blocking between the io and model block sizes.
func DelaySamples(ioFrames, modelFrames int) int {
	saturation := SaturationFrames(ioFrames, modelFrames)
	switch {
	case ioFrames < modelFrames:
		if saturation == modelFrames {
			return modelFrames - ioFrames
		}
		return saturation - saturation%ioFrames
	case ioFrames > modelFrames:
		if saturation == modelFrames {
			return 0
		}
		return ioFrames
	default:
		return 0
	}
}

// ResampledFrames is the block size a block of origFrames becomes after
// resampling from origRate to newRate.
func ResampledFrames(origRate, newRate, origFrames int) int {
	if origRate == newRate {
		return origFrames
	}
	return int(math.Ceil(float64(newRate) * float64(origFrames) / float64(origRate)))
}

// MaxHostQueueFrames bounds how many host-rate frames can be pending on the
// output side at once, which sizes the variable-block output buffer.
func MaxHostQueueFrames(hostRate, hostFrames, modelRate, modelFrames int) int {
	hostModelFrames := modelFrames*hostRate/modelRate + 1
	return 2*hostFrames + hostModelFrames
}

func rateSupported(rate int, native []int) bool {
	if len(native) == 0 {
		return true
	}
	for _, sr := range native {
		if sr == rate {
			return true
		}
	}
	return false
}

func sizeSupported(frames int, native []int) bool {
	if len(native) == 0 {
		return true
	}
	for _, bs := range native {
		if bs == frames {
			return true
		}
	}
	return false
}

func newBlock(channels, frames int) [][]float32 {
	b := make([][]float32, channels)
	for ch := range b {
		b[ch] = make([]float32, frames)
	}
	return b
}

func zeroBlock(b [][]float32) {
	for ch := range b {
		for i := range b[ch] {
			b[ch][i] = 0
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
