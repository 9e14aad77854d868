package dsp

import "fmt"

// SampleQueue is a fixed-capacity FIFO of audio frames. Push appends at the
// tail, Pop copies from the head. The backing storage is allocated once and
// compacted with copy on removal, so steady-state operation never allocates.
type SampleQueue struct {
	channels int
	capacity int
	buf      [][]float32
	size     int
}

func NewSampleQueue(channels, capacity int) *SampleQueue {
	q := &SampleQueue{
		channels: channels,
		capacity: capacity,
		buf:      make([][]float32, channels),
	}
	for ch := range q.buf {
		q.buf[ch] = make([]float32, capacity)
	}
	return q
}

// Push appends a block to the queue. The block's channel count must match
// the queue's. Returns an error if the block does not fit; callers size the
// queue so that this cannot happen in steady state.
func (q *SampleQueue) Push(x [][]float32) error {
	n := len(x[0])
	if q.size+n > q.capacity {
		return fmt.Errorf("sample queue overflow: %d queued + %d pushed > capacity %d", q.size, n, q.capacity)
	}
	for ch := range q.buf {
		copy(q.buf[ch][q.size:], x[ch])
	}
	q.size += n
	return nil
}

// Pop copies len(out[0]) frames from the head of the queue into out and
// removes up to that many. Frames beyond Len are copied as zeros, matching
// the zero-fill the queue maintains past its tail. Returns the number of
// frames actually removed.
func (q *SampleQueue) Pop(out [][]float32) int {
	n := len(out[0])
	for ch := range out {
		copy(out[ch], q.buf[ch][:n])
	}
	return q.Remove(n)
}

// Head returns a view of the first n frames without removing them.
func (q *SampleQueue) Head(n int) [][]float32 {
	view := make([][]float32, q.channels)
	for ch := range q.buf {
		view[ch] = q.buf[ch][:n]
	}
	return view
}

// Remove discards up to n frames from the head, compacting the remainder
// forward and zero-filling the vacated region. Returns the number of frames
// removed.
func (q *SampleQueue) Remove(n int) int {
	removed := n
	if removed > q.size {
		removed = q.size
	}
	if removed > 0 {
		remaining := q.size - removed
		for ch := range q.buf {
			copy(q.buf[ch][:remaining], q.buf[ch][removed:removed+remaining])
			tail := q.buf[ch][remaining : removed+remaining]
			for i := range tail {
				tail[i] = 0
			}
		}
	}
	q.size -= removed
	return removed
}

func (q *SampleQueue) Len() int { return q.size }

func (q *SampleQueue) Empty() bool { return q.size == 0 }

// Reset zeros the storage and empties the queue.
func (q *SampleQueue) Reset() {
	for ch := range q.buf {
		for i := range q.buf[ch] {
			q.buf[ch][i] = 0
		}
	}
	q.size = 0
}
