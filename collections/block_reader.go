package collections

import (
	"context"
	"io"
	"sync"
)

// BlockReader is an io.Reader over a queue of byte blocks. Blocks are read
// in the order they were enqueued; a block larger than the read buffer is
// consumed over several reads.
type BlockReader struct {
	blocks *Queue[[]byte]
	buf    []byte

	closedMu sync.Mutex
	closed   bool
}

func NewBlockReader() *BlockReader {
	return &BlockReader{
		blocks: NewQueue[[]byte](),
	}
}

// Enqueue makes data available to readers. Empty blocks and blocks enqueued
// after Close are dropped.
func (r *BlockReader) Enqueue(data []byte) {
	if len(data) == 0 {
		return
	}

	r.closedMu.Lock()
	defer r.closedMu.Unlock()
	if r.closed {
		return
	}
	r.blocks.Enqueue(data)
}

func (r *BlockReader) Close() error {
	r.closedMu.Lock()
	defer r.closedMu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	r.blocks.Close()
	return nil
}

func (r *BlockReader) copyOut(into []byte) int {
	n := copy(into, r.buf)
	r.buf = r.buf[n:]
	if len(r.buf) == 0 {
		r.buf = nil
	}
	return n
}

// TryRead reads without blocking. ok is false when no data is buffered and
// the reader is still open.
func (r *BlockReader) TryRead(into []byte) (ok bool, n int, err error) {
	if len(r.buf) == 0 {
		// Closed must be sampled before polling: nothing is enqueued after it.
		closed := r.blocks.Closed()
		block, found := r.blocks.TryDequeue()
		if !found {
			if closed {
				return true, 0, io.EOF
			}
			return false, 0, nil
		}
		r.buf = block
	}
	return true, r.copyOut(into), nil
}

// Read blocks until data is available, returning io.EOF once the reader is
// closed and drained. A zero-length read returns immediately.
func (r *BlockReader) Read(into []byte) (int, error) {
	if len(into) == 0 {
		return 0, nil
	}
	if len(r.buf) == 0 {
		block, err := r.blocks.Dequeue(context.Background())
		if err != nil {
			return 0, io.EOF
		}
		r.buf = block
	}
	return r.copyOut(into), nil
}
