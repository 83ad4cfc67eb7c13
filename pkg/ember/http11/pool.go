package http11

import (
	"bufio"
	"io"
	"sync"
)

// Global pools for per-connection scratch objects. Buffers of a non-default
// size are allocated on demand and never pooled.
var (
	readBufferPool = sync.Pool{
		New: func() interface{} {
			buf := make([]byte, DefaultLimit)
			return &buf
		},
	}

	bufioWriterPool = sync.Pool{
		New: func() interface{} {
			return bufio.NewWriterSize(nil, DefaultWriteBufferSize)
		},
	}
)

// GetReadBuffer returns a buffer of exactly size bytes.
// The buffer may contain data from previous use.
//
// IMPORTANT: Call PutReadBuffer when done.
//
// Allocation behavior: 0 allocs/op when size == DefaultLimit
func GetReadBuffer(size int) []byte {
	if size != DefaultLimit {
		return make([]byte, size)
	}
	return *readBufferPool.Get().(*[]byte)
}

// PutReadBuffer returns a buffer obtained from GetReadBuffer.
// It is safe to call with nil or a non-default buffer (no-op).
func PutReadBuffer(buf []byte) {
	if cap(buf) != DefaultLimit {
		return
	}
	buf = buf[:DefaultLimit]
	readBufferPool.Put(&buf)
}

// GetBufioWriter retrieves a bufio.Writer of the given size wrapping w.
//
// IMPORTANT: Call PutBufioWriter when done.
func GetBufioWriter(w io.Writer, size int) *bufio.Writer {
	if size != DefaultWriteBufferSize {
		return bufio.NewWriterSize(w, size)
	}
	bw := bufioWriterPool.Get().(*bufio.Writer)
	bw.Reset(w)
	return bw
}

// PutBufioWriter resets bw and returns it to the pool. Unflushed data is
// discarded; callers flush first. It is safe to call on nil.
func PutBufioWriter(bw *bufio.Writer) {
	if bw == nil || bw.Size() != DefaultWriteBufferSize {
		return
	}
	bw.Reset(nil)
	bufioWriterPool.Put(bw)
}
