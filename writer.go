package compra

import (
	"errors"
	"io"
)

// A Writer uses MatchFinder and Encoder to write compressed data to Dest.
// Input is buffered and compressed BlockSize bytes at a time.
type Writer struct {
	Dest        io.Writer
	MatchFinder MatchFinder
	Encoder     Encoder

	// BlockSize is the number of bytes to compress at a time.
	// The default is 65536.
	BlockSize int

	wroteHeader bool
	err         error
	inBuf       []byte
	outBuf      []byte
	matches     []Match
}

var errWriterClosed = errors.New("compra: Writer is closed")

func (w *Writer) blockSize() int {
	if w.BlockSize <= 0 {
		return 1 << 16
	}
	return w.BlockSize
}

func (w *Writer) Write(p []byte) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	if w.inBuf == nil {
		w.inBuf = make([]byte, 0, w.blockSize())
	}

	for n < len(p) {
		if len(w.inBuf) == cap(w.inBuf) {
			if err := w.writeBlock(false); err != nil {
				return n, err
			}
		}
		c := copy(w.inBuf[len(w.inBuf):cap(w.inBuf)], p[n:])
		w.inBuf = w.inBuf[:len(w.inBuf)+c]
		n += c
	}
	return n, nil
}

// writeBlock compresses and writes the buffered data. The last block is
// held back until Close, so that it can be marked as the last one.
func (w *Writer) writeBlock(lastBlock bool) error {
	w.outBuf = w.outBuf[:0]
	if !w.wroteHeader {
		w.MatchFinder.Reset()
		w.Encoder.Reset()
		w.outBuf = w.Encoder.Header(w.outBuf)
		w.wroteHeader = true
	}

	w.matches = w.MatchFinder.FindMatches(w.matches[:0], w.inBuf)
	w.outBuf = w.Encoder.Encode(w.outBuf, w.inBuf, w.matches, lastBlock)
	w.inBuf = w.inBuf[:0]

	if _, err := w.Dest.Write(w.outBuf); err != nil {
		w.err = err
		return err
	}
	return nil
}

// Close writes any remaining data as the last block. It does not close
// Dest.
func (w *Writer) Close() error {
	if w.err != nil {
		return w.err
	}
	if err := w.writeBlock(true); err != nil {
		return err
	}
	w.err = errWriterClosed
	return nil
}

// Reset discards the Writer's state and makes it write to newDest, as if it
// had just been created.
func (w *Writer) Reset(newDest io.Writer) {
	w.Dest = newDest
	w.wroteHeader = false
	w.err = nil
	w.inBuf = w.inBuf[:0]
	if cap(w.inBuf) != w.blockSize() {
		w.inBuf = nil
	}
	w.matches = w.matches[:0]
}
