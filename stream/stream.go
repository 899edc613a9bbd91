// Package stream adapts limpet's pull callbacks to Go's io interfaces
// and layered transports.
//
// The engine reads and writes through plain functions so it carries no
// io dependencies of its own. This package provides:
//   - Input/Output: io.Reader and io.Writer adapters
//   - Compression: zstd and lz4 codecs around either direction
//   - Digest: BLAKE3 hashing of serialized values and consumed input
//
// All helpers stream in small chunks; none of them buffer a whole
// document.
package stream

import (
	"io"

	"github.com/Neumenon/limpet/limpet"
)

// Input adapts r to a limpet.InputFunc. End of input maps to a zero
// return, read failures map to a negative return, and empty reads are
// retried.
func Input(r io.Reader) limpet.InputFunc {
	done := false
	return func(p []byte) int {
		if done {
			return 0
		}
		for {
			n, err := r.Read(p)
			if n > 0 {
				if err != nil {
					done = true
				}
				return n
			}
			if err == io.EOF {
				done = true
				return 0
			}
			if err != nil {
				done = true
				return -1
			}
		}
	}
}

// Output adapts w to a limpet.OutputFunc. Write failures map to a
// negative return.
func Output(w io.Writer) limpet.OutputFunc {
	return func(p []byte) int {
		n, err := w.Write(p)
		if err != nil {
			return -1
		}
		return n
	}
}

// ReadValue parses one JSON value from r onto c's stack.
func ReadValue(c *limpet.Context, r io.Reader) error {
	return c.Read(Input(r))
}

// WriteValue serializes the value on top of c's stack to w. The value
// stays on the stack.
func WriteValue(c *limpet.Context, w io.Writer) error {
	return c.Write(Output(w))
}

// ReadBytes parses one JSON value from b onto c's stack.
func ReadBytes(c *limpet.Context, b []byte) error {
	pos := 0
	return c.Read(func(p []byte) int {
		n := copy(p, b[pos:])
		pos += n
		return n
	})
}

// AppendValue serializes the value on top of c's stack onto dst and
// returns the extended slice.
func AppendValue(c *limpet.Context, dst []byte) ([]byte, error) {
	err := c.Write(func(p []byte) int {
		dst = append(dst, p...)
		return len(p)
	})
	return dst, err
}
