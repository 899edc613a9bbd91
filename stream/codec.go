package stream

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/Neumenon/limpet/limpet"
)

// Compression selects the codec layered under a stream.
type Compression uint8

const (
	CompressionNone Compression = 0
	CompressionZstd Compression = 1
	CompressionLZ4  Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression converts a codec name to its Compression value.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return CompressionNone, fmt.Errorf("unknown compression %q", name)
	}
}

// NewDecoder wraps r so reads see the decompressed stream. The caller
// must Close the result to release codec state.
func NewDecoder(r io.Reader, algo Compression) (io.ReadCloser, error) {
	switch algo {
	case CompressionNone:
		return io.NopCloser(r), nil
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd decoder: %w", err)
		}
		return zr.IOReadCloser(), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("unsupported compression: %s", algo)
	}
}

// NewEncoder wraps w so writes are compressed into it. The caller must
// Close the result to flush trailing frames.
func NewEncoder(w io.Writer, algo Compression) (io.WriteCloser, error) {
	switch algo {
	case CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionZstd:
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("zstd encoder: %w", err)
		}
		return zw, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported compression: %s", algo)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// ReadCompressed parses one JSON value from the compressed stream r
// onto c's stack.
func ReadCompressed(c *limpet.Context, r io.Reader, algo Compression) error {
	dec, err := NewDecoder(r, algo)
	if err != nil {
		return err
	}
	defer dec.Close()
	return ReadValue(c, dec)
}

// WriteCompressed serializes the value on top of c's stack into w
// through the chosen codec and flushes it.
func WriteCompressed(c *limpet.Context, w io.Writer, algo Compression) error {
	enc, err := NewEncoder(w, algo)
	if err != nil {
		return err
	}
	if err := WriteValue(c, enc); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
