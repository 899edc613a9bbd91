// Package limpet implements a fixed-memory JSON engine built around an
// operand stack.
//
// A Context owns two regions sized once at creation and never grown:
//   - An arena: a bump allocator holding every string byte and
//     container node as packed little-endian records
//   - An operand stack: fixed-depth slots of 16-byte tagged values
//
// After New, no operation allocates. Values are built bottom-up by
// pushing scalars and composing them into containers, and torn down by
// indexed or keyed traversal. Freeing is wholesale: Reset rewinds the
// arena and the stack together.
//
// # Value Model
//
// Scalars: null, bool, number (float64), string (arena bytes)
// Containers: array, object (singly-linked, insertion-ordered)
//
// Containers never shrink. Objects overwrite values in place when a key
// is set twice; the key keeps its original position.
//
// # Error Latch
//
// Every operation that can fail records the first failure in the
// Context and becomes a no-op until Reset:
//
//	c.PushNewArray()
//	c.PushNumber(1)
//	c.ArrayAppend()
//	c.PushNumber(2)
//	c.ArrayAppend()
//	if err := c.Err(); err != nil {
//	    // exactly one check for the whole sequence
//	}
//
// Failed reads return zero values, so straight-line code stays safe
// without per-call checks.
//
// # Streaming
//
// Write serializes the top of the stack through an OutputFunc callback
// in small chunks; Read parses from an InputFunc callback with a
// fixed-size window. Neither buffers the document, so text size is
// bounded only by arena capacity. Package stream adapts io.Reader and
// io.Writer, compressed transports, and hashing to these callbacks.
//
// # Text Profile
//
// Output escapes everything outside printable ASCII as uppercase
// \uXXXX code units and renders numbers with up to nine significant
// digits. Input accepts strict JSON; \uXXXX escapes decode as single
// UTF-16 code units. Code points above U+FFFF are not representable in
// escapes, in either direction.
package limpet
