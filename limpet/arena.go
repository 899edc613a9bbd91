package limpet

import "encoding/binary"

// The arena is a single flat byte region. An allocation carves its size
// at the current cursor and rounds the cursor up to 8-byte alignment;
// string bytes append one at a time with no rounding so a lexed string
// stays contiguous. The cursor only ever moves forward; reclamation is
// Reset, which rewinds it to zero.

const arenaAlign = 8

// ============================================================
// Record layout
// ============================================================
//
// Containers live in the arena as fixed little-endian records:
//
//	header:      first u32 | last u32                          (8 bytes)
//	array node:  next u32 | pad | value                        (24 bytes)
//	object node: next u32 | keyOff u32 | keyLen u32 | pad | value (32 bytes)
//	value:       kind u8 | pad | bits u64                      (16 bytes)
//
// A zero link (first, last, next) means nil: every node allocation is
// preceded by its container's header allocation, so no node can land at
// offset zero.

const (
	hdrFirst = 0
	hdrLast  = 4
	hdrSize  = 8

	nodeNext      = 0
	nodeValue     = 8
	arrayNodeSize = 24

	memberNext     = 0
	memberKeyOff   = 4
	memberKeyLen   = 8
	memberValue    = 16
	objectNodeSize = 32

	recKind      = 0
	recBits      = 8
	valueRecSize = 16
)

func alignUp(n int) int {
	return (n + arenaAlign - 1) &^ (arenaAlign - 1)
}

// alloc carves n bytes, latching out-of-memory when they don't fit.
// The returned offset is the carve start; the cursor moves past it to
// the next aligned position.
func (c *Context) alloc(n int) (uint32, bool) {
	if len(c.arena)-c.cur < n {
		c.fail(ResultOutOfMemory)
		return 0, false
	}
	off := c.cur
	c.cur = alignUp(c.cur + n)
	if c.cur > len(c.arena) {
		c.cur = len(c.arena)
	}
	return uint32(off), true
}

// appendByte grows the string under construction at the cursor.
func (c *Context) appendByte(b byte) bool {
	if c.cur >= len(c.arena) {
		c.fail(ResultOutOfMemory)
		return false
	}
	c.arena[c.cur] = b
	c.cur++
	return true
}

func (c *Context) u32(off uint32) uint32 {
	return binary.LittleEndian.Uint32(c.arena[off:])
}

func (c *Context) putU32(off, v uint32) {
	binary.LittleEndian.PutUint32(c.arena[off:], v)
}

// unpackValue reads a packed value record.
func (c *Context) unpackValue(off uint32) value {
	return value{
		kind: Type(c.arena[off+recKind]),
		bits: binary.LittleEndian.Uint64(c.arena[off+recBits:]),
	}
}

// packValue writes a packed value record.
func (c *Context) packValue(off uint32, v value) {
	c.arena[off+recKind] = byte(v.kind)
	binary.LittleEndian.PutUint64(c.arena[off+recBits:], v.bits)
}

// stringBytes returns the arena view of a string value's payload.
func (c *Context) stringBytes(v value) []byte {
	off := v.ref()
	return c.arena[off : off+v.length()]
}

// keyBytes returns the arena view of an object member's key.
func (c *Context) keyBytes(member uint32) []byte {
	off := c.u32(member + memberKeyOff)
	n := c.u32(member + memberKeyLen)
	return c.arena[off : off+n]
}
