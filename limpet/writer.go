package limpet

import "strconv"

// OutputFunc receives chunks of serialized text. It returns how many
// bytes it consumed; short writes are retried with the remainder, and a
// negative return aborts with ResultWriteError. The chunk is only valid
// for the duration of the call.
type OutputFunc func(p []byte) int

var (
	litNull  = []byte("null")
	litTrue  = []byte("true")
	litFalse = []byte("false")
)

const hexUpper = "0123456789ABCDEF"

// Write serializes the value on top of the stack through out, leaving
// the value in place. Trees nesting deeper than the configured limit
// latch ResultInvalidStack. The returned error is Err().
func (c *Context) Write(out OutputFunc) error {
	if c.stackValidate(1) {
		c.writeValue(out, c.stack[c.sp], c.maxDepth)
	}
	return c.Err()
}

func (c *Context) writeAll(out OutputFunc, p []byte) bool {
	for len(p) > 0 {
		n := out(p)
		if n < 0 {
			c.fail(ResultWriteError)
			return false
		}
		if n >= len(p) {
			break
		}
		p = p[n:]
	}
	return true
}

func (c *Context) writeByte(out OutputFunc, ch byte) bool {
	c.scratch[0] = ch
	return c.writeAll(out, c.scratch[:1])
}

func (c *Context) writeEscape(out OutputFunc, ch byte) bool {
	c.scratch[0] = '\\'
	c.scratch[1] = ch
	return c.writeAll(out, c.scratch[:2])
}

func (c *Context) writeEscapeCode(out OutputFunc, code uint16) bool {
	c.scratch[0] = '\\'
	c.scratch[1] = 'u'
	c.scratch[2] = hexUpper[code>>12&0xF]
	c.scratch[3] = hexUpper[code>>8&0xF]
	c.scratch[4] = hexUpper[code>>4&0xF]
	c.scratch[5] = hexUpper[code&0xF]
	return c.writeAll(out, c.scratch[:6])
}

func (c *Context) writeNumber(out OutputFunc, v float64) bool {
	return c.writeAll(out, strconv.AppendFloat(c.scratch[:0], v, 'g', 9, 64))
}

// escaped reports whether a byte must be escaped: controls, anything
// past printable ASCII, and the four specials.
func escaped(ch byte) bool {
	return ch < 0x20 || ch > 0x7E || ch == '"' || ch == '\\' || ch == '/' || ch == '\''
}

// decodeUTF8 decodes one UTF-8 sequence to a 16-bit code unit,
// returning the sequence length, or 0 on an invalid lead byte or a
// truncated sequence. Four-byte sequences decode with the code point
// reduced mod 2^16.
func decodeUTF8(s []byte) (uint16, int) {
	ch := s[0]
	switch {
	case ch < 0x80:
		return uint16(ch), 1
	case ch&0xE0 == 0xC0:
		if len(s) < 2 {
			return 0, 0
		}
		return uint16(ch&0x1F)<<6 | uint16(s[1]&0x3F), 2
	case ch&0xF0 == 0xE0:
		if len(s) < 3 {
			return 0, 0
		}
		return uint16(ch&0x0F)<<12 | uint16(s[1]&0x3F)<<6 | uint16(s[2]&0x3F), 3
	case ch&0xF8 == 0xF0:
		if len(s) < 4 {
			return 0, 0
		}
		cp := uint32(ch&0x07)<<18 | uint32(s[1]&0x3F)<<12 | uint32(s[2]&0x3F)<<6 | uint32(s[3]&0x3F)
		return uint16(cp), 4
	}
	return 0, 0
}

// writeString emits a quoted string: runs of plain bytes verbatim,
// two-character escapes for the shorthand set, \uXXXX for everything
// else. A malformed UTF-8 sequence latches ResultInvalidString.
func (c *Context) writeString(out OutputFunc, s []byte) bool {
	if !c.writeByte(out, '"') {
		return false
	}
	i := 0
	for i < len(s) {
		start := i
		for i < len(s) && !escaped(s[i]) {
			i++
		}
		if i > start && !c.writeAll(out, s[start:i]) {
			return false
		}
		if i == len(s) {
			break
		}
		switch ch := s[i]; ch {
		case '"', '\\', '/':
			if !c.writeEscape(out, ch) {
				return false
			}
			i++
		case '\b':
			if !c.writeEscape(out, 'b') {
				return false
			}
			i++
		case '\f':
			if !c.writeEscape(out, 'f') {
				return false
			}
			i++
		case '\n':
			if !c.writeEscape(out, 'n') {
				return false
			}
			i++
		case '\r':
			if !c.writeEscape(out, 'r') {
				return false
			}
			i++
		case '\t':
			if !c.writeEscape(out, 't') {
				return false
			}
			i++
		default:
			code, n := decodeUTF8(s[i:])
			if n == 0 {
				c.fail(ResultInvalidString)
				return false
			}
			if !c.writeEscapeCode(out, code) {
				return false
			}
			i += n
		}
	}
	return c.writeByte(out, '"')
}

func (c *Context) writeArray(out OutputFunc, hdr uint32, depth int) bool {
	if depth <= 0 {
		c.fail(ResultInvalidStack)
		return false
	}
	if !c.writeByte(out, '[') {
		return false
	}
	first := true
	for node := c.u32(hdr + hdrFirst); node != 0; node = c.u32(node + nodeNext) {
		if !first && !c.writeByte(out, ',') {
			return false
		}
		first = false
		if !c.writeValue(out, c.unpackValue(node+nodeValue), depth-1) {
			return false
		}
	}
	return c.writeByte(out, ']')
}

func (c *Context) writeObject(out OutputFunc, hdr uint32, depth int) bool {
	if depth <= 0 {
		c.fail(ResultInvalidStack)
		return false
	}
	if !c.writeByte(out, '{') {
		return false
	}
	first := true
	for node := c.u32(hdr + hdrFirst); node != 0; node = c.u32(node + memberNext) {
		if !first && !c.writeByte(out, ',') {
			return false
		}
		first = false
		if !c.writeString(out, c.keyBytes(node)) {
			return false
		}
		if !c.writeByte(out, ':') {
			return false
		}
		if !c.writeValue(out, c.unpackValue(node+memberValue), depth-1) {
			return false
		}
	}
	return c.writeByte(out, '}')
}

func (c *Context) writeValue(out OutputFunc, v value, depth int) bool {
	switch v.kind {
	case TypeNull:
		return c.writeAll(out, litNull)
	case TypeBool:
		if v.boolean() {
			return c.writeAll(out, litTrue)
		}
		return c.writeAll(out, litFalse)
	case TypeNumber:
		return c.writeNumber(out, v.number())
	case TypeString:
		return c.writeString(out, c.stringBytes(v))
	case TypeArray:
		return c.writeArray(out, v.ref(), depth)
	case TypeObject:
		return c.writeObject(out, v.ref(), depth)
	}
	c.fail(ResultInvalidStack)
	return false
}
