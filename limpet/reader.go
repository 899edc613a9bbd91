package limpet

// InputFunc fills p with the next chunk of input text. It returns how
// many bytes it produced: 0 means end of input, and a negative return
// aborts with ResultReadError.
type InputFunc func(p []byte) int

type token uint8

const (
	tokenEOF token = iota
	tokenNull
	tokenTrue
	tokenFalse
	tokenNumber
	tokenString
	tokenLBrace
	tokenRBrace
	tokenLBracket
	tokenRBracket
	tokenComma
	tokenColon
)

// reader is the pull-lexer state for one Read call. Input is chunked
// through the Context scratch buffer; a NUL byte anywhere acts as end
// of input. String tokens are interned straight into the arena, so
// parsed strings and keys cost one copy total.
type reader struct {
	c       *Context
	in      InputFunc
	length  int
	pos     int
	putback byte

	tok    token
	number float64
	strOff uint32
	strLen uint32
}

// Read parses one JSON value from in and leaves it on top of the
// stack. Input past the value (other than whitespace) latches
// ResultSyntaxError. Nesting deeper than the configured limit latches
// ResultSyntaxError as well. The returned error is Err().
func (c *Context) Read(in InputFunc) error {
	if !c.ok() {
		return c.Err()
	}
	r := reader{c: c, in: in}
	if r.nextToken() && r.parseValue(c.maxDepth) && r.nextToken() {
		if r.tok != tokenEOF {
			c.fail(ResultSyntaxError)
		}
	}
	return c.Err()
}

func (r *reader) nextChar() byte {
	if r.putback != 0 {
		ch := r.putback
		r.putback = 0
		return ch
	}
	if r.pos >= r.length {
		n := r.in(r.c.scratch[:])
		if n < 0 {
			r.c.fail(ResultReadError)
			return 0
		}
		if n == 0 {
			return 0
		}
		r.length = n
		r.pos = 0
	}
	ch := r.c.scratch[r.pos]
	r.pos++
	return ch
}

func (r *reader) putbackChar(ch byte) {
	if ch != 0 {
		r.putback = ch
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func hexValue(ch byte) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'a' && ch <= 'f':
		return int(ch-'a') + 10
	case ch >= 'A' && ch <= 'F':
		return int(ch-'A') + 10
	}
	return -1
}

// matchKeyword consumes the remainder of a keyword whose first
// character already matched. Any other byte, including end of input,
// latches ResultUnknownKeyword.
func (r *reader) matchKeyword(rest string) bool {
	for i := 0; i < len(rest); i++ {
		if r.nextChar() != rest[i] {
			r.c.fail(ResultUnknownKeyword)
			return false
		}
	}
	return true
}

// lexEscapeCode consumes the four hex digits of a \uXXXX escape and
// appends the code unit to the arena as one to three UTF-8 bytes.
func (r *reader) lexEscapeCode() bool {
	c := r.c
	code := uint16(0)
	for i := 0; i < 4; i++ {
		d := hexValue(r.nextChar())
		if d < 0 {
			c.fail(ResultInvalidString)
			return false
		}
		code = code<<4 | uint16(d)
	}
	switch {
	case code < 0x80:
		return c.appendByte(byte(code))
	case code < 0x800:
		return c.appendByte(0xC0|byte(code>>6)) && c.appendByte(0x80|byte(code&0x3F))
	}
	return c.appendByte(0xE0|byte(code>>12)) &&
		c.appendByte(0x80|byte(code>>6&0x3F)) &&
		c.appendByte(0x80|byte(code&0x3F))
}

func (r *reader) lexEscape() bool {
	c := r.c
	switch ch := r.nextChar(); ch {
	case '"', '\\', '/':
		return c.appendByte(ch)
	case 'b':
		return c.appendByte('\b')
	case 'f':
		return c.appendByte('\f')
	case 'n':
		return c.appendByte('\n')
	case 'r':
		return c.appendByte('\r')
	case 't':
		return c.appendByte('\t')
	case 'u':
		return r.lexEscapeCode()
	case 0:
		c.fail(ResultUnexpectedEndOfInput)
		return false
	}
	c.fail(ResultInvalidString)
	return false
}

// lexString consumes a string whose opening quote was already read,
// interning the decoded bytes at the arena cursor.
func (r *reader) lexString() bool {
	c := r.c
	start := uint32(c.cur)
	for {
		ch := r.nextChar()
		if ch == 0 {
			c.fail(ResultUnexpectedEndOfInput)
			return false
		}
		if ch < 0x20 {
			c.fail(ResultInvalidCharacter)
			return false
		}
		if ch == '"' {
			break
		}
		if ch == '\\' {
			if !r.lexEscape() {
				return false
			}
			continue
		}
		if !c.appendByte(ch) {
			return false
		}
	}
	r.strOff = start
	r.strLen = uint32(c.cur) - start
	return true
}

// lexNumber consumes a number starting at ch. Digits accumulate into a
// float64 while fraction digits and the explicit exponent fold into a
// single decimal exponent, applied at the end by squaring powers of
// ten. The integer part is either a single zero or starts 1-9; a digit
// after a leading zero is not part of this token, so "01" lexes as two
// tokens and fails the document's single-value check.
func (r *reader) lexNumber(ch byte) bool {
	c := r.c
	negative := false
	if ch == '-' {
		negative = true
		ch = r.nextChar()
	}
	value := 0.0
	switch {
	case ch >= '1' && ch <= '9':
		for isDigit(ch) {
			value = value*10 + float64(ch-'0')
			ch = r.nextChar()
		}
	case ch != '0':
		c.fail(ResultInvalidNumber)
		return false
	default:
		ch = r.nextChar()
	}
	exponent := 0
	if ch == '.' {
		ch = r.nextChar()
		if !isDigit(ch) {
			c.fail(ResultInvalidNumber)
			return false
		}
		for isDigit(ch) {
			value = value*10 + float64(ch-'0')
			exponent--
			ch = r.nextChar()
		}
	}
	if ch == 'e' || ch == 'E' {
		ch = r.nextChar()
		expNegative := false
		switch ch {
		case '+':
			ch = r.nextChar()
		case '-':
			expNegative = true
			ch = r.nextChar()
		}
		if !isDigit(ch) {
			c.fail(ResultInvalidNumber)
			return false
		}
		e := 0
		for isDigit(ch) {
			e = e*10 + int(ch-'0')
			ch = r.nextChar()
		}
		if expNegative {
			exponent -= e
		} else {
			exponent += e
		}
	}
	r.putbackChar(ch)

	if exponent != 0 {
		expNegative := exponent < 0
		if expNegative {
			exponent = -exponent
		}
		power := 10.0
		for exponent > 0 {
			if exponent&1 != 0 {
				if expNegative {
					value /= power
				} else {
					value *= power
				}
			}
			power *= power
			exponent >>= 1
		}
	}
	if negative {
		value = -value
	}
	r.number = value
	return true
}

func (r *reader) nextToken() bool {
	ch := r.nextChar()
	for ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
		ch = r.nextChar()
	}
	if !r.c.ok() {
		return false
	}
	switch {
	case ch == 0:
		r.tok = tokenEOF
	case ch == '{':
		r.tok = tokenLBrace
	case ch == '}':
		r.tok = tokenRBrace
	case ch == '[':
		r.tok = tokenLBracket
	case ch == ']':
		r.tok = tokenRBracket
	case ch == ',':
		r.tok = tokenComma
	case ch == ':':
		r.tok = tokenColon
	case ch == '"':
		if !r.lexString() {
			return false
		}
		r.tok = tokenString
	case ch == '-' || isDigit(ch):
		if !r.lexNumber(ch) {
			return false
		}
		r.tok = tokenNumber
	case ch == 'n':
		if !r.matchKeyword("ull") {
			return false
		}
		r.tok = tokenNull
	case ch == 't':
		if !r.matchKeyword("rue") {
			return false
		}
		r.tok = tokenTrue
	case ch == 'f':
		if !r.matchKeyword("alse") {
			return false
		}
		r.tok = tokenFalse
	default:
		r.c.fail(ResultInvalidCharacter)
		return false
	}
	return true
}

// parseValue builds the value for the current token on the stack.
func (r *reader) parseValue(depth int) bool {
	c := r.c
	switch r.tok {
	case tokenNull:
		c.PushNull()
	case tokenTrue:
		c.PushBool(true)
	case tokenFalse:
		c.PushBool(false)
	case tokenNumber:
		c.PushNumber(r.number)
	case tokenString:
		// Interned during lexing; reference without a second copy.
		if slot, ok := c.stackEmplace(); ok {
			*slot = stringValue(r.strOff, r.strLen)
		}
	case tokenLBracket:
		return r.parseArray(depth)
	case tokenLBrace:
		return r.parseObject(depth)
	default:
		c.fail(ResultSyntaxError)
		return false
	}
	return c.ok()
}

func (r *reader) parseArray(depth int) bool {
	c := r.c
	if depth <= 0 {
		c.fail(ResultSyntaxError)
		return false
	}
	c.PushNewArray()
	if !c.ok() || !r.nextToken() {
		return false
	}
	if r.tok == tokenRBracket {
		return true
	}
	for {
		if !r.parseValue(depth - 1) {
			return false
		}
		c.ArrayAppend()
		if !c.ok() || !r.nextToken() {
			return false
		}
		if r.tok == tokenRBracket {
			return true
		}
		if r.tok != tokenComma {
			c.fail(ResultSyntaxError)
			return false
		}
		if !r.nextToken() {
			return false
		}
	}
}

func (r *reader) parseObject(depth int) bool {
	c := r.c
	if depth <= 0 {
		c.fail(ResultSyntaxError)
		return false
	}
	c.PushNewObject()
	if !c.ok() || !r.nextToken() {
		return false
	}
	if r.tok == tokenRBrace {
		return true
	}
	for {
		if r.tok != tokenString {
			c.fail(ResultSyntaxError)
			return false
		}
		keyOff, keyLen := r.strOff, r.strLen
		if !r.nextToken() {
			return false
		}
		if r.tok != tokenColon {
			c.fail(ResultSyntaxError)
			return false
		}
		if !r.nextToken() {
			return false
		}
		if !r.parseValue(depth - 1) {
			return false
		}
		c.objectSetInterned(keyOff, keyLen)
		if !c.ok() || !r.nextToken() {
			return false
		}
		if r.tok == tokenRBrace {
			return true
		}
		if r.tok != tokenComma {
			c.fail(ResultSyntaxError)
			return false
		}
		if !r.nextToken() {
			return false
		}
	}
}
