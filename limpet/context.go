package limpet

import (
	"bytes"
	"unsafe"
)

// DefaultMaxDepth is the nesting limit applied to reading and writing
// until SetMaxDepth overrides it.
const DefaultMaxDepth = 64

// scratchSize is the fixed staging buffer shared by number formatting,
// escape formatting, and input chunking. Large enough for the longest
// 9-significant-digit float rendering.
const scratchSize = 32

const valueSize = unsafe.Sizeof(value{})

// Context is one independent engine instance: the arena, the operand
// stack, and the sticky result latch. All engine state lives in the two
// fixed regions allocated by New; no operation allocates after that.
//
// A Context is not safe for concurrent use. Distinct Contexts are fully
// independent.
type Context struct {
	result   Result
	arena    []byte
	cur      int
	stack    []value
	sp       int
	maxDepth int
	scratch  [scratchSize]byte
}

// New creates a Context with the given operand-stack depth and total
// buffer budget in bytes. The stack carve comes out of the budget first:
// payload capacity is bufferSize minus the aligned stack footprint. A
// budget too small to hold the stack yields a Context already latched
// with ResultOutOfMemory and no payload capacity.
//
// stackDepth must be at least 2 (container composition consumes two
// slots); violating that panics.
func New(stackDepth, bufferSize int) *Context {
	if stackDepth < 2 {
		panic("limpet: stack depth must be at least 2")
	}

	c := &Context{maxDepth: DefaultMaxDepth}

	stackBytes := alignUp(stackDepth * int(valueSize))
	if bufferSize < stackBytes {
		c.result = ResultOutOfMemory
		return c
	}

	c.result = ResultOK
	c.stack = make([]value, stackDepth)
	c.sp = stackDepth
	c.arena = make([]byte, bufferSize-stackBytes)
	return c
}

// SetMaxDepth configures the nesting limit for Read and Write. Inputs
// nesting deeper fail with ResultSyntaxError; value trees deeper fail
// with ResultInvalidStack. depth must be at least 1.
func (c *Context) SetMaxDepth(depth int) {
	if depth < 1 {
		panic("limpet: max depth must be at least 1")
	}
	c.maxDepth = depth
}

// Result reports the sticky latch: ResultOK, or the first failure since
// the last Reset.
func (c *Context) Result() Result {
	return c.result
}

// Err returns the sentinel error for the latched Result, or nil.
func (c *Context) Err() error {
	return c.result.Err()
}

// Reset rewinds the arena and the stack and clears the latch. Every
// string view and container reference from before the Reset is invalid
// afterward. Reset on a closed Context panics.
func (c *Context) Reset() {
	if c.result == ResultUninitialized {
		panic("limpet: context is closed")
	}
	c.result = ResultOK
	c.cur = 0
	c.sp = len(c.stack)
}

// Close detaches the backing memory and latches ResultUninitialized.
// All further operations are no-ops; Reset after Close panics.
func (c *Context) Close() {
	if c.result == ResultUninitialized {
		panic("limpet: context is closed")
	}
	c.result = ResultUninitialized
	c.arena = nil
	c.cur = 0
	c.stack = nil
	c.sp = 0
}

func (c *Context) ok() bool {
	return c.result == ResultOK
}

// fail latches the first failure; later failures keep the first.
func (c *Context) fail(r Result) {
	if c.result == ResultOK {
		c.result = r
	}
}

// ============================================================
// Stack primitives
// ============================================================

// stackEmplace claims the next slot down, latching stack-full when none
// is free.
func (c *Context) stackEmplace() (*value, bool) {
	if !c.ok() {
		return nil, false
	}
	if c.sp == 0 {
		c.fail(ResultStackFull)
		return nil, false
	}
	c.sp--
	return &c.stack[c.sp], true
}

// stackValidate requires at least minDepth live slots.
func (c *Context) stackValidate(minDepth int) bool {
	if !c.ok() {
		return false
	}
	if len(c.stack)-c.sp < minDepth {
		c.fail(ResultStackEmpty)
		return false
	}
	return true
}

func (c *Context) typeValidate(expected, actual Type) bool {
	if expected == actual {
		return true
	}
	c.fail(ResultTypeMismatch)
	return false
}

// ============================================================
// Push operations
// ============================================================

// PushNull pushes a null value.
func (c *Context) PushNull() {
	if slot, ok := c.stackEmplace(); ok {
		*slot = nullValue()
	}
}

// PushBool pushes a boolean value.
func (c *Context) PushBool(v bool) {
	if slot, ok := c.stackEmplace(); ok {
		*slot = boolValue(v)
	}
}

// PushNumber pushes a number value.
func (c *Context) PushNumber(v float64) {
	if slot, ok := c.stackEmplace(); ok {
		*slot = numberValue(v)
	}
}

// PushString copies s into the arena and pushes it as a string value.
func (c *Context) PushString(s string) {
	slot, ok := c.stackEmplace()
	if !ok {
		return
	}
	off, ok := c.alloc(len(s))
	if !ok {
		return
	}
	copy(c.arena[off:], s)
	*slot = stringValue(off, uint32(len(s)))
}

// PushStringBytes copies b into the arena and pushes it as a string
// value. b may alias this Context's arena.
func (c *Context) PushStringBytes(b []byte) {
	slot, ok := c.stackEmplace()
	if !ok {
		return
	}
	off, ok := c.alloc(len(b))
	if !ok {
		return
	}
	copy(c.arena[off:], b)
	*slot = stringValue(off, uint32(len(b)))
}

// PushNewArray pushes a new empty array.
func (c *Context) PushNewArray() {
	slot, ok := c.stackEmplace()
	if !ok {
		return
	}
	off, ok := c.alloc(hdrSize)
	if !ok {
		return
	}
	c.putU32(off+hdrFirst, 0)
	c.putU32(off+hdrLast, 0)
	*slot = arrayValue(off)
}

// PushNewObject pushes a new empty object.
func (c *Context) PushNewObject() {
	slot, ok := c.stackEmplace()
	if !ok {
		return
	}
	off, ok := c.alloc(hdrSize)
	if !ok {
		return
	}
	c.putU32(off+hdrFirst, 0)
	c.putU32(off+hdrLast, 0)
	*slot = objectValue(off)
}

// ============================================================
// Inspection and pop operations
// ============================================================

// TopType reports the tag of the top value, or TypeNone when the stack
// is empty or the Context is latched. It never changes the Result.
func (c *Context) TopType() Type {
	if !c.ok() || c.sp == len(c.stack) {
		return TypeNone
	}
	return c.stack[c.sp].kind
}

// Pop discards the top value.
func (c *Context) Pop() {
	if c.stackValidate(1) {
		c.sp++
	}
}

// PopNull pops the top value, which must be null.
func (c *Context) PopNull() {
	if c.stackValidate(1) && c.typeValidate(TypeNull, c.stack[c.sp].kind) {
		c.sp++
	}
}

// PopBool pops and returns the top value, which must be a bool. Returns
// false when the pop fails.
func (c *Context) PopBool() bool {
	v := false
	if c.stackValidate(1) && c.typeValidate(TypeBool, c.stack[c.sp].kind) {
		v = c.stack[c.sp].boolean()
		c.sp++
	}
	return v
}

// PopNumber pops and returns the top value, which must be a number.
// Returns 0 when the pop fails.
func (c *Context) PopNumber() float64 {
	v := 0.0
	if c.stackValidate(1) && c.typeValidate(TypeNumber, c.stack[c.sp].kind) {
		v = c.stack[c.sp].number()
		c.sp++
	}
	return v
}

// PopString pops the top value, which must be a string, and returns its
// bytes. The returned slice aliases the arena and is valid until the
// next Reset or Close. Returns nil when the pop fails.
func (c *Context) PopString() []byte {
	var v []byte
	if c.stackValidate(1) && c.typeValidate(TypeString, c.stack[c.sp].kind) {
		v = c.stringBytes(c.stack[c.sp])
		c.sp++
	}
	return v
}

// ============================================================
// Array operations
// ============================================================

// ArraySize counts the elements of the array on top of the stack.
func (c *Context) ArraySize() int {
	size := 0
	if c.stackValidate(1) && c.typeValidate(TypeArray, c.stack[c.sp].kind) {
		node := c.u32(c.stack[c.sp].ref() + hdrFirst)
		for node != 0 {
			node = c.u32(node + nodeNext)
			size++
		}
	}
	return size
}

// ArrayIndex pushes a copy of the i-th element (0-based, insertion
// order) of the array on top of the stack. An index past the end
// latches ResultIndexOutOfBounds and leaves the stack unchanged.
func (c *Context) ArrayIndex(i int) {
	if !c.stackValidate(1) || !c.typeValidate(TypeArray, c.stack[c.sp].kind) {
		return
	}
	if i < 0 {
		c.fail(ResultIndexOutOfBounds)
		return
	}
	node := c.u32(c.stack[c.sp].ref() + hdrFirst)
	for node != 0 && i > 0 {
		node = c.u32(node + nodeNext)
		i--
	}
	if node == 0 {
		c.fail(ResultIndexOutOfBounds)
		return
	}
	if slot, ok := c.stackEmplace(); ok {
		*slot = c.unpackValue(node + nodeValue)
	}
}

// ArrayAppend links the top value at the tail of the array in the
// second slot, consuming the top and leaving the array in place.
func (c *Context) ArrayAppend() {
	if !c.stackValidate(2) {
		return
	}
	arr := c.stack[c.sp+1]
	if !c.typeValidate(TypeArray, arr.kind) {
		return
	}
	node, ok := c.alloc(arrayNodeSize)
	if !ok {
		return
	}
	c.putU32(node+nodeNext, 0)
	c.packValue(node+nodeValue, c.stack[c.sp])
	c.sp++

	hdr := arr.ref()
	if last := c.u32(hdr + hdrLast); last != 0 {
		c.putU32(last+nodeNext, node)
	} else {
		c.putU32(hdr+hdrFirst, node)
	}
	c.putU32(hdr+hdrLast, node)
}

// ============================================================
// Object operations
// ============================================================

// findMember scans an object's member list for a key, byte-equal.
func (c *Context) findMember(hdr uint32, key string) uint32 {
	node := c.u32(hdr + hdrFirst)
	for node != 0 {
		if string(c.keyBytes(node)) == key {
			return node
		}
		node = c.u32(node + memberNext)
	}
	return 0
}

func (c *Context) findMemberBytes(hdr uint32, key []byte) uint32 {
	node := c.u32(hdr + hdrFirst)
	for node != 0 {
		if bytes.Equal(c.keyBytes(node), key) {
			return node
		}
		node = c.u32(node + memberNext)
	}
	return 0
}

// ObjectSize counts the members of the object on top of the stack.
func (c *Context) ObjectSize() int {
	size := 0
	if c.stackValidate(1) && c.typeValidate(TypeObject, c.stack[c.sp].kind) {
		node := c.u32(c.stack[c.sp].ref() + hdrFirst)
		for node != 0 {
			node = c.u32(node + memberNext)
			size++
		}
	}
	return size
}

// ObjectIndex pushes a copy of the i-th member's value, then its key as
// a string on top. An index past the end latches
// ResultIndexOutOfBounds and leaves the stack unchanged.
func (c *Context) ObjectIndex(i int) {
	if !c.stackValidate(1) || !c.typeValidate(TypeObject, c.stack[c.sp].kind) {
		return
	}
	if i < 0 {
		c.fail(ResultIndexOutOfBounds)
		return
	}
	node := c.u32(c.stack[c.sp].ref() + hdrFirst)
	for node != 0 && i > 0 {
		node = c.u32(node + memberNext)
		i--
	}
	if node == 0 {
		c.fail(ResultIndexOutOfBounds)
		return
	}
	if slot, ok := c.stackEmplace(); ok {
		*slot = c.unpackValue(node + memberValue)
	}
	if slot, ok := c.stackEmplace(); ok {
		*slot = stringValue(c.u32(node+memberKeyOff), c.u32(node+memberKeyLen))
	}
}

// ObjectHas reports whether the object on top of the stack has the key.
// Absence is not a failure.
func (c *Context) ObjectHas(key string) bool {
	found := false
	if c.stackValidate(1) && c.typeValidate(TypeObject, c.stack[c.sp].kind) {
		found = c.findMember(c.stack[c.sp].ref(), key) != 0
	}
	return found
}

// ObjectGet pushes a copy of the value bound to key in the object on
// top of the stack, latching ResultKeyNotFound on absence.
func (c *Context) ObjectGet(key string) {
	if !c.stackValidate(1) || !c.typeValidate(TypeObject, c.stack[c.sp].kind) {
		return
	}
	node := c.findMember(c.stack[c.sp].ref(), key)
	if node == 0 {
		c.fail(ResultKeyNotFound)
		return
	}
	if slot, ok := c.stackEmplace(); ok {
		*slot = c.unpackValue(node + memberValue)
	}
}

// ObjectSet binds the top value to key in the object in the second
// slot, consuming the top and leaving the object in place. An existing
// key keeps its position and has its value overwritten; a new key
// appends at the tail with the key bytes copied into the arena.
func (c *Context) ObjectSet(key string) {
	if !c.stackValidate(2) {
		return
	}
	obj := c.stack[c.sp+1]
	if !c.typeValidate(TypeObject, obj.kind) {
		return
	}
	hdr := obj.ref()

	if node := c.findMember(hdr, key); node != 0 {
		c.packValue(node+memberValue, c.stack[c.sp])
		c.sp++
		return
	}

	keyOff, ok := c.alloc(len(key))
	if !ok {
		return
	}
	copy(c.arena[keyOff:], key)
	c.objectAppendMember(hdr, keyOff, uint32(len(key)))
}

// objectSetInterned is the reader's variant of ObjectSet: the key bytes
// are already arena-resident from lexing and are referenced without a
// second copy.
func (c *Context) objectSetInterned(keyOff, keyLen uint32) {
	if !c.stackValidate(2) {
		return
	}
	obj := c.stack[c.sp+1]
	if !c.typeValidate(TypeObject, obj.kind) {
		return
	}
	hdr := obj.ref()

	if node := c.findMemberBytes(hdr, c.arena[keyOff:keyOff+keyLen]); node != 0 {
		c.packValue(node+memberValue, c.stack[c.sp])
		c.sp++
		return
	}

	c.objectAppendMember(hdr, keyOff, keyLen)
}

// objectAppendMember allocates a tail member binding the top value to
// the given key bytes, consuming the top.
func (c *Context) objectAppendMember(hdr, keyOff, keyLen uint32) {
	node, ok := c.alloc(objectNodeSize)
	if !ok {
		return
	}
	c.putU32(node+memberNext, 0)
	c.putU32(node+memberKeyOff, keyOff)
	c.putU32(node+memberKeyLen, keyLen)
	c.packValue(node+memberValue, c.stack[c.sp])
	c.sp++

	if last := c.u32(hdr + hdrLast); last != 0 {
		c.putU32(last+memberNext, node)
	} else {
		c.putU32(hdr+hdrFirst, node)
	}
	c.putU32(hdr+hdrLast, node)
}
