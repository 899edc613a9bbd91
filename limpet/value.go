package limpet

import "math"

// Type identifies the variant held by a stack slot.
type Type uint8

const (
	TypeNone Type = iota
	TypeNull
	TypeBool
	TypeNumber
	TypeString
	TypeArray
	TypeObject
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeNull:
		return "null"
	case TypeBool:
		return "bool"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	default:
		return "unknown"
	}
}

// value is one operand-stack slot: a type tag plus a 64-bit payload.
// The payload holds the float bits of a number, 0/1 for a bool, the
// arena offset of a container header, or length<<32|offset for a
// string's arena bytes. Copying a slot never copies referenced data.
type value struct {
	kind Type
	bits uint64
}

func nullValue() value {
	return value{kind: TypeNull}
}

func boolValue(v bool) value {
	var bits uint64
	if v {
		bits = 1
	}
	return value{kind: TypeBool, bits: bits}
}

func numberValue(v float64) value {
	return value{kind: TypeNumber, bits: math.Float64bits(v)}
}

func stringValue(off, length uint32) value {
	return value{kind: TypeString, bits: uint64(length)<<32 | uint64(off)}
}

func arrayValue(off uint32) value {
	return value{kind: TypeArray, bits: uint64(off)}
}

func objectValue(off uint32) value {
	return value{kind: TypeObject, bits: uint64(off)}
}

// boolean reads a TypeBool payload.
func (v value) boolean() bool {
	return v.bits != 0
}

// number reads a TypeNumber payload.
func (v value) number() float64 {
	return math.Float64frombits(v.bits)
}

// ref reads the arena offset of a string's bytes or a container's header.
func (v value) ref() uint32 {
	return uint32(v.bits)
}

// length reads the byte length of a TypeString payload.
func (v value) length() uint32 {
	return uint32(v.bits >> 32)
}
