package limpet

import (
	"errors"
	"testing"
)

// ============================================================
// Array Tests
// ============================================================

func TestArray_AppendLeavesArrayOnStack(t *testing.T) {
	// Composition works with the minimum stack depth of two.
	c := New(2, 1024)
	c.PushNewArray()
	c.PushNumber(1)
	c.ArrayAppend()
	if err := c.Err(); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if got := c.TopType(); got != TypeArray {
		t.Fatalf("Expected array on top after append, got %v", got)
	}
	if got := c.ArraySize(); got != 1 {
		t.Errorf("Expected 1 element, got %d", got)
	}
}

func TestArray_IndexPreservesOrder(t *testing.T) {
	c := New(4, 1024)
	c.PushNewArray()
	for i := 0; i < 5; i++ {
		c.PushNumber(float64(i * 10))
		c.ArrayAppend()
	}
	if got := c.ArraySize(); got != 5 {
		t.Fatalf("Expected 5 elements, got %d", got)
	}

	for i := 0; i < 5; i++ {
		c.ArrayIndex(i)
		if got := c.PopNumber(); got != float64(i*10) {
			t.Errorf("Element %d: expected %v, got %v", i, float64(i*10), got)
		}
	}
	if err := c.Err(); err != nil {
		t.Fatalf("Indexed traversal failed: %v", err)
	}
}

func TestArray_IndexOutOfBounds(t *testing.T) {
	tests := []struct {
		name  string
		index int
	}{
		{"past end", 1},
		{"far past end", 100},
		{"negative", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(4, 1024)
			c.PushNewArray()
			c.PushNumber(1)
			c.ArrayAppend()

			sp := c.sp
			c.ArrayIndex(tt.index)
			if !errors.Is(c.Err(), ErrIndexOutOfBounds) {
				t.Errorf("Expected ErrIndexOutOfBounds, got %v", c.Err())
			}
			if c.sp != sp {
				t.Errorf("Failed index must not push: sp %d->%d", sp, c.sp)
			}
		})
	}
}

func TestArray_IndexEmpty(t *testing.T) {
	c := New(4, 1024)
	c.PushNewArray()
	c.ArrayIndex(0)
	if !errors.Is(c.Err(), ErrIndexOutOfBounds) {
		t.Errorf("Expected ErrIndexOutOfBounds, got %v", c.Err())
	}
}

func TestArray_AppendRequiresArrayBeneath(t *testing.T) {
	c := New(4, 1024)
	c.PushNumber(1)
	c.PushNumber(2)
	c.ArrayAppend()
	if !errors.Is(c.Err(), ErrTypeMismatch) {
		t.Errorf("Expected ErrTypeMismatch, got %v", c.Err())
	}
}

func TestArray_AppendRequiresTwoSlots(t *testing.T) {
	c := New(4, 1024)
	c.PushNewArray()
	c.ArrayAppend()
	if !errors.Is(c.Err(), ErrStackEmpty) {
		t.Errorf("Expected ErrStackEmpty, got %v", c.Err())
	}
}

func TestArray_OpsValidateType(t *testing.T) {
	c := New(4, 1024)
	c.PushNewObject()
	c.ArraySize()
	if !errors.Is(c.Err(), ErrTypeMismatch) {
		t.Errorf("Expected ErrTypeMismatch for ArraySize on object, got %v", c.Err())
	}
}

func TestArray_ElementCopiesShareStructure(t *testing.T) {
	c := New(4, 1024)
	c.PushNewArray() // outer
	c.PushNewArray() // inner
	c.ArrayAppend()

	// Fetch a copy of the inner array and grow it through the copy.
	c.ArrayIndex(0)
	c.PushNumber(42)
	c.ArrayAppend()
	c.Pop() // inner copy

	c.ArrayIndex(0)
	if got := c.ArraySize(); got != 1 {
		t.Errorf("Expected growth through copy to be visible, got size %d", got)
	}
	c.ArrayIndex(0)
	if got := c.PopNumber(); got != 42 {
		t.Errorf("Expected 42, got %v", got)
	}
	if err := c.Err(); err != nil {
		t.Fatalf("Shared structure traversal failed: %v", err)
	}
}

func TestArray_MixedElementTypes(t *testing.T) {
	c := New(4, 1024)
	c.PushNewArray()
	c.PushNull()
	c.ArrayAppend()
	c.PushBool(true)
	c.ArrayAppend()
	c.PushString("s")
	c.ArrayAppend()

	expected := []Type{TypeNull, TypeBool, TypeString}
	for i, want := range expected {
		c.ArrayIndex(i)
		if got := c.TopType(); got != want {
			t.Errorf("Element %d: expected %v, got %v", i, want, got)
		}
		c.Pop()
	}
	if err := c.Err(); err != nil {
		t.Fatalf("Traversal failed: %v", err)
	}
}

// ============================================================
// Object Tests
// ============================================================

func TestObject_SetGetHas(t *testing.T) {
	c := New(4, 1024)
	c.PushNewObject()
	c.PushNumber(1)
	c.ObjectSet("a")
	c.PushString("two")
	c.ObjectSet("b")

	if got := c.ObjectSize(); got != 2 {
		t.Fatalf("Expected 2 members, got %d", got)
	}
	if !c.ObjectHas("a") || !c.ObjectHas("b") {
		t.Error("Expected both keys present")
	}
	if c.ObjectHas("c") {
		t.Error("Expected \"c\" absent")
	}
	if err := c.Err(); err != nil {
		t.Fatalf("Absence probe must not fail: %v", err)
	}

	c.ObjectGet("b")
	if got := string(c.PopString()); got != "two" {
		t.Errorf("Expected \"two\", got %q", got)
	}
	c.ObjectGet("a")
	if got := c.PopNumber(); got != 1 {
		t.Errorf("Expected 1, got %v", got)
	}
}

func TestObject_GetMissingKey(t *testing.T) {
	c := New(4, 1024)
	c.PushNewObject()
	c.ObjectGet("missing")
	if !errors.Is(c.Err(), ErrKeyNotFound) {
		t.Errorf("Expected ErrKeyNotFound, got %v", c.Err())
	}
}

func TestObject_OverwriteKeepsPosition(t *testing.T) {
	c := New(4, 1024)
	c.PushNewObject()
	c.PushNumber(1)
	c.ObjectSet("a")
	c.PushNumber(2)
	c.ObjectSet("b")
	c.PushNumber(9)
	c.ObjectSet("a")

	if got := c.ObjectSize(); got != 2 {
		t.Fatalf("Overwrite must not grow the object, got %d", got)
	}

	c.ObjectIndex(0)
	if got := string(c.PopString()); got != "a" {
		t.Errorf("Expected first key \"a\", got %q", got)
	}
	if got := c.PopNumber(); got != 9 {
		t.Errorf("Expected overwritten value 9, got %v", got)
	}
	if err := c.Err(); err != nil {
		t.Fatalf("Overwrite round trip failed: %v", err)
	}
}

func TestObject_IndexPushesValueThenKey(t *testing.T) {
	c := New(4, 1024)
	c.PushNewObject()
	c.PushBool(true)
	c.ObjectSet("flag")

	c.ObjectIndex(0)
	if got := c.TopType(); got != TypeString {
		t.Fatalf("Expected key on top, got %v", got)
	}
	if got := string(c.PopString()); got != "flag" {
		t.Errorf("Expected \"flag\", got %q", got)
	}
	if got := c.PopBool(); got != true {
		t.Errorf("Expected true, got %v", got)
	}
	if got := c.TopType(); got != TypeObject {
		t.Errorf("Expected object still on stack, got %v", got)
	}
}

func TestObject_IndexOutOfBounds(t *testing.T) {
	c := New(4, 1024)
	c.PushNewObject()
	c.PushNumber(1)
	c.ObjectSet("a")

	sp := c.sp
	c.ObjectIndex(1)
	if !errors.Is(c.Err(), ErrIndexOutOfBounds) {
		t.Errorf("Expected ErrIndexOutOfBounds, got %v", c.Err())
	}
	if c.sp != sp {
		t.Errorf("Failed index must not push: sp %d->%d", sp, c.sp)
	}
}

func TestObject_OpsValidateType(t *testing.T) {
	c := New(4, 1024)
	c.PushNewArray()
	c.ObjectSize()
	if !errors.Is(c.Err(), ErrTypeMismatch) {
		t.Errorf("Expected ErrTypeMismatch for ObjectSize on array, got %v", c.Err())
	}

	c.Reset()
	c.PushNewArray()
	c.PushNumber(1)
	c.ObjectSet("a")
	if !errors.Is(c.Err(), ErrTypeMismatch) {
		t.Errorf("Expected ErrTypeMismatch for ObjectSet on array, got %v", c.Err())
	}
}

func TestObject_KeysAreByteExact(t *testing.T) {
	c := New(4, 1024)
	c.PushNewObject()
	c.PushNumber(1)
	c.ObjectSet("café")
	c.PushNumber(2)
	c.ObjectSet("")

	if !c.ObjectHas("café") || !c.ObjectHas("") {
		t.Error("Expected UTF-8 and empty keys to resolve")
	}
	if c.ObjectHas("cafe") {
		t.Error("Byte-different key must not match")
	}
	c.ObjectGet("")
	if got := c.PopNumber(); got != 2 {
		t.Errorf("Expected 2 under empty key, got %v", got)
	}
}

func TestObject_NestedComposition(t *testing.T) {
	c := New(4, 1024)
	c.PushNewObject()
	c.PushNewArray()
	c.PushNumber(1)
	c.ArrayAppend()
	c.PushNumber(2)
	c.ArrayAppend()
	c.ObjectSet("xs")
	if err := c.Err(); err != nil {
		t.Fatalf("Nested composition failed: %v", err)
	}

	c.ObjectGet("xs")
	if got := c.ArraySize(); got != 2 {
		t.Errorf("Expected 2 elements, got %d", got)
	}
	c.Pop()
	if got := c.TopType(); got != TypeObject {
		t.Errorf("Expected object back on top, got %v", got)
	}
}
