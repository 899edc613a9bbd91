// Package bridge moves values between the engine's operand stack and
// ordinary Go data.
//
// Materialize copies the value on top of a stack into a Go any tree
// (map[string]any, []any, string, float64, bool, nil); Push builds an
// engine value from such a tree. The CBOR transcoder and the JSONC
// front end build on these.
//
// The bridges trade the engine's fixed-memory discipline for
// convenience: they allocate on the Go heap and lose object insertion
// order (Go maps carry none). Code that must stay allocation-free
// should stick to the stack API.
package bridge

import (
	"fmt"
	"sort"

	"github.com/Neumenon/limpet/limpet"
)

// Materialize pops the value on top of c's stack and returns it as a
// Go any tree. Strings are copied out of the arena, so the result
// outlives Reset. An empty stack returns limpet.ErrStackEmpty without
// latching c.
func Materialize(c *limpet.Context) (any, error) {
	if err := c.Err(); err != nil {
		return nil, err
	}
	if c.TopType() == limpet.TypeNone {
		return nil, limpet.ErrStackEmpty
	}
	v := materializeTop(c)
	if err := c.Err(); err != nil {
		return nil, err
	}
	return v, nil
}

// materializeTop consumes the top of the stack. On a latched context it
// returns nil immediately; the caller reports the latched failure.
func materializeTop(c *limpet.Context) any {
	switch c.TopType() {
	case limpet.TypeNull:
		c.PopNull()
		return nil
	case limpet.TypeBool:
		return c.PopBool()
	case limpet.TypeNumber:
		return c.PopNumber()
	case limpet.TypeString:
		return string(c.PopString())
	case limpet.TypeArray:
		n := c.ArraySize()
		arr := make([]any, 0, n)
		for i := 0; i < n; i++ {
			c.ArrayIndex(i)
			arr = append(arr, materializeTop(c))
		}
		c.Pop()
		return arr
	case limpet.TypeObject:
		n := c.ObjectSize()
		m := make(map[string]any, n)
		for i := 0; i < n; i++ {
			c.ObjectIndex(i)
			key := string(c.PopString())
			m[key] = materializeTop(c)
		}
		c.Pop()
		return m
	default:
		return nil
	}
}

// Push builds v on top of c's stack. Maps become objects with keys set
// in sorted order, slices become arrays, and Go numeric types narrow
// to float64. An unsupported type returns an error with the partially
// built value still on the stack; Reset discards it.
func Push(c *limpet.Context, v any) error {
	if err := pushAny(c, v); err != nil {
		return err
	}
	return c.Err()
}

func pushAny(c *limpet.Context, v any) error {
	switch x := v.(type) {
	case nil:
		c.PushNull()
	case bool:
		c.PushBool(x)
	case float64:
		c.PushNumber(x)
	case float32:
		c.PushNumber(float64(x))
	case int:
		c.PushNumber(float64(x))
	case int64:
		c.PushNumber(float64(x))
	case uint64:
		c.PushNumber(float64(x))
	case string:
		c.PushString(x)
	case []byte:
		c.PushStringBytes(x)
	case []any:
		c.PushNewArray()
		for _, e := range x {
			if err := pushAny(c, e); err != nil {
				return err
			}
			c.ArrayAppend()
		}
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		c.PushNewObject()
		for _, k := range keys {
			if err := pushAny(c, x[k]); err != nil {
				return err
			}
			c.ObjectSet(k)
		}
	default:
		return fmt.Errorf("bridge: cannot push %T", v)
	}
	return nil
}
