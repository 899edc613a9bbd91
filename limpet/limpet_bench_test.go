package limpet

import (
	"encoding/json"
	"testing"

	"github.com/valyala/fastjson"
)

// ============================================================
// Engine Benchmarks
// ============================================================
//
// Run with:
//   go test -bench=. -benchmem ./limpet/
//
// Steady-state paths are allocation-free: the context is created once
// and reset between iterations.

const benchFlatDoc = `{"id":1234,"name":"limpet","active":true,"score":98.6,"tags":["stack","arena","stream"]}`

const benchNestedDoc = `{"service":"telemetry","window":{"start":1700000000,"end":1700003600},` +
	`"samples":[[1,2.5],[3,4.5],[5,6.5]],"meta":{"host":"edge-01","ok":true,"note":null}}`

func benchBuildDocument(c *Context) {
	c.PushNewObject()
	c.PushNumber(1234)
	c.ObjectSet("id")
	c.PushString("limpet")
	c.ObjectSet("name")
	c.PushBool(true)
	c.ObjectSet("active")
	c.PushNumber(98.6)
	c.ObjectSet("score")
	c.PushNewArray()
	for _, tag := range []string{"stack", "arena", "stream"} {
		c.PushString(tag)
		c.ArrayAppend()
	}
	c.ObjectSet("tags")
}

// ============================================================
// Read Benchmarks
// ============================================================

// BenchmarkRead_FlatObject parses a small flat document per iteration.
func BenchmarkRead_FlatObject(b *testing.B) {
	c := New(32, 16384)
	pos := 0
	in := func(p []byte) int {
		n := copy(p, benchFlatDoc[pos:])
		pos += n
		return n
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Reset()
		pos = 0
		if err := c.Read(in); err != nil {
			b.Fatalf("Read failed: %v", err)
		}
	}
}

// BenchmarkRead_NestedObject parses a nested document per iteration.
func BenchmarkRead_NestedObject(b *testing.B) {
	c := New(32, 16384)
	pos := 0
	in := func(p []byte) int {
		n := copy(p, benchNestedDoc[pos:])
		pos += n
		return n
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Reset()
		pos = 0
		if err := c.Read(in); err != nil {
			b.Fatalf("Read failed: %v", err)
		}
	}
}

// BenchmarkRead_NumberHeavy parses a numeric array per iteration.
func BenchmarkRead_NumberHeavy(b *testing.B) {
	const doc = `[0,1,-2.5,3.14159e5,1e9,2.5e-1,123456789,0.00025,-300,42]`
	c := New(32, 16384)
	pos := 0
	in := func(p []byte) int {
		n := copy(p, doc[pos:])
		pos += n
		return n
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Reset()
		pos = 0
		if err := c.Read(in); err != nil {
			b.Fatalf("Read failed: %v", err)
		}
	}
}

// BenchmarkRead_EscapeHeavy parses a string full of escapes per iteration.
func BenchmarkRead_EscapeHeavy(b *testing.B) {
	const doc = `"line\none\ttab é€ quote\" slash\/  end"`
	c := New(8, 16384)
	pos := 0
	in := func(p []byte) int {
		n := copy(p, doc[pos:])
		pos += n
		return n
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Reset()
		pos = 0
		if err := c.Read(in); err != nil {
			b.Fatalf("Read failed: %v", err)
		}
	}
}

// ============================================================
// Write Benchmarks
// ============================================================

// BenchmarkWrite_FlatObject serializes a prebuilt document per iteration.
func BenchmarkWrite_FlatObject(b *testing.B) {
	c := New(32, 16384)
	benchBuildDocument(c)
	if err := c.Err(); err != nil {
		b.Fatalf("Build failed: %v", err)
	}
	out := func(p []byte) int { return len(p) }
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := c.Write(out); err != nil {
			b.Fatalf("Write failed: %v", err)
		}
	}
}

// BenchmarkWrite_Numbers serializes a numeric array per iteration.
func BenchmarkWrite_Numbers(b *testing.B) {
	c := New(32, 16384)
	c.PushNewArray()
	for _, v := range []float64{0, 1, -2.5, 314159, 1e9, 0.25, 123456789, 0.00025, -300, 42} {
		c.PushNumber(v)
		c.ArrayAppend()
	}
	if err := c.Err(); err != nil {
		b.Fatalf("Build failed: %v", err)
	}
	out := func(p []byte) int { return len(p) }
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := c.Write(out); err != nil {
			b.Fatalf("Write failed: %v", err)
		}
	}
}

// BenchmarkWrite_EscapeHeavy serializes an escape-dense string per iteration.
func BenchmarkWrite_EscapeHeavy(b *testing.B) {
	c := New(8, 16384)
	c.PushString("line\none\ttab é€ quote\" slash/ plain tail without escapes")
	out := func(p []byte) int { return len(p) }
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := c.Write(out); err != nil {
			b.Fatalf("Write failed: %v", err)
		}
	}
}

// ============================================================
// Traversal Benchmarks
// ============================================================

// BenchmarkObjectGet fetches one key from a prebuilt object per iteration.
func BenchmarkObjectGet(b *testing.B) {
	c := New(32, 16384)
	benchBuildDocument(c)
	if err := c.Err(); err != nil {
		b.Fatalf("Build failed: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.ObjectGet("score")
		c.Pop()
	}
	if err := c.Err(); err != nil {
		b.Fatalf("Traversal failed: %v", err)
	}
}

// BenchmarkArrayIndex walks a ten-element array per iteration.
func BenchmarkArrayIndex(b *testing.B) {
	c := New(32, 16384)
	c.PushNewArray()
	for i := 0; i < 10; i++ {
		c.PushNumber(float64(i))
		c.ArrayAppend()
	}
	if err := c.Err(); err != nil {
		b.Fatalf("Build failed: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.ArrayIndex(i % 10)
		c.Pop()
	}
	if err := c.Err(); err != nil {
		b.Fatalf("Traversal failed: %v", err)
	}
}

// BenchmarkStackOps pushes and pops one scalar per iteration.
func BenchmarkStackOps(b *testing.B) {
	c := New(32, 16384)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.PushNumber(float64(i))
		c.PopNumber()
	}
	if err := c.Err(); err != nil {
		b.Fatalf("Stack ops failed: %v", err)
	}
}

// ============================================================
// Comparison Benchmarks - Other Decoders
// ============================================================

// BenchmarkRead_Comparison_EncodingJSON parses the same flat document
// with the standard library.
func BenchmarkRead_Comparison_EncodingJSON(b *testing.B) {
	data := []byte(benchFlatDoc)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v map[string]any
		if err := json.Unmarshal(data, &v); err != nil {
			b.Fatalf("Unmarshal failed: %v", err)
		}
	}
}

// BenchmarkRead_Comparison_Fastjson parses the same flat document with
// fastjson.
func BenchmarkRead_Comparison_Fastjson(b *testing.B) {
	var p fastjson.Parser
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.Parse(benchFlatDoc); err != nil {
			b.Fatalf("Parse failed: %v", err)
		}
	}
}

// BenchmarkWrite_Comparison_EncodingJSON serializes an equivalent
// document with the standard library.
func BenchmarkWrite_Comparison_EncodingJSON(b *testing.B) {
	v := map[string]any{
		"id":     1234,
		"name":   "limpet",
		"active": true,
		"score":  98.6,
		"tags":   []string{"stack", "arena", "stream"},
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := json.Marshal(v); err != nil {
			b.Fatalf("Marshal failed: %v", err)
		}
	}
}
