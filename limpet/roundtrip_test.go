package limpet

import "testing"

// rewrite reads text into a fresh epoch and serializes it back.
func rewrite(t *testing.T, c *Context, text string) string {
	t.Helper()
	c.Reset()
	if err := readText(c, text); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	return writeToString(t, c)
}

// ============================================================
// Round Trip Tests
// ============================================================

func TestRoundtrip_StableTexts(t *testing.T) {
	// Texts already in output form come back byte-identical.
	tests := []string{
		"null",
		"true",
		"false",
		"0",
		"-1",
		"2.5",
		"0.1",
		"-300",
		"1e+09",
		"1e+20",
		"1e-07",
		"123456789",
		`""`,
		`"hello"`,
		`"a\"b\\c"`,
		`"a\/b"`,
		`"\b\f\n\r\t"`,
		`"caf\u00E9"`,
		`"it\u0027s"`,
		`"\uF600"`,
		"[]",
		"{}",
		"[1,2,3]",
		"[null,true,false]",
		`[[1],[2,3],[]]`,
		`{"a":1}`,
		`{"name":"limpet","tags":["a","b"],"size":3}`,
		`{"nested":{"deep":[{"x":1}]}}`,
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			c := New(16, 8192)
			if got := rewrite(t, c, text); got != text {
				t.Errorf("Expected %s, got %s", text, got)
			}
		})
	}
}

func TestRoundtrip_Normalizes(t *testing.T) {
	// Whitespace, lowercase hex, raw UTF-8, and number spellings all
	// collapse to one canonical rendering on the first rewrite.
	tests := []struct {
		input    string
		expected string
	}{
		{" [ 1 , 2 ] ", "[1,2]"},
		{"{ \"a\" :\t1 }", `{"a":1}`},
		{`"caf\u00e9"`, `"caf\u00E9"`},
		{`"café"`, `"caf\u00E9"`},
		{`"a/b"`, `"a\/b"`},
		{"1e-7", "1e-07"},
		{"1e9", "1e+09"},
		{"10000000000", "1e+10"},
		{"2.50", "2.5"},
		{"12e0", "12"},
		{`{"a":1,"a":2}`, `{"a":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := New(16, 8192)
			got := rewrite(t, c, tt.input)
			if got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
			// A second pass is a fixed point.
			if again := rewrite(t, c, got); again != got {
				t.Errorf("Rewrite not stable: %s then %s", got, again)
			}
		})
	}
}

func TestRoundtrip_EscapeCycle(t *testing.T) {
	// Raw multibyte input escapes on write and decodes back to the
	// original bytes on the next read.
	c := New(16, 8192)
	c.PushString("héllo €")
	text := writeToString(t, c)
	if text != `"h\u00E9llo \u20AC"` {
		t.Fatalf("Unexpected escape form: %s", text)
	}

	c.Reset()
	if err := readText(c, text); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got := string(c.PopString()); got != "héllo €" {
		t.Errorf("Expected original bytes back, got %q", got)
	}
}

func TestRoundtrip_BuildWriteReadTraverse(t *testing.T) {
	c := New(16, 8192)
	c.PushNewObject()
	c.PushString("reading")
	c.ObjectSet("state")
	c.PushNewArray()
	for _, v := range []float64{1, 2.5, -300} {
		c.PushNumber(v)
		c.ArrayAppend()
	}
	c.ObjectSet("samples")
	c.PushBool(true)
	c.ObjectSet("live")
	text := writeToString(t, c)

	d := New(16, 8192)
	if err := readText(d, text); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	d.ObjectGet("state")
	if got := string(d.PopString()); got != "reading" {
		t.Errorf("Expected \"reading\", got %q", got)
	}
	d.ObjectGet("samples")
	if got := d.ArraySize(); got != 3 {
		t.Fatalf("Expected 3 samples, got %d", got)
	}
	d.ArrayIndex(2)
	if got := d.PopNumber(); got != -300 {
		t.Errorf("Expected -300, got %v", got)
	}
	d.Pop()
	d.ObjectGet("live")
	if got := d.PopBool(); got != true {
		t.Errorf("Expected true, got %v", got)
	}
	if err := d.Err(); err != nil {
		t.Fatalf("Traversal failed: %v", err)
	}
}
