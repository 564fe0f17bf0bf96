package chunker

import (
	"strings"
	"testing"
)

// TestSplit_Offsets verifies chunk starts advance by exactly size-overlap.
func TestSplit_Offsets(t *testing.T) {
	text := strings.Repeat("abcdefghij", 10) // 100 bytes
	c, err := New(30, 10)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	chunks := c.Split(text)

	step := 30 - 10
	for i, chunk := range chunks {
		start := i * step
		end := start + 30
		if end > len(text) {
			end = len(text)
		}
		if chunk != text[start:end] {
			t.Errorf("chunk %d: expected text[%d:%d], got %q", i, start, end, chunk)
		}
	}

	// Last chunk must reach the end of the text.
	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(text, last) {
		t.Errorf("last chunk %q is not a suffix of the input", last)
	}
}

// TestSplit_Coverage verifies every position of the input appears in at
// least one chunk.
func TestSplit_Coverage(t *testing.T) {
	text := strings.Repeat("x", 997)
	c, err := New(150, 25)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	chunks := c.Split(text)

	covered := 0
	step := 150 - 25
	for i, chunk := range chunks {
		start := i * step
		if start > covered {
			t.Fatalf("gap before chunk %d: covered %d, chunk starts at %d", i, covered, start)
		}
		if end := start + len(chunk); end > covered {
			covered = end
		}
	}
	if covered < len(text) {
		t.Errorf("chunks cover %d of %d bytes", covered, len(text))
	}
}

// TestSplit_ShortText returns a single chunk when text fits one window.
func TestSplit_ShortText(t *testing.T) {
	c, err := New(100, 20)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	chunks := c.Split("short")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "short" {
		t.Errorf("expected %q, got %q", "short", chunks[0])
	}
}

// TestSplit_Empty yields no chunks for empty input.
func TestSplit_Empty(t *testing.T) {
	c, err := New(100, 20)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if chunks := c.Split(""); chunks != nil {
		t.Errorf("expected no chunks for empty input, got %d", len(chunks))
	}
}

// TestSplit_NoOverlap verifies zero overlap partitions the text exactly.
func TestSplit_NoOverlap(t *testing.T) {
	text := "aaaabbbbcccc"
	c, err := New(4, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	chunks := c.Split(text)
	expected := []string{"aaaa", "bbbb", "cccc"}
	if len(chunks) != len(expected) {
		t.Fatalf("expected %d chunks, got %d", len(expected), len(chunks))
	}
	for i := range expected {
		if chunks[i] != expected[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, expected[i], chunks[i])
		}
	}
}

// TestNew_InvalidParameters rejects bad size/overlap combinations.
func TestNew_InvalidParameters(t *testing.T) {
	cases := []struct {
		name    string
		size    int
		overlap int
	}{
		{"zero size", 0, 0},
		{"negative size", -1, 0},
		{"negative overlap", 100, -1},
		{"overlap equals size", 100, 100},
		{"overlap exceeds size", 100, 150},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.size, tc.overlap); err == nil {
				t.Errorf("New(%d, %d) should have failed", tc.size, tc.overlap)
			}
		})
	}
}
