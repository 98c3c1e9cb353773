package hash

import (
	"bytes"
	"strings"
	"testing"
)

func TestSumDeterministic(t *testing.T) {
	data := []byte("hello\n")
	h1 := Sum(data)
	h2 := Sum(data)
	if h1 != h2 {
		t.Fatalf("Sum not deterministic: %s != %s", h1, h2)
	}
}

func TestSumReaderMatchesSum(t *testing.T) {
	data := bytes.Repeat([]byte("gitnano"), 4096)
	want := Sum(data)
	got, err := SumReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("SumReader: %v", err)
	}
	if got != want {
		t.Fatalf("SumReader = %s, want %s", got, want)
	}
}

func TestStringRoundTrip(t *testing.T) {
	h := Sum([]byte("round trip"))
	s := h.String()
	if len(s) != HexSize {
		t.Fatalf("String() length = %d, want %d", len(s), HexSize)
	}
	parsed, ok := Parse(s)
	if !ok {
		t.Fatalf("Parse(%q) failed", s)
	}
	if parsed != h {
		t.Fatalf("Parse(String()) = %s, want %s", parsed, h)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	cases := []string{
		"",
		"deadbeef",
		strings.Repeat("g", HexSize),
		strings.Repeat("a", HexSize+1),
	}
	for _, c := range cases {
		if _, ok := Parse(c); ok {
			t.Errorf("Parse(%q) unexpectedly succeeded", c)
		}
	}
}

func TestIsZero(t *testing.T) {
	var h Hash
	if !h.IsZero() {
		t.Fatal("zero value should be IsZero")
	}
	if Sum([]byte("x")).IsZero() {
		t.Fatal("non-zero hash reported as IsZero")
	}
}

func TestLooksLikeHex(t *testing.T) {
	if !LooksLikeHex("deadbeef") {
		t.Fatal("deadbeef should look like hex")
	}
	if LooksLikeHex("not-hex!") {
		t.Fatal("not-hex! should not look like hex")
	}
}
