package lzo

import (
	"bytes"
	"os"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	data, err := os.ReadFile("../testdata/sample.txt")
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range [][]byte{
		nil,
		[]byte("q"),
		[]byte("HELLO WORLD FOO BAR 1337"),
		bytes.Repeat([]byte("ab"), 100),
		[]byte("\x00\x00\x00\x00"),
		data,
	} {
		got, err := Decompress(Compress(s, 0))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, s) {
			t.Fatalf("round trip of %q failed: got %q", s, got)
		}
	}
}

func TestNoOverlap(t *testing.T) {
	tokens := Compress([]byte("aaaaaaaa"), 0)
	for _, tk := range tokens {
		if tk.Length > tk.Offset {
			t.Fatalf("token %+v overlaps its own output", tk)
		}
	}
}

func TestWindow(t *testing.T) {
	src := append([]byte("abcdefgh"), bytes.Repeat([]byte{'-'}, 20)...)
	src = append(src, "abcdefgh"...)
	if length, _ := FindLongestMatch(src, 28, 16); length != 0 {
		t.Errorf("found a match of length %d outside the window", length)
	}
	if length, offset := FindLongestMatch(src, 28, 0); length != 8 || offset != 28 {
		t.Errorf("got length %d offset %d, want 8, 28", length, offset)
	}
}

func TestTokenText(t *testing.T) {
	tokens := Compress([]byte("to be or not to be"), 0)
	text, err := FormatTokens(tokens)
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := ParseTokens(text)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decompress(parsed)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "to be or not to be" {
		t.Fatalf("got %q", got)
	}
}
