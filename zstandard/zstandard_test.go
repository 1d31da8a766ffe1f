package zstandard

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/lzforge/compra"
	"github.com/lzforge/compra/fse"
)

func TestRoundTrip(t *testing.T) {
	data, err := os.ReadFile("../testdata/sample.txt")
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range [][]byte{
		nil,
		[]byte("a"),
		[]byte("HELLO WORLD FOO BAR 1337"),
		bytes.Repeat([]byte("xyz"), 40),
		[]byte(";;;,,,;,"),
		[]byte("\x00\x00\x00"),
		data,
	} {
		c, err := Compress(s, 0)
		if err != nil {
			t.Fatal(err)
		}
		got, err := Decompress(c)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, s) {
			t.Fatalf("round trip of %q failed: got %q", s, got)
		}
	}
}

func TestTokens(t *testing.T) {
	text, err := Tokens([]byte("abab"), 0)
	if err != nil {
		t.Fatal(err)
	}
	if want := "0,0,a;0,0,b;2,2,"; text != want {
		t.Fatalf("got %q, want %q", text, want)
	}

	c, err := Compress([]byte("abab"), 0)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := fse.Decompress(c)
	if err != nil {
		t.Fatal(err)
	}
	if string(decoded) != text {
		t.Fatalf("entropy stage holds %q, want %q", decoded, text)
	}
}

func TestCompresses(t *testing.T) {
	data, err := os.ReadFile("../testdata/sample.txt")
	if err != nil {
		t.Fatal(err)
	}
	c, err := Compress(data, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Data) == 0 || len(c.Data) >= len(data) {
		t.Errorf("compressed %d bytes to %d", len(data), len(c.Data))
	}
}

func TestInvalidBackReference(t *testing.T) {
	bad := fse.Compress([]byte("0,0,a;5,2,b"))
	if _, err := Decompress(bad); !errors.Is(err, compra.ErrInvalidBackReference) {
		t.Fatalf("got %v, want %v", err, compra.ErrInvalidBackReference)
	}
}
