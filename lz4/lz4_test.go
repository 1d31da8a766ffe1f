package lz4

import (
	"bytes"
	"errors"
	"io"
	"os"
	"reflect"
	"testing"

	"github.com/lzforge/compra"
	"github.com/lzforge/compra/lz77"
	"github.com/pierrec/lz4/v4"
)

func TestBlockEncode(t *testing.T) {
	data, err := os.ReadFile("../testdata/sample.txt")
	if err != nil {
		t.Fatal(err)
	}

	compressed := Compress(data)

	decompressed := make([]byte, len(data))
	n, err := lz4.UncompressBlock(compressed, decompressed)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(data) {
		t.Fatalf("Got %d bytes, wanted %d", n, len(data))
	}

	if !bytes.Equal(decompressed, data) {
		t.Fatal("Decompressed output does not match")
	}
}

func TestFrameEncode(t *testing.T) {
	data, err := os.ReadFile("../testdata/sample.txt")
	if err != nil {
		t.Fatal(err)
	}

	compressed := CompressFrame(data)

	decompressed, err := io.ReadAll(lz4.NewReader(bytes.NewReader(compressed)))
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(decompressed, data) {
		t.Fatal("Decompressed output does not match")
	}
}

func TestFrameEncodeOtherMatchFinder(t *testing.T) {
	data, err := os.ReadFile("../testdata/sample.txt")
	if err != nil {
		t.Fatal(err)
	}

	compressed := compra.Encode(nil, data, lz77.MatchFinder{WindowSize: 4096}, &FrameEncoder{})

	decompressed, err := io.ReadAll(lz4.NewReader(bytes.NewReader(compressed)))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Fatal("Decompressed output does not match")
	}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{
		"",
		"a",
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		"HELLO WORLD FOO BAR 1337",
		"abcdabcdabcdabcdabcdabcdabcdabcdabcd",
		"\x00\x01\x02\x03\x00\x01\x02\x03\x00\x01\x02\x03\x0f\x0f\x0f\x0f\x0f",
	} {
		compressed := Compress([]byte(s))
		got, err := Decompress(compressed)
		if err != nil {
			t.Fatalf("Decompress(Compress(%q)): %v", s, err)
		}
		if string(got) != s {
			t.Fatalf("Decompress(Compress(%q)) = %q", s, got)
		}
	}
}

func TestMinMatch(t *testing.T) {
	var m MatchFinder

	got := m.FindMatches(nil, []byte("abcxabc"))
	want := []compra.Match{{Unmatched: 7}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("3-byte repeat: got %v, want %v", got, want)
	}

	got = m.FindMatches(nil, []byte("abcdxabcd"))
	want = []compra.Match{{Unmatched: 5, Length: 4, Distance: 5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("4-byte repeat: got %v, want %v", got, want)
	}
}

func TestWindowLimits(t *testing.T) {
	// The repeat is 17 bytes back, just outside the window.
	src := []byte("abcd0123456789ABCabcd")
	if length, _ := FindLongestMatch(src, 17); length != 0 {
		t.Errorf("found a match of length %d outside the window", length)
	}

	long := bytes.Repeat([]byte("xy"), 400)
	length, offset := FindLongestMatch(long, 16)
	if length != 16 || offset != 16 {
		t.Errorf("got length %d offset %d, want 16, 16 (no overlap)", length, offset)
	}
}

func TestDecompressInvalid(t *testing.T) {
	_, err := Decompress([]byte{0x10, 'a', 0x05, 0x00})
	if !errors.Is(err, compra.ErrInvalidBackReference) {
		t.Errorf("offset past start: got %v, want %v", err, compra.ErrInvalidBackReference)
	}

	_, err = Decompress([]byte{0x10, 'a', 0x00, 0x00})
	if !errors.Is(err, compra.ErrInvalidBackReference) {
		t.Errorf("zero offset: got %v, want %v", err, compra.ErrInvalidBackReference)
	}

	for _, b := range [][]byte{{0xf0}, {0x30, 'a'}, {0x10, 'a', 0x01}} {
		if _, err := Decompress(b); !errors.Is(err, ErrCorrupt) {
			t.Errorf("Decompress(%x): got %v, want %v", b, err, ErrCorrupt)
		}
	}
}

func BenchmarkCompress(b *testing.B) {
	b.StopTimer()
	b.ReportAllocs()
	data, err := os.ReadFile("../testdata/sample.txt")
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(data)))
	b.ReportMetric(float64(len(data))/float64(len(Compress(data))), "ratio")
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		Compress(data)
	}
}

func TestWriter(t *testing.T) {
	data, err := os.ReadFile("../testdata/sample.txt")
	if err != nil {
		t.Fatal(err)
	}

	for _, mf := range []compra.MatchFinder{nil, &compra.HashChain{SearchLen: 8}} {
		b := new(bytes.Buffer)
		w := NewWriter(b, mf)
		w.BlockSize = 1000
		for p := data; len(p) > 0; {
			n := 333
			if n > len(p) {
				n = len(p)
			}
			if _, err := w.Write(p[:n]); err != nil {
				t.Fatal(err)
			}
			p = p[n:]
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}

		decompressed, err := io.ReadAll(lz4.NewReader(b))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(decompressed, data) {
			t.Fatal("Decompressed output does not match")
		}
	}
}
