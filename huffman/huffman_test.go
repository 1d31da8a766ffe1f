package huffman

import (
	"bytes"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/klauspost/compress/huff0"
)

func TestExample(t *testing.T) {
	c := Compress([]byte("AAAAABBBCC"))
	want := FrequencyTable{'A': 5, 'B': 3, 'C': 2}
	if !reflect.DeepEqual(c.Frequencies, want) {
		t.Fatalf("frequencies = %v, want %v", c.Frequencies, want)
	}
	if c.BitLength >= 10*8 {
		t.Errorf("bit length %d is not smaller than the input", c.BitLength)
	}
	got, err := Decompress(c)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "AAAAABBBCC" {
		t.Fatalf("got %q", got)
	}
}

func TestCodes(t *testing.T) {
	got := Codes(FrequencyTable{'A': 5, 'B': 3, 'C': 2})
	want := map[byte]string{'A': "0", 'C': "10", 'B': "11"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPrefixFree(t *testing.T) {
	data, err := os.ReadFile("../testdata/sample.txt")
	if err != nil {
		t.Fatal(err)
	}
	codes := Codes(Frequencies(data))
	for a, ca := range codes {
		for b, cb := range codes {
			if a != b && strings.HasPrefix(cb, ca) {
				t.Fatalf("code %q for %q is a prefix of %q for %q", ca, a, cb, b)
			}
		}
	}
}

func TestRoundTrip(t *testing.T) {
	data, err := os.ReadFile("../testdata/sample.txt")
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range [][]byte{
		nil,
		[]byte("x"),
		bytes.Repeat([]byte{0}, 17),
		[]byte("ab"),
		[]byte("\x00\xff\x00\xfe"),
		data,
	} {
		c := Compress(s)
		got, err := Decompress(c)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, s) {
			t.Fatalf("round trip of %q failed: got %q", s, got)
		}
	}
}

func TestEdgeCases(t *testing.T) {
	c := Compress(nil)
	if len(c.Data) != 0 || len(c.Frequencies) != 0 || c.BitLength != 0 {
		t.Errorf("Compress(nil) = %+v, want an empty artifact", c)
	}

	c = Compress([]byte("zzzz"))
	if c.BitLength != 4 {
		t.Errorf("single symbol: bit length %d, want 4", c.BitLength)
	}
}

func TestDeterministic(t *testing.T) {
	data, err := os.ReadFile("../testdata/sample.txt")
	if err != nil {
		t.Fatal(err)
	}
	a := Codes(Frequencies(data))
	for i := 0; i < 10; i++ {
		if !reflect.DeepEqual(a, Codes(Frequencies(data))) {
			t.Fatal("codes differ between runs")
		}
	}
}

func TestCorrupt(t *testing.T) {
	c := Compress([]byte("AAAAABBBCC"))
	// Cut the last code in half: the final C is "10".
	c.BitLength--
	if _, err := Decompress(c); !errors.Is(err, ErrCorrupt) {
		t.Errorf("truncated code: got %v, want %v", err, ErrCorrupt)
	}

	if _, err := Decompress(Compressed{Data: []byte{0}, BitLength: 3}); !errors.Is(err, ErrCorrupt) {
		t.Errorf("bits without a table: got %v, want %v", err, ErrCorrupt)
	}
}

func TestFrequencyText(t *testing.T) {
	freq := FrequencyTable{'A': 5, '\'': 3, ':': 12, ' ': 1}
	text := FormatFrequencies(freq)
	if want := "' ':'1' ''':'3' ':':'12' 'A':'5' "; text != want {
		t.Fatalf("FormatFrequencies = %q, want %q", text, want)
	}
	got, err := ParseFrequencies(text)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, freq) {
		t.Fatalf("got %v, want %v", got, freq)
	}
	if _, err := ParseFrequencies("'A':5"); err == nil {
		t.Fatal("ParseFrequencies accepted malformed text")
	}
}

func TestMarshal(t *testing.T) {
	c := Compress([]byte("HELLO WORLD FOO BAR 1337"))
	b, err := c.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	var c2 Compressed
	if err := c2.UnmarshalBinary(b); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(c, c2) {
		t.Fatalf("got %+v, want %+v", c2, c)
	}
	if err := c2.UnmarshalBinary(b[:len(b)-1]); err == nil {
		t.Fatal("UnmarshalBinary accepted truncated data")
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
	c := Compress(data)
	b.ReportMetric(float64(len(data))/float64(len(c.Data)), "ratio")
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		Compress(data)
	}
}

func BenchmarkCompressHuff0(b *testing.B) {
	b.StopTimer()
	b.ReportAllocs()
	data, err := os.ReadFile("../testdata/sample.txt")
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(data)))
	var s huff0.Scratch
	out, _, err := huff0.Compress1X(data, &s)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportMetric(float64(len(data))/float64(len(out)), "ratio")
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		huff0.Compress1X(data, &s)
	}
}
