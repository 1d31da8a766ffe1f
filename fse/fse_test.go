package fse

import (
	"bytes"
	"errors"
	"os"
	"reflect"
	"testing"

	kfse "github.com/klauspost/compress/fse"
)

func TestBuildEncodingTable(t *testing.T) {
	got := BuildEncodingTable([]byte("AAAAABBBCCD"))
	// Ranks: A 0, B 1, C 2, D 3; two bits each, least significant first.
	want := EncodingTable{'A': "00", 'B': "10", 'C': "01", 'D': "11"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTies(t *testing.T) {
	got := Rank([]byte("ccbbaaz"))
	want := []Symbol{{'a', 2}, {'b', 2}, {'c', 2}, {'z', 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestCodeWidth(t *testing.T) {
	for _, tt := range []struct{ n, want int }{
		{1, 1}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {8, 3}, {9, 4}, {256, 8},
	} {
		if got := CodeWidth(tt.n); got != tt.want {
			t.Errorf("CodeWidth(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	data, err := os.ReadFile("../testdata/sample.txt")
	if err != nil {
		t.Fatal(err)
	}
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	for _, s := range [][]byte{
		nil,
		[]byte("x"),
		bytes.Repeat([]byte("y"), 33),
		[]byte("HELLO WORLD FOO BAR 1337"),
		all,
		data,
	} {
		got, err := Decompress(Compress(s))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, s) {
			t.Fatalf("round trip of %q failed: got %q", s, got)
		}
	}
}

func TestDeterministic(t *testing.T) {
	data, err := os.ReadFile("../testdata/sample.txt")
	if err != nil {
		t.Fatal(err)
	}
	a := BuildEncodingTable(data)
	for i := 0; i < 10; i++ {
		if !reflect.DeepEqual(a, BuildEncodingTable(data)) {
			t.Fatal("tables differ between runs")
		}
	}
}

func TestVariableWidth(t *testing.T) {
	// A prefix-free table with codes of different widths still decodes.
	c := Compressed{
		Table: EncodingTable{'a': "0", 'b': "10", 'c': "11"},
	}
	c.Data = []byte{0x58} // 0 10 11, then padding
	c.BitLength = 5
	got, err := Decompress(c)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "abc" {
		t.Fatalf("got %q, want %q", got, "abc")
	}
}

func TestCorrupt(t *testing.T) {
	c := Compress([]byte("abcd"))
	c.BitLength--
	if _, err := Decompress(c); !errors.Is(err, ErrCorrupt) {
		t.Errorf("truncated code: got %v, want %v", err, ErrCorrupt)
	}

	dup := Compressed{Table: EncodingTable{'a': "0", 'b': "0"}, Data: []byte{0}, BitLength: 1}
	if _, err := Decompress(dup); !errors.Is(err, ErrCorrupt) {
		t.Errorf("duplicate codes: got %v, want %v", err, ErrCorrupt)
	}
}

func TestTableText(t *testing.T) {
	table := BuildEncodingTable([]byte("it's a ':' test"))
	got, err := ParseTable(FormatTable(table))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, table) {
		t.Fatalf("got %v, want %v", got, table)
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

func BenchmarkCompressKlauspostFSE(b *testing.B) {
	b.StopTimer()
	b.ReportAllocs()
	data, err := os.ReadFile("../testdata/sample.txt")
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(data)))
	var s kfse.Scratch
	out, err := kfse.Compress(data, &s)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportMetric(float64(len(data))/float64(len(out)), "ratio")
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		kfse.Compress(data, &s)
	}
}
