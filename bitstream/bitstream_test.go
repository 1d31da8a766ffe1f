package bitstream

import (
	"bytes"
	"strings"
	"testing"
)

func TestPack(t *testing.T) {
	for _, tt := range []struct {
		bits string
		want []byte
	}{
		{"", []byte{}},
		{"1", []byte{0x80}},
		{"0", []byte{0x00}},
		{"10110", []byte{0xb0}},
		{"11111111", []byte{0xff}},
		{"000000011", []byte{0x01, 0x80}},
		{"0100000101000010", []byte{'A', 'B'}},
	} {
		got, n := Pack(tt.bits)
		if !bytes.Equal(got, tt.want) {
			t.Errorf("Pack(%q) = %x, want %x", tt.bits, got, tt.want)
		}
		if n != len(tt.bits) {
			t.Errorf("Pack(%q) bit length = %d, want %d", tt.bits, n, len(tt.bits))
		}
	}
}

func TestRoundTrip(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 100; i++ {
		bits := b.String()
		packed, n := Pack(bits)
		if len(packed) != (len(bits)+7)/8 {
			t.Fatalf("%d bits packed into %d bytes", len(bits), len(packed))
		}
		got, err := Unpack(packed, n)
		if err != nil {
			t.Fatal(err)
		}
		if got != bits {
			t.Fatalf("Unpack(Pack(%q)) = %q", bits, got)
		}
		if i%3 == 0 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
}

func TestUnpackDropsPadding(t *testing.T) {
	got, err := Unpack([]byte{0xff}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got != "111" {
		t.Fatalf("got %q, want %q", got, "111")
	}
}

func TestUnpackBitLength(t *testing.T) {
	for _, n := range []int{-1, 9} {
		if _, err := Unpack([]byte{0}, n); err != ErrBitLength {
			t.Errorf("Unpack with bit length %d: got error %v, want %v", n, err, ErrBitLength)
		}
	}
}

func TestPackInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Pack did not panic on invalid input")
		}
	}()
	Pack("012")
}

func TestAppendPacked(t *testing.T) {
	got := AppendPacked([]byte{0xaa}, "0000111100001")
	if want := []byte{0xaa, 0x0f, 0x08}; !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
	bits, err := Unpack(got[1:], 13)
	if err != nil {
		t.Fatal(err)
	}
	if bits != "0000111100001" {
		t.Fatalf("Unpack = %q", bits)
	}
}
