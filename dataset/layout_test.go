package dataset

import (
	"errors"
	"testing"

	"github.com/nci/envi/header"
)

func TestLookupIsPermutation(t *testing.T) {
	for _, il := range []header.Interleave{header.BandSequential, header.BandInterleavedByLine, header.BandInterleavedByPixel} {
		l := Layout{Samples: 5, Lines: 3, Bands: 4, PixelSize: 2, Interleave: il}
		lookup, err := l.Lookup()
		if err != nil {
			t.Fatalf("%v: %v", il, err)
		}
		if len(lookup) != l.NumPixels() {
			t.Errorf("%v: expected %d entries, got %d", il, l.NumPixels(), len(lookup))
		}

		seen := make(map[int]bool)
		for i, off := range lookup {
			if off%l.PixelSize != 0 || off < 0 || off >= l.Size() {
				t.Errorf("%v: lookup[%d] = %d not a valid pixel offset", il, i, off)
			}
			if seen[off] {
				t.Errorf("%v: offset %d appears twice", il, off)
			}
			seen[off] = true
		}
	}
}

func TestLookupBandSequential(t *testing.T) {
	l := Layout{Samples: 3, Lines: 2, Bands: 2, PixelSize: 4, Interleave: header.BandSequential}
	lookup, err := l.Lookup()
	if err != nil {
		t.Fatal(err)
	}
	for i, off := range lookup {
		if off != i*4 {
			t.Errorf("lookup[%d]: expected %d, got %d", i, i*4, off)
		}
	}
}

// 2 samples, 2 lines, 2 bands, 1 byte pixels.
// Canonical order: b0l0s0 b0l0s1 b0l1s0 b0l1s1 b1l0s0 b1l0s1 b1l1s0 b1l1s1
func TestLookupByLine(t *testing.T) {
	l := Layout{Samples: 2, Lines: 2, Bands: 2, PixelSize: 1, Interleave: header.BandInterleavedByLine}
	lookup, err := l.Lookup()
	if err != nil {
		t.Fatal(err)
	}
	// bil file order: l0b0s0 l0b0s1 l0b1s0 l0b1s1 l1b0s0 l1b0s1 l1b1s0 l1b1s1
	expected := []int{0, 1, 4, 5, 2, 3, 6, 7}
	for i := range expected {
		if lookup[i] != expected[i] {
			t.Errorf("lookup: expected %v, got %v", expected, lookup)
			break
		}
	}
}

func TestLookupByPixel(t *testing.T) {
	l := Layout{Samples: 2, Lines: 2, Bands: 2, PixelSize: 1, Interleave: header.BandInterleavedByPixel}
	lookup, err := l.Lookup()
	if err != nil {
		t.Fatal(err)
	}
	// bip file order: l0s0b0 l0s0b1 l0s1b0 l0s1b1 l1s0b0 l1s0b1 l1s1b0 l1s1b1
	expected := []int{0, 2, 4, 6, 1, 3, 5, 7}
	for i := range expected {
		if lookup[i] != expected[i] {
			t.Errorf("lookup: expected %v, got %v", expected, lookup)
			break
		}
	}
}

func TestLookupErrors(t *testing.T) {
	l := Layout{Samples: 2, Lines: 2, Bands: 1, PixelSize: 1, Interleave: header.Interleave("bsi")}
	if _, err := l.Lookup(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}

	l = Layout{Samples: 0, Lines: 2, Bands: 1, PixelSize: 1, Interleave: header.BandSequential}
	if _, err := l.Lookup(); err == nil {
		t.Errorf("expected an error for zero samples")
	}

	l = Layout{Samples: 2147483647, Lines: 2147483647, Bands: 3, PixelSize: 8, Interleave: header.BandSequential}
	if err := l.Validate(); err == nil {
		t.Errorf("expected an error for a geometry overflowing int")
	}
	if _, err := l.Lookup(); err == nil {
		t.Errorf("expected Lookup to refuse a geometry overflowing int")
	}
}

func TestReorder(t *testing.T) {
	l := Layout{Samples: 2, Lines: 1, Bands: 2, PixelSize: 2, Interleave: header.BandInterleavedByPixel}
	lookup, err := l.Lookup()
	if err != nil {
		t.Fatal(err)
	}
	// s0b0 s0b1 s1b0 s1b1
	raw := []byte{1, 1, 2, 2, 3, 3, 4, 4}
	seq := Reorder(raw, lookup, l.PixelSize)
	expected := []byte{1, 1, 3, 3, 2, 2, 4, 4}
	if string(seq) != string(expected) {
		t.Errorf("expected %v, got %v", expected, seq)
	}

	short := Reorder(raw[:5], lookup, l.PixelSize)
	if len(short) != len(expected) {
		t.Fatalf("expected %d bytes, got %d", len(expected), len(short))
	}
	// s1b0 starts at offset 4 and has one byte left
	if short[2] != 3 || short[3] != 0 || short[6] != 0 {
		t.Errorf("unexpected short reorder: %v", short)
	}
}
