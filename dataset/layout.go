package dataset

import (
	"fmt"

	"github.com/nci/envi/header"
)

// Layout describes the geometry of a raster and the order its samples
// are stored in.
type Layout struct {
	Samples    int
	Lines      int
	Bands      int
	PixelSize  int
	Interleave header.Interleave
}

const maxInt = int(^uint(0) >> 1)

// Validate checks that every dimension is positive and that the total
// number of bytes fits in an int.
func (l Layout) Validate() error {
	if l.Samples <= 0 || l.Lines <= 0 || l.Bands <= 0 || l.PixelSize <= 0 {
		return fmt.Errorf("invalid geometry: samples=%d lines=%d bands=%d pixel size=%d", l.Samples, l.Lines, l.Bands, l.PixelSize)
	}
	n := l.Samples
	for _, f := range []int{l.Lines, l.Bands, l.PixelSize} {
		if n > maxInt/f {
			return fmt.Errorf("geometry too large: samples=%d lines=%d bands=%d pixel size=%d", l.Samples, l.Lines, l.Bands, l.PixelSize)
		}
		n *= f
	}
	return nil
}

// NumPixels is the number of samples over all bands. Only meaningful
// for a layout that passes Validate.
func (l Layout) NumPixels() int {
	return l.Bands * l.Lines * l.Samples
}

// BandSize is the number of bytes of one band.
func (l Layout) BandSize() int {
	return l.Lines * l.Samples * l.PixelSize
}

// Size is the number of bytes of all bands. Only meaningful for a
// layout that passes Validate.
func (l Layout) Size() int {
	return l.NumPixels() * l.PixelSize
}

// Lookup maps every canonical index i = b*L*S + l*S + s (band, line,
// sample) to the byte offset of that sample in the physical layout.
//
//	bsq: band, line, sample
//	bil: line, band, sample
//	bip: line, sample, band
func (l Layout) Lookup() ([]int, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	lookup := make([]int, l.NumPixels())
	lineLen := l.Samples
	bandLen := l.Samples * l.Lines
	p := l.PixelSize

	switch l.Interleave {
	case header.BandSequential:
		for i := range lookup {
			lookup[i] = i * p
		}

	case header.BandInterleavedByLine:
		for i := range lookup {
			b := i / bandLen
			ln := (i / lineLen) % l.Lines
			s := i % lineLen
			lookup[i] = (ln*l.Bands*lineLen + b*lineLen + s) * p
		}

	case header.BandInterleavedByPixel:
		for i := range lookup {
			b := i / bandLen
			ln := (i / lineLen) % l.Lines
			s := i % lineLen
			lookup[i] = (ln*lineLen*l.Bands + s*l.Bands + b) * p
		}

	default:
		return nil, fmt.Errorf("%w: interleave %q", ErrUnsupported, string(l.Interleave))
	}

	return lookup, nil
}

// Reorder copies the pixel at lookup[i] in raw to position i of the
// result, producing band-sequential bytes. Pixels that fall outside raw
// are left zero.
func Reorder(raw []byte, lookup []int, pixelSize int) []byte {
	seq := make([]byte, len(lookup)*pixelSize)
	for i, offset := range lookup {
		if offset+pixelSize > len(raw) {
			if offset < len(raw) {
				copy(seq[i*pixelSize:], raw[offset:])
			}
			continue
		}
		copy(seq[i*pixelSize:(i+1)*pixelSize], raw[offset:offset+pixelSize])
	}
	return seq
}
