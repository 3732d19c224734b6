package dataset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/nci/envi/header"
	"github.com/nci/envi/utils"
)

var (
	// ErrTypeMismatch is returned when a decoder is built for a header
	// declaring a different data type.
	ErrTypeMismatch = errors.New("data type mismatch")

	// ErrBandIndex is returned for band indices outside [0, bands).
	ErrBandIndex = errors.New("band index out of range")

	// ErrUnsupported is returned for layouts and byte orders a decoder
	// cannot handle.
	ErrUnsupported = errors.New("not supported")
)

// MaxShortfall is the largest number of bytes the declared geometry may
// exceed the data by.
const MaxShortfall = 64 << 20

// Dataset pairs a header with the raw bytes of its data file and
// reorders them into band-sequential order on demand. The typed
// decoders embed it.
type Dataset struct {
	header       *header.Header
	raw          []byte
	layout       Layout
	dataType     header.DataType
	byteOrder    header.ByteOrder
	byteOrderErr error
	sizeOK       bool
	lookup       []int
	seqOnce      sync.Once
	sequential   []byte
	typed        typedBand
}

func newDataset(h *header.Header, raw []byte, expected header.DataType, diag utils.Diagnostics) (*Dataset, error) {
	if h == nil {
		return nil, fmt.Errorf("Header cannot be nil")
	}
	if raw == nil {
		return nil, fmt.Errorf("Raw data cannot be nil")
	}

	dt, err := h.DataType()
	if err != nil {
		return nil, err
	}
	if dt != expected {
		return nil, fmt.Errorf("%w: expected data type %v but found %v in header", ErrTypeMismatch, expected, dt)
	}

	ds := &Dataset{header: h, dataType: dt}
	if ds.layout.Samples, err = h.Samples(); err != nil {
		return nil, err
	}
	if ds.layout.Lines, err = h.Lines(); err != nil {
		return nil, err
	}
	if ds.layout.Bands, err = h.Bands(); err != nil {
		return nil, err
	}
	if ds.layout.Interleave, err = h.Interleave(); err != nil {
		return nil, err
	}
	ds.byteOrder, ds.byteOrderErr = h.ByteOrder()
	ds.layout.PixelSize = dt.Size()
	if ds.layout.PixelSize > 1 && ds.byteOrderErr != nil {
		diag.Printf("%v", ds.byteOrderErr)
	}
	if err = ds.layout.Validate(); err != nil {
		return nil, err
	}

	offset := h.HeaderOffset()
	if offset < 0 || offset > len(raw) {
		return nil, fmt.Errorf("header offset %d outside data of %d bytes", offset, len(raw))
	}
	ds.raw = raw[offset:]
	if ds.layout.Size()-len(ds.raw) > MaxShortfall {
		return nil, fmt.Errorf("geometry of %d bytes far exceeds data of %d bytes", ds.layout.Size(), len(ds.raw))
	}

	ds.sizeOK = ds.check(diag)
	if err = ds.initLookup(); err != nil {
		return nil, err
	}
	return ds, nil
}

func (ds *Dataset) check(diag utils.Diagnostics) bool {
	expected := ds.layout.Size()
	if expected != len(ds.raw) {
		diag.Printf("Data size != expected size: %d != %d", len(ds.raw), expected)
		return false
	}
	return true
}

func (ds *Dataset) initLookup() error {
	if ds.lookup != nil {
		return nil
	}
	lookup, err := ds.layout.Lookup()
	if err != nil {
		return err
	}
	ds.lookup = lookup
	return nil
}

func (ds *Dataset) Header() *header.Header {
	return ds.header
}

func (ds *Dataset) DataType() header.DataType {
	return ds.dataType
}

// ByteOrder is the declared byte order, little-endian when the header
// omits it.
func (ds *Dataset) ByteOrder() header.ByteOrder {
	return ds.byteOrder
}

// order returns the decoder for multi-byte samples. It fails when the
// header declares no byte order.
func (ds *Dataset) order() (binary.ByteOrder, error) {
	if ds.byteOrderErr != nil {
		return nil, ds.byteOrderErr
	}
	return ds.byteOrder.Binary(), nil
}

func (ds *Dataset) Interleave() header.Interleave {
	return ds.layout.Interleave
}

func (ds *Dataset) Samples() int {
	return ds.layout.Samples
}

func (ds *Dataset) Lines() int {
	return ds.layout.Lines
}

func (ds *Dataset) Bands() int {
	return ds.layout.Bands
}

// PixelSize is the number of bytes per sample.
func (ds *Dataset) PixelSize() int {
	return ds.layout.PixelSize
}

func (ds *Dataset) Layout() Layout {
	return ds.layout
}

// SizeMatches reports whether the data length agreed with the geometry.
func (ds *Dataset) SizeMatches() bool {
	return ds.sizeOK
}

// Raw returns the data bytes following the header offset, in file order.
func (ds *Dataset) Raw() []byte {
	return ds.raw
}

// Sequential returns the data reordered band, line, sample. It is
// computed once and shared; callers must not modify it.
func (ds *Dataset) Sequential() []byte {
	ds.seqOnce.Do(func() {
		ds.sequential = Reorder(ds.raw, ds.lookup, ds.layout.PixelSize)
	})
	return ds.sequential
}

// BandBytes returns a copy of the band-sequential bytes of one band.
func (ds *Dataset) BandBytes(band int) ([]byte, error) {
	data, err := ds.bandSlice(band)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// String renders the header of the dataset.
func (ds *Dataset) String() string {
	return ds.header.String()
}
