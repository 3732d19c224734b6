package dataset

import (
	"fmt"

	"github.com/nci/envi/header"
	"github.com/nci/envi/utils"
)

// Raster is implemented by every typed dataset.
type Raster interface {
	Header() *header.Header
	ExpectedDataType() header.DataType
	DataType() header.DataType
	ByteOrder() header.ByteOrder
	Interleave() header.Interleave
	Samples() int
	Lines() int
	Bands() int
	PixelSize() int
	SizeMatches() bool

	Raw() []byte
	Sequential() []byte
	BandBytes(band int) ([]byte, error)

	// BandValue returns the decoded band as a lines x samples matrix of
	// the dataset's native type, e.g. [][]int16.
	BandValue(band int) (interface{}, error)
	Float64Band(band int) ([][]float64, error)
	BandString(band, max int) (string, error)

	Gray(band int) (*utils.ByteRaster, error)
	RGB(r, g, b int) (*utils.RGBRaster, error)

	String() string
}

type typedBand interface {
	BandValue(band int) (interface{}, error)
	Float64Band(band int) ([][]float64, error)
}

// Read builds the typed dataset matching the data type of h.
func Read(h *header.Header, raw []byte, diag utils.Diagnostics) (Raster, error) {
	if h == nil {
		return nil, fmt.Errorf("Header cannot be nil")
	}
	dt, err := h.DataType()
	if err != nil {
		return nil, err
	}

	switch dt {
	case header.UInt8:
		return NewUInt8Dataset(h, raw, diag)
	case header.UInt16:
		return NewUInt16Dataset(h, raw, diag)
	case header.UInt32:
		return NewUInt32Dataset(h, raw, diag)
	case header.UInt64:
		return NewUInt64Dataset(h, raw, diag)
	case header.Int16:
		return NewInt16Dataset(h, raw, diag)
	case header.Int32:
		return NewInt32Dataset(h, raw, diag)
	case header.Int64:
		return NewInt64Dataset(h, raw, diag)
	case header.Float32:
		return NewFloat32Dataset(h, raw, diag)
	case header.Float64:
		return NewFloat64Dataset(h, raw, diag)
	}
	return nil, fmt.Errorf("%w: data type %v", ErrUnsupported, dt)
}

func (ds *Dataset) bandSlice(band int) ([]byte, error) {
	if band < 0 || band >= ds.layout.Bands {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrBandIndex, band, ds.layout.Bands)
	}
	size := ds.layout.BandSize()
	return ds.Sequential()[size*band : size*(band+1)], nil
}

// BandString formats the decoded band, cut to max characters when max
// is positive.
func (ds *Dataset) BandString(band, max int) (string, error) {
	v, err := ds.typed.BandValue(band)
	if err != nil {
		return "", err
	}
	return utils.ArrayToString(v, max), nil
}

// Gray projects one band onto 8-bit intensities.
func (ds *Dataset) Gray(band int) (*utils.ByteRaster, error) {
	m, err := ds.typed.Float64Band(band)
	if err != nil {
		return nil, err
	}
	return Grayscale(m), nil
}

// RGB projects three bands onto the red, green and blue channels.
func (ds *Dataset) RGB(r, g, b int) (*utils.RGBRaster, error) {
	red, err := ds.typed.Float64Band(r)
	if err != nil {
		return nil, err
	}
	green, err := ds.typed.Float64Band(g)
	if err != nil {
		return nil, err
	}
	blue, err := ds.typed.Float64Band(b)
	if err != nil {
		return nil, err
	}
	return RGB(red, green, blue)
}

// float64Matrix widens a decoded lines x samples matrix, read through at,
// for the projector.
func float64Matrix(lines, samples int, at func(l, s int) float64) [][]float64 {
	out := make([][]float64, lines)
	for l := range out {
		out[l] = make([]float64, samples)
		for s := range out[l] {
			out[l][s] = at(l, s)
		}
	}
	return out
}
