package dataset

import (
	"fmt"

	"github.com/nci/envi/header"
	"github.com/nci/envi/utils"
)

type UInt16Dataset struct {
	*Dataset
}

func NewUInt16Dataset(h *header.Header, raw []byte, diag utils.Diagnostics) (*UInt16Dataset, error) {
	ds, err := newDataset(h, raw, header.UInt16, diag)
	if err != nil {
		return nil, err
	}
	out := &UInt16Dataset{ds}
	ds.typed = out
	return out, nil
}

func (ds *UInt16Dataset) ExpectedDataType() header.DataType {
	return header.UInt16
}

// Band returns band as a lines x samples matrix. Only little-endian data
// is decoded.
func (ds *UInt16Dataset) Band(band int) ([][]uint16, error) {
	if _, err := ds.order(); err != nil {
		return nil, err
	}
	if ds.byteOrder != header.LittleEndian {
		return nil, fmt.Errorf("%w: %v byte order for %v", ErrUnsupported, ds.byteOrder, header.UInt16)
	}
	data, err := ds.bandSlice(band)
	if err != nil {
		return nil, err
	}

	p := ds.PixelSize()
	out := make([][]uint16, ds.Lines())
	for l := range out {
		row := make([]uint16, ds.Samples())
		for s := range row {
			i := (l*ds.Samples() + s) * p
			row[s] = uint16(data[i]) | uint16(data[i+1])<<8
		}
		out[l] = row
	}
	return out, nil
}

func (ds *UInt16Dataset) BandValue(band int) (interface{}, error) {
	return ds.Band(band)
}

func (ds *UInt16Dataset) Float64Band(band int) ([][]float64, error) {
	m, err := ds.Band(band)
	if err != nil {
		return nil, err
	}
	return float64Matrix(ds.Lines(), ds.Samples(), func(l, s int) float64 { return float64(m[l][s]) }), nil
}
