package dataset

import (
	"github.com/nci/envi/header"
	"github.com/nci/envi/utils"
)

// UInt8Dataset decodes single byte samples. Byte order does not apply.
type UInt8Dataset struct {
	*Dataset
}

func NewUInt8Dataset(h *header.Header, raw []byte, diag utils.Diagnostics) (*UInt8Dataset, error) {
	ds, err := newDataset(h, raw, header.UInt8, diag)
	if err != nil {
		return nil, err
	}
	out := &UInt8Dataset{ds}
	ds.typed = out
	return out, nil
}

func (ds *UInt8Dataset) ExpectedDataType() header.DataType {
	return header.UInt8
}

// Band returns band as a lines x samples matrix.
func (ds *UInt8Dataset) Band(band int) ([][]uint8, error) {
	data, err := ds.bandSlice(band)
	if err != nil {
		return nil, err
	}

	out := make([][]uint8, ds.Lines())
	for l := range out {
		row := make([]uint8, ds.Samples())
		copy(row, data[l*ds.Samples():])
		out[l] = row
	}
	return out, nil
}

func (ds *UInt8Dataset) BandValue(band int) (interface{}, error) {
	return ds.Band(band)
}

func (ds *UInt8Dataset) Float64Band(band int) ([][]float64, error) {
	m, err := ds.Band(band)
	if err != nil {
		return nil, err
	}
	return float64Matrix(ds.Lines(), ds.Samples(), func(l, s int) float64 { return float64(m[l][s]) }), nil
}
