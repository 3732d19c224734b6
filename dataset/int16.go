package dataset

import (
	"github.com/nci/envi/header"
	"github.com/nci/envi/utils"
)

type Int16Dataset struct {
	*Dataset
}

func NewInt16Dataset(h *header.Header, raw []byte, diag utils.Diagnostics) (*Int16Dataset, error) {
	ds, err := newDataset(h, raw, header.Int16, diag)
	if err != nil {
		return nil, err
	}
	out := &Int16Dataset{ds}
	ds.typed = out
	return out, nil
}

func (ds *Int16Dataset) ExpectedDataType() header.DataType {
	return header.Int16
}

// Band returns band as a lines x samples matrix, assembling each sample
// in the declared byte order.
func (ds *Int16Dataset) Band(band int) ([][]int16, error) {
	data, err := ds.bandSlice(band)
	if err != nil {
		return nil, err
	}

	order, err := ds.order()
	if err != nil {
		return nil, err
	}
	p := ds.PixelSize()
	out := make([][]int16, ds.Lines())
	for l := range out {
		row := make([]int16, ds.Samples())
		for s := range row {
			i := (l*ds.Samples() + s) * p
			row[s] = int16(order.Uint16(data[i:]))
		}
		out[l] = row
	}
	return out, nil
}

func (ds *Int16Dataset) BandValue(band int) (interface{}, error) {
	return ds.Band(band)
}

func (ds *Int16Dataset) Float64Band(band int) ([][]float64, error) {
	m, err := ds.Band(band)
	if err != nil {
		return nil, err
	}
	return float64Matrix(ds.Lines(), ds.Samples(), func(l, s int) float64 { return float64(m[l][s]) }), nil
}
