package dataset

import (
	"github.com/nci/envi/header"
	"github.com/nci/envi/utils"
)

type Int32Dataset struct {
	*Dataset
}

func NewInt32Dataset(h *header.Header, raw []byte, diag utils.Diagnostics) (*Int32Dataset, error) {
	ds, err := newDataset(h, raw, header.Int32, diag)
	if err != nil {
		return nil, err
	}
	out := &Int32Dataset{ds}
	ds.typed = out
	return out, nil
}

func (ds *Int32Dataset) ExpectedDataType() header.DataType {
	return header.Int32
}

// Band returns band as a lines x samples matrix, assembling each sample
// in the declared byte order.
func (ds *Int32Dataset) Band(band int) ([][]int32, error) {
	data, err := ds.bandSlice(band)
	if err != nil {
		return nil, err
	}

	order, err := ds.order()
	if err != nil {
		return nil, err
	}
	p := ds.PixelSize()
	out := make([][]int32, ds.Lines())
	for l := range out {
		row := make([]int32, ds.Samples())
		for s := range row {
			i := (l*ds.Samples() + s) * p
			row[s] = int32(order.Uint32(data[i:]))
		}
		out[l] = row
	}
	return out, nil
}

func (ds *Int32Dataset) BandValue(band int) (interface{}, error) {
	return ds.Band(band)
}

func (ds *Int32Dataset) Float64Band(band int) ([][]float64, error) {
	m, err := ds.Band(band)
	if err != nil {
		return nil, err
	}
	return float64Matrix(ds.Lines(), ds.Samples(), func(l, s int) float64 { return float64(m[l][s]) }), nil
}
