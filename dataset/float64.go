package dataset

import (
	"math"

	"github.com/nci/envi/header"
	"github.com/nci/envi/utils"
)

type Float64Dataset struct {
	*Dataset
}

func NewFloat64Dataset(h *header.Header, raw []byte, diag utils.Diagnostics) (*Float64Dataset, error) {
	ds, err := newDataset(h, raw, header.Float64, diag)
	if err != nil {
		return nil, err
	}
	out := &Float64Dataset{ds}
	ds.typed = out
	return out, nil
}

func (ds *Float64Dataset) ExpectedDataType() header.DataType {
	return header.Float64
}

// Band returns band as a lines x samples matrix, assembling each sample
// in the declared byte order.
func (ds *Float64Dataset) Band(band int) ([][]float64, error) {
	data, err := ds.bandSlice(band)
	if err != nil {
		return nil, err
	}

	order, err := ds.order()
	if err != nil {
		return nil, err
	}
	p := ds.PixelSize()
	out := make([][]float64, ds.Lines())
	for l := range out {
		row := make([]float64, ds.Samples())
		for s := range row {
			i := (l*ds.Samples() + s) * p
			row[s] = math.Float64frombits(order.Uint64(data[i:]))
		}
		out[l] = row
	}
	return out, nil
}

func (ds *Float64Dataset) BandValue(band int) (interface{}, error) {
	return ds.Band(band)
}

func (ds *Float64Dataset) Float64Band(band int) ([][]float64, error) {
	m, err := ds.Band(band)
	if err != nil {
		return nil, err
	}
	return float64Matrix(ds.Lines(), ds.Samples(), func(l, s int) float64 { return float64(m[l][s]) }), nil
}
