package dataset

import (
	"math"

	"github.com/nci/envi/header"
	"github.com/nci/envi/utils"
)

type Float32Dataset struct {
	*Dataset
}

func NewFloat32Dataset(h *header.Header, raw []byte, diag utils.Diagnostics) (*Float32Dataset, error) {
	ds, err := newDataset(h, raw, header.Float32, diag)
	if err != nil {
		return nil, err
	}
	out := &Float32Dataset{ds}
	ds.typed = out
	return out, nil
}

func (ds *Float32Dataset) ExpectedDataType() header.DataType {
	return header.Float32
}

// Band returns band as a lines x samples matrix, assembling each sample
// in the declared byte order.
func (ds *Float32Dataset) Band(band int) ([][]float32, error) {
	data, err := ds.bandSlice(band)
	if err != nil {
		return nil, err
	}

	order, err := ds.order()
	if err != nil {
		return nil, err
	}
	p := ds.PixelSize()
	out := make([][]float32, ds.Lines())
	for l := range out {
		row := make([]float32, ds.Samples())
		for s := range row {
			i := (l*ds.Samples() + s) * p
			row[s] = math.Float32frombits(order.Uint32(data[i:]))
		}
		out[l] = row
	}
	return out, nil
}

func (ds *Float32Dataset) BandValue(band int) (interface{}, error) {
	return ds.Band(band)
}

func (ds *Float32Dataset) Float64Band(band int) ([][]float64, error) {
	m, err := ds.Band(band)
	if err != nil {
		return nil, err
	}
	return float64Matrix(ds.Lines(), ds.Samples(), func(l, s int) float64 { return float64(m[l][s]) }), nil
}
