package header

import (
	"fmt"
)

// Info is a serialisable summary of a header.
type Info struct {
	Samples      int               `json:"samples" yaml:"samples"`
	Lines        int               `json:"lines" yaml:"lines"`
	Bands        int               `json:"bands" yaml:"bands"`
	DataType     string            `json:"data_type" yaml:"data_type"`
	DataTypeCode int               `json:"data_type_code" yaml:"data_type_code"`
	PixelSize    int               `json:"pixel_size" yaml:"pixel_size"`
	ByteOrder    string            `json:"byte_order" yaml:"byte_order"`
	Interleave   string            `json:"interleave" yaml:"interleave"`
	HeaderOffset int               `json:"header_offset" yaml:"header_offset"`
	Fields       map[string]string `json:"fields" yaml:"fields"`
	NonStandard  []string          `json:"non_standard,omitempty" yaml:"non_standard,omitempty"`
	Missing      []string          `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Info resolves the layout of h. It fails when any of the dimension or
// layout fields cannot be resolved.
func (h *Header) Info() (*Info, error) {
	samples, err := h.Samples()
	if err != nil {
		return nil, err
	}
	lines, err := h.Lines()
	if err != nil {
		return nil, err
	}
	bands, err := h.Bands()
	if err != nil {
		return nil, err
	}
	dt, err := h.DataType()
	if err != nil {
		return nil, err
	}
	bo, err := h.ByteOrder()
	if err != nil {
		return nil, err
	}
	il, err := h.Interleave()
	if err != nil {
		return nil, err
	}

	info := &Info{
		Samples:      samples,
		Lines:        lines,
		Bands:        bands,
		DataType:     dt.String(),
		DataTypeCode: dt.Code(),
		PixelSize:    dt.Size(),
		ByteOrder:    bo.String(),
		Interleave:   il.String(),
		HeaderOffset: h.HeaderOffset(),
		Fields:       make(map[string]string),
	}

	for _, k := range h.Keys() {
		field, ok := LookupField(k)
		if !ok {
			info.NonStandard = append(info.NonStandard, k)
			continue
		}
		info.Fields[field.Name] = h.raw[k]
	}
	for _, f := range h.values.MissingRequired() {
		info.Missing = append(info.Missing, f.Name)
	}
	return info, nil
}

// Parameters exposes the summary as expression variables, keyed by the
// field name with spaces replaced by underscores.
func (info *Info) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"samples":        float64(info.Samples),
		"lines":          float64(info.Lines),
		"bands":          float64(info.Bands),
		"data_type":      info.DataType,
		"data_type_code": float64(info.DataTypeCode),
		"pixel_size":     float64(info.PixelSize),
		"byte_order":     info.ByteOrder,
		"interleave":     info.Interleave,
		"header_offset":  float64(info.HeaderOffset),
		"size":           float64(info.ExpectedSize()),
	}
}

// ExpectedSize is the number of sample bytes the geometry implies.
func (info *Info) ExpectedSize() int64 {
	return int64(info.Samples) * int64(info.Lines) * int64(info.Bands) * int64(info.PixelSize)
}

func (info *Info) String() string {
	return fmt.Sprintf("%dx%dx%d %s %s %s", info.Samples, info.Lines, info.Bands, info.DataType, info.ByteOrder, info.Interleave)
}
