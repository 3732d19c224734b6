package processor

import (
	"github.com/nci/envi/header"
)

// HeaderFile is the crawl record of one header and its data file.
type HeaderFile struct {
	FileName string       `json:"filename" yaml:"filename"`
	DataFile string       `json:"data_file,omitempty" yaml:"data_file,omitempty"`
	DataSize int64        `json:"data_size" yaml:"data_size"`
	Info     *header.Info `json:"envi" yaml:"envi"`
}

// Complete reports whether the data file exists and has the size the
// header geometry implies.
func (hf *HeaderFile) Complete() bool {
	if len(hf.DataFile) == 0 || hf.Info == nil {
		return false
	}
	return hf.DataSize == int64(hf.Info.HeaderOffset)+hf.Info.ExpectedSize()
}

// Parameters are the variables available to filter expressions.
func (hf *HeaderFile) Parameters() map[string]interface{} {
	params := hf.Info.Parameters()
	params["path"] = hf.FileName
	params["data_file"] = hf.DataFile
	params["data_size"] = float64(hf.DataSize)
	params["complete"] = hf.Complete()
	return params
}
