package envi

import (
	"fmt"
	"io/ioutil"
	"time"

	"github.com/nci/envi/dataset"
	"github.com/nci/envi/header"
	"github.com/nci/envi/metrics"
	"github.com/nci/envi/utils"
)

// Options controls loading and export. The zero value reports
// diagnostics on stderr and probes the default data file extensions.
type Options struct {
	Diagnostics utils.Diagnostics
	Extensions  []string
	Palette     *utils.Palette
	JPEGQuality int

	// Decode, when set, receives the details of the load.
	Decode *metrics.DecodeInfo
}

// DefaultOptions loads quietly.
func DefaultOptions() Options {
	return Options{Diagnostics: utils.Quiet()}
}

// OptionsFromConfig derives load options from a config document.
func OptionsFromConfig(config *utils.Config) Options {
	opts := Options{
		Extensions:  config.Extensions,
		Palette:     config.Palette,
		JPEGQuality: config.JPEGQuality,
	}
	if config.Quiet {
		opts.Diagnostics = utils.Quiet()
	}
	return opts
}

func (opts Options) extensions() []string {
	if len(opts.Extensions) == 0 {
		return utils.DefaultExtensions
	}
	return opts.Extensions
}

// FindDataFile returns the data file belonging to hdrPath, trying each
// extension in order.
func FindDataFile(hdrPath string, extensions []string) (string, error) {
	if len(extensions) == 0 {
		extensions = utils.DefaultExtensions
	}
	return utils.FindPairedFile(hdrPath, extensions)
}

// LoadFile reads the header at hdrPath and its data file and returns
// the dataset decoder matching the declared data type.
func LoadFile(hdrPath string, opts Options) (dataset.Raster, error) {
	t0 := time.Now()
	info := opts.Decode
	if info == nil {
		info = &metrics.DecodeInfo{}
	}
	info.HeaderPath = hdrPath

	ds, err := loadFile(hdrPath, opts, info)
	info.Duration = time.Since(t0)
	if err != nil {
		info.Error = err.Error()
		return nil, err
	}

	info.Samples = ds.Samples()
	info.Lines = ds.Lines()
	info.Bands = ds.Bands()
	info.DataType = ds.DataType().String()
	info.Interleave = ds.Interleave().String()
	info.SizeMatches = ds.SizeMatches()
	return ds, nil
}

func loadFile(hdrPath string, opts Options, info *metrics.DecodeInfo) (ds dataset.Raster, err error) {
	defer func() {
		if r := recover(); r != nil {
			ds = nil
			err = fmt.Errorf("Failed to decode %s: %v", hdrPath, r)
		}
	}()

	h, err := header.Read(hdrPath, opts.Diagnostics)
	if err != nil {
		return nil, err
	}

	dataPath, err := FindDataFile(hdrPath, opts.extensions())
	if err != nil {
		return nil, err
	}
	info.DataPath = dataPath

	raw, err := ioutil.ReadFile(dataPath)
	if err != nil {
		return nil, fmt.Errorf("Failed to read data file %s: %v", dataPath, err)
	}
	info.BytesRead = int64(len(raw))

	return dataset.Read(h, raw, opts.Diagnostics)
}

// Load is LoadFile for callers that only need to know whether loading
// worked. Failures are reported through the diagnostics and yield nil.
func Load(hdrPath string, opts Options) dataset.Raster {
	ds, err := LoadFile(hdrPath, opts)
	if err != nil {
		opts.Diagnostics.Printf("Failed to load %s: %v", hdrPath, err)
		return nil
	}
	return ds
}
