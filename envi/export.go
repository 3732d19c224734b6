package envi

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/nci/envi/dataset"
	"github.com/nci/envi/utils"
)

const (
	ImagePNG  = "png"
	ImageJPEG = "jpeg"
)

// ImageType picks the image encoding from the extension of path.
func ImageType(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return ImageJPEG, nil
	case ".png":
		return ImagePNG, nil
	}
	return "", fmt.Errorf("Only .jpg, .jpeg and .png supported as file extension: %s", path)
}

// WriteGray encodes one band as a grayscale image, colourised when
// opts carries a palette.
func WriteGray(w io.Writer, ds dataset.Raster, band int, format string, opts Options) error {
	gray, err := ds.Gray(band)
	if err != nil {
		return err
	}
	img, err := gray.Image(opts.Palette)
	if err != nil {
		return err
	}
	return utils.EncodeImage(w, img, format, opts.JPEGQuality)
}

// WriteRGB encodes three bands as the red, green and blue channels.
func WriteRGB(w io.Writer, ds dataset.Raster, r, g, b int, format string, opts Options) error {
	rgb, err := ds.RGB(r, g, b)
	if err != nil {
		return err
	}
	img, err := rgb.Image()
	if err != nil {
		return err
	}
	return utils.EncodeImage(w, img, format, opts.JPEGQuality)
}

// SaveGray writes one band to output as PNG or JPEG depending on its
// extension.
func SaveGray(ds dataset.Raster, band int, output string, opts Options) error {
	format, err := ImageType(output)
	if err != nil {
		return err
	}
	buf := new(bytes.Buffer)
	if err = WriteGray(buf, ds, band, format, opts); err != nil {
		return err
	}
	return ioutil.WriteFile(output, buf.Bytes(), 0644)
}

// SaveRGB writes three bands to output as PNG or JPEG depending on its
// extension.
func SaveRGB(ds dataset.Raster, r, g, b int, output string, opts Options) error {
	format, err := ImageType(output)
	if err != nil {
		return err
	}
	buf := new(bytes.Buffer)
	if err = WriteRGB(buf, ds, r, g, b, format, opts); err != nil {
		return err
	}
	return ioutil.WriteFile(output, buf.Bytes(), 0644)
}
