package utils

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
)

const DefaultJPEGQuality = 80

// ByteRaster is a single channel of 8-bit intensities in row-major order.
type ByteRaster struct {
	Data          []uint8
	Height, Width int
}

// RGBRaster holds packed 0xRRGGBB pixels in row-major order.
type RGBRaster struct {
	Data          []uint32
	Height, Width int
}

// PackRGB combines three channel intensities into one pixel.
func PackRGB(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// UnpackRGB splits a packed pixel into its channels.
func UnpackRGB(p uint32) (r, g, b uint8) {
	return uint8(p >> 16), uint8(p >> 8), uint8(p)
}

// Image converts the raster to a grayscale image. When palette is not
// nil the intensities index into it and an RGBA image is produced.
func (r *ByteRaster) Image(palette *Palette) (image.Image, error) {
	if len(r.Data) < r.Width*r.Height {
		return nil, fmt.Errorf("raster data too short: %d < %d", len(r.Data), r.Width*r.Height)
	}

	if palette == nil {
		img := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
		for y := 0; y < r.Height; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+r.Width], r.Data[y*r.Width:(y+1)*r.Width])
		}
		return img, nil
	}

	plt, err := GradientRGBAPalette(palette)
	if err != nil {
		return nil, err
	}

	canvas := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for x := 0; x < r.Width; x++ {
		for y := 0; y < r.Height; y++ {
			canvas.Set(x, y, plt[r.Data[y*r.Width+x]])
		}
	}
	return canvas, nil
}

func (r *RGBRaster) Image() (image.Image, error) {
	if len(r.Data) < r.Width*r.Height {
		return nil, fmt.Errorf("raster data too short: %d < %d", len(r.Data), r.Width*r.Height)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	var start int
	for i := 0; i < r.Width*r.Height; i++ {
		red, green, blue := UnpackRGB(r.Data[i])
		start = i * 4
		canvas.Pix[start] = red
		canvas.Pix[start+1] = green
		canvas.Pix[start+2] = blue
		canvas.Pix[start+3] = 0xff
	}
	return canvas, nil
}

// EncodeImage writes img in the named format ("png" or "jpeg").
func EncodeImage(w io.Writer, img image.Image, format string, quality int) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "jpeg", "jpg":
		if quality <= 0 {
			quality = DefaultJPEGQuality
		}
		var opt jpeg.Options
		opt.Quality = quality
		return jpeg.Encode(w, img, &opt)
	}
	return fmt.Errorf("Unsupported image format: %v", format)
}
