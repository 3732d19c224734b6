package dataset

import (
	"fmt"
	"math"

	"github.com/nci/envi/utils"
)

// MinMax returns the extremes of the finite values of m. ok is false
// when m holds no finite value.
func MinMax(m [][]float64) (min, max float64, ok bool) {
	min = math.Inf(1)
	max = math.Inf(-1)
	for _, row := range m {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
			ok = true
		}
	}
	if !ok {
		return 0, 0, false
	}
	return min, max, true
}

func dims(m [][]float64) (height, width int) {
	height = len(m)
	if height > 0 {
		width = len(m[0])
	}
	return height, width
}

// scaleChannel maps m linearly from [min, max] onto [0, 255]. A band
// without range, and any non-finite sample, maps to 0.
func scaleChannel(m [][]float64) []uint8 {
	height, width := dims(m)
	out := make([]uint8, height*width)

	min, max, ok := MinMax(m)
	rng := max - min
	if !ok || !(rng > 0) {
		return out
	}

	for n, row := range m {
		for i, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			p := math.Round((v - min) / rng * 255)
			if p < 0 {
				p = 0
			} else if p > 255 {
				p = 255
			}
			out[n*width+i] = uint8(p)
		}
	}
	return out
}

// Grayscale normalises a band onto 8-bit intensities.
func Grayscale(m [][]float64) *utils.ByteRaster {
	height, width := dims(m)
	return &utils.ByteRaster{Data: scaleChannel(m), Height: height, Width: width}
}

// RGB normalises each channel independently and packs the results into
// 0xRRGGBB pixels.
func RGB(red, green, blue [][]float64) (*utils.RGBRaster, error) {
	height, width := dims(red)
	for _, m := range [][][]float64{green, blue} {
		h, w := dims(m)
		if h != height || w != width {
			return nil, fmt.Errorf("channel size mismatch: %dx%d != %dx%d", w, h, width, height)
		}
	}

	r := scaleChannel(red)
	g := scaleChannel(green)
	b := scaleChannel(blue)

	out := &utils.RGBRaster{Data: make([]uint32, height*width), Height: height, Width: width}
	for i := range out.Data {
		out.Data[i] = utils.PackRGB(r[i], g[i], b[i])
	}
	return out, nil
}
