package dataset

import (
	"math"
	"reflect"
	"testing"

	"github.com/nci/envi/utils"
)

func TestGrayscaleConstant(t *testing.T) {
	gray := Grayscale([][]float64{{7, 7}, {7, 7}})
	for i, p := range gray.Data {
		if p != 0 {
			t.Errorf("pixel %d: expected 0, got %d", i, p)
		}
	}
}

func TestGrayscaleRange(t *testing.T) {
	gray := Grayscale([][]float64{{-3, 0.5}, {12, 4}})
	if gray.Data[0] != 0 {
		t.Errorf("minimum: expected 0, got %d", gray.Data[0])
	}
	if gray.Data[2] != 255 {
		t.Errorf("maximum: expected 255, got %d", gray.Data[2])
	}
	if gray.Width != 2 || gray.Height != 2 {
		t.Errorf("unexpected size %dx%d", gray.Width, gray.Height)
	}
}

func TestGrayscaleNonFinite(t *testing.T) {
	gray := Grayscale([][]float64{{math.NaN(), 0, 10, math.Inf(1)}})
	if !reflect.DeepEqual(gray.Data, []uint8{0, 0, 255, 0}) {
		t.Errorf("unexpected pixels %v", gray.Data)
	}

	min, max, ok := MinMax([][]float64{{math.NaN()}})
	if ok || min != 0 || max != 0 {
		t.Errorf("expected no finite values, got %v %v %v", min, max, ok)
	}
}

func TestRGBChannels(t *testing.T) {
	r := [][]float64{{0, 1}}
	g := [][]float64{{3, 3}}
	b := [][]float64{{2, 0}}
	rgb, err := RGB(r, g, b)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rgb.Data, []uint32{0x0000ff, 0xff0000}) {
		t.Errorf("unexpected pixels %06x", rgb.Data)
	}

	if _, err = RGB(r, g, [][]float64{{1}}); err == nil {
		t.Errorf("expected an error for mismatched channels")
	}
}

func TestPackRGB(t *testing.T) {
	p := utils.PackRGB(0x12, 0x34, 0x56)
	if p != 0x123456 {
		t.Errorf("expected 0x123456, got %#x", p)
	}
	r, g, b := utils.UnpackRGB(p)
	if r != 0x12 || g != 0x34 || b != 0x56 {
		t.Errorf("unexpected unpack %x %x %x", r, g, b)
	}
}
