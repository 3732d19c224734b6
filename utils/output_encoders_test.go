package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func TestByteRasterImage(t *testing.T) {
	br := &ByteRaster{Data: []uint8{0, 64, 128, 255, 1, 2}, Width: 3, Height: 2}
	img, err := br.Image(nil)
	if err != nil {
		t.Fatal(err)
	}
	gray, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("expected a gray image, got %T", img)
	}
	if gray.GrayAt(0, 1).Y != 255 || gray.GrayAt(2, 1).Y != 2 {
		t.Errorf("unexpected pixels %v", gray.Pix)
	}

	short := &ByteRaster{Data: []uint8{1}, Width: 2, Height: 2}
	if _, err = short.Image(nil); err == nil {
		t.Errorf("expected an error for short data")
	}
}

func TestByteRasterPalette(t *testing.T) {
	br := &ByteRaster{Data: []uint8{0, 255}, Width: 2, Height: 1}
	palette := &Palette{Colours: []color.RGBA{{255, 0, 0, 255}, {0, 255, 0, 255}}}
	img, err := br.Image(palette)
	if err != nil {
		t.Fatal(err)
	}
	if c := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA); c != palette.Colours[0] {
		t.Errorf("expected %v, got %v", palette.Colours[0], c)
	}
	if c := color.RGBAModel.Convert(img.At(1, 0)).(color.RGBA); c != palette.Colours[1] {
		t.Errorf("expected %v, got %v", palette.Colours[1], c)
	}
}

func TestRGBRasterImage(t *testing.T) {
	rgb := &RGBRaster{Data: []uint32{0xff0000, 0x00ff00}, Width: 2, Height: 1}
	img, err := rgb.Image()
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err = EncodeImage(&buf, img, "png", 0); err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if c := color.RGBAModel.Convert(decoded.At(1, 0)).(color.RGBA); c != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("unexpected pixel %v", c)
	}

	buf.Reset()
	if err = EncodeImage(&buf, img, "jpg", 0); err != nil {
		t.Fatal(err)
	}
	if _, err = jpeg.Decode(&buf); err != nil {
		t.Errorf("invalid jpeg: %v", err)
	}

	if err = EncodeImage(new(bytes.Buffer), img, "gif", 0); err == nil {
		t.Errorf("expected an error for gif")
	}
	if _, err = (&RGBRaster{Data: []uint32{1}, Width: 2, Height: 1}).Image(); err == nil {
		t.Errorf("expected an error for short data")
	}
}

func TestGradientRGBAPalette(t *testing.T) {
	ramp, err := GradientRGBAPalette(nil)
	if ramp != nil || err != nil {
		t.Errorf("expected nothing for a nil palette")
	}

	black := color.RGBA{0, 0, 0, 255}
	white := color.RGBA{255, 255, 255, 255}
	ramp, err = GradientRGBAPalette(&Palette{Interpolate: true, Colours: []color.RGBA{black, white}})
	if err != nil {
		t.Fatal(err)
	}
	if len(ramp) != 256 {
		t.Fatalf("expected 256 colours, got %d", len(ramp))
	}
	if ramp[0] != black || ramp[128].R != 127 || ramp[255].R != 254 {
		t.Errorf("unexpected ramp %v %v %v", ramp[0], ramp[128], ramp[255])
	}

	ramp, err = GradientRGBAPalette(&Palette{Colours: []color.RGBA{black, white, black}})
	if err != nil {
		t.Fatal(err)
	}
	if ramp[85] != black || ramp[86] != white || ramp[171] != black {
		t.Errorf("unexpected bins %v %v %v", ramp[85], ramp[86], ramp[171])
	}

	if _, err = GradientRGBAPalette(&Palette{}); err == nil {
		t.Errorf("expected an error for an empty palette")
	}
}
