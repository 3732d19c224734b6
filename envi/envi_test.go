package envi

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nci/envi/header"
	"github.com/nci/envi/metrics"
	"github.com/nci/envi/utils"
)

const testHeader = `ENVI
description = {
  test scene}
samples = 2
lines = 2
bands = 3
header offset = 0
file type = ENVI Standard
data type = 1
interleave = bip
byte order = 0
`

// bip: for each pixel the three band values
var testData = []byte{
	10, 0, 5,
	20, 50, 5,
	30, 100, 5,
	40, 150, 5,
}

func writeScene(t *testing.T, dir, dataExt string) string {
	hdrPath := filepath.Join(dir, "scene.hdr")
	if err := ioutil.WriteFile(hdrPath, []byte(testHeader), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ioutil.WriteFile(filepath.Join(dir, "scene"+dataExt), testData, 0644); err != nil {
		t.Fatal(err)
	}
	return hdrPath
}

func tempDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "envi_test")
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadFile(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	hdrPath := writeScene(t, dir, ".raw")

	info := &metrics.DecodeInfo{}
	opts := DefaultOptions()
	opts.Decode = info
	ds, err := LoadFile(hdrPath, opts)
	if err != nil {
		t.Fatal(err)
	}
	if ds.DataType() != header.UInt8 || ds.Bands() != 3 || ds.Interleave() != header.BandInterleavedByPixel {
		t.Errorf("unexpected dataset: %v %d %v", ds.DataType(), ds.Bands(), ds.Interleave())
	}

	s, err := ds.BandString(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if s != "[[10,20],[30,40]]" {
		t.Errorf("unexpected band 0: %s", s)
	}

	if info.DataPath != filepath.Join(dir, "scene.raw") || info.BytesRead != int64(len(testData)) {
		t.Errorf("unexpected decode info: %+v", info)
	}
	if !info.SizeMatches || info.Bands != 3 || info.DataType != "UInt8" {
		t.Errorf("unexpected decode info: %+v", info)
	}
}

func TestFindDataFileOrder(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	hdrPath := writeScene(t, dir, ".raw")
	if err := ioutil.WriteFile(filepath.Join(dir, "scene.dat"), testData, 0644); err != nil {
		t.Fatal(err)
	}

	path, err := FindDataFile(hdrPath, nil)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dir, "scene.dat") {
		t.Errorf("expected scene.dat to win, got %s", path)
	}

	path, err = FindDataFile(hdrPath, []string{".raw"})
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dir, "scene.raw") {
		t.Errorf("expected scene.raw, got %s", path)
	}

	noExt := writeScene(t, dir, "")
	path, err = FindDataFile(noExt, []string{".img", ""})
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dir, "scene") {
		t.Errorf("expected extensionless data file, got %s", path)
	}
}

func TestLoadMissingDataFile(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	hdrPath := filepath.Join(dir, "lonely.hdr")
	if err := ioutil.WriteFile(hdrPath, []byte(testHeader), 0644); err != nil {
		t.Fatal(err)
	}

	if ds := Load(hdrPath, DefaultOptions()); ds != nil {
		t.Errorf("expected no dataset")
	}

	var buf bytes.Buffer
	opts := Options{Diagnostics: utils.Verbose(log.New(&buf, "", 0))}
	if ds := Load(hdrPath, opts); ds != nil {
		t.Errorf("expected no dataset")
	}
	if !strings.Contains(buf.String(), "Failed to locate corresponding data file") {
		t.Errorf("unexpected diagnostic: %q", buf.String())
	}

	if ds := Load(filepath.Join(dir, "absent.hdr"), DefaultOptions()); ds != nil {
		t.Errorf("expected no dataset for a missing header")
	}
}

func TestLoadOversizedGeometry(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	cases := map[string]string{
		"overflow": "samples = 2147483647\nlines = 2147483647\nbands = 3\n",
		"oversize": "samples = 100000\nlines = 100000\nbands = 3\n",
	}
	for name, dims := range cases {
		hdrPath := filepath.Join(dir, name+".hdr")
		text := "ENVI\n" + dims + "header offset = 0\nfile type = ENVI Standard\ndata type = 1\ninterleave = bsq\nbyte order = 0\n"
		if err := ioutil.WriteFile(hdrPath, []byte(text), 0644); err != nil {
			t.Fatal(err)
		}
		if err := ioutil.WriteFile(filepath.Join(dir, name+".dat"), []byte{1, 2, 3, 4}, 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadFile(hdrPath, DefaultOptions()); err == nil {
			t.Errorf("%s: expected an error", name)
		}
		if ds := Load(hdrPath, DefaultOptions()); ds != nil {
			t.Errorf("%s: expected no dataset", name)
		}
	}
}

func TestImageType(t *testing.T) {
	cases := map[string]string{
		"out.png":      ImagePNG,
		"OUT.PNG":      ImagePNG,
		"a/b.jpg":      ImageJPEG,
		"preview.JPEG": ImageJPEG,
	}
	for path, expected := range cases {
		format, err := ImageType(path)
		if err != nil {
			t.Errorf("%s: %v", path, err)
		}
		if format != expected {
			t.Errorf("%s: expected %s, got %s", path, expected, format)
		}
	}

	for _, path := range []string{"out.gif", "out", "png"} {
		if _, err := ImageType(path); err == nil {
			t.Errorf("%s: expected an error", path)
		}
	}
}

func TestSaveGrayAndRGB(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	ds, err := LoadFile(writeScene(t, dir, ".dat"), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	grayPath := filepath.Join(dir, "gray.png")
	if err = SaveGray(ds, 0, grayPath, DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	img := decodeFile(t, grayPath, png.Decode)
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Errorf("unexpected bounds %v", img.Bounds())
	}
	if g := color.GrayModel.Convert(img.At(1, 1)).(color.Gray); g.Y != 255 {
		t.Errorf("expected the maximum to be white, got %d", g.Y)
	}
	if g := color.GrayModel.Convert(img.At(0, 0)).(color.Gray); g.Y != 0 {
		t.Errorf("expected the minimum to be black, got %d", g.Y)
	}

	rgbPath := filepath.Join(dir, "rgb.png")
	if err = SaveRGB(ds, 0, 1, 2, rgbPath, DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	img = decodeFile(t, rgbPath, png.Decode)
	r, g, b, _ := img.At(1, 1).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b != 0 {
		t.Errorf("unexpected pixel %d %d %d", r>>8, g>>8, b>>8)
	}

	jpgPath := filepath.Join(dir, "rgb.jpg")
	if err = SaveRGB(ds, 0, 1, 2, jpgPath, DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	decodeFile(t, jpgPath, jpeg.Decode)

	if err = SaveGray(ds, 0, filepath.Join(dir, "gray.tif"), DefaultOptions()); err == nil {
		t.Errorf("expected an error for .tif output")
	}
	if err = SaveGray(ds, 3, filepath.Join(dir, "bad.png"), DefaultOptions()); err == nil {
		t.Errorf("expected an error for an out of range band")
	}
}

func TestSaveGrayPalette(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	ds, err := LoadFile(writeScene(t, dir, ".dat"), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	opts := DefaultOptions()
	opts.Palette = &utils.Palette{
		Interpolate: true,
		Colours:     []color.RGBA{{0, 0, 255, 255}, {255, 0, 0, 255}},
	}
	path := filepath.Join(dir, "palette.png")
	if err = SaveGray(ds, 0, path, opts); err != nil {
		t.Fatal(err)
	}
	img := decodeFile(t, path, png.Decode)
	r, _, b, _ := img.At(0, 0).RGBA()
	if r != 0 || b>>8 != 255 {
		t.Errorf("expected the minimum to be blue, got r=%d b=%d", r>>8, b>>8)
	}
}

func decodeFile(t *testing.T, path string, decode func(r io.Reader) (image.Image, error)) image.Image {
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := decode(f)
	if err != nil {
		t.Fatalf("%s: %v", path, err)
	}
	return img
}
