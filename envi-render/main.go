package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nci/envi/envi"
	"github.com/nci/envi/metrics"
	"github.com/nci/envi/utils"
	"golang.org/x/crypto/ssh/terminal"
)

var (
	configFile  = flag.String("conf", "", "YAML config file.")
	printHeader = flag.Bool("header", false, "Print the header fields.")
	printInfo   = flag.Bool("info", false, "Print the header summary.")
	band        = flag.Int("band", -1, "Print the values of this band.")
	maxChars    = flag.Int("max", utils.MaxChars, "Maximum number of characters when printing a band, 0 for no limit.")
	gray        = flag.Int("gray", -1, "Render this band as a grayscale image.")
	rgb         = flag.String("rgb", "", "Render three bands \"r,g,b\" as a colour image.")
	output      = flag.String("o", "", "Output image: .png, .jpg or .jpeg, or - for stdout.")
	format      = flag.String("fmt", envi.ImagePNG, "Image format when writing to stdout: png or jpeg.")
	metricsDir  = flag.String("metrics", "", "Directory for decode metrics logs, - for stdout.")
	verbose     = flag.Bool("v", false, "Report diagnostics on stderr.")
)

var errLog = log.New(os.Stderr, "RENDER: ", log.Ldate|log.Ltime|log.Lshortfile)

func ensure(err error) {
	if err != nil {
		errLog.Fatal(err)
	}
}

func parseBands(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("expected three bands \"r,g,b\": %s", s)
	}
	bands := make([]int, 3)
	for i, p := range parts {
		b, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid band %q: %v", p, err)
		}
		bands[i] = b
	}
	return bands, nil
}

func metricsLogger() (metrics.Logger, func()) {
	switch *metricsDir {
	case "":
		return nil, func() {}
	case "-":
		return metrics.NewStdoutLogger(), func() {}
	}
	l := metrics.NewFileLogger(*metricsDir, "render", 0, 0, *verbose)
	return l, l.Close
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <file.hdr>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	config := utils.DefaultConfig()
	if len(*configFile) > 0 {
		var err error
		config, err = utils.LoadConfigFile(*configFile)
		ensure(err)
	}

	opts := envi.OptionsFromConfig(config)
	if *verbose {
		opts.Diagnostics = utils.Verbose(errLog)
	} else {
		opts.Diagnostics = utils.Quiet()
	}

	logger, closeLogger := metricsLogger()
	collector := metrics.NewMetricsCollector(logger)
	collector.Info.ReqTime = time.Now().Format(time.RFC3339)
	opts.Decode = collector.Info.Decode

	t0 := time.Now()
	err := run(flag.Arg(0), opts, collector.Info.Render)
	collector.Info.ReqDuration = time.Since(t0)
	collector.Log()
	closeLogger()
	ensure(err)
}

func run(hdrPath string, opts envi.Options, render *metrics.RenderInfo) error {
	ds, err := envi.LoadFile(hdrPath, opts)
	if err != nil {
		return err
	}

	rendering := *gray >= 0 || len(*rgb) > 0
	if !rendering && *band < 0 && !*printInfo {
		*printHeader = true
	}

	if *printHeader {
		fmt.Print(ds.String())
	}
	if *printInfo {
		info, err := ds.Header().Info()
		if err != nil {
			return err
		}
		fmt.Println(info)
	}
	if *band >= 0 {
		s, err := ds.BandString(*band, *maxChars)
		if err != nil {
			return err
		}
		fmt.Println(s)
	}
	if !rendering {
		return nil
	}

	if len(*output) == 0 {
		return fmt.Errorf("an output image is required, use -o")
	}

	bands := []int{*gray}
	if len(*rgb) > 0 {
		bands, err = parseBands(*rgb)
		if err != nil {
			return err
		}
	}

	imgFormat := *format
	if *output != "-" {
		imgFormat, err = envi.ImageType(*output)
		if err != nil {
			return err
		}
	} else if terminal.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("refusing to write image data to a terminal")
	}

	t0 := time.Now()
	w := &countingWriter{w: os.Stdout}
	if *output != "-" {
		f, err := os.Create(*output)
		if err != nil {
			return err
		}
		defer f.Close()
		w.w = f
	}

	if len(bands) == 3 {
		err = envi.WriteRGB(w, ds, bands[0], bands[1], bands[2], imgFormat, opts)
	} else {
		err = envi.WriteGray(w, ds, bands[0], imgFormat, opts)
	}
	render.Format = imgFormat
	render.Bands = bands
	render.Bytes = w.n
	render.Duration = time.Since(t0)
	return err
}
