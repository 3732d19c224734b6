package main

import (
	"bytes"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/edisonguo/jet"
	"github.com/nci/envi/envi"
	"github.com/nci/envi/metrics"
	"github.com/nci/envi/processor"
	"github.com/nci/envi/utils"
	"github.com/nci/gomemcache/memcache"
)

const headerTemplate = "header.tpl"

// Content types of cached responses, stored in memcache item flags.
var contentTypes = []string{"application/json", "text/html; charset=utf-8", "image/png", "image/jpeg"}

type server struct {
	dataRoot string
	db       *sql.DB
	mc       *memcache.Client
	views    *jet.Set
	config   atomic.Value
	logger   metrics.Logger
	verbose  bool
}

type httpError struct {
	err    error
	status int
}

func (e *httpError) Error() string {
	return e.err.Error()
}

func badRequest(format string, v ...interface{}) error {
	return &httpError{fmt.Errorf(format, v...), http.StatusBadRequest}
}

// Spit out a simple JSON-formatted error message for Content-Type: application/json
func httpJSONError(response http.ResponseWriter, err error, status int) {
	response.Header().Set("Content-Type", contentTypes[0])
	response.Header().Set("X-Content-Type-Options", "nosniff")
	response.WriteHeader(status)
	fmt.Fprintf(response, "{ \"error\": %q }\n", err.Error())
}

func (s *server) currentConfig() *utils.Config {
	if config, ok := s.config.Load().(*utils.Config); ok {
		return config
	}
	return utils.DefaultConfig()
}

func (s *server) options(decode *metrics.DecodeInfo) envi.Options {
	opts := envi.OptionsFromConfig(s.currentConfig())
	opts.Diagnostics = utils.Quiet()
	opts.Decode = decode
	return opts
}

// resolve maps a request path onto a header file below the data root.
func (s *server) resolve(urlPath string) (string, error) {
	clean := filepath.Clean("/" + urlPath)
	if !strings.EqualFold(filepath.Ext(clean), processor.HeaderExtension) {
		return "", badRequest("not an ENVI header: %s", urlPath)
	}
	return filepath.Join(s.dataRoot, clean), nil
}

func (s *server) ServeHTTP(response http.ResponseWriter, request *http.Request) {
	collector := metrics.NewMetricsCollector(s.logger)
	t0 := time.Now()
	collector.Info.ReqTime = t0.Format(time.RFC3339)
	collector.Info.URL.RawURL = request.URL.String()
	collector.Info.RemoteAddr = request.RemoteAddr
	defer func() {
		collector.Info.ReqDuration = time.Since(t0)
		collector.Log()
	}()

	var hash string
	if s.mc != nil {
		buff := md5.Sum([]byte(request.URL.RequestURI()))
		hash = hex.EncodeToString(buff[:])

		if cached, err := s.mc.Get(hash); err == nil && int(cached.Flags) < len(contentTypes) {
			collector.Info.CacheHit = true
			collector.Info.HTTPStatus = http.StatusOK
			response.Header().Set("Content-Type", contentTypes[cached.Flags])
			response.Write(cached.Value)
			return
		}
	}

	body, ctype, err := s.dispatch(request, collector.Info)
	if err != nil {
		status := http.StatusInternalServerError
		var herr *httpError
		if errors.As(err, &herr) {
			status = herr.status
		}
		collector.Info.HTTPStatus = status
		if s.verbose {
			errLog.Printf("%s: %v", request.URL.RequestURI(), err)
		}
		httpJSONError(response, err, status)
		return
	}

	collector.Info.HTTPStatus = http.StatusOK
	response.Header().Set("Content-Type", contentTypes[ctype])
	response.Write(body)

	if s.mc != nil {
		// don't care about errors; memcache may not necessarily retain this anyway
		s.mc.Set(&memcache.Item{Key: hash, Value: body, Flags: uint32(ctype)})
	}
}

func (s *server) dispatch(request *http.Request, info *metrics.MetricsInfo) ([]byte, int, error) {
	query := request.URL.Query()

	if _, ok := query["search"]; ok {
		body, err := s.search(request)
		return body, 0, err
	}
	if _, ok := query["ingest"]; ok {
		body, err := s.ingest(request)
		return body, 0, err
	}

	hdrPath, err := s.resolve(request.URL.Path)
	if err != nil {
		return nil, 0, err
	}

	if _, ok := query["header"]; ok {
		return s.header(hdrPath, request)
	}
	if _, ok := query["band"]; ok {
		body, err := s.band(hdrPath, request, info.Decode)
		return body, 0, err
	}
	if _, ok := query["gray"]; ok {
		return s.preview(hdrPath, request, info)
	}
	if _, ok := query["rgb"]; ok {
		return s.preview(hdrPath, request, info)
	}

	return nil, 0, badRequest("unknown operation; currently supported: ?header, ?band, ?gray, ?rgb, ?search, ?ingest")
}

type headerField struct {
	Name  string
	Value string
}

type headerPage struct {
	File    *processor.HeaderFile
	Fields  []headerField
	Preview string
}

func (s *server) header(hdrPath string, request *http.Request) ([]byte, int, error) {
	config := s.currentConfig()
	hf, err := processor.ExtractHeaderFile(hdrPath, config.Extensions, utils.Quiet())
	if err != nil {
		return nil, 0, &httpError{err, http.StatusNotFound}
	}
	hf.FileName = request.URL.Path
	if len(hf.DataFile) > 0 {
		if rel, err := filepath.Rel(s.dataRoot, hf.DataFile); err == nil {
			hf.DataFile = "/" + rel
		}
	}

	if request.FormValue("format") != "html" {
		out, err := json.Marshal(hf)
		return out, 0, err
	}

	page := &headerPage{File: hf}
	for name, value := range hf.Info.Fields {
		page.Fields = append(page.Fields, headerField{name, value})
	}
	sort.Slice(page.Fields, func(i, j int) bool { return page.Fields[i].Name < page.Fields[j].Name })
	if hf.Complete() && hf.Info.Bands > 0 {
		page.Preview = request.URL.Path + "?gray=0"
	}

	template, err := s.views.GetTemplate(headerTemplate)
	if err != nil {
		return nil, 0, err
	}
	var buf bytes.Buffer
	vars := make(jet.VarMap)
	if err = template.Execute(&buf, vars, page); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), 1, nil
}

func intParam(request *http.Request, name string, def int) (int, error) {
	v := request.FormValue(name)
	if len(v) == 0 {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badRequest("invalid %s: %v", name, v)
	}
	return n, nil
}

func (s *server) band(hdrPath string, request *http.Request, decode *metrics.DecodeInfo) ([]byte, error) {
	band, err := intParam(request, "band", 0)
	if err != nil {
		return nil, err
	}
	max, err := intParam(request, "max", utils.MaxChars)
	if err != nil {
		return nil, err
	}

	ds, err := envi.LoadFile(hdrPath, s.options(decode))
	if err != nil {
		return nil, &httpError{err, http.StatusNotFound}
	}
	str, err := ds.BandString(band, max)
	if err != nil {
		return nil, badRequest("%v", err)
	}
	return json.Marshal(map[string]interface{}{"band": band, "values": str})
}

func (s *server) preview(hdrPath string, request *http.Request, info *metrics.MetricsInfo) ([]byte, int, error) {
	format := envi.ImagePNG
	ctype := 2
	switch request.FormValue("format") {
	case "", "png":
	case "jpg", "jpeg":
		format = envi.ImageJPEG
		ctype = 3
	default:
		return nil, 0, badRequest("unsupported image format: %s", request.FormValue("format"))
	}

	var bands []int
	if _, ok := request.URL.Query()["rgb"]; ok {
		rgb := request.FormValue("rgb")
		if len(rgb) == 0 {
			return nil, 0, badRequest("missing rgb bands, expected ?rgb=r,g,b")
		}
		for _, p := range strings.Split(rgb, ",") {
			b, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return nil, 0, badRequest("invalid rgb bands: %s", rgb)
			}
			bands = append(bands, b)
		}
		if len(bands) != 3 {
			return nil, 0, badRequest("expected three rgb bands: %s", rgb)
		}
	} else {
		b, err := intParam(request, "gray", 0)
		if err != nil {
			return nil, 0, err
		}
		bands = []int{b}
	}

	opts := s.options(info.Decode)
	ds, err := envi.LoadFile(hdrPath, opts)
	if err != nil {
		return nil, 0, &httpError{err, http.StatusNotFound}
	}

	t0 := time.Now()
	var buf bytes.Buffer
	if len(bands) == 3 {
		err = envi.WriteRGB(&buf, ds, bands[0], bands[1], bands[2], format, opts)
	} else {
		err = envi.WriteGray(&buf, ds, bands[0], format, opts)
	}
	if err != nil {
		return nil, 0, badRequest("%v", err)
	}

	info.Render.Duration = time.Since(t0)
	info.Render.Format = format
	info.Render.Bands = bands
	info.Render.Bytes = int64(buf.Len())
	return buf.Bytes(), ctype, nil
}
