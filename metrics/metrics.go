package metrics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/url"
	"time"
)

type URLInfo struct {
	RawURL string            `json:"raw_url"`
	Host   string            `json:"host"`
	Path   string            `json:"path"`
	Query  map[string]string `json:"query"`
}

// DecodeInfo describes one header and data file pair that was read.
type DecodeInfo struct {
	Duration    time.Duration `json:"duration"`
	HeaderPath  string        `json:"header_path"`
	DataPath    string        `json:"data_path"`
	BytesRead   int64         `json:"bytes_read"`
	Samples     int           `json:"samples"`
	Lines       int           `json:"lines"`
	Bands       int           `json:"bands"`
	DataType    string        `json:"data_type"`
	Interleave  string        `json:"interleave"`
	SizeMatches bool          `json:"size_matches"`
	Error       string        `json:"error,omitempty"`
}

// RenderInfo describes an image produced from a dataset.
type RenderInfo struct {
	Duration time.Duration `json:"duration"`
	Format   string        `json:"format"`
	Bands    []int         `json:"bands"`
	Bytes    int64         `json:"bytes"`
}

type MetricsInfo struct {
	ReqTime     string        `json:"req_time"`
	ReqDuration time.Duration `json:"req_duration"`
	URL         URLInfo       `json:"url"`
	RemoteAddr  string        `json:"remote_addr"`
	RemoteHost  string        `json:"remote_host"`
	RemotePort  string        `json:"remote_port"`
	HTTPStatus  int           `json:"http_status"`
	CacheHit    bool          `json:"cache_hit"`
	Decode      *DecodeInfo   `json:"decode"`
	Render      *RenderInfo   `json:"render"`
}

type MetricsCollector struct {
	Info   *MetricsInfo
	logger Logger
}

func NewMetricsCollector(logger Logger) *MetricsCollector {
	return &MetricsCollector{
		Info: &MetricsInfo{
			Decode: &DecodeInfo{},
			Render: &RenderInfo{},
		},
		logger: logger,
	}
}

func (m *MetricsCollector) Log() {
	if m.logger != nil {
		m.logger.Log(m.Info)
	}
}

func (i *MetricsInfo) ToJSON() (string, error) {
	if len(i.RemoteAddr) > 0 {
		i.normaliseNetworkAddr(i.RemoteAddr)
	}
	if len(i.URL.RawURL) > 0 {
		err := i.normaliseURL(&i.URL)
		if err != nil {
			log.Printf("metrics: normaliseUrl() error: %v", err)
		}
	}

	buf := new(bytes.Buffer)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(i)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (i *MetricsInfo) normaliseNetworkAddr(addr string) {
	host, port, err := net.SplitHostPort(addr)
	if err == nil {
		i.RemoteHost = host
		i.RemotePort = port
	} else {
		i.RemoteHost = addr
	}
}

func (i *MetricsInfo) normaliseURL(u *URLInfo) error {
	r, err := url.Parse(u.RawURL)
	if err != nil {
		return err
	}

	u.Host = r.Host
	u.Path = r.Path
	query, err := url.ParseQuery(r.RawQuery)
	if err != nil {
		return err
	}

	if u.Query == nil {
		u.Query = make(map[string]string)
	}
	for k, v := range query {
		if len(v) == 1 {
			u.Query[k] = v[0]
		} else if len(v) > 1 {
			u.Query[k] = fmt.Sprintf("%v", v)
		} else {
			u.Query[k] = ""
		}
	}
	return nil
}
