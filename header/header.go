package header

import (
	"errors"
	"fmt"
	"io/ioutil"
	"sort"
	"strings"
	"sync"

	"github.com/nci/envi/utils"
)

// ErrMissingField is returned when a dimension or layout accessor finds
// no value for its field.
var ErrMissingField = errors.New("missing header field")

type lazyInt struct {
	once sync.Once
	val  int
	err  error
}

// Header is the typed, immutable view of an ENVI header. The layout
// accessors resolve their field on first use and cache the result, so a
// Header may be shared between goroutines.
type Header struct {
	raw    RawMap
	values Values

	samples, lines, bands lazyInt

	dataTypeOnce sync.Once
	dataType     DataType
	dataTypeErr  error

	byteOrderOnce sync.Once
	byteOrder     ByteOrder
	byteOrderErr  error

	interleaveOnce sync.Once
	interleave     Interleave
	interleaveErr  error
}

// New parses and interprets header text.
func New(text string, diag utils.Diagnostics) *Header {
	raw := ParseText(text, diag)
	return &Header{
		raw:    raw,
		values: Interpret(raw, diag),
	}
}

// Read loads the whole header file at path.
func Read(path string, diag utils.Diagnostics) (*Header, error) {
	text, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Failed to read ENVI header %s: %v", path, err)
	}
	return New(string(text), diag), nil
}

// Value returns the typed value of f, if present.
func (h *Header) Value(f *Field) (interface{}, bool) {
	v, ok := h.values[f]
	return v, ok
}

// Has reports whether f was parsed successfully.
func (h *Header) Has(f *Field) bool {
	_, ok := h.values[f]
	return ok
}

func (h *Header) GetString(f *Field, def string) string {
	if s, ok := h.values[f].(string); ok {
		return s
	}
	return def
}

func (h *Header) GetInt(f *Field, def int) int {
	switch v := h.values[f].(type) {
	case int:
		return v
	case int8:
		return int(v)
	}
	return def
}

func (h *Header) GetFloat(f *Field, def float64) float64 {
	switch v := h.values[f].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	}
	return def
}

func (h *Header) GetBool(f *Field, def bool) bool {
	if b, ok := h.values[f].(bool); ok {
		return b
	}
	return def
}

func (h *Header) dimension(l *lazyInt, f *Field) (int, error) {
	l.once.Do(func() {
		v, ok := h.values[f].(int)
		if !ok {
			l.err = fmt.Errorf("%w: %s", ErrMissingField, f.Name)
			return
		}
		if v <= 0 {
			l.err = fmt.Errorf("invalid %s: %d", f.Name, v)
			return
		}
		l.val = v
	})
	return l.val, l.err
}

// Samples is the number of columns in each line.
func (h *Header) Samples() (int, error) {
	return h.dimension(&h.samples, SamplesField)
}

// Lines is the number of rows in each band.
func (h *Header) Lines() (int, error) {
	return h.dimension(&h.lines, LinesField)
}

func (h *Header) Bands() (int, error) {
	return h.dimension(&h.bands, BandsField)
}

func (h *Header) DataType() (DataType, error) {
	h.dataTypeOnce.Do(func() {
		dt, ok := h.values[DataTypeField].(DataType)
		if !ok {
			h.dataTypeErr = fmt.Errorf("%w: %s", ErrMissingField, DataTypeField.Name)
			return
		}
		h.dataType = dt
	})
	return h.dataType, h.dataTypeErr
}

func (h *Header) ByteOrder() (ByteOrder, error) {
	h.byteOrderOnce.Do(func() {
		bo, ok := h.values[ByteOrderField].(ByteOrder)
		if !ok {
			h.byteOrderErr = fmt.Errorf("%w: %s", ErrMissingField, ByteOrderField.Name)
			return
		}
		h.byteOrder = bo
	})
	return h.byteOrder, h.byteOrderErr
}

func (h *Header) Interleave() (Interleave, error) {
	h.interleaveOnce.Do(func() {
		il, ok := h.values[InterleaveField].(Interleave)
		if !ok {
			h.interleaveErr = fmt.Errorf("%w: %s", ErrMissingField, InterleaveField.Name)
			return
		}
		h.interleave = il
	})
	return h.interleave, h.interleaveErr
}

// HeaderOffset is the number of bytes preceding the samples in the data
// file. Headers without the field are treated as having none.
func (h *Header) HeaderOffset() int {
	return h.GetInt(HeaderOffsetField, 0)
}

// Raw returns a copy of the untyped key/value pairs.
func (h *Header) Raw() RawMap {
	out := make(RawMap, len(h.raw))
	for k, v := range h.raw {
		out[k] = v
	}
	return out
}

// Keys returns the raw keys sorted lexicographically.
func (h *Header) Keys() []string {
	keys := make([]string, 0, len(h.raw))
	for k := range h.raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders every raw pair as "key = value", one per line, sorted
// by key. The output is meant for display, not for parsing back.
func (h *Header) String() string {
	var sb strings.Builder
	for _, k := range h.Keys() {
		sb.WriteString(k)
		sb.WriteString(" = ")
		sb.WriteString(h.raw[k])
		sb.WriteString("\n")
	}
	return sb.String()
}
