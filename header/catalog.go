package header

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// DataType is the numeric encoding of the samples in the data file,
// numbered as in the published ENVI header format.
type DataType int

const (
	UInt8     DataType = 1
	Int16     DataType = 2
	Int32     DataType = 3
	Float32   DataType = 4
	Float64   DataType = 5
	Complex32 DataType = 6
	Complex64 DataType = 9
	UInt16    DataType = 12
	UInt32    DataType = 13
	Int64     DataType = 14
	UInt64    DataType = 15
)

type dataTypeInfo struct {
	name        string
	description string
	size        int
}

var dataTypes = map[DataType]dataTypeInfo{
	UInt8:     {"UInt8", "Byte: 8-bit unsigned integer", 1},
	UInt16:    {"UInt16", "Unsigned integer: 16-bit", 2},
	UInt32:    {"UInt32", "Unsigned long integer: 32-bit", 4},
	UInt64:    {"UInt64", "64-bit unsigned long integer (unsigned)", 8},
	Int16:     {"Int16", "Integer: 16-bit signed integer", 2},
	Int32:     {"Int32", "Long: 32-bit signed integer", 4},
	Int64:     {"Int64", "64-bit long integer (signed)", 8},
	Float32:   {"Float32", "Floating-point: 32-bit single-precision", 4},
	Float64:   {"Float64", "Double-precision: 64-bit double-precision floating-point", 8},
	Complex32: {"Complex32", "Complex: Real-imaginary pair of single-precision floating-point", 8},
	Complex64: {"Complex64", "Double-precision complex: Real-imaginary pair of double precision floating-point", 16},
}

// DataTypes lists the catalog in the order of the format documentation.
var DataTypes = []DataType{UInt8, UInt16, UInt32, UInt64, Int16, Int32, Int64, Float32, Float64, Complex32, Complex64}

// DataTypeFromCode returns the data type registered under code.
func DataTypeFromCode(code int) (DataType, error) {
	dt := DataType(code)
	if _, ok := dataTypes[dt]; !ok {
		return 0, fmt.Errorf("unknown data type code: %d", code)
	}
	return dt, nil
}

// ParseDataType parses the integer code used by the "data type" field.
func ParseDataType(s string) (DataType, error) {
	code, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return DataTypeFromCode(code)
}

func (dt DataType) Code() int {
	return int(dt)
}

// Size is the number of bytes a single sample occupies.
func (dt DataType) Size() int {
	return dataTypes[dt].size
}

func (dt DataType) Description() string {
	return dataTypes[dt].description
}

func (dt DataType) IsComplex() bool {
	return dt == Complex32 || dt == Complex64
}

func (dt DataType) Valid() bool {
	_, ok := dataTypes[dt]
	return ok
}

func (dt DataType) String() string {
	if info, ok := dataTypes[dt]; ok {
		return info.name
	}
	return fmt.Sprintf("DataType(%d)", int(dt))
}

// ByteOrder tells whether multi-byte samples are stored least or most
// significant byte first.
type ByteOrder int

const (
	LittleEndian ByteOrder = 0
	BigEndian    ByteOrder = 1
)

// ByteOrderFromCode returns the byte order registered under code.
func ByteOrderFromCode(code int) (ByteOrder, error) {
	switch ByteOrder(code) {
	case LittleEndian, BigEndian:
		return ByteOrder(code), nil
	}
	return 0, fmt.Errorf("unknown byte order code: %d", code)
}

// ParseByteOrder parses the integer code used by the "byte order" field.
func ParseByteOrder(s string) (ByteOrder, error) {
	code, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return ByteOrderFromCode(code)
}

func (bo ByteOrder) Code() int {
	return int(bo)
}

// Binary returns the encoding/binary order matching bo.
func (bo ByteOrder) Binary() binary.ByteOrder {
	if bo == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (bo ByteOrder) Description() string {
	switch bo {
	case LittleEndian:
		return "Intel: least significant byte first (LSF) data (DEC and MS-DOS systems)"
	case BigEndian:
		return "IEEE: most significant byte first (MSF) data (all other platforms)"
	}
	return ""
}

func (bo ByteOrder) String() string {
	switch bo {
	case LittleEndian:
		return "LittleEndian"
	case BigEndian:
		return "BigEndian"
	}
	return fmt.Sprintf("ByteOrder(%d)", int(bo))
}

// Interleave is the physical arrangement of bands in the data file.
type Interleave string

const (
	BandSequential         Interleave = "bsq"
	BandInterleavedByPixel Interleave = "bip"
	BandInterleavedByLine  Interleave = "bil"
)

// ParseInterleave matches s against the interleave codes ignoring case.
func ParseInterleave(s string) (Interleave, error) {
	switch Interleave(strings.ToLower(strings.TrimSpace(s))) {
	case BandSequential:
		return BandSequential, nil
	case BandInterleavedByPixel:
		return BandInterleavedByPixel, nil
	case BandInterleavedByLine:
		return BandInterleavedByLine, nil
	}
	return "", fmt.Errorf("unknown interleave: %q", s)
}

func (il Interleave) Description() string {
	switch il {
	case BandSequential:
		return "Band Sequential"
	case BandInterleavedByPixel:
		return "Band-interleaved-by-pixel"
	case BandInterleavedByLine:
		return "Band-interleaved-by-line"
	}
	return ""
}

func (il Interleave) String() string {
	return string(il)
}
