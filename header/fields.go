package header

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueType selects how the raw text of a field is converted.
type ValueType int

const (
	StringValue ValueType = iota
	BoolValue
	ByteValue
	IntValue
	FloatValue
	DoubleValue
	EnumValue
)

func (vt ValueType) String() string {
	switch vt {
	case StringValue:
		return "string"
	case BoolValue:
		return "bool"
	case ByteValue:
		return "byte"
	case IntValue:
		return "int"
	case FloatValue:
		return "float"
	case DoubleValue:
		return "double"
	case EnumValue:
		return "enum"
	}
	return fmt.Sprintf("ValueType(%d)", int(vt))
}

// EnumDomain identifies the enumerated type an EnumValue field parses into.
type EnumDomain int

const (
	NoDomain EnumDomain = iota
	DataTypeDomain
	ByteOrderDomain
	InterleaveDomain
)

var domainParsers = map[EnumDomain]func(string) (interface{}, error){
	DataTypeDomain: func(s string) (interface{}, error) {
		return ParseDataType(s)
	},
	ByteOrderDomain: func(s string) (interface{}, error) {
		return ParseByteOrder(s)
	},
	InterleaveDomain: func(s string) (interface{}, error) {
		return ParseInterleave(s)
	},
}

// Field describes one recognised header entry.
type Field struct {
	Name     string
	Required bool
	Type     ValueType
	Domain   EnumDomain
}

// Parse converts the raw value according to the field's value type.
func (f *Field) Parse(value string) (interface{}, error) {
	switch f.Type {
	case StringValue:
		return value, nil
	case BoolValue:
		return strconv.ParseBool(value)
	case ByteValue:
		v, err := strconv.ParseInt(value, 10, 8)
		return int8(v), err
	case IntValue:
		v, err := strconv.ParseInt(value, 10, 32)
		return int(v), err
	case FloatValue:
		v, err := strconv.ParseFloat(value, 32)
		return float32(v), err
	case DoubleValue:
		return strconv.ParseFloat(value, 64)
	case EnumValue:
		parse, ok := domainParsers[f.Domain]
		if !ok {
			return nil, fmt.Errorf("no enumerated domain defined for: %s", f.Name)
		}
		return parse(value)
	}
	return nil, fmt.Errorf("unhandled value type %v for field: %s", f.Type, f.Name)
}

func (f *Field) String() string {
	return f.Name
}

func stringField(name string) *Field {
	return &Field{Name: name, Type: StringValue}
}

// Standard fields of the ENVI header format.
var (
	AcquisitionTime             = stringField("acquisition time")
	BandNames                   = stringField("band names")
	BandsField                  = &Field{Name: "bands", Required: true, Type: IntValue}
	BBL                         = stringField("bbl")
	ByteOrderField              = &Field{Name: "byte order", Required: true, Type: EnumValue, Domain: ByteOrderDomain}
	ClassLookup                 = stringField("class lookup")
	ClassNames                  = stringField("class names")
	Classes                     = stringField("classes")
	CloudCover                  = stringField("cloud cover")
	ComplexFunction             = stringField("complex function")
	CoordinateSystemString      = stringField("coordinate system string")
	DataGainValues              = stringField("data gain values")
	DataIgnoreValue             = stringField("data ignore value")
	DataOffsetValues            = stringField("data offset values")
	DataReflectanceGainValues   = stringField("data reflectance gain values")
	DataReflectanceOffsetValues = stringField("data reflectance offset values")
	DataTypeField               = &Field{Name: "data type", Required: true, Type: EnumValue, Domain: DataTypeDomain}
	DefaultBands                = stringField("default bands")
	DefaultStretch              = stringField("default stretch")
	DEMBand                     = stringField("dem band")
	DEMFile                     = stringField("dem file")
	Description                 = stringField("description")
	FileType                    = &Field{Name: "file type", Required: true, Type: StringValue}
	FWHM                        = stringField("fwhm")
	GeoPoints                   = stringField("geo points")
	HeaderOffsetField           = &Field{Name: "header offset", Required: true, Type: IntValue}
	InterleaveField             = &Field{Name: "interleave", Required: true, Type: EnumValue, Domain: InterleaveDomain}
	LinesField                  = &Field{Name: "lines", Required: true, Type: IntValue}
	MapInfo                     = stringField("map info")
	PixelSize                   = stringField("pixel size")
	ProjectionInfo              = stringField("projection info")
	ReadProcedures              = stringField("read procedures")
	ReflectanceScaleFactor      = stringField("reflectance scale factor")
	RPCInfo                     = stringField("rpc info")
	SamplesField                = &Field{Name: "samples", Required: true, Type: IntValue}
	SecurityTag                 = stringField("security tag")
	SensorType                  = stringField("sensor type")
	SolarIrradiance             = stringField("solar irradiance")
	SpectraNames                = stringField("spectra names")
	SunAzimuth                  = stringField("sun azimuth")
	SunElevation                = stringField("sun elevation")
	Timestamp                   = stringField("timestamp")
	Wavelength                  = stringField("wavelength")
	WavelengthUnits             = stringField("wavelength units")
	XStart                      = stringField("x start")
	YStart                      = stringField("y start")
	ZPlotAverage                = stringField("z plot average")
	ZPlotRange                  = stringField("z plot range")
	ZPlotTitles                 = stringField("z plot titles")
)

var registry = []*Field{
	AcquisitionTime, BandNames, BandsField, BBL, ByteOrderField, ClassLookup,
	ClassNames, Classes, CloudCover, ComplexFunction, CoordinateSystemString,
	DataGainValues, DataIgnoreValue, DataOffsetValues, DataReflectanceGainValues,
	DataReflectanceOffsetValues, DataTypeField, DefaultBands, DefaultStretch,
	DEMBand, DEMFile, Description, FileType, FWHM, GeoPoints, HeaderOffsetField,
	InterleaveField, LinesField, MapInfo, PixelSize, ProjectionInfo, ReadProcedures,
	ReflectanceScaleFactor, RPCInfo, SamplesField, SecurityTag, SensorType,
	SolarIrradiance, SpectraNames, SunAzimuth, SunElevation, Timestamp, Wavelength,
	WavelengthUnits, XStart, YStart, ZPlotAverage, ZPlotRange, ZPlotTitles,
}

var registryIndex = buildIndex(registry)

func buildIndex(fields []*Field) map[string]*Field {
	idx := make(map[string]*Field, len(fields))
	for _, f := range fields {
		idx[strings.ToLower(f.Name)] = f
	}
	return idx
}

// LookupField finds a standard field by name, ignoring case and
// surrounding whitespace.
func LookupField(name string) (*Field, bool) {
	f, ok := registryIndex[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// Fields returns the registry in declaration order.
func Fields() []*Field {
	out := make([]*Field, len(registry))
	copy(out, registry)
	return out
}
