package header

import (
	"github.com/nci/envi/utils"
)

// Values maps recognised fields to their typed values.
type Values map[*Field]interface{}

// Interpret resolves every raw key against the field registry and
// converts its value. Unknown keys and values that fail to convert are
// reported and left out; missing required fields are reported as
// warnings once all keys have been processed.
func Interpret(raw RawMap, diag utils.Diagnostics) Values {
	result := make(Values, len(raw))
	for key, value := range raw {
		field, ok := LookupField(key)
		if !ok {
			diag.Printf("WARNING: non-standard header field '%s'", key)
			continue
		}

		v, err := field.Parse(value)
		if err != nil {
			diag.Printf("Failed to parse the value of field '%s': %s (%v)", field.Name, value, err)
			continue
		}
		result[field] = v
	}

	for _, missing := range result.MissingRequired() {
		diag.Printf("Missing required field: %s", missing.Name)
	}

	return result
}

// MissingRequired lists the required fields absent from v in
// registry order.
func (v Values) MissingRequired() []*Field {
	var missing []*Field
	for _, field := range registry {
		if !field.Required {
			continue
		}
		if _, ok := v[field]; !ok {
			missing = append(missing, field)
		}
	}
	return missing
}
