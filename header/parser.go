package header

import (
	"strings"

	"github.com/nci/envi/utils"
)

// Sentinel is the first line of every ENVI header.
const Sentinel = "ENVI"

// RawMap holds the untyped key/value pairs of a header, keyed by the
// trimmed key as written in the file.
type RawMap map[string]string

// ParseText splits header text into key/value pairs. Values starting
// with '{' that do not close on the same line are accumulated until a
// line ending in '}'. Lines that cannot be parsed are reported and
// skipped; ParseText never fails.
func ParseText(text string, diag utils.Diagnostics) RawMap {
	result := make(RawMap)

	var key, value string
	multi := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == Sentinel {
			continue
		}

		if multi {
			value += "\n" + line
			if strings.HasSuffix(line, "}") {
				result[key] = value
				multi = false
			}
			continue
		}

		idx := strings.Index(line, "=")
		if idx < 0 {
			if len(line) > 0 {
				diag.Printf("Failed to parse as key=value: %s", line)
			}
			continue
		}

		key = strings.TrimSpace(line[:idx])
		value = strings.TrimSpace(line[idx+1:])
		multi = strings.HasPrefix(value, "{") && !strings.HasSuffix(value, "}")
		if !multi {
			result[key] = value
		}
	}

	if multi {
		diag.Printf("Unterminated value for key '%s'", key)
		result[key] = value
	}

	return result
}
