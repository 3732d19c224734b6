package utils

import (
	"fmt"
	"reflect"
	"strings"
)

// MaxChars is the default length limit for ArrayToString.
const MaxChars = 80

// ArrayToString renders a (possibly nested) slice or array as
// "[a,b,[c,d]]". When max is positive and the rendering is longer than
// max, it is cut to max characters ending in "...".
func ArrayToString(array interface{}, max int) string {
	v := reflect.ValueOf(array)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return fmt.Sprint(array)
	}

	var sb strings.Builder
	sb.WriteString("[")
	truncated := false
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(ArrayToString(v.Index(i).Interface(), -1))

		if max > 0 && sb.Len() > max && i < v.Len()-1 {
			truncated = true
			break
		}
	}
	if !truncated {
		sb.WriteString("]")
	}

	result := sb.String()
	if max > 0 && len(result) > max {
		cut := max - 3
		if cut < 0 {
			cut = 0
		}
		result = result[:cut] + "..."
	}
	return result
}
