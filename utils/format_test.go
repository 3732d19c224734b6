package utils

import (
	"testing"
)

func TestArrayToString(t *testing.T) {
	cases := []struct {
		in       interface{}
		max      int
		expected string
	}{
		{[]int{1, 2, 3}, -1, "[1,2,3]"},
		{[]int{1, 2, 3}, 7, "[1,2,3]"},
		{[][]uint8{{10, 20}, {30, 40}}, MaxChars, "[[10,20],[30,40]]"},
		{[]float32{1.5, -2}, 0, "[1.5,-2]"},
		{[]int{}, 10, "[]"},
		{[]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, 10, "[1,2,3,..."},
		{5, 10, "5"},
	}

	for _, c := range cases {
		out := ArrayToString(c.in, c.max)
		if out != c.expected {
			t.Errorf("ArrayToString(%v, %d): expected %q, got %q", c.in, c.max, c.expected, out)
		}
		if c.max > 0 && len(out) > c.max {
			t.Errorf("ArrayToString(%v, %d): %q exceeds the limit", c.in, c.max, out)
		}
	}
}
