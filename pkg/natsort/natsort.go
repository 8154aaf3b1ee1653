// Package natsort orders names the way people read them: "frame_2" before "frame_10".
package natsort

import (
	"sort"
	"strings"
)

// Less reports whether a sorts before b.
// Digit runs compare by numeric value, everything else case-insensitively.
func Less(a, b string) bool {
	if c := compare(a, b); c != 0 {
		return c < 0
	}
	// equal keys ("a01" vs "a1", "A" vs "a") still need a stable order
	return a < b
}

func Sort(names []string) {
	sort.SliceStable(names, func(i, j int) bool { return Less(names[i], names[j]) })
}

func compare(a, b string) int {
	for a != "" && b != "" {
		ca, restA := chunk(a)
		cb, restB := chunk(b)
		aNum, bNum := isDigit(ca[0]), isDigit(cb[0])

		var c int
		switch {
		case aNum && bNum:
			c = compareNumbers(ca, cb)
		case aNum != bNum:
			// numbers first, same as comparing int < str keys
			if aNum {
				return -1
			}
			return 1
		default:
			c = strings.Compare(strings.ToLower(ca), strings.ToLower(cb))
		}
		if c != 0 {
			return c
		}
		a, b = restA, restB
	}
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	}
	return 1
}

// chunk splits off the leading run of digits or non-digits
func chunk(s string) (string, string) {
	digit := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digit {
		i++
	}
	return s[:i], s[i:]
}

// numbers of any length, compared without parsing
func compareNumbers(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
