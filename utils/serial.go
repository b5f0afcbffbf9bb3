package utils

import (
	"fmt"
	"regexp"
	"strconv"
)

// trailingDigits splits a serial into its alphanumeric prefix and the
// numeric suffix that varies across a range, e.g. 608116-030-0912712.
var trailingDigits = regexp.MustCompile(`^(.*?)(\d+)$`)

// SplitSerial returns the prefix and numeric suffix of a serial. ok is
// false when the serial has no trailing digits.
func SplitSerial(serial string) (prefix string, suffix string, ok bool) {
	m := trailingDigits.FindStringSubmatch(serial)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// ExpandSerialRange expands a start/end serial pair into the full ordered
// list between them, inclusive. Both serials must share the same prefix;
// a prefix mismatch or a start past the end yields an empty list, never an
// error, so callers can treat it as "nothing to add". Suffixes keep the
// zero-padded width of the start serial.
func ExpandSerialRange(start, end string) []string {
	startPrefix, startNum, ok := SplitSerial(start)
	if !ok {
		return nil
	}
	endPrefix, endNum, ok := SplitSerial(end)
	if !ok {
		return nil
	}
	if startPrefix != endPrefix {
		return nil
	}

	from, err := strconv.ParseInt(startNum, 10, 64)
	if err != nil {
		return nil
	}
	to, err := strconv.ParseInt(endNum, 10, 64)
	if err != nil {
		return nil
	}
	if from > to {
		return nil
	}

	width := len(startNum)
	serials := make([]string, 0, to-from+1)
	for n := from; n <= to; n++ {
		serials = append(serials, fmt.Sprintf("%s%0*d", startPrefix, width, n))
	}
	return serials
}

// SerialRangeSize reports how many serials a range would expand to without
// materializing it, so oversized requests can be rejected up front.
func SerialRangeSize(start, end string) int64 {
	startPrefix, startNum, ok := SplitSerial(start)
	if !ok {
		return 0
	}
	endPrefix, endNum, ok := SplitSerial(end)
	if !ok || startPrefix != endPrefix {
		return 0
	}
	from, err := strconv.ParseInt(startNum, 10, 64)
	if err != nil {
		return 0
	}
	to, err := strconv.ParseInt(endNum, 10, 64)
	if err != nil || from > to {
		return 0
	}
	return to - from + 1
}
