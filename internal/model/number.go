package model

import (
	"math"
	"strconv"
	"strings"
)

// maxCount bounds counts and scores decoded from user input or storage.
const maxCount = math.MaxInt32

// ParseNumber reads a decimal number the way form fields and stored
// counters are written. Blank input is zero; NaN and infinities are rejected.
func ParseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ClampCount floors v and clamps it into [0, maxCount].
func ClampCount(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	f := math.Floor(v)
	if f >= maxCount {
		return maxCount
	}
	return int(f)
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
