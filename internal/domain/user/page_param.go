package user

import (
	"math"
	"strings"
)

// ParsePage reads a page number the lenient way query strings are read:
// surrounding whitespace is ignored, an optional sign and the leading
// digits are used and anything after them is dropped. Input without
// leading digits yields 0, which callers clamp to the first page.
// Values beyond the int64 range saturate.
func ParsePage(raw string) int64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	var n int64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		d := int64(c - '0')
		if n > (math.MaxInt64-d)/10 {
			if neg {
				return math.MinInt64
			}
			return math.MaxInt64
		}
		n = n*10 + d
	}

	if neg {
		return -n
	}
	return n
}
