package takeoff

// NaturalCompare orders strings the way people read tags: each string
// is split into alternating maximal runs of digits and non-digits,
// digit runs compare numerically and the rest lexicographically, run
// by run. "P9" therefore sorts before "P10". A string whose runs are a
// strict prefix of the other's is less.
func NaturalCompare(a, b string) int {
	ia, ib := 0, 0
	for ia < len(a) && ib < len(b) {
		ra, da := nextRun(a, ia)
		rb, db := nextRun(b, ib)

		if da && db {
			if c := compareNumeric(ra, rb); c != 0 {
				return c
			}
		} else if c := compareStrings(ra, rb); c != 0 {
			return c
		}

		ia += len(ra)
		ib += len(rb)
	}
	switch {
	case ia < len(a):
		return 1
	case ib < len(b):
		return -1
	default:
		return 0
	}
}

// nextRun returns the maximal run starting at i and whether it is a
// digit run.
func nextRun(s string, i int) (string, bool) {
	digit := isDigit(s[i])
	j := i + 1
	for j < len(s) && isDigit(s[j]) == digit {
		j++
	}
	return s[i:j], digit
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// compareNumeric compares two digit runs by value without parsing
// them, so arbitrarily long tags cannot overflow.
func compareNumeric(a, b string) int {
	a = trimZeros(a)
	b = trimZeros(b)
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return compareStrings(a, b)
}

func trimZeros(s string) string {
	i := 0
	for i < len(s)-1 && s[i] == '0' {
		i++
	}
	return s[i:]
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
